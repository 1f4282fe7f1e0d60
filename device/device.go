// Package device holds the tunnel device open while a transition is active.
//
// Packet I/O belongs to the relay engine. Without one attached, Tap drains the
// device and hands each packet to a callback labelled as client-side input,
// which the CLI logs at debug level.
package device

import (
	"context"
	"fmt"
	"sync"

	"github.com/igor04091968/tunswitch/direction"
	"github.com/songgao/water"
	"github.com/songgao/water/waterutil"
)

const bufferSize = 65535

type Device struct {
	ifce      *water.Interface
	closeOnce sync.Once
	closeErr  error
}

// Open attaches to (or creates) the TUN device called name.
func Open(name string) (*Device, error) {
	ifce, err := water.New(water.Config{
		DeviceType:             water.TUN,
		PlatformSpecificParams: platformParams(name),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open tun device '%s': %w", name, err)
	}
	return &Device{ifce: ifce}, nil
}

func (d *Device) Name() string {
	return d.ifce.Name()
}

func (d *Device) Close() error {
	d.closeOnce.Do(func() {
		d.closeErr = d.ifce.Close()
	})
	return d.closeErr
}

// Tap reads packets until ctx is done or the device fails. The event buffer is
// only valid during the callback.
func (d *Device) Tap(ctx context.Context, fn func(direction.IncomingDataEvent)) error {
	go func() {
		<-ctx.Done()
		d.Close()
	}()

	buf := make([]byte, bufferSize)
	for {
		n, err := d.ifce.Read(buf)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("failed to read from '%s': %w", d.Name(), err)
		}
		fn(direction.IncomingDataEvent{Direction: direction.FromClient, Buffer: buf[:n]})
	}
}

// Describe summarises an IP packet for logging.
func Describe(packet []byte) string {
	switch {
	case len(packet) == 0:
		return "empty"
	case waterutil.IsIPv4(packet):
		if len(packet) < 20 {
			return fmt.Sprintf("ipv4 truncated len=%d", len(packet))
		}
		return fmt.Sprintf("ipv4 %s -> %s proto=%d len=%d",
			waterutil.IPv4Source(packet), waterutil.IPv4Destination(packet), waterutil.IPv4Protocol(packet), len(packet))
	case packet[0]>>4 == 6:
		return fmt.Sprintf("ipv6 len=%d", len(packet))
	default:
		return fmt.Sprintf("unknown len=%d", len(packet))
	}
}
