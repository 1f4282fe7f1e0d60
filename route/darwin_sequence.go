package route

import (
	"context"
	"net/netip"

	"github.com/igor04091968/tunswitch/executor"
	"github.com/igor04091968/tunswitch/gateway"
)

// DarwinPlatform configures the utun with ifconfig and swaps the default route.
type DarwinPlatform struct{}

func (p *DarwinPlatform) Name() string {
	return "darwin"
}

func (p *DarwinPlatform) Discoverer(r executor.Runner) gateway.Discoverer {
	return &gateway.NetstatDiscoverer{Runner: r}
}

func (p *DarwinPlatform) NeedsGateway() bool {
	return true
}

func (p *DarwinPlatform) Activate(ctx context.Context, h Host, req Request, gw netip.Addr) error {
	// ifconfig utun7 10.0.0.33 10.0.0.1 netmask 255.255.255.0 up
	if err := h.run(ctx, "ifconfig", req.Device, TunAddress.String(), TunGateway.String(), "netmask", TunNetmask.String(), "up"); err != nil {
		return err
	}
	if err := h.run(ctx, "route", "delete", "default"); err != nil {
		return err
	}
	if err := h.run(ctx, "route", "add", "default", TunGateway.String()); err != nil {
		return err
	}
	for _, ip := range req.Bypass {
		if err := h.run(ctx, "route", "add", ip.String(), gw.String()); err != nil {
			return err
		}
	}
	return h.Resolver.SetNameserver(ReservedResolver)
}

func (p *DarwinPlatform) Deactivate(ctx context.Context, h Host, _ Request, gw netip.Addr, _ bool) error {
	if err := h.run(ctx, "route", "delete", "default"); err != nil {
		return err
	}
	if err := h.run(ctx, "route", "add", "default", gw.String()); err != nil {
		return err
	}
	return h.Resolver.SetNameserver(gw)
}
