package gateway

import (
	"context"
	"fmt"
	"net"
	"net/netip"

	jgateway "github.com/jackpal/gateway"
)

// SystemDiscoverer uses jackpal/gateway, which picks the native routing query
// for the running OS.
type SystemDiscoverer struct {
	discover func() (net.IP, error)
}

func NewSystemDiscoverer() *SystemDiscoverer {
	return &SystemDiscoverer{discover: jgateway.DiscoverGateway}
}

func (d *SystemDiscoverer) DiscoverDefaultGateway(_ context.Context) (netip.Addr, error) {
	ip, err := d.discover()
	if err != nil {
		return netip.Addr{}, fmt.Errorf("failed to query system gateway: %w", err)
	}
	addr, ok := netip.AddrFromSlice(ip)
	if !ok || !addr.IsValid() || addr.IsUnspecified() {
		return netip.Addr{}, ErrGatewayNotFound
	}
	return addr.Unmap(), nil
}
