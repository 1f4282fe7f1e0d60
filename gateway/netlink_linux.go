package gateway

import (
	"context"
	"fmt"
	"net/netip"

	"github.com/vishvananda/netlink"
)

// NetlinkDiscoverer reads the main IPv4 routing table over netlink instead of
// scraping command output.
type NetlinkDiscoverer struct{}

func (d *NetlinkDiscoverer) DiscoverDefaultGateway(_ context.Context) (netip.Addr, error) {
	routes, err := netlink.RouteList(nil, netlink.FAMILY_V4)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("failed to list routes: %w", err)
	}
	return pickDefault(routes)
}

// pickDefault returns the gateway of the default route with the lowest
// priority. Routes without a gateway are skipped.
func pickDefault(routes []netlink.Route) (netip.Addr, error) {
	var best netlink.Route
	found := false
	for _, r := range routes {
		if r.Gw == nil || !isDefault(r) {
			continue
		}
		if !found || r.Priority < best.Priority {
			best = r
			found = true
		}
	}
	if !found {
		return netip.Addr{}, ErrGatewayNotFound
	}
	addr, ok := netip.AddrFromSlice(best.Gw)
	if !ok {
		return netip.Addr{}, ErrGatewayNotFound
	}
	return addr.Unmap(), nil
}

func isDefault(r netlink.Route) bool {
	if r.Dst == nil {
		return true
	}
	ones, _ := r.Dst.Mask.Size()
	return ones == 0 && r.Dst.IP.IsUnspecified()
}
