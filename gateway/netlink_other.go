//go:build !linux

package gateway

import (
	"context"
	"net/netip"

	E "github.com/sagernet/sing/common/exceptions"
)

type NetlinkDiscoverer struct{}

func (d *NetlinkDiscoverer) DiscoverDefaultGateway(_ context.Context) (netip.Addr, error) {
	return netip.Addr{}, E.New("netlink gateway discovery is only available on linux")
}
