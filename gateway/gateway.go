// Package gateway finds the host's current default gateway.
//
// The command-backed discoverers scrape the text output of the platform's
// routing tools, which varies by OS, locale and tool version. Each parser is
// exported on its own so it can be checked against captured output, and the
// Linux build also offers a netlink-based Discoverer that reads the kernel
// routing table directly.
//
// Discovery must run before the tunnel installs its own default route: after
// that the same introspection reports the tunnel's gateway.
package gateway

import (
	"context"
	"fmt"
	"net/netip"
	"regexp"
	"strings"

	"github.com/igor04091968/tunswitch/executor"

	E "github.com/sagernet/sing/common/exceptions"
)

var ErrGatewayNotFound = E.New("no default gateway found")

type Discoverer interface {
	DiscoverDefaultGateway(ctx context.Context) (netip.Addr, error)
}

// RouteTableDiscoverer reads `ip route` and takes the gateway field of the default line.
type RouteTableDiscoverer struct {
	Runner executor.Runner
}

func (d *RouteTableDiscoverer) DiscoverDefaultGateway(ctx context.Context) (netip.Addr, error) {
	out, err := d.Runner.Run(ctx, "ip", "route")
	if err != nil {
		return netip.Addr{}, fmt.Errorf("failed to read routing table: %w", err)
	}
	return ParseRouteTable(out)
}

// AdapterDiscoverer asks WMI for the DefaultIPGateway of every IP-enabled adapter.
type AdapterDiscoverer struct {
	Runner executor.Runner
}

const adapterGatewayQuery = "Get-WmiObject -Class Win32_NetworkAdapterConfiguration -Filter IPEnabled=TRUE | ForEach-Object { $_.DefaultIPGateway }"

func (d *AdapterDiscoverer) DiscoverDefaultGateway(ctx context.Context) (netip.Addr, error) {
	out, err := d.Runner.Run(ctx, "powershell", "-Command", adapterGatewayQuery)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("failed to enumerate network adapters: %w", err)
	}
	return ParseAdapterGateways(out)
}

// NetstatDiscoverer reads the IPv4 routing table dump of BSD-style netstat.
type NetstatDiscoverer struct {
	Runner executor.Runner
}

func (d *NetstatDiscoverer) DiscoverDefaultGateway(ctx context.Context) (netip.Addr, error) {
	out, err := d.Runner.Run(ctx, "netstat", "-rn", "-f", "inet")
	if err != nil {
		return netip.Addr{}, fmt.Errorf("failed to dump routing table: %w", err)
	}
	return ParseNetstat(out)
}

// ParseRouteTable handles iproute2 output such as
//
//	default via 192.168.1.1 dev wlan0 proto dhcp metric 600
func ParseRouteTable(out []byte) (netip.Addr, error) {
	for _, line := range strings.Split(string(out), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 3 || fields[0] != "default" {
			continue
		}
		addr, err := netip.ParseAddr(fields[2])
		if err != nil {
			continue
		}
		return addr, nil
	}
	return netip.Addr{}, ErrGatewayNotFound
}

// ParseAdapterGateways returns the first IPv4 line, or the last IPv6 line when
// no IPv4 address was printed.
func ParseAdapterGateways(out []byte) (netip.Addr, error) {
	var v6 netip.Addr
	for _, line := range strings.Split(string(out), "\n") {
		addr, err := netip.ParseAddr(strings.TrimSpace(line))
		if err != nil {
			continue
		}
		if addr.Is4() {
			return addr, nil
		}
		v6 = addr
	}
	if v6.IsValid() {
		return v6, nil
	}
	return netip.Addr{}, ErrGatewayNotFound
}

var netstatDefault = regexp.MustCompile(`(?m)^default\s+(\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3})`)

// ParseNetstat handles `netstat -rn` tables such as
//
//	default            192.168.1.1        UGScg          en0
func ParseNetstat(out []byte) (netip.Addr, error) {
	for _, m := range netstatDefault.FindAllSubmatch(out, -1) {
		addr, err := netip.ParseAddr(string(m[1]))
		if err != nil {
			continue
		}
		return addr, nil
	}
	return netip.Addr{}, ErrGatewayNotFound
}
