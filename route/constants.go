package route

import "net/netip"

var (
	TunAddress = netip.MustParseAddr("10.0.0.33")
	TunNetmask = netip.MustParseAddr("255.255.255.0")
	TunGateway = netip.MustParseAddr("10.0.0.1")

	// DefaultDNS is set on the adapter where the platform supports adapter-level DNS.
	DefaultDNS = netip.MustParseAddr("8.8.8.8")

	// ReservedResolver is written to the resolver file on platforms that rewrite it.
	ReservedResolver = netip.MustParseAddr("198.18.0.1")
)

const unspecified = "0.0.0.0"
