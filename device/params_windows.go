package device

import "github.com/songgao/water"

// The TAP-Windows driver needs the point-to-point network up front.
func platformParams(name string) water.PlatformSpecificParams {
	return water.PlatformSpecificParams{
		ComponentID:   "tap0901",
		InterfaceName: name,
		Network:       "10.0.0.33/24",
	}
}
