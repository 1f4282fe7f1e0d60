package device

import "github.com/songgao/water"

func platformParams(name string) water.PlatformSpecificParams {
	return water.PlatformSpecificParams{Name: name}
}
