//go:build !linux && !darwin && !windows

package device

import "github.com/songgao/water"

func platformParams(_ string) water.PlatformSpecificParams {
	return water.PlatformSpecificParams{}
}
