package route

import (
	"context"
	"net/netip"

	"github.com/igor04091968/tunswitch/executor"
	"github.com/igor04091968/tunswitch/gateway"
	"github.com/igor04091968/tunswitch/logger"
)

// halfRoutes cover the whole address space without replacing the existing
// default route.
var halfRoutes = []string{"0.0.0.0/1", "128.0.0.0/1", "::/1", "8000::/1"}

// LinuxPlatform creates the device with iproute2 and rewrites resolv.conf.
// Bypass route removal on restore is best effort.
type LinuxPlatform struct{}

func (p *LinuxPlatform) Name() string {
	return "linux"
}

func (p *LinuxPlatform) Discoverer(r executor.Runner) gateway.Discoverer {
	return &gateway.RouteTableDiscoverer{Runner: r}
}

func (p *LinuxPlatform) NeedsGateway() bool {
	return false
}

func (p *LinuxPlatform) Activate(ctx context.Context, h Host, req Request, gw netip.Addr) error {
	if err := h.run(ctx, "ip", "tuntap", "add", "name", req.Device, "mode", "tun"); err != nil {
		return err
	}
	if err := h.run(ctx, "ip", "link", "set", req.Device, "up"); err != nil {
		return err
	}
	for _, dst := range halfRoutes {
		if err := h.run(ctx, "ip", "route", "add", dst, "dev", req.Device); err != nil {
			return err
		}
	}
	for _, ip := range req.Bypass {
		if err := h.run(ctx, "ip", "route", "add", ip.String(), "via", gw.String()); err != nil {
			return err
		}
	}
	return h.Resolver.SetNameserver(ReservedResolver)
}

func (p *LinuxPlatform) Deactivate(ctx context.Context, h Host, req Request, _ netip.Addr, armed bool) error {
	if armed {
		for _, ip := range req.Bypass {
			if err := h.run(ctx, "ip", "route", "del", ip.String()); err != nil {
				logger.Warning("failed to remove bypass route ", ip, ": ", err)
			}
		}
		if err := h.run(ctx, "ip", "link", "del", req.Device); err != nil {
			return err
		}
	}
	return h.run(ctx, "systemctl", "restart", "systemd-resolved.service")
}
