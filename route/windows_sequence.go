package route

import (
	"context"
	"net/netip"

	"github.com/igor04091968/tunswitch/executor"
	"github.com/igor04091968/tunswitch/gateway"
)

// WindowsPlatform sets adapter DNS with netsh and steers routes with route.exe.
// The tunnel's default route uses metric 6; the restored one metric 200 so a
// route learned later over DHCP wins.
type WindowsPlatform struct{}

func (p *WindowsPlatform) Name() string {
	return "windows"
}

func (p *WindowsPlatform) Discoverer(r executor.Runner) gateway.Discoverer {
	return &gateway.AdapterDiscoverer{Runner: r}
}

func (p *WindowsPlatform) NeedsGateway() bool {
	return true
}

func (p *WindowsPlatform) Activate(ctx context.Context, h Host, req Request, gw netip.Addr) error {
	// netsh interface ip set dns "utun3" static 8.8.8.8
	quoted := "\"" + req.Device + "\""
	if err := h.run(ctx, "netsh", "interface", "ip", "set", "dns", quoted, "static", req.DNS.String()); err != nil {
		return err
	}

	// route add 0.0.0.0 mask 0.0.0.0 10.0.0.1 metric 6
	if err := h.run(ctx, "route", "add", unspecified, "mask", unspecified, TunGateway.String(), "metric", "6"); err != nil {
		return err
	}

	for _, ip := range req.Bypass {
		if err := h.run(ctx, "route", "add", ip.String(), gw.String(), "metric", "1"); err != nil {
			return err
		}
	}
	return nil
}

func (p *WindowsPlatform) Deactivate(ctx context.Context, h Host, _ Request, gw netip.Addr, _ bool) error {
	if err := h.run(ctx, "route", "delete", unspecified, "mask", unspecified); err != nil {
		return err
	}
	return h.run(ctx, "route", "add", unspecified, "mask", unspecified, gw.String(), "metric", "200")
}
