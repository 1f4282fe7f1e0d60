// Package route switches the host's default path onto a tunnel device and
// back.
//
// A Manager pairs one Platform (the command sequence for an OS family) with a
// gateway.Discoverer. Activate records the original default gateway inside the
// returned *Transition before any command runs; Deactivate consumes it. The
// handle is the only place that state lives, so a process that never
// activated, or restores twice, simply has nothing to restore.
//
// No step is retried and nothing is rolled back automatically: the first
// failing command stops the sequence and is returned to the caller.
package route

import (
	"context"
	"fmt"
	"net/netip"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/igor04091968/tunswitch/executor"
	"github.com/igor04091968/tunswitch/gateway"
	"github.com/igor04091968/tunswitch/logger"
)

type Phase string

const (
	PhaseInactive     Phase = "inactive"
	PhaseActivating   Phase = "activating"
	PhaseActive       Phase = "active"
	PhaseDeactivating Phase = "deactivating"
)

// Request carries the caller-supplied inputs of one transition.
type Request struct {
	Device string
	Bypass []netip.Addr
	DNS    netip.Addr
}

// Host is what a Platform mutates.
type Host struct {
	Runner   executor.Runner
	Resolver ResolverFile
}

func (h Host) run(ctx context.Context, program string, args ...string) error {
	if _, err := h.Runner.Run(ctx, program, args...); err != nil {
		return err
	}
	logger.Info(program, " ", args)
	return nil
}

// Platform is one OS family's command sequence.
type Platform interface {
	Name() string
	Discoverer(r executor.Runner) gateway.Discoverer
	// NeedsGateway reports whether Deactivate can only run with the original gateway.
	NeedsGateway() bool
	Activate(ctx context.Context, h Host, req Request, gw netip.Addr) error
	// Deactivate restores the host. armed is false when no transition was recorded.
	Deactivate(ctx context.Context, h Host, req Request, gw netip.Addr, armed bool) error
}

// ForOS returns the Platform for a runtime.GOOS value.
func ForOS(goos string) (Platform, error) {
	switch goos {
	case "windows":
		return &WindowsPlatform{}, nil
	case "linux":
		return &LinuxPlatform{}, nil
	case "darwin":
		return &DarwinPlatform{}, nil
	default:
		return nil, fmt.Errorf("unsupported platform '%s'", goos)
	}
}

// Transition is the handle returned by Activate and passed back to Deactivate.
type Transition struct {
	ID        uuid.UUID
	Platform  string
	Device    string
	Bypass    []netip.Addr
	DNS       netip.Addr
	Gateway   netip.Addr
	StartedAt time.Time

	slot  Slot
	phase Phase
}

func (t *Transition) Phase() Phase {
	if t == nil {
		return PhaseInactive
	}
	return t.phase
}

// Armed reports whether the transition still holds a gateway to restore.
func (t *Transition) Armed() bool {
	return t != nil && t.slot.Armed()
}

type Manager struct {
	platform   Platform
	discoverer gateway.Discoverer
	host       Host
}

type Option func(*Manager)

// WithDiscoverer replaces the platform's command-backed gateway discovery.
func WithDiscoverer(d gateway.Discoverer) Option {
	return func(m *Manager) {
		m.discoverer = d
	}
}

func WithResolver(r ResolverFile) Option {
	return func(m *Manager) {
		m.host.Resolver = r
	}
}

func NewManager(p Platform, r executor.Runner, opts ...Option) *Manager {
	m := &Manager{
		platform: p,
		host: Host{
			Runner:   r,
			Resolver: NewResolvConf(ResolvConfPath),
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.discoverer == nil {
		m.discoverer = p.Discoverer(r)
	}
	return m
}

func (m *Manager) Platform() string {
	return m.platform.Name()
}

// Activate makes device the default path. A zero dns selects DefaultDNS.
//
// When discovery fails nothing has been changed and the returned Transition is
// nil. Once the gateway is recorded, a non-nil Transition is returned even if a
// later step fails, so the caller can still Deactivate what was applied.
func (m *Manager) Activate(ctx context.Context, bypass []netip.Addr, device string, dns netip.Addr) (*Transition, error) {
	if !dns.IsValid() {
		dns = DefaultDNS
	}

	gw, err := m.discoverer.DiscoverDefaultGateway(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to discover default gateway: %w", err)
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	t := &Transition{
		ID:        id,
		Platform:  m.platform.Name(),
		Device:    device,
		Bypass:    append([]netip.Addr(nil), bypass...),
		DNS:       dns,
		Gateway:   gw,
		StartedAt: time.Now(),
		phase:     PhaseActivating,
	}
	t.slot.Arm(gw)
	logger.Info("original default gateway ", gw, ", activating ", device, " on ", m.platform.Name())
	for _, ip := range crossFamily(bypass, gw) {
		logger.Warningf("bypass %s is not in the address family of gateway %s, the host will likely reject its route", ip, gw)
	}

	req := Request{Device: device, Bypass: bypass, DNS: dns}
	if err := m.platform.Activate(ctx, m.host, req, gw); err != nil {
		return t, fmt.Errorf("failed to activate '%s': %w", device, err)
	}
	t.phase = PhaseActive
	return t, nil
}

// Deactivate restores the host. A nil or already restored t is not an error.
func (m *Manager) Deactivate(ctx context.Context, t *Transition, bypass []netip.Addr, device string) error {
	var (
		gw    netip.Addr
		armed bool
	)
	if t != nil {
		gw, armed = t.slot.Disarm()
	}
	if !armed && m.platform.NeedsGateway() {
		logger.Debug("deactivate ", device, ": ", ErrNoPriorTransition)
		return nil
	}
	if armed {
		t.phase = PhaseDeactivating
	}

	req := Request{Device: device, Bypass: bypass}
	if err := m.platform.Deactivate(ctx, m.host, req, gw, armed); err != nil {
		return fmt.Errorf("failed to deactivate '%s': %w", device, err)
	}
	if armed {
		t.phase = PhaseInactive
		logger.Info("restored default gateway ", gw, " on ", m.platform.Name())
	}
	return nil
}

// crossFamily returns the bypass addresses a route via gw cannot reach.
func crossFamily(bypass []netip.Addr, gw netip.Addr) []netip.Addr {
	var out []netip.Addr
	for _, ip := range bypass {
		if ip.Unmap().Is4() != gw.Unmap().Is4() {
			out = append(out, ip)
		}
	}
	return out
}
