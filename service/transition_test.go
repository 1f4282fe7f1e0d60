package service

import (
	"context"
	"errors"
	"net/netip"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/igor04091968/tunswitch/database"
	"github.com/igor04091968/tunswitch/database/model"
	"github.com/igor04091968/tunswitch/route"
)

type fakeHost struct {
	steps []string
	fail  string
}

func (h *fakeHost) Run(_ context.Context, program string, args ...string) ([]byte, error) {
	step := strings.Join(append([]string{program}, args...), " ")
	h.steps = append(h.steps, step)
	if h.fail != "" && strings.HasPrefix(step, h.fail) {
		return nil, errors.New("exit status 1")
	}
	return nil, nil
}

func (h *fakeHost) SetNameserver(addr netip.Addr) error {
	h.steps = append(h.steps, "nameserver "+addr.String())
	return nil
}

type staticGateway netip.Addr

func (g staticGateway) DiscoverDefaultGateway(context.Context) (netip.Addr, error) {
	return netip.Addr(g), nil
}

func newJournaledService(t *testing.T, host *fakeHost) *TransitionService {
	t.Helper()
	if err := database.InitDB(filepath.Join(t.TempDir(), "tunswitch.db")); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { database.CloseDB() })
	m := route.NewManager(&route.DarwinPlatform{}, host,
		route.WithResolver(host),
		route.WithDiscoverer(staticGateway(netip.MustParseAddr("192.168.0.1"))))
	return NewTransitionService(m, database.GetDB())
}

func TestUpDownJournal(t *testing.T) {
	host := &fakeHost{}
	s := newJournaledService(t, host)
	bypass := []netip.Addr{netip.MustParseAddr("203.0.113.9")}

	tr, err := s.Up(context.Background(), bypass, "utun7", netip.Addr{})
	if err != nil {
		t.Fatal(err)
	}
	history, err := s.GetHistory(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 1 || history[0].Status != model.StatusActive || history[0].Gateway != "192.168.0.1" || history[0].Bypass != "203.0.113.9" {
		t.Fatalf("unexpected journal after Up: %+v", history)
	}

	if err := s.Down(context.Background(), tr, bypass, "utun7"); err != nil {
		t.Fatal(err)
	}
	history, err = s.GetHistory(10)
	if err != nil {
		t.Fatal(err)
	}
	if history[0].Status != model.StatusRestored || history[0].RestoredAt == nil {
		t.Fatalf("unexpected journal after Down: %+v", history[0])
	}
}

func TestUpFailureIsJournaled(t *testing.T) {
	host := &fakeHost{fail: "route add default"}
	s := newJournaledService(t, host)

	tr, err := s.Up(context.Background(), nil, "utun7", netip.Addr{})
	if err == nil || tr == nil {
		t.Fatalf("expected a failed but armed transition, got %v %v", tr, err)
	}
	history, _ := s.GetHistory(1)
	if len(history) != 1 || history[0].Status != model.StatusFailed || history[0].Error == "" {
		t.Fatalf("unexpected journal %+v", history)
	}

	host.fail = ""
	if err := s.Down(context.Background(), tr, nil, "utun7"); err != nil {
		t.Fatal(err)
	}
	history, _ = s.GetHistory(1)
	if history[0].Status != model.StatusRestored {
		t.Fatalf("status = %s", history[0].Status)
	}
}

func TestDownWithoutUp(t *testing.T) {
	host := &fakeHost{}
	s := newJournaledService(t, host)
	if err := s.Down(context.Background(), nil, nil, "utun7"); err != nil {
		t.Fatal(err)
	}
	if len(host.steps) != 0 {
		t.Fatalf("unexpected commands %v", host.steps)
	}
}

func TestDelOldHistory(t *testing.T) {
	s := newJournaledService(t, &fakeHost{})
	if _, err := s.Up(context.Background(), nil, "utun7", netip.Addr{}); err != nil {
		t.Fatal(err)
	}
	if err := s.DelOldHistory(1); err != nil {
		t.Fatal(err)
	}
	if history, _ := s.GetHistory(10); len(history) != 1 {
		t.Fatalf("fresh entry was pruned: %+v", history)
	}
	if err := s.DelOldHistory(-1); err != nil {
		t.Fatal(err)
	}
	if history, _ := s.GetHistory(10); len(history) != 0 {
		t.Fatalf("old entries kept: %+v", history)
	}
}

func TestSecondDownKeepsJournal(t *testing.T) {
	host := &fakeHost{}
	s := newJournaledService(t, host)

	tr, err := s.Up(context.Background(), nil, "utun7", netip.Addr{})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Down(context.Background(), tr, nil, "utun7"); err != nil {
		t.Fatal(err)
	}
	history, _ := s.GetHistory(1)
	first := *history[0].RestoredAt
	updated := history[0].UpdatedAt
	steps := len(host.steps)

	time.Sleep(10 * time.Millisecond)
	if err := s.Down(context.Background(), tr, nil, "utun7"); err != nil {
		t.Fatal(err)
	}
	if len(host.steps) != steps {
		t.Fatalf("second Down ran commands: %v", host.steps[steps:])
	}
	history, _ = s.GetHistory(1)
	if !history[0].RestoredAt.Equal(first) || !history[0].UpdatedAt.Equal(updated) {
		t.Fatalf("journal rewritten by second Down: %+v", history[0])
	}
}
