package route

import (
	"net/netip"
	"sync"
)

// Slot holds the original default gateway of one transition.
type Slot struct {
	mu      sync.Mutex
	gateway netip.Addr
	armed   bool
}

// Arm stores gw, replacing any previous value.
func (s *Slot) Arm(gw netip.Addr) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gateway = gw
	s.armed = true
}

// Disarm returns the stored gateway and clears the slot. ok is false when
// nothing was armed.
func (s *Slot) Disarm() (gw netip.Addr, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gw, ok = s.gateway, s.armed
	s.gateway = netip.Addr{}
	s.armed = false
	return gw, ok
}

func (s *Slot) Armed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.armed
}
