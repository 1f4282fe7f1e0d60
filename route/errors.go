package route

import (
	"fmt"
	"net/netip"
	"strings"

	E "github.com/sagernet/sing/common/exceptions"
)

// ErrNoPriorTransition marks a restore request with nothing armed. Deactivate
// treats it as success.
var ErrNoPriorTransition = E.New("no prior transition to restore")

type AddressParseError struct {
	Input string
	Err   error
}

func (e *AddressParseError) Error() string {
	return fmt.Sprintf("invalid address '%s': %v", e.Input, e.Err)
}

func (e *AddressParseError) Unwrap() error {
	return e.Err
}

// ParseAddrs parses a bypass list, keeping order and duplicates.
func ParseAddrs(list []string) ([]netip.Addr, error) {
	addrs := make([]netip.Addr, 0, len(list))
	for _, s := range list {
		s = strings.TrimSpace(s)
		addr, err := netip.ParseAddr(s)
		if err != nil {
			return nil, &AddressParseError{Input: s, Err: err}
		}
		addrs = append(addrs, addr)
	}
	return addrs, nil
}
