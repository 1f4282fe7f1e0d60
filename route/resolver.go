package route

import (
	"fmt"
	"net/netip"
	"os"
)

const ResolvConfPath = "/etc/resolv.conf"

// ResolverFile replaces the system resolver configuration.
type ResolverFile interface {
	SetNameserver(addr netip.Addr) error
}

type resolvConf struct {
	path string
}

func NewResolvConf(path string) ResolverFile {
	return &resolvConf{path: path}
}

func (r *resolvConf) SetNameserver(addr netip.Addr) error {
	content := fmt.Sprintf("nameserver %s\n", addr)
	if err := os.WriteFile(r.path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to rewrite resolver file '%s': %w", r.path, err)
	}
	return nil
}
