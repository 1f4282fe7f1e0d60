package config

import (
	"errors"
	"net/netip"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/igor04091968/tunswitch/route"
)

func writeOptions(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tunswitch.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOptions(t *testing.T) {
	path := writeOptions(t, `
device: tun7
bypass:
  - 203.0.113.9
  - 2001:db8::1
dns: 1.1.1.1
gateway_source: netlink
watch_interval: 1m
`)
	opts, err := LoadOptions(path)
	if err != nil {
		t.Fatal(err)
	}
	if opts.Device != "tun7" || opts.WatchInterval != time.Minute || !opts.Setup || opts.JournalAgeDays != 30 {
		t.Fatalf("unexpected options %+v", opts)
	}
	bypass, err := opts.BypassAddrs()
	if err != nil {
		t.Fatal(err)
	}
	if len(bypass) != 2 || bypass[0] != netip.MustParseAddr("203.0.113.9") {
		t.Fatalf("bypass = %v", bypass)
	}
	dns, err := opts.DNSAddr()
	if err != nil || dns != netip.MustParseAddr("1.1.1.1") {
		t.Fatalf("dns = %v, %v", dns, err)
	}
}

func TestLoadOptionsDefaults(t *testing.T) {
	opts, err := LoadOptions("")
	if err != nil {
		t.Fatal(err)
	}
	dns, err := opts.DNSAddr()
	if err != nil || dns.IsValid() {
		t.Fatalf("default dns should be unset, got %v %v", dns, err)
	}
	if opts.GatewaySource != GatewaySourceCommand {
		t.Fatalf("gateway_source = %q", opts.GatewaySource)
	}
}

func TestLoadOptionsRejectsBadAddress(t *testing.T) {
	path := writeOptions(t, "bypass: [203.0.113.9, 203.0.113.300]\n")
	_, err := LoadOptions(path)
	var perr *route.AddressParseError
	if !errors.As(err, &perr) || perr.Input != "203.0.113.300" {
		t.Fatalf("expected AddressParseError, got %v", err)
	}
}

func TestLoadOptionsRejectsGatewaySource(t *testing.T) {
	path := writeOptions(t, "gateway_source: dhcp\n")
	if _, err := LoadOptions(path); err == nil {
		t.Fatal("expected error")
	}
}

func TestLoadOptionsGatewaySources(t *testing.T) {
	for _, src := range []string{GatewaySourceCommand, GatewaySourceNetlink, GatewaySourceSystem} {
		opts, err := LoadOptions(writeOptions(t, "gateway_source: "+src+"\n"))
		if err != nil {
			t.Fatalf("%s: %v", src, err)
		}
		if opts.GatewaySource != src {
			t.Fatalf("gateway_source = %q, want %q", opts.GatewaySource, src)
		}
	}
}
