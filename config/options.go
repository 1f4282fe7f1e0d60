package config

import (
	"fmt"
	"net/netip"
	"os"
	"runtime"
	"time"

	"github.com/igor04091968/tunswitch/route"
	"gopkg.in/yaml.v3"
)

// Options describes one tunnel transition and the daemon around it.
type Options struct {
	Device         string        `yaml:"device"`
	Bypass         []string      `yaml:"bypass"`
	DNS            string        `yaml:"dns"`
	Setup          bool          `yaml:"setup"`
	GatewaySource  string        `yaml:"gateway_source"`
	Journal        bool          `yaml:"journal"`
	JournalAgeDays int           `yaml:"journal_age_days"`
	WatchInterval  time.Duration `yaml:"watch_interval"`
}

const (
	GatewaySourceCommand = "command"
	GatewaySourceNetlink = "netlink"
	GatewaySourceSystem  = "system"
)

func DefaultOptions() *Options {
	return &Options{
		Device:         defaultDevice(),
		Setup:          true,
		GatewaySource:  GatewaySourceCommand,
		Journal:        true,
		JournalAgeDays: 30,
		WatchInterval:  30 * time.Second,
	}
}

func defaultDevice() string {
	if runtime.GOOS == "darwin" {
		return "utun7"
	}
	return "tun0"
}

// LoadOptions reads a YAML options file over the defaults. An empty path
// returns the defaults.
func LoadOptions(path string) (*Options, error) {
	opts := DefaultOptions()
	if path == "" {
		return opts, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, opts); err != nil {
		return nil, fmt.Errorf("failed to parse options file '%s': %w", path, err)
	}
	return opts, opts.Validate()
}

func (o *Options) Validate() error {
	if o.Device == "" {
		return fmt.Errorf("device name is required")
	}
	switch o.GatewaySource {
	case GatewaySourceCommand, GatewaySourceNetlink, GatewaySourceSystem:
	default:
		return fmt.Errorf("unknown gateway_source '%s'", o.GatewaySource)
	}
	if _, err := o.BypassAddrs(); err != nil {
		return err
	}
	_, err := o.DNSAddr()
	return err
}

func (o *Options) BypassAddrs() ([]netip.Addr, error) {
	return route.ParseAddrs(o.Bypass)
}

// DNSAddr returns the zero Addr when no override is configured.
func (o *Options) DNSAddr() (netip.Addr, error) {
	if o.DNS == "" {
		return netip.Addr{}, nil
	}
	addrs, err := route.ParseAddrs([]string{o.DNS})
	if err != nil {
		return netip.Addr{}, err
	}
	return addrs[0], nil
}
