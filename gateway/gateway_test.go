package gateway

import (
	"context"
	"errors"
	"net"
	"net/netip"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type cannedRunner struct {
	out   []byte
	err   error
	calls [][]string
}

func (r *cannedRunner) Run(_ context.Context, program string, args ...string) ([]byte, error) {
	r.calls = append(r.calls, append([]string{program}, args...))
	return r.out, r.err
}

func TestParseAdapterGateways(t *testing.T) {
	tests := []struct {
		name string
		out  string
		want string
		err  error
	}{
		{
			name: "v4 wins over v6",
			out:  "fe80::1\r\n192.168.31.1\r\n",
			want: "192.168.31.1",
		},
		{
			name: "first v4 line",
			out:  "10.1.1.1\r\n192.168.31.1\r\n",
			want: "10.1.1.1",
		},
		{
			name: "v6 only",
			out:  "\r\nfe80::1\r\n",
			want: "fe80::1",
		},
		{
			name: "nothing parseable",
			out:  "Get-WmiObject : Access denied\r\n",
			err:  ErrGatewayNotFound,
		},
		{
			name: "empty",
			out:  "",
			err:  ErrGatewayNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAdapterGateways([]byte(tt.out))
			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Fatalf("expected %v, got %v (%v)", tt.err, err, got)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != netip.MustParseAddr(tt.want) {
				t.Fatalf("got %v, want %s", got, tt.want)
			}
		})
	}
}

func TestParseRouteTable(t *testing.T) {
	out := `10.0.0.0/24 dev tun0 proto kernel scope link src 10.0.0.33
default via 192.168.1.254 dev wlan0 proto dhcp src 192.168.1.20 metric 600
192.168.1.0/24 dev wlan0 proto kernel scope link src 192.168.1.20 metric 600
`
	got, err := ParseRouteTable([]byte(out))
	if err != nil {
		t.Fatal(err)
	}
	if got != netip.MustParseAddr("192.168.1.254") {
		t.Fatalf("got %v", got)
	}

	_, err = ParseRouteTable([]byte("default dev tun0 scope link\n"))
	if !errors.Is(err, ErrGatewayNotFound) {
		t.Fatalf("expected ErrGatewayNotFound, got %v", err)
	}
}

func TestParseNetstat(t *testing.T) {
	out := `Routing tables

Internet:
Destination        Gateway            Flags               Netif Expire
default            192.168.0.1        UGScg                 en0
127                127.0.0.1          UCS                   lo0
`
	got, err := ParseNetstat([]byte(out))
	if err != nil {
		t.Fatal(err)
	}
	if got != netip.MustParseAddr("192.168.0.1") {
		t.Fatalf("got %v", got)
	}

	_, err = ParseNetstat([]byte("default            link#14            UCSIg           utun3\n"))
	if !errors.Is(err, ErrGatewayNotFound) {
		t.Fatalf("expected ErrGatewayNotFound, got %v", err)
	}
}

func TestDiscoverersRunTheirCommand(t *testing.T) {
	tests := []struct {
		name string
		d    func(r *cannedRunner) Discoverer
		out  string
		cmd  []string
	}{
		{
			name: "route table",
			d:    func(r *cannedRunner) Discoverer { return &RouteTableDiscoverer{Runner: r} },
			out:  "default via 172.16.0.1 dev eth0\n",
			cmd:  []string{"ip", "route"},
		},
		{
			name: "adapter",
			d:    func(r *cannedRunner) Discoverer { return &AdapterDiscoverer{Runner: r} },
			out:  "172.16.0.1\r\n",
			cmd:  []string{"powershell", "-Command", adapterGatewayQuery},
		},
		{
			name: "netstat",
			d:    func(r *cannedRunner) Discoverer { return &NetstatDiscoverer{Runner: r} },
			out:  "default  172.16.0.1  UGScg  en0\n",
			cmd:  []string{"netstat", "-rn", "-f", "inet"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &cannedRunner{out: []byte(tt.out)}
			got, err := tt.d(r).DiscoverDefaultGateway(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			if got != netip.MustParseAddr("172.16.0.1") {
				t.Fatalf("got %v", got)
			}
			if diff := cmp.Diff([][]string{tt.cmd}, r.calls); diff != "" {
				t.Fatalf("commands mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDiscovererPropagatesCommandError(t *testing.T) {
	boom := errors.New("boom")
	_, err := (&RouteTableDiscoverer{Runner: &cannedRunner{err: boom}}).DiscoverDefaultGateway(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped runner error, got %v", err)
	}
}

func TestSystemDiscoverer(t *testing.T) {
	d := &SystemDiscoverer{discover: func() (net.IP, error) { return net.ParseIP("192.168.5.1"), nil }}
	got, err := d.DiscoverDefaultGateway(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got != netip.MustParseAddr("192.168.5.1") {
		t.Fatalf("got %v", got)
	}

	d = &SystemDiscoverer{discover: func() (net.IP, error) { return net.IPv4zero, nil }}
	if _, err := d.DiscoverDefaultGateway(context.Background()); !errors.Is(err, ErrGatewayNotFound) {
		t.Fatalf("expected ErrGatewayNotFound, got %v", err)
	}

	boom := errors.New("no route")
	d = &SystemDiscoverer{discover: func() (net.IP, error) { return nil, boom }}
	if _, err := d.DiscoverDefaultGateway(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}
