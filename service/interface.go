package service

import (
	"fmt"
	"slices"

	psnet "github.com/shirou/gopsutil/v4/net"
)

// InterfaceInfo is a host network interface as seen by the status and watch paths.
type InterfaceInfo struct {
	Name  string   `json:"name"`
	Up    bool     `json:"up"`
	MTU   int      `json:"mtu"`
	Addrs []string `json:"addrs"`
}

// InterfaceService inspects host interfaces without touching them.
type InterfaceService struct {
	list func() (psnet.InterfaceStatList, error)
}

func NewInterfaceService() *InterfaceService {
	return &InterfaceService{list: psnet.Interfaces}
}

// NewInterfaceServiceFrom reads interfaces from list instead of the host.
func NewInterfaceServiceFrom(list func() (psnet.InterfaceStatList, error)) *InterfaceService {
	return &InterfaceService{list: list}
}

// GetInterface returns the named interface, or nil when it does not exist.
func (s *InterfaceService) GetInterface(name string) (*InterfaceInfo, error) {
	ifaces, err := s.list()
	if err != nil {
		return nil, fmt.Errorf("failed to list interfaces: %w", err)
	}
	for _, iface := range ifaces {
		if iface.Name != name {
			continue
		}
		info := &InterfaceInfo{
			Name: iface.Name,
			Up:   slices.Contains(iface.Flags, "up"),
			MTU:  iface.MTU,
		}
		for _, addr := range iface.Addrs {
			info.Addrs = append(info.Addrs, addr.Addr)
		}
		return info, nil
	}
	return nil, nil
}
