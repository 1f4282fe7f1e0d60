package cronjob

import (
	"sync"

	"github.com/igor04091968/tunswitch/logger"
	"github.com/igor04091968/tunswitch/service"
)

type deviceState string

const (
	deviceUnknown deviceState = ""
	deviceGone    deviceState = "gone"
	deviceDown    deviceState = "down"
	deviceUp      deviceState = "up"
)

// DeviceWatchJob warns when the tunnel device disappears or goes down while
// the default path points at it. It logs only when the state changes.
type DeviceWatchJob struct {
	*service.InterfaceService
	device string

	mu    sync.Mutex
	state deviceState
}

func NewDeviceWatchJob(s *service.InterfaceService, device string) *DeviceWatchJob {
	return &DeviceWatchJob{
		InterfaceService: s,
		device:           device,
	}
}

func (s *DeviceWatchJob) Run() {
	info, err := s.InterfaceService.GetInterface(s.device)
	if err != nil {
		logger.Warning("Get interface failed: ", err)
		return
	}
	state := deviceUp
	switch {
	case info == nil:
		state = deviceGone
	case !info.Up:
		state = deviceDown
	}
	if !s.observe(state) {
		return
	}

	switch state {
	case deviceGone:
		logger.Warningf("device %s is gone, traffic routed to it is being dropped", s.device)
	case deviceDown:
		logger.Warningf("device %s is down", s.device)
	default:
		logger.Debugf("device %s is up, mtu %d, addrs %v", s.device, info.MTU, info.Addrs)
	}
}

// observe records state and reports whether it differs from the last one.
func (s *DeviceWatchJob) observe(state deviceState) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if state == s.state {
		return false
	}
	s.state = state
	return true
}

func (s *DeviceWatchJob) State() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return string(s.state)
}
