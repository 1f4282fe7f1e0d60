package app

import (
	"context"
	"log"
	"net/netip"
	"runtime"
	"sync"

	"github.com/igor04091968/tunswitch/config"
	"github.com/igor04091968/tunswitch/cronjob"
	"github.com/igor04091968/tunswitch/database"
	"github.com/igor04091968/tunswitch/device"
	"github.com/igor04091968/tunswitch/direction"
	"github.com/igor04091968/tunswitch/executor"
	"github.com/igor04091968/tunswitch/gateway"
	"github.com/igor04091968/tunswitch/logger"
	"github.com/igor04091968/tunswitch/route"
	"github.com/igor04091968/tunswitch/service"

	"github.com/op/go-logging"
)

type APP struct {
	options           *config.Options
	bypass            []netip.Addr
	dns               netip.Addr
	transitionService *service.TransitionService
	interfaceService  *service.InterfaceService
	cronJob           *cronjob.CronJob

	device     *device.Device
	transition *route.Transition
	cancel     context.CancelFunc
	wg         sync.WaitGroup
}

func NewApp() *APP {
	return &APP{}
}

func (a *APP) Init() error {
	log.Printf("%v %v", config.GetName(), config.GetVersion())

	a.initLog()

	opts, err := config.LoadOptions(config.GetOptionsPath())
	if err != nil {
		return err
	}
	a.options = opts
	if a.bypass, err = opts.BypassAddrs(); err != nil {
		return err
	}
	if a.dns, err = opts.DNSAddr(); err != nil {
		return err
	}

	platform, err := route.ForOS(runtime.GOOS)
	if err != nil {
		return err
	}
	var managerOpts []route.Option
	switch opts.GatewaySource {
	case config.GatewaySourceNetlink:
		managerOpts = append(managerOpts, route.WithDiscoverer(&gateway.NetlinkDiscoverer{}))
	case config.GatewaySourceSystem:
		managerOpts = append(managerOpts, route.WithDiscoverer(gateway.NewSystemDiscoverer()))
	}
	manager := route.NewManager(platform, executor.NewExecRunner(), managerOpts...)

	if opts.Journal {
		err = database.InitDB(config.GetDBPath())
		if err != nil {
			return err
		}
		a.transitionService = service.NewTransitionService(manager, database.GetDB())
	} else {
		a.transitionService = service.NewTransitionService(manager, nil)
	}
	a.interfaceService = service.NewInterfaceService()
	a.cronJob = cronjob.NewCronJob()
	return nil
}

// Start brings the tunnel path up. On linux activation creates the device, so
// it runs before the device is opened; elsewhere the device must exist first.
func (a *APP) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	if runtime.GOOS == "linux" {
		if err := a.activate(ctx); err != nil {
			return err
		}
		if err := a.openDevice(); err != nil {
			return err
		}
	} else {
		if err := a.openDevice(); err != nil {
			return err
		}
		if err := a.activate(ctx); err != nil {
			return err
		}
	}

	journalAge := 0
	if a.options.Journal {
		journalAge = a.options.JournalAgeDays
	}
	err := a.cronJob.Start(a.options.WatchInterval, a.options.Device, a.interfaceService, a.transitionService, journalAge)
	if err != nil {
		return err
	}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		err := a.device.Tap(ctx, func(e direction.IncomingDataEvent) {
			logger.Debug(e.Direction, ": ", device.Describe(e.Buffer))
		})
		if err != nil {
			logger.Error(err)
		}
	}()
	return nil
}

func (a *APP) activate(ctx context.Context) error {
	if !a.options.Setup {
		logger.Info("route setup disabled, leaving host routes untouched")
		return nil
	}
	t, err := a.transitionService.Up(ctx, a.bypass, a.options.Device, a.dns)
	a.transition = t
	return err
}

func (a *APP) openDevice() error {
	d, err := device.Open(a.options.Device)
	if err != nil {
		return err
	}
	a.device = d
	logger.Infof("tun device %s is open", d.Name())
	return nil
}

// Stop restores the host and releases everything Start acquired. It is safe
// to call after a failed Start.
func (a *APP) Stop() {
	if a.cancel != nil {
		a.cancel()
	}
	// The watch job must not observe the device while it is being torn down.
	if a.cronJob != nil {
		a.cronJob.Stop()
	}
	if a.device != nil {
		if err := a.device.Close(); err != nil {
			logger.Warning("close tun device err:", err)
		}
		a.wg.Wait()
		a.device = nil
	}
	if a.options != nil && a.options.Setup {
		err := a.transitionService.Down(context.Background(), a.transition, a.bypass, a.options.Device)
		if err != nil {
			logger.Errorf("restore of %s failed, host routes may need manual repair: %v", a.options.Device, err)
		}
		a.transition = nil
	}
	if err := database.CloseDB(); err != nil {
		logger.Warning("close database err:", err)
	}
}

func (a *APP) initLog() {
	switch config.GetLogLevel() {
	case config.Debug:
		logger.InitLogger(logging.DEBUG)
	case config.Info:
		logger.InitLogger(logging.INFO)
	case config.Warn:
		logger.InitLogger(logging.WARNING)
	case config.Error:
		logger.InitLogger(logging.ERROR)
	default:
		log.Fatal("unknown log level:", config.GetLogLevel())
	}
}

func (a *APP) GetOptions() *config.Options {
	return a.options
}

func (a *APP) GetTransitionService() *service.TransitionService {
	return a.transitionService
}
