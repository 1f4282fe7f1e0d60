package cronjob

import (
	"fmt"
	"time"

	"github.com/igor04091968/tunswitch/service"

	"github.com/robfig/cron/v3"
)

type CronJob struct {
	cron *cron.Cron
}

func NewCronJob() *CronJob {
	return &CronJob{}
}

// Start schedules the device watch every interval and the daily journal prune.
// A nil transitionService or a non-positive journalAge skips the prune job.
func (c *CronJob) Start(interval time.Duration, device string, interfaceService *service.InterfaceService, transitionService *service.TransitionService, journalAge int) error {
	c.cron = cron.New(cron.WithLocation(time.Local))

	if interval > 0 {
		_, err := c.cron.AddJob(fmt.Sprintf("@every %s", interval), NewDeviceWatchJob(interfaceService, device))
		if err != nil {
			return err
		}
	}
	if transitionService != nil && journalAge > 0 {
		_, err := c.cron.AddJob("@daily", NewPruneJournalJob(transitionService, journalAge))
		if err != nil {
			return err
		}
	}

	c.cron.Start()
	return nil
}

func (c *CronJob) Stop() {
	if c.cron != nil {
		<-c.cron.Stop().Done()
		c.cron = nil
	}
}

func (c *CronJob) Running() bool {
	return c.cron != nil
}
