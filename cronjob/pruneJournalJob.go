package cronjob

import (
	"github.com/igor04091968/tunswitch/logger"
	"github.com/igor04091968/tunswitch/service"
)

type PruneJournalJob struct {
	*service.TransitionService
	journalAge int
}

func NewPruneJournalJob(s *service.TransitionService, ja int) *PruneJournalJob {
	return &PruneJournalJob{
		TransitionService: s,
		journalAge:        ja,
	}
}

func (s *PruneJournalJob) Run() {
	err := s.TransitionService.DelOldHistory(s.journalAge)
	if err != nil {
		logger.Warning("Deleting old transitions failed: ", err)
		return
	}
	logger.Debug("Transitions older than ", s.journalAge, " days were deleted")
}
