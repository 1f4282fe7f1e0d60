package service

import (
	"context"
	"net/netip"
	"strings"
	"time"

	"github.com/igor04091968/tunswitch/database/model"
	"github.com/igor04091968/tunswitch/logger"
	"github.com/igor04091968/tunswitch/route"
	"gorm.io/gorm"
)

// TransitionService drives the route engine and journals every transition.
// A nil db disables the journal.
type TransitionService struct {
	manager *route.Manager
	db      *gorm.DB
}

func NewTransitionService(manager *route.Manager, db *gorm.DB) *TransitionService {
	return &TransitionService{
		manager: manager,
		db:      db,
	}
}

// Up activates the tunnel path. The returned transition may be non-nil even
// when err is set; pass it to Down to clean up what was applied.
func (s *TransitionService) Up(ctx context.Context, bypass []netip.Addr, device string, dns netip.Addr) (*route.Transition, error) {
	t, err := s.manager.Activate(ctx, bypass, device, dns)
	if t == nil {
		if err != nil {
			logger.Error("activation of ", device, " aborted before any change: ", err)
		}
		return nil, err
	}

	record := &model.Transition{
		UUID:     t.ID.String(),
		Platform: t.Platform,
		Device:   t.Device,
		Gateway:  t.Gateway.String(),
		Bypass:   joinAddrs(t.Bypass),
		Status:   model.StatusActive,
	}
	if t.Platform == "windows" {
		record.DNS = t.DNS.String()
	}
	if err != nil {
		record.Status = model.StatusFailed
		record.Error = err.Error()
		logger.Error("activation of ", device, " failed part way, run restore to clean up: ", err)
	}
	s.save(record)
	return t, err
}

// Down restores the host. A nil or already restored transition is accepted
// and leaves the journal untouched.
func (s *TransitionService) Down(ctx context.Context, t *route.Transition, bypass []netip.Addr, device string) error {
	armed := t.Armed()
	err := s.manager.Deactivate(ctx, t, bypass, device)
	if !armed || s.db == nil {
		return err
	}

	var record model.Transition
	if dbErr := s.db.Where("uuid = ?", t.ID.String()).First(&record).Error; dbErr != nil {
		logger.Warning("journal entry for transition ", t.ID, " not found: ", dbErr)
		return err
	}
	if err != nil {
		record.Status = model.StatusRestoreFailed
		record.Error = err.Error()
	} else {
		now := time.Now()
		record.Status = model.StatusRestored
		record.RestoredAt = &now
	}
	if dbErr := s.db.Save(&record).Error; dbErr != nil {
		logger.Warning("failed to update journal entry ", record.UUID, ": ", dbErr)
	}
	return err
}

func (s *TransitionService) save(record *model.Transition) {
	if s.db == nil {
		return
	}
	if err := s.db.Create(record).Error; err != nil {
		logger.Warning("failed to journal transition ", record.UUID, ": ", err)
	}
}

// GetHistory returns the newest limit journal entries.
func (s *TransitionService) GetHistory(limit int) ([]model.Transition, error) {
	var records []model.Transition
	if s.db == nil {
		return records, nil
	}
	err := s.db.Order("id desc").Limit(limit).Find(&records).Error
	return records, err
}

// DelOldHistory hard-deletes entries created more than days ago.
func (s *TransitionService) DelOldHistory(days int) error {
	if s.db == nil {
		return nil
	}
	oldTime := time.Now().AddDate(0, 0, -days)
	return s.db.Unscoped().Where("created_at < ?", oldTime).Delete(&model.Transition{}).Error
}

func joinAddrs(addrs []netip.Addr) string {
	parts := make([]string, 0, len(addrs))
	for _, a := range addrs {
		parts = append(parts, a.String())
	}
	return strings.Join(parts, ",")
}
