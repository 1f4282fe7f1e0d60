package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	StatusActive        = "active"
	StatusFailed        = "failed"
	StatusRestored      = "restored"
	StatusRestoreFailed = "restore_failed"
)

// Transition is one journal entry: a tunnel activation and, later, its restore.
type Transition struct {
	gorm.Model
	UUID       string     `gorm:"uniqueIndex" json:"uuid"`
	Platform   string     `json:"platform"`
	Device     string     `json:"device"`
	Gateway    string     `json:"gateway"`             // Original default gateway, e.g. "192.168.1.1"
	DNS        string     `json:"dns"`                 // Adapter DNS override (windows only)
	Bypass     string     `json:"bypass"`              // Comma separated bypass addresses
	Status     string     `json:"status" gorm:"index"` // One of the Status* constants
	Error      string     `json:"error,omitempty"`     // Last failure, if any
	RestoredAt *time.Time `json:"restored_at,omitempty"`
}
