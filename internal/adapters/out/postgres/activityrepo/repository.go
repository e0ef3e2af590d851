// Package activityrepo persists the append-only activity log. Entries are
// written outside the dispatch transaction: audit must never block or roll
// back a state transition.
package activityrepo

import (
	"context"
	"encoding/json"
	"time"

	"dispatch/internal/core/domain/model/activity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActivityEntryDTO represents the database structure for one audit record.
// Metadata is stored as a JSONB document.
type ActivityEntryDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Action      string    `gorm:"type:varchar(64);not null;index"`
	Description string    `gorm:"type:text;not null"`
	Metadata    []byte    `gorm:"type:jsonb"`
	CreatedAt   time.Time `gorm:"not null;index"`
}

// TableName specifies the database table name for audit records.
func (ActivityEntryDTO) TableName() string {
	return "activity_log"
}

// GormActivityLog implements ports.ActivityLog using GORM.
type GormActivityLog struct {
	db *gorm.DB
}

// NewGormActivityLog creates a new GORM activity log.
func NewGormActivityLog(db *gorm.DB) *GormActivityLog {
	return &GormActivityLog{db: db}
}

// Record appends one audit entry.
func (l *GormActivityLog) Record(ctx context.Context, action, description string, metadata map[string]any) error {
	entry, err := activity.NewEntry(action, description, metadata)
	if err != nil {
		return err
	}

	var raw []byte
	if entry.Metadata() != nil {
		raw, err = json.Marshal(entry.Metadata())
		if err != nil {
			return err
		}
	}

	dto := ActivityEntryDTO{
		ID:          entry.ID().Bytes(),
		Action:      entry.Action(),
		Description: entry.Description(),
		Metadata:    raw,
		CreatedAt:   entry.CreatedAt(),
	}

	return l.db.WithContext(ctx).Create(&dto).Error
}
