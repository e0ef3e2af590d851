// Package notificationrepo provides data transfer objects and mapping
// functions for notification event persistence.
package notificationrepo

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/notification"

	"github.com/google/uuid"
)

// NotificationDTO represents the database structure for persisting
// notification events. Indexed by recipient for feed queries.
type NotificationDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	RecipientID uuid.UUID `gorm:"type:uuid;not null;index"`
	Title       string    `gorm:"type:varchar(255);not null"`
	Message     string    `gorm:"type:text;not null"`
	Kind        string    `gorm:"type:varchar(32);not null"`
	RelatedID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Read        bool      `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null;index"`
}

// TableName specifies the database table name for notification events.
func (NotificationDTO) TableName() string {
	return "notifications"
}

// fromDomain converts a notification event to its database representation.
func fromDomain(event *notification.Event) NotificationDTO {
	return NotificationDTO{
		ID:          event.ID().Bytes(),
		RecipientID: event.RecipientID().Bytes(),
		Title:       event.Title(),
		Message:     event.Message(),
		Kind:        event.Kind(),
		RelatedID:   event.RelatedID().Bytes(),
		Read:        event.IsRead(),
		CreatedAt:   event.CreatedAt(),
	}
}

// toDomain converts a database DTO to a notification event.
func toDomain(dto NotificationDTO) (*notification.Event, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	recipientID, err := kernel.UUIDFromBytes(dto.RecipientID[:])
	if err != nil {
		return nil, err
	}

	relatedID, err := kernel.UUIDFromBytes(dto.RelatedID[:])
	if err != nil {
		return nil, err
	}

	return notification.RestoreEvent(id, recipientID, dto.Title, dto.Message, dto.Kind,
		relatedID, dto.Read, dto.CreatedAt)
}
