// Package assignmentrepo provides data transfer objects and mapping functions
// for offer row persistence.
package assignmentrepo

import (
	"time"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// AssignmentDTO represents the database structure for persisting offer rows.
// Indexed by order for round lookups and by worker for the response path.
type AssignmentDTO struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	WorkerID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	Round       int        `gorm:"type:int;not null"`
	Status      string     `gorm:"type:varchar(32);not null;index"`
	OfferedAt   time.Time  `gorm:"not null;index"`
	RespondedAt *time.Time `gorm:""`
}

// TableName specifies the database table name for offer rows.
func (AssignmentDTO) TableName() string {
	return "assignments"
}

// fromDomain converts an assignment domain aggregate to its database representation.
func fromDomain(aggregate *assignment.Assignment) AssignmentDTO {
	return AssignmentDTO{
		ID:          aggregate.ID().Bytes(),
		OrderID:     aggregate.OrderID().Bytes(),
		WorkerID:    aggregate.WorkerID().Bytes(),
		Round:       aggregate.Round(),
		Status:      aggregate.Status().String(),
		OfferedAt:   aggregate.OfferedAt(),
		RespondedAt: aggregate.RespondedAt(),
	}
}

// toDomain converts a database DTO to an assignment domain aggregate.
func toDomain(dto AssignmentDTO) (*assignment.Assignment, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	workerID, err := kernel.UUIDFromBytes(dto.WorkerID[:])
	if err != nil {
		return nil, err
	}

	status, err := assignment.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	return assignment.RestoreAssignment(id, orderID, workerID, dto.Round, status, dto.OfferedAt, dto.RespondedAt)
}
