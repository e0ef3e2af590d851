// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// The assignment status carries an index because the retry job polls by it.
type OrderDTO struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	Status           string    `gorm:"type:varchar(32);not null"`
	AssignmentStatus string    `gorm:"type:varchar(32);not null;index"`
	Region           string    `gorm:"type:varchar(64);not null;index"`
	ServiceType      string    `gorm:"type:varchar(64);not null"`
	CreatedAt        time.Time `gorm:"not null"`
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	return OrderDTO{
		ID:               aggregate.ID().Bytes(),
		Status:           aggregate.Status().String(),
		AssignmentStatus: aggregate.AssignmentStatus().String(),
		Region:           aggregate.Region().String(),
		ServiceType:      aggregate.ServiceType(),
		CreatedAt:        aggregate.CreatedAt(),
	}
}

// toDomain converts a database DTO to an order domain aggregate.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	assignmentStatus, err := order.AssignmentStatusFromString(dto.AssignmentStatus)
	if err != nil {
		return nil, err
	}

	region, err := kernel.NewRegionCode(dto.Region)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(id, status, assignmentStatus, region, dto.ServiceType, dto.CreatedAt)
}
