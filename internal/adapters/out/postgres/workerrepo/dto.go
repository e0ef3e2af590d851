// Package workerrepo provides data transfer objects and mapping functions for worker persistence.
// This package implements the repository pattern for the worker domain aggregate, handling
// the conversion between domain entities and database representations.
package workerrepo

import (
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/worker"

	"github.com/google/uuid"
)

// WorkerDTO represents the database structure for persisting worker aggregates.
// Service areas live in a child table so that region lookups stay indexed.
type WorkerDTO struct {
	ID                uuid.UUID        `gorm:"type:uuid;primaryKey"`
	Name              string           `gorm:"type:varchar(255);not null"`
	Active            bool             `gorm:"not null"`
	Verification      string           `gorm:"type:varchar(32);not null"`
	Banned            bool             `gorm:"not null"`
	Rating            float64          `gorm:"type:numeric(3,2);not null"`
	TotalJobs         int              `gorm:"type:int;not null"`
	CurrentActiveJobs int              `gorm:"type:int;not null"`
	MaxConcurrentJobs int              `gorm:"type:int;not null"`
	ServiceAreas      []ServiceAreaDTO `gorm:"foreignKey:WorkerID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for worker entities.
// Overrides GORM's default naming convention to use "workers".
func (WorkerDTO) TableName() string {
	return "workers"
}

// ServiceAreaDTO represents one region a worker serves.
type ServiceAreaDTO struct {
	ID       uint      `gorm:"primaryKey;autoIncrement"`
	WorkerID uuid.UUID `gorm:"type:uuid;not null;index"`
	Region   string    `gorm:"type:varchar(64);not null;index"`
}

// TableName specifies the database table name for service area entities.
func (ServiceAreaDTO) TableName() string {
	return "worker_service_areas"
}

// fromDomain converts a worker domain aggregate to its database representation.
func fromDomain(aggregate *worker.Worker) WorkerDTO {
	workerID := aggregate.ID().Bytes()

	areas := make([]ServiceAreaDTO, 0, len(aggregate.ServiceAreas()))
	for _, region := range aggregate.ServiceAreas() {
		areas = append(areas, ServiceAreaDTO{
			WorkerID: workerID,
			Region:   region.String(),
		})
	}

	return WorkerDTO{
		ID:                workerID,
		Name:              aggregate.Name(),
		Active:            aggregate.IsActive(),
		Verification:      aggregate.Verification().String(),
		Banned:            aggregate.IsBanned(),
		Rating:            aggregate.Rating(),
		TotalJobs:         aggregate.TotalJobs(),
		CurrentActiveJobs: aggregate.CurrentActiveJobs(),
		MaxConcurrentJobs: aggregate.MaxConcurrentJobs(),
		ServiceAreas:      areas,
	}
}

// toDomain converts a database DTO to a worker domain aggregate.
func toDomain(dto WorkerDTO) (*worker.Worker, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	verification, err := worker.VerificationStatusFromString(dto.Verification)
	if err != nil {
		return nil, err
	}

	areas := make([]kernel.RegionCode, 0, len(dto.ServiceAreas))
	for _, areaDto := range dto.ServiceAreas {
		region, regionErr := kernel.NewRegionCode(areaDto.Region)
		if regionErr != nil {
			return nil, regionErr
		}
		areas = append(areas, region)
	}

	return worker.RestoreWorker(id, dto.Name, dto.Active, verification, dto.Banned,
		dto.Rating, dto.TotalJobs, dto.CurrentActiveJobs, dto.MaxConcurrentJobs, areas)
}
