package workerrepo

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/worker"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormWorkerRepository implements WorkerRepository using GORM.
type GormWorkerRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormWorkerRepository creates a new GORM worker repository.
func NewGormWorkerRepository(db *gorm.DB, tracker aggregateTracker) *GormWorkerRepository {
	return &GormWorkerRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new worker to the database, service areas included.
func (r *GormWorkerRepository) Add(ctx context.Context, aggregate *worker.Worker) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing worker to the database.
// Service areas are replaced wholesale: the set is small and rarely changes.
func (r *GormWorkerRepository) Update(ctx context.Context, aggregate *worker.Worker) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)

	if err := r.db.WithContext(ctx).
		Where("worker_id = ?", dto.ID).
		Delete(&ServiceAreaDTO{}).Error; err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(&dto)
	if result.Error != nil {
		return result.Error
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a worker by ID.
func (r *GormWorkerRepository) Get(ctx context.Context, id kernel.UUID) (*worker.Worker, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto WorkerDTO
	if err := r.db.WithContext(ctx).Preload("ServiceAreas").First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("worker", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByRegion retrieves every worker whose service areas include the region.
// No eligibility filtering happens here; the candidate selector needs the full
// pool to tell an empty region apart from a fully booked one.
func (r *GormWorkerRepository) GetByRegion(ctx context.Context, region kernel.RegionCode) ([]*worker.Worker, error) {
	if err := region.Validate(); err != nil {
		return nil, err
	}

	var dtos []WorkerDTO
	err := r.db.WithContext(ctx).
		Preload("ServiceAreas").
		Joins("JOIN worker_service_areas ON worker_service_areas.worker_id = workers.id").
		Where("worker_service_areas.region = ?", region.String()).
		Select("workers.*").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	workers := make([]*worker.Worker, 0, len(dtos))
	for _, dto := range dtos {
		w, domainErr := toDomain(dto)
		if domainErr != nil {
			return nil, domainErr
		}
		workers = append(workers, w)
	}

	return workers, nil
}

// ClaimCapacity atomically increments current_active_jobs while it is still
// below the worker's limit. One conditional UPDATE, so two concurrent
// acceptances can never both take the last slot.
func (r *GormWorkerRepository) ClaimCapacity(ctx context.Context, id kernel.UUID, defaultLimit int) (bool, error) {
	if err := id.Validate(); err != nil {
		return false, err
	}

	result := r.db.WithContext(ctx).Exec(`
		UPDATE workers
		SET current_active_jobs = current_active_jobs + 1
		WHERE id = ?
		  AND current_active_jobs < CASE WHEN max_concurrent_jobs > 0 THEN max_concurrent_jobs ELSE ? END
	`, id.Bytes(), defaultLimit)
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}

// ReleaseCapacity decrements current_active_jobs, never below zero, and
// credits one completed job.
func (r *GormWorkerRepository) ReleaseCapacity(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Exec(`
		UPDATE workers
		SET current_active_jobs = GREATEST(current_active_jobs - 1, 0),
		    total_jobs = total_jobs + 1
		WHERE id = ?
	`, id.Bytes())
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("worker", id.String())
	}

	return nil
}

// ReleaseClaim atomically returns a claimed slot without crediting a
// completed job. Cancellation of an accepted order takes this path.
func (r *GormWorkerRepository) ReleaseClaim(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Exec(`
		UPDATE workers
		SET current_active_jobs = GREATEST(current_active_jobs - 1, 0)
		WHERE id = ?
	`, id.Bytes())
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("worker", id.String())
	}

	return nil
}
