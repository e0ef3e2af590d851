package assignmentrepo

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAssignmentRepository implements AssignmentRepository using GORM.
type GormAssignmentRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormAssignmentRepository creates a new GORM assignment repository.
func NewGormAssignmentRepository(db *gorm.DB, tracker aggregateTracker) *GormAssignmentRepository {
	return &GormAssignmentRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new offer row to the database.
func (r *GormAssignmentRepository) Add(ctx context.Context, aggregate *assignment.Assignment) error {
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

// Update saves an existing offer row to the database.
func (r *GormAssignmentRepository) Update(ctx context.Context, aggregate *assignment.Assignment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&AssignmentDTO{}).Where("id = ?", dto.ID).Updates(map[string]any{
		"status":       dto.Status,
		"responded_at": dto.RespondedAt,
	})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// GetForOrderAndWorker retrieves the most recent offer row for the pair.
func (r *GormAssignmentRepository) GetForOrderAndWorker(ctx context.Context, orderID, workerID kernel.UUID) (*assignment.Assignment, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}
	if err := workerID.Validate(); err != nil {
		return nil, err
	}

	var dto AssignmentDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND worker_id = ?", orderID.Bytes(), workerID.Bytes()).
		Order("round DESC").
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("assignment", orderID.String()+"/"+workerID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllForOrder retrieves every offer row of every round for an order.
func (r *GormAssignmentRepository) GetAllForOrder(ctx context.Context, orderID kernel.UUID) ([]*assignment.Assignment, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []AssignmentDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("round, offered_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

// GetOpenForOrder retrieves the offer rows still awaiting a response.
func (r *GormAssignmentRepository) GetOpenForOrder(ctx context.Context, orderID kernel.UUID) ([]*assignment.Assignment, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []AssignmentDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND status = ?", orderID.Bytes(), assignment.StatusOffered.String()).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

// ExpireOpenOffersBefore closes every open offer created before the cutoff and
// returns the distinct orders affected. One UPDATE for the whole sweep.
func (r *GormAssignmentRepository) ExpireOpenOffersBefore(ctx context.Context, cutoff time.Time) ([]kernel.UUID, error) {
	var affected []AssignmentDTO
	err := r.db.WithContext(ctx).
		Model(&affected).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "order_id"}}}).
		Where("status = ? AND offered_at < ?", assignment.StatusOffered.String(), cutoff).
		Updates(map[string]any{
			"status":       assignment.StatusExpired.String(),
			"responded_at": time.Now().UTC(),
		}).Error
	if err != nil {
		return nil, err
	}

	seen := make(map[kernel.UUID]struct{}, len(affected))
	orderIDs := make([]kernel.UUID, 0, len(affected))
	for _, dto := range affected {
		orderID, idErr := kernel.UUIDFromBytes(dto.OrderID[:])
		if idErr != nil {
			return nil, idErr
		}
		if _, ok := seen[orderID]; ok {
			continue
		}
		seen[orderID] = struct{}{}
		orderIDs = append(orderIDs, orderID)
	}

	return orderIDs, nil
}

func toDomainSlice(dtos []AssignmentDTO) ([]*assignment.Assignment, error) {
	offers := make([]*assignment.Assignment, 0, len(dtos))
	for _, dto := range dtos {
		offer, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		offers = append(offers, offer)
	}
	return offers, nil
}
