package orderrepo

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
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

// Update saves an existing order to the database.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&OrderDTO{}).Where("id = ?", dto.ID).Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// UpdateAssignmentStatusIf performs the compare-and-swap on the stored
// assignment status as a single conditional UPDATE. The swap is reported as
// lost when the stored value no longer equals the expected one.
func (r *GormOrderRepository) UpdateAssignmentStatusIf(
	ctx context.Context,
	id kernel.UUID,
	expected, next order.AssignmentStatus,
) (bool, error) {
	if err := id.Validate(); err != nil {
		return false, err
	}

	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ? AND assignment_status = ?", id.Bytes(), expected.String()).
		Update("assignment_status", next.String())
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}

// exhaustedRoundCondition guards the ExpiredAll transition: the order must
// still be Assigned and have no open offer row left. Evaluating the guard
// inside the UPDATE itself keeps racing declines from both skipping the
// transition after each read the sibling's row as still open.
const exhaustedRoundCondition = `assignment_status = ? AND NOT EXISTS (
	SELECT 1 FROM assignments
	WHERE assignments.order_id = orders.id AND assignments.status = ?
)`

// CloseRoundIfExhausted conditionally moves one Assigned order with no open
// offers to ExpiredAll.
func (r *GormOrderRepository) CloseRoundIfExhausted(ctx context.Context, id kernel.UUID) (bool, error) {
	if err := id.Validate(); err != nil {
		return false, err
	}

	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ?", id.Bytes()).
		Where(exhaustedRoundCondition, order.AssignmentAssigned.String(), assignment.StatusOffered.String()).
		Update("assignment_status", order.AssignmentExpiredAll.String())
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}

// CloseExhaustedRounds moves every Assigned order with no open offers to
// ExpiredAll and returns the moved ids.
func (r *GormOrderRepository) CloseExhaustedRounds(ctx context.Context) ([]kernel.UUID, error) {
	var closed []OrderDTO
	result := r.db.WithContext(ctx).Model(&closed).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "id"}}}).
		Where(exhaustedRoundCondition, order.AssignmentAssigned.String(), assignment.StatusOffered.String()).
		Update("assignment_status", order.AssignmentExpiredAll.String())
	if result.Error != nil {
		return nil, result.Error
	}

	ids := make([]kernel.UUID, 0, len(closed))
	for _, dto := range closed {
		id, err := kernel.UUIDFromBytes(dto.ID[:])
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, nil
}

// GetAllInAssignmentStatus retrieves all orders in the given assignment status.
func (r *GormOrderRepository) GetAllInAssignmentStatus(ctx context.Context, status order.AssignmentStatus) ([]*order.Order, error) {
	var dtos []OrderDTO
	if err := r.db.WithContext(ctx).Find(&dtos, "assignment_status = ?", status.String()).Error; err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}
