package queries

import (
	"context"
	"database/sql"

	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderAssignmentsQueryHandler reads an order's offer history straight from
// the database, ordered by round and offer time.
type GetOrderAssignmentsQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderAssignmentsQueryHandler creates a handler for history queries.
func NewGetOrderAssignmentsQueryHandler(db *gorm.DB) GetOrderAssignmentsQueryHandler {
	return GetOrderAssignmentsQueryHandler{db: db}
}

// Handle returns every offer row of every round for the order.
func (h GetOrderAssignmentsQueryHandler) Handle(
	ctx context.Context,
	query GetOrderAssignmentsQuery,
) ([]GetOrderAssignmentsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			worker_id,
			round,
			status,
			offered_at,
			responded_at
		FROM assignments
		WHERE order_id = ?
		ORDER BY round, offered_at
	`, query.OrderID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	offers := make([]GetOrderAssignmentsQueryResponse, 0)
	for rows.Next() {
		var resp GetOrderAssignmentsQueryResponse
		var id, workerID uuid.UUID
		var respondedAt sql.NullTime

		err = rows.Scan(
			&id,
			&workerID,
			&resp.Round,
			&resp.Status,
			&resp.OfferedAt,
			&respondedAt,
		)
		if err != nil {
			return nil, err
		}

		offerID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.ID = offerID

		worker, wErr := kernel.UUIDFromBytes(workerID[:])
		if wErr != nil {
			return nil, wErr
		}
		resp.WorkerID = worker

		if respondedAt.Valid {
			ts := respondedAt.Time.UTC()
			resp.RespondedAt = &ts
		}

		offers = append(offers, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return offers, nil
}
