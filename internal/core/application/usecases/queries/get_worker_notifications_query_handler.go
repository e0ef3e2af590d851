package queries

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetWorkerNotificationsQueryHandler reads the notification feed straight from
// the database.
type GetWorkerNotificationsQueryHandler struct {
	db *gorm.DB
}

// NewGetWorkerNotificationsQueryHandler creates a handler for feed queries.
func NewGetWorkerNotificationsQueryHandler(db *gorm.DB) GetWorkerNotificationsQueryHandler {
	return GetWorkerNotificationsQueryHandler{db: db}
}

// Handle returns the worker's events, newest first.
func (h GetWorkerNotificationsQueryHandler) Handle(
	ctx context.Context,
	query GetWorkerNotificationsQuery,
) ([]GetWorkerNotificationsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	sql := `
		SELECT
			id,
			title,
			message,
			kind,
			related_id,
			read,
			created_at
		FROM notifications
		WHERE recipient_id = ?
	`
	if query.UnreadOnly() {
		sql += ` AND read = false`
	}
	sql += ` ORDER BY created_at DESC`

	rows, err := h.db.WithContext(ctx).Raw(sql, query.WorkerID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]GetWorkerNotificationsQueryResponse, 0)
	for rows.Next() {
		var resp GetWorkerNotificationsQueryResponse
		var id, relatedID uuid.UUID

		err = rows.Scan(
			&id,
			&resp.Title,
			&resp.Message,
			&resp.Kind,
			&relatedID,
			&resp.Read,
			&resp.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		eventID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.ID = eventID

		related, relErr := kernel.UUIDFromBytes(relatedID[:])
		if relErr != nil {
			return nil, relErr
		}
		resp.RelatedID = related

		events = append(events, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}
