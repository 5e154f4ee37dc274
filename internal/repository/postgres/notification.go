package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/notifyhq/notify-api/internal/model"
	"github.com/notifyhq/notify-api/internal/repository"
)

type notificationRepository struct {
	BaseRepository
}

func NewNotificationRepository(base BaseRepository) repository.NotificationRepository {
	return &notificationRepository{base}
}

const insertNotification = `
	INSERT INTO notifications (id, client_id, channel, content, created_at, is_processed, processed_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
`

func (r *notificationRepository) Create(ctx context.Context, n *model.Notification) error {
	_, err := r.GetDB().ExecContext(ctx, insertNotification,
		n.ID,
		n.ClientID,
		n.Channel,
		n.Content,
		n.CreatedAt,
		n.IsProcessed,
		n.ProcessedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// CreateBatch inserts all notifications in one transaction so a batch
// is either fully persisted or not at all.
func (r *notificationRepository) CreateBatch(ctx context.Context, ns []*model.Notification) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		for _, n := range ns {
			_, err := tx.ExecContext(ctx, insertNotification,
				n.ID,
				n.ClientID,
				n.Channel,
				n.Content,
				n.CreatedAt,
				n.IsProcessed,
				n.ProcessedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to create notification %s: %w", n.ID, err)
			}
		}
		return nil
	})
}

func (r *notificationRepository) Get(ctx context.Context, id uuid.UUID) (*model.Notification, error) {
	query := `SELECT * FROM notifications WHERE id = $1`
	var n model.Notification
	if err := r.GetDB().GetContext(ctx, &n, query, id); err != nil {
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	return &n, nil
}

func (r *notificationRepository) List(ctx context.Context, limit, offset int, clientID *uuid.UUID) ([]*model.Notification, error) {
	ns := []*model.Notification{}

	if clientID != nil {
		query := `
			SELECT * FROM notifications
			WHERE client_id = $1
			ORDER BY created_at, id
			LIMIT $2 OFFSET $3
		`
		if err := r.GetDB().SelectContext(ctx, &ns, query, *clientID, limit, offset); err != nil {
			return nil, fmt.Errorf("failed to list notifications: %w", err)
		}
		return ns, nil
	}

	query := `SELECT * FROM notifications ORDER BY created_at, id LIMIT $1 OFFSET $2`
	if err := r.GetDB().SelectContext(ctx, &ns, query, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return ns, nil
}

// MarkProcessed records the outcome of a delivery attempt. The worker
// only touches the processed fields; the rest of the row stays as the
// API wrote it.
func (r *notificationRepository) MarkProcessed(ctx context.Context, id uuid.UUID, processed bool, at time.Time) error {
	query := `UPDATE notifications SET is_processed = $1, processed_at = $2 WHERE id = $3`
	_, err := r.GetDB().ExecContext(ctx, query, processed, at, id)
	if err != nil {
		return fmt.Errorf("failed to mark notification processed: %w", err)
	}
	return nil
}
