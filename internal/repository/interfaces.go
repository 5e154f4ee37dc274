package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/notifyhq/notify-api/internal/model"
)

// All repository interfaces in one file
type (
	// ClientRepository handles client persistence.
	ClientRepository interface {
		Create(ctx context.Context, client *model.Client) error
		Get(ctx context.Context, id uuid.UUID) (*model.Client, error)
		List(ctx context.Context, limit, offset int) ([]*model.Client, error)
		Update(ctx context.Context, client *model.Client) error
		Delete(ctx context.Context, id uuid.UUID) error
		ExistsByEmail(ctx context.Context, email string) (bool, error)
		ExistsByPhoneNumber(ctx context.Context, phone string) (bool, error)
		GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*model.Client, error)
	}

	// NotificationRepository handles notification persistence. The API
	// writes rows on create; the delivery worker flips the processed
	// fields afterwards.
	NotificationRepository interface {
		Create(ctx context.Context, n *model.Notification) error
		CreateBatch(ctx context.Context, ns []*model.Notification) error
		Get(ctx context.Context, id uuid.UUID) (*model.Notification, error)
		List(ctx context.Context, limit, offset int, clientID *uuid.UUID) ([]*model.Notification, error)
		MarkProcessed(ctx context.Context, id uuid.UUID, processed bool, at time.Time) error
	}

	// AgentRepository resolves API tokens to agents.
	AgentRepository interface {
		GetByToken(ctx context.Context, token string) (*model.Agent, error)
	}
)
