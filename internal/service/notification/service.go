package notification

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/notifyhq/notify-api/internal/model"
	"github.com/notifyhq/notify-api/internal/repository"
	clientsvc "github.com/notifyhq/notify-api/internal/service/client"
	"github.com/notifyhq/notify-api/pkg/apierror"
	"github.com/notifyhq/notify-api/pkg/messaging"
	"github.com/notifyhq/notify-api/pkg/validator"
)

const (
	ErrorNotFound        = "Notification not found"
	ErrorClientNotFound  = "Notification client not found"
	ErrorBatchLimit      = "Notification batch limit exceeded"
	ErrorBatchValidation = "Notification batch validation error"
)

type Service interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Notification, error)
	List(ctx context.Context, page, limit int, clientID *uuid.UUID) ([]*model.Notification, error)
	Create(ctx context.Context, req *model.CreateNotificationRequest) (*model.Notification, error)
	CreateBatch(ctx context.Context, reqs []model.CreateNotificationRequest) ([]*model.Notification, error)
}

type service struct {
	repo     repository.NotificationRepository
	clients  repository.ClientRepository
	broker   messaging.Broker
	validate *validator.Validator
}

func NewService(repo repository.NotificationRepository, clients repository.ClientRepository, broker messaging.Broker, validate *validator.Validator) Service {
	return &service{
		repo:     repo,
		clients:  clients,
		broker:   broker,
		validate: validate,
	}
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*model.Notification, error) {
	n, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apierror.NotFound(ErrorNotFound)
		}
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	return n, nil
}

func (s *service) List(ctx context.Context, page, limit int, clientID *uuid.UUID) ([]*model.Notification, error) {
	limit, offset := clientsvc.PageToOffset(page, limit)

	ns, err := s.repo.List(ctx, limit, offset, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return ns, nil
}

// Create validates, persists and enqueues a single notification. The
// returned notification is persisted and queued, not yet delivered.
func (s *service) Create(ctx context.Context, req *model.CreateNotificationRequest) (*model.Notification, error) {
	if aerr := s.validateItem(req); aerr != nil {
		return nil, aerr
	}

	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		return nil, apierror.Validation(model.ErrorWrongClientUUID, "clientId")
	}

	client, err := s.clients.Get(ctx, clientID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apierror.Validation(ErrorClientNotFound, "clientId")
		}
		return nil, fmt.Errorf("failed to resolve client: %w", err)
	}

	n := newNotification(clientID, req)
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	s.publish(ctx, n, client)

	return n, nil
}

// CreateBatch validates the whole batch before touching storage: one
// pass over item fields, one bulk client lookup over the deduplicated
// set of referenced ids. Any failure rejects the batch with the full
// error list and persists nothing.
func (s *service) CreateBatch(ctx context.Context, reqs []model.CreateNotificationRequest) ([]*model.Notification, error) {
	if len(reqs) > model.MaxBatchSize {
		return nil, apierror.PayloadTooLarge(ErrorBatchLimit)
	}

	var items []apierror.ItemError

	for i := range reqs {
		if aerr := s.validateItem(&reqs[i]); aerr != nil {
			items = append(items, apierror.ItemError{
				Index:   i,
				Message: aerr.Message,
				Field:   aerr.Field,
			})
		}
	}

	// Bulk existence check, deduplicated by client id. Items whose
	// clientId failed format validation have nothing to look up.
	distinct := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	for i := range reqs {
		id, err := uuid.Parse(reqs[i].ClientID)
		if err != nil || distinct[id] {
			continue
		}
		distinct[id] = true
		ids = append(ids, id)
	}

	clients, err := s.clients.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve batch clients: %w", err)
	}

	for i := range reqs {
		id, err := uuid.Parse(reqs[i].ClientID)
		if err != nil {
			continue
		}
		if clients[id] == nil {
			items = append(items, apierror.ItemError{
				Index:   i,
				Message: ErrorClientNotFound,
				Field:   "clientId",
			})
		}
	}

	if len(items) > 0 {
		return nil, apierror.BatchValidation(ErrorBatchValidation, items)
	}

	ns := make([]*model.Notification, len(reqs))
	for i := range reqs {
		clientID, _ := uuid.Parse(reqs[i].ClientID)
		ns[i] = newNotification(clientID, &reqs[i])
	}

	if err := s.repo.CreateBatch(ctx, ns); err != nil {
		return nil, fmt.Errorf("failed to create notification batch: %w", err)
	}

	for _, n := range ns {
		s.publish(ctx, n, clients[n.ClientID])
	}

	return ns, nil
}

func newNotification(clientID uuid.UUID, req *model.CreateNotificationRequest) *model.Notification {
	return &model.Notification{
		ID:          uuid.New(),
		ClientID:    clientID,
		Channel:     req.Channel,
		Content:     req.Content,
		CreatedAt:   time.Now().UTC(),
		IsProcessed: false,
	}
}

// publish enqueues the dispatch message. The notification is already
// persisted at this point, so a broker failure is logged and the
// request still succeeds; the row simply stays unprocessed.
func (s *service) publish(ctx context.Context, n *model.Notification, client *model.Client) {
	recipient := client.Email
	if n.Channel == model.ChannelSMS {
		recipient = client.PhoneNumber
	}

	msg := model.DispatchMessage{
		NotificationID: n.ID,
		Channel:        n.Channel,
		Content:        n.Content,
		Recipient:      recipient,
	}

	if err := s.broker.Publish(ctx, model.DispatchQueue, msg); err != nil {
		log.Error().Err(err).Str("notification_id", n.ID.String()).Msg("failed to publish dispatch message")
	}
}

func (s *service) validateItem(req *model.CreateNotificationRequest) *apierror.AppError {
	if ferr := s.validate.Struct(req); ferr != nil {
		return apierror.Validation(itemMessage(ferr.Field, ferr.Tag), ferr.Field)
	}

	if req.Channel == model.ChannelSMS && len(req.Content) > model.SMSMaxLength {
		return apierror.Validation(model.ErrorSMSTooLong, "content")
	}
	return nil
}

func itemMessage(field, tag string) string {
	if field == "channel" {
		return model.ErrorWrongChannel
	}
	if tag == "uuid" {
		return model.ErrorWrongClientUUID
	}
	return model.ErrorBlank
}
