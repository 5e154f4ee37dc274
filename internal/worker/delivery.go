package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/notifyhq/notify-api/internal/mailer"
	"github.com/notifyhq/notify-api/internal/model"
	"github.com/notifyhq/notify-api/internal/repository"
	"github.com/notifyhq/notify-api/pkg/logger"
	"github.com/notifyhq/notify-api/pkg/messaging"
)

var (
	deliveredMessages = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notifications_delivered_total",
		Help: "The total number of notifications delivered successfully",
	})
	failedMessages = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notifications_failed_total",
		Help: "The total number of notifications that failed delivery",
	})
)

// Delivery consumes dispatch messages one at a time and records the
// outcome on the notification row. A delivery attempt is terminal:
// there is no retry and the message is never redelivered.
type Delivery struct {
	broker      messaging.Broker
	repo        repository.NotificationRepository
	mailer      mailer.Mailer
	logger      *logger.Logger
	sendTimeout time.Duration
}

func NewDelivery(broker messaging.Broker, repo repository.NotificationRepository, m mailer.Mailer, l *logger.Logger, sendTimeout time.Duration) *Delivery {
	return &Delivery{
		broker:      broker,
		repo:        repo,
		mailer:      m,
		logger:      l,
		sendTimeout: sendTimeout,
	}
}

// Start blocks consuming the dispatch queue until the context is
// cancelled.
func (w *Delivery) Start(ctx context.Context) error {
	msgs, err := w.broker.Subscribe(ctx, model.DispatchQueue)
	if err != nil {
		return fmt.Errorf("failed to subscribe to dispatch queue: %w", err)
	}

	w.logger.Info("delivery worker started")

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("delivery worker shutting down")
			return nil
		case raw, ok := <-msgs:
			if !ok {
				return nil
			}
			w.Handle(ctx, raw)
		}
	}
}

// Handle processes a single raw dispatch message.
func (w *Delivery) Handle(ctx context.Context, raw []byte) {
	var msg model.DispatchMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		w.logger.Error(err, "failed to unmarshal dispatch message")
		return
	}

	switch msg.Channel {
	case model.ChannelEmail:
		w.handleEmail(ctx, msg)
	case model.ChannelSMS:
		w.handleSMS(ctx, msg)
	default:
		w.logger.ZL.Warn().Str("channel", msg.Channel).Str("notification_id", msg.NotificationID.String()).Msg("dropping message with unknown channel")
	}
}

func (w *Delivery) handleEmail(ctx context.Context, msg model.DispatchMessage) {
	subject := fmt.Sprintf("New message {%s} from Notify App", msg.NotificationID)

	sendCtx, cancel := context.WithTimeout(ctx, w.sendTimeout)
	defer cancel()

	err := w.mailer.Send(sendCtx, msg.Recipient, subject, msg.Content)
	if err != nil {
		// Attempted but not delivered: is_processed stays false while
		// processed_at records the attempt.
		failedMessages.Inc()
		w.logger.ZL.Error().Err(err).Str("notification_id", msg.NotificationID.String()).Msg("email delivery failed")
		w.markProcessed(ctx, msg.NotificationID, false)
		return
	}

	deliveredMessages.Inc()
	w.markProcessed(ctx, msg.NotificationID, true)
}

// handleSMS is a stub: no real SMS is sent, the notification is marked
// processed immediately.
func (w *Delivery) handleSMS(ctx context.Context, msg model.DispatchMessage) {
	deliveredMessages.Inc()
	w.markProcessed(ctx, msg.NotificationID, true)
}

func (w *Delivery) markProcessed(ctx context.Context, id uuid.UUID, processed bool) {
	if err := w.repo.MarkProcessed(ctx, id, processed, time.Now().UTC()); err != nil {
		w.logger.ZL.Error().Err(err).Str("notification_id", id.String()).Msg("failed to update notification status")
	}
}
