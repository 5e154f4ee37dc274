package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/notifyhq/notify-api/pkg/messaging"
)

// popTimeout bounds each blocking pop so the consumer goroutine can
// notice context cancellation between messages.
const popTimeout = 5 * time.Second

type RedisBroker struct {
	client *redis.Client
	logger *zerolog.Logger
}

type Config struct {
	URL          string
	MaxRetries   int
	RetryBackoff time.Duration
	PoolSize     int
	MinIdleConns int
}

func NewRedisBroker(config Config, logger *zerolog.Logger) (messaging.Broker, error) {
	opts, err := redis.ParseURL(config.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opts.MaxRetries = config.MaxRetries
	opts.MinRetryBackoff = config.RetryBackoff
	opts.PoolSize = config.PoolSize
	opts.MinIdleConns = config.MinIdleConns

	client := redis.NewClient(opts)

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisBroker{
		client: client,
		logger: logger,
	}, nil
}

// Publish appends the message to the tail of the queue list.
func (b *RedisBroker) Publish(ctx context.Context, queue string, message interface{}) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	return b.client.LPush(ctx, queue, payload).Err()
}

// Subscribe pops messages from the queue list with BRPOP, preserving
// FIFO order, and forwards them on the returned channel until the
// context is cancelled.
func (b *RedisBroker) Subscribe(ctx context.Context, queue string) (<-chan []byte, error) {
	msgChan := make(chan []byte, 100)

	go func() {
		defer close(msgChan)

		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			res, err := b.client.BRPop(ctx, popTimeout, queue).Result()
			if err != nil {
				if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) {
					continue
				}
				b.logger.Error().Err(err).Str("queue", queue).Msg("failed to pop message")
				continue
			}

			// BRPOP returns [key, value]
			if len(res) == 2 {
				msgChan <- []byte(res[1])
			}
		}
	}()

	return msgChan, nil
}

func (b *RedisBroker) Close() error {
	return b.client.Close()
}
