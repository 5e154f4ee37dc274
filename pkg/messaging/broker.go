package messaging

import (
	"context"
)

// Broker is a point-to-point message queue. Publish appends a message
// to the named queue; Subscribe delivers queued messages in FIFO order
// to a consumer. Delivery is at-most-once per message: once handed to
// a consumer the broker does not redeliver it, whatever the outcome.
type Broker interface {
	Publish(ctx context.Context, queue string, message interface{}) error
	Subscribe(ctx context.Context, queue string) (<-chan []byte, error)
	Close() error
}
