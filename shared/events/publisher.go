package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Publisher appends payment events to Redis streams. Each entry carries the
// JSON encoded Event under the "event" field.
type Publisher struct {
	client *redis.Client
	logger *zap.Logger
	now    func() time.Time
}

// NewPublisher binds a publisher to the client. A nil logger is replaced by a no-op one.
func NewPublisher(client *redis.Client, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{client: client, logger: logger, now: time.Now}
}

func (p *Publisher) Publish(ctx context.Context, stream, eventType string, data any) error {
	payload, err := json.Marshal(Event{
		Type:      eventType,
		Timestamp: p.now().UTC(),
		Data:      data,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", eventType, err)
	}

	id, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]any{"event": payload},
	}).Result()
	if err != nil {
		return fmt.Errorf("failed to publish event %s to %s: %w", eventType, stream, err)
	}

	p.logger.Debug("event published",
		zap.String("stream", stream),
		zap.String("type", eventType),
		zap.String("id", id),
	)
	return nil
}
