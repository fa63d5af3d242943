// Package events publishes board activity to the message queue and applies it
// in the activity worker.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/taskboard-pm/apiserver/internal/logger"
	"github.com/taskboard-pm/apiserver/internal/mq"
	"github.com/taskboard-pm/apiserver/types"
)

const contentTypeJSON = "application/json"

// Publisher sends activity records to a channel. A nil backend turns Publish into a no-op.
type Publisher struct {
	backend mq.Backend
	channel string
	now     func() time.Time
}

func NewPublisher(backend mq.Backend, channel string) *Publisher {
	return &Publisher{backend: backend, channel: channel, now: time.Now}
}

// Publish stamps the activity and sends it. Failures are logged and dropped:
// the change the activity describes has already been committed.
func (p *Publisher) Publish(ctx context.Context, activity types.Activity) {
	if p == nil || p.backend == nil {
		return
	}
	if activity.OccurredAt.IsZero() {
		activity.OccurredAt = p.now().UTC()
	}

	log := logger.Log(ctx).With(
		zap.String("kind", activity.Kind),
		zap.String("board_id", activity.BoardID),
		zap.String("resource_id", activity.ResourceID),
	)

	data, err := json.Marshal(activity)
	if err != nil {
		log.Error(ctx, "failed to encode activity", zap.Error(err))
		return
	}

	attrs := map[string]string{
		mq.AttrContentType: contentTypeJSON,
		"kind":             activity.Kind,
	}
	if _, err := p.backend.Publish(ctx, p.channel, data, attrs); err != nil {
		log.Warn(ctx, "failed to publish activity", zap.Error(err))
		return
	}
	log.Debug(ctx, "activity published")
}

// BoardToucher records the latest activity time of a board.
type BoardToucher interface {
	Touch(ctx context.Context, boardID string, at time.Time) error
}

// Consumer applies activity records delivered by the broker.
type Consumer struct {
	backend mq.Backend
	channel string
	boards  BoardToucher
}

func NewConsumer(backend mq.Backend, channel string, boards BoardToucher) *Consumer {
	return &Consumer{backend: backend, channel: channel, boards: boards}
}

// Run blocks until ctx is cancelled or the subscription fails.
func (c *Consumer) Run(ctx context.Context) error {
	logger.Log(ctx).Info(ctx, "activity consumer started", zap.String("channel", c.channel))
	return c.backend.Subscribe(ctx, c.channel, c.Handle)
}

// Handle applies one delivery. Undecodable payloads are acknowledged and
// dropped since redelivery cannot fix them.
func (c *Consumer) Handle(ctx context.Context, msg mq.Message) error {
	log := logger.Log(ctx).With(zap.String("message_id", msg.ID))

	var activity types.Activity
	if err := json.Unmarshal(msg.Data, &activity); err != nil {
		log.Warn(ctx, "dropping malformed activity", zap.Error(err))
		return nil
	}
	if activity.BoardID == "" {
		log.Warn(ctx, "dropping activity without board", zap.String("kind", activity.Kind))
		return nil
	}
	if activity.OccurredAt.IsZero() {
		activity.OccurredAt = time.Now().UTC()
	}

	if err := c.boards.Touch(ctx, activity.BoardID, activity.OccurredAt); err != nil {
		return fmt.Errorf("touch board %s: %w", activity.BoardID, err)
	}
	log.Debug(ctx, "activity applied", zap.String("kind", activity.Kind), zap.String("board_id", activity.BoardID))
	return nil
}
