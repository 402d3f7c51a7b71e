// Package events publishes user lifecycle events to Kafka. Publishing is
// best-effort: a missing broker or a failed write never fails the
// originating operation.
package events

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/dmitrijs2005/userhub/internal/logging"
)

// Event types emitted by the user service.
const (
	TypeUserCreated     = "user.created"
	TypeUserDeactivated = "user.deactivated"
	TypePasswordChanged = "user.password_changed"
)

// Event is the JSON envelope written to the topic, keyed by user id.
type Event struct {
	Type       string    `json:"type"`
	UserID     int64     `json:"user_id"`
	Email      string    `json:"email"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Producer struct {
	writer *kafka.Writer
	logger logging.Logger
}

// NewProducer builds a Kafka producer for user events. An empty broker
// address returns a nil producer; publishing on a nil producer is a no-op,
// so callers never need to branch on whether events are enabled.
func NewProducer(broker, topic string, logger logging.Logger) *Producer {
	if broker == "" {
		return nil
	}
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(broker),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireAll,
			WriteTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Publish emits one event. Errors are logged and swallowed.
func (p *Producer) Publish(ctx context.Context, eventType string, userID int64, email string) {
	if p == nil || p.writer == nil {
		return
	}

	value, err := json.Marshal(Event{
		Type:       eventType,
		UserID:     userID,
		Email:      email,
		OccurredAt: time.Now(),
	})
	if err != nil {
		p.logger.Error(ctx, "marshal user event", "type", eventType, "error", err)
		return
	}

	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = p.writer.WriteMessages(writeCtx, kafka.Message{
		Key:   []byte(strconv.FormatInt(userID, 10)),
		Value: value,
		Time:  time.Now(),
	})
	if err != nil {
		p.logger.Error(ctx, "publish user event", "type", eventType, "user_id", userID, "error", err)
	}
}

// Close flushes and closes the underlying writer.
func (p *Producer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
