// Package mq carries board activity messages over RabbitMQ or Google Cloud Pub/Sub.
package mq

import (
	"context"
	"fmt"

	"github.com/taskboard-pm/apiserver/config"
)

// Supported MQ_BACKEND values.
const (
	BackendRabbitMQ = "rabbitmq"
	BackendPubSub   = "pubsub"
)

// AttrContentType is the attribute carrying the payload media type.
const AttrContentType = "content-type"

// Message is a broker-agnostic delivery.
type Message struct {
	ID         string
	Data       []byte
	Attributes map[string]string
}

// Handler processes a message. A returned error asks the broker to redeliver it.
type Handler func(ctx context.Context, msg Message) error

// Backend is implemented by every broker client.
type Backend interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
	Subscribe(ctx context.Context, channel string, handler Handler) error
	Close() error
}

// Open connects to the broker selected by cfg.Backend. It returns a nil
// Backend and no error when no backend is configured.
func Open(ctx context.Context, cfg config.MQConfig) (Backend, error) {
	var (
		backend Backend
		err     error
	)
	switch cfg.Backend {
	case "":
		return nil, nil
	case BackendRabbitMQ:
		backend, err = NewRabbitMQClient(cfg.RabbitMQ)
	case BackendPubSub:
		backend, err = NewPubSubClient(ctx, cfg.PubSub)
	default:
		return nil, fmt.Errorf("unknown mq backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	return backend, nil
}
