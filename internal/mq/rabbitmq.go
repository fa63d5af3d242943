package mq

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/taskboard-pm/apiserver/config"
)

// RabbitMQClient publishes to and consumes from named queues on the default exchange.
type RabbitMQClient struct {
	conn    *amqp.Connection
	channel *amqp.Channel

	durable    bool
	autoDelete bool

	mu       sync.Mutex
	declared map[string]struct{}
}

func NewRabbitMQClient(cfg config.RabbitMQConfig) (*RabbitMQClient, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, errors.New("rabbitmq url is required")
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}

	if cfg.PrefetchCount > 0 {
		if err := ch.Qos(cfg.PrefetchCount, 0, false); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return nil, fmt.Errorf("set rabbitmq qos: %w", err)
		}
	}

	return &RabbitMQClient{
		conn:       conn,
		channel:    ch,
		durable:    cfg.QueueDurable,
		autoDelete: cfg.QueueAutoDelete,
		declared:   make(map[string]struct{}),
	}, nil
}

func (r *RabbitMQClient) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	if strings.TrimSpace(channel) == "" {
		return "", errors.New("rabbitmq channel is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.declare(channel); err != nil {
		return "", err
	}

	contentType := attrs[AttrContentType]
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	headers := amqp.Table{}
	for key, value := range attrs {
		if key != AttrContentType {
			headers[key] = value
		}
	}

	id := uuid.NewString()
	err := r.channel.PublishWithContext(ctx, "", channel, false, false, amqp.Publishing{
		ContentType:  contentType,
		DeliveryMode: amqp.Persistent,
		MessageId:    id,
		Headers:      headers,
		Body:         data,
	})
	if err != nil {
		return "", fmt.Errorf("publish to %s: %w", channel, err)
	}
	return id, nil
}

// Subscribe blocks until ctx is done or the delivery channel closes. A message
// whose handler fails is requeued once and dropped on the second failure.
func (r *RabbitMQClient) Subscribe(ctx context.Context, channel string, handler Handler) error {
	if strings.TrimSpace(channel) == "" {
		return errors.New("rabbitmq channel is required")
	}

	r.mu.Lock()
	err := r.declare(channel)
	r.mu.Unlock()
	if err != nil {
		return err
	}

	tag := "taskboard-" + uuid.NewString()
	deliveries, err := r.channel.Consume(channel, tag, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", channel, err)
	}
	defer func() {
		_ = r.channel.Cancel(tag, false)
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-deliveries:
			if !ok {
				return errors.New("rabbitmq delivery channel closed")
			}
			msg := Message{
				ID:         delivery.MessageId,
				Data:       delivery.Body,
				Attributes: headersToAttributes(delivery.Headers),
			}
			if delivery.ContentType != "" {
				if msg.Attributes == nil {
					msg.Attributes = map[string]string{}
				}
				msg.Attributes[AttrContentType] = delivery.ContentType
			}
			if err := handler(ctx, msg); err != nil {
				_ = delivery.Nack(false, !delivery.Redelivered)
				continue
			}
			_ = delivery.Ack(false)
		}
	}
}

func (r *RabbitMQClient) Close() error {
	if r.channel != nil {
		_ = r.channel.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}

// declare must be called with r.mu held.
func (r *RabbitMQClient) declare(name string) error {
	if _, ok := r.declared[name]; ok {
		return nil
	}
	if _, err := r.channel.QueueDeclare(name, r.durable, r.autoDelete, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", name, err)
	}
	r.declared[name] = struct{}{}
	return nil
}

func headersToAttributes(headers amqp.Table) map[string]string {
	if len(headers) == 0 {
		return nil
	}
	attrs := make(map[string]string, len(headers))
	for key, value := range headers {
		switch typed := value.(type) {
		case string:
			attrs[key] = typed
		case []byte:
			attrs[key] = string(typed)
		default:
			attrs[key] = fmt.Sprint(value)
		}
	}
	return attrs
}
