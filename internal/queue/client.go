package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"budgetmaster/internal/logger"
	"budgetmaster/internal/month"
)

// ErrMalformed marks a delivery that can never be processed.
var ErrMalformed = errors.New("malformed reconcile message")

// Handler processes one reconcile request.
type Handler func(ctx context.Context, msg *ReconcileMessage) error

// EventHandler processes one budgets-changed event.
type EventHandler func(ctx context.Context, msg *BudgetsChangedMessage) error

// Client publishes and consumes reconcile requests on a durable direct
// exchange, and budget change events on a fanout exchange named
// "<exchange>.events".
type Client struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	queueName    string
}

// EventsExchange returns the fanout exchange for budget change events.
func (c *Client) EventsExchange() string {
	return c.exchangeName + ".events"
}

// NewClient dials url and declares the exchange, queue and binding.
func NewClient(url, exchangeName, queueName string) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	client := &Client{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		queueName:    queueName,
	}

	if err := client.setup(); err != nil {
		client.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return client, nil
}

func (c *Client) setup() error {
	err := c.channel.ExchangeDeclare(
		c.exchangeName, // name
		"direct",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	err = c.channel.ExchangeDeclare(
		c.EventsExchange(), // name
		"fanout",           // type
		true,               // durable
		false,              // auto-deleted
		false,              // internal
		false,              // no-wait
		nil,                // arguments
	)
	if err != nil {
		return fmt.Errorf("declare events exchange: %w", err)
	}

	_, err = c.channel.QueueDeclare(
		c.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	// Routing key is the queue name.
	err = c.channel.QueueBind(c.queueName, c.queueName, c.exchangeName, false, nil)
	if err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	return nil
}

// PublishReconcile publishes a reconcile request for one month.
func (c *Client) PublishReconcile(ctx context.Context, userID string, m month.Key) error {
	body, err := NewReconcileMessage(userID, m).ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = c.channel.PublishWithContext(
		ctx,
		c.exchangeName, // exchange
		c.queueName,    // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	logger.Named("queue").Debugw("published reconcile message",
		"user_id", userID,
		"month", m.String(),
		"exchange", c.exchangeName,
	)
	return nil
}

// ConsumeReconcile delivers messages to handler until ctx is cancelled.
// Failed messages are rejected without requeue; the next ledger change
// publishes a fresh request.
func (c *Client) ConsumeReconcile(ctx context.Context, handler Handler) error {
	if err := c.channel.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}

	msgs, err := c.channel.Consume(
		c.queueName, // queue
		"",          // consumer
		false,       // auto-ack
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	log := logger.Named("queue")
	log.Infow("started consuming reconcile messages", "queue", c.queueName)

	for {
		select {
		case <-ctx.Done():
			log.Infow("stopping message consumption", "reason", ctx.Err())
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return fmt.Errorf("message channel closed")
			}

			if err := Dispatch(ctx, delivery.Body, handler); err != nil {
				log.Errorw("failed to handle reconcile message", "error", err)
				_ = delivery.Nack(false, false)
				continue
			}
			_ = delivery.Ack(false)
		}
	}
}

// Dispatch decodes body and passes it to handler.
func Dispatch(ctx context.Context, body []byte, handler Handler) error {
	msg, err := ReconcileMessageFromJSON(body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return handler(ctx, msg)
}

// PublishBudgetsChanged announces budgets changed by this process to every
// API instance.
func (c *Client) PublishBudgetsChanged(ctx context.Context, userID string, months ...month.Key) error {
	body, err := NewBudgetsChangedMessage(userID, months...).ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = c.channel.PublishWithContext(
		ctx,
		c.EventsExchange(), // exchange
		"",                 // routing key
		false,              // mandatory
		false,              // immediate
		amqp091.Publishing{
			ContentType: "application/json",
			Timestamp:   time.Now(),
			Body:        body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

// ConsumeBudgetEvents delivers budget change events to handler until ctx is
// cancelled. Each caller gets its own exclusive queue, so every API instance
// sees every event. Events are auto-acked; a missed event only leaves a
// month cached until its next local change.
func (c *Client) ConsumeBudgetEvents(ctx context.Context, handler EventHandler) error {
	q, err := c.channel.QueueDeclare(
		"",    // name, server generated
		false, // durable
		true,  // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("declare events queue: %w", err)
	}
	if err := c.channel.QueueBind(q.Name, "", c.EventsExchange(), false, nil); err != nil {
		return fmt.Errorf("bind events queue: %w", err)
	}

	msgs, err := c.channel.Consume(
		q.Name, // queue
		"",     // consumer
		true,   // auto-ack
		true,   // exclusive
		false,  // no-local
		false,  // no-wait
		nil,    // args
	)
	if err != nil {
		return fmt.Errorf("start consuming events: %w", err)
	}

	log := logger.Named("queue")
	log.Infow("started consuming budget events", "exchange", c.EventsExchange())

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return fmt.Errorf("event channel closed")
			}
			if err := DispatchEvent(ctx, delivery.Body, handler); err != nil {
				log.Warnw("failed to handle budget event", "error", err)
			}
		}
	}
}

// DispatchEvent decodes body and passes it to handler.
func DispatchEvent(ctx context.Context, body []byte, handler EventHandler) error {
	msg, err := BudgetsChangedMessageFromJSON(body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return handler(ctx, msg)
}

// Close closes the channel and connection.
func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
