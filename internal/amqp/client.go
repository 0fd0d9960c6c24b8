package amqp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

type Client struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	queueName    string
}

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

	err = c.channel.QueueBind(
		c.queueName,    // queue name
		c.queueName,    // routing key (same as queue name for direct exchange)
		c.exchangeName, // exchange
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	return nil
}

func (c *Client) publish(ctx context.Context, kind string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	body, err := json.Marshal(Envelope{Kind: kind, Payload: raw})
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
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
	return nil
}

// PublishTransactionChanged announces a change to the transaction set.
func (c *Client) PublishTransactionChanged(ctx context.Context, msg *TransactionChangedMessage) error {
	if err := c.publish(ctx, KindTransactionChanged, msg); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Published transaction change",
		"op", msg.Op,
		"ids", msg.IDs,
		"exchange", c.exchangeName,
		"queue", c.queueName)
	return nil
}

// PublishStatementRecorded announces an archived statement.
func (c *Client) PublishStatementRecorded(ctx context.Context, msg *StatementRecordedMessage) error {
	if err := c.publish(ctx, KindStatementRecorded, msg); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Published statement record",
		"statement_id", msg.StatementID,
		"year", msg.Year,
		"month", msg.Month)
	return nil
}

// Handler receives decoded messages from Consume. Exactly one of the two
// arguments is non-nil per call.
type Handler func(tx *TransactionChangedMessage, st *StatementRecordedMessage) error

// Consume reads envelopes from the queue until ctx is cancelled. Messages
// that fail to decode are rejected without requeue; handler errors requeue.
func (c *Client) Consume(ctx context.Context, handler Handler) error {
	msgs, err := c.channel.Consume(
		c.queueName, // queue
		"",          // consumer
		false,       // auto-ack (we want manual ack)
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	slog.InfoContext(ctx, "Started consuming finance events", "queue", c.queueName)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping message consumption", "reason", ctx.Err())
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return fmt.Errorf("message channel closed")
			}

			var env Envelope
			if err := json.Unmarshal(delivery.Body, &env); err != nil {
				slog.ErrorContext(ctx, "Failed to unmarshal envelope", "error", err)
				delivery.Nack(false, false)
				continue
			}

			var handleErr error
			switch env.Kind {
			case KindTransactionChanged:
				msg, err := TransactionChangedFromJSON(env.Payload)
				if err != nil {
					slog.ErrorContext(ctx, "Bad transaction change payload", "error", err)
					delivery.Nack(false, false)
					continue
				}
				handleErr = handler(msg, nil)
			case KindStatementRecorded:
				msg, err := StatementRecordedFromJSON(env.Payload)
				if err != nil {
					slog.ErrorContext(ctx, "Bad statement record payload", "error", err)
					delivery.Nack(false, false)
					continue
				}
				handleErr = handler(nil, msg)
			default:
				slog.WarnContext(ctx, "Unknown message kind", "kind", env.Kind)
				delivery.Nack(false, false)
				continue
			}

			if handleErr != nil {
				slog.ErrorContext(ctx, "Failed to handle message",
					"error", handleErr,
					"kind", env.Kind)
				delivery.Nack(false, true) // requeue for retry
				continue
			}
			delivery.Ack(false)
		}
	}
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
