package notify

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/atinyakov/TodoKeeper/internal/models"
)

// RoutingKeyPasswordReset is the routing key of reset events.
const RoutingKeyPasswordReset = "auth.password_reset"

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPNotifier publishes reset events to a topic exchange.
type AMQPNotifier struct {
	conn     *amqp.Connection
	ch       channel
	exchange string
}

// NewAMQPNotifier dials url and declares a durable topic exchange.
func NewAMQPNotifier(url, exchange string) (*AMQPNotifier, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &AMQPNotifier{conn: conn, ch: ch, exchange: exchange}, nil
}

// NotifyPasswordReset publishes ev as JSON.
func (n *AMQPNotifier) NotifyPasswordReset(ctx context.Context, ev models.PasswordReset) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode reset event: %w", err)
	}
	err = n.ch.PublishWithContext(ctx, n.exchange, RoutingKeyPasswordReset, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish reset event: %w", err)
	}
	return nil
}

// Close releases the channel and the connection.
func (n *AMQPNotifier) Close() error {
	if n.ch != nil {
		_ = n.ch.Close()
	}
	if n.conn != nil {
		return n.conn.Close()
	}
	return nil
}
