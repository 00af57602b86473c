package event

import (
	"context"
	"time"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"

	"storefront/pkg/domain/service"
)

const publishTimeout = 5 * time.Second

type RabbitMQDispatcher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

func NewRabbitMQDispatcher(url, exchange string) (*RabbitMQDispatcher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, errors.Wrap(err, "dial rabbitmq")
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "open rabbitmq channel")
	}
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, errors.Wrapf(err, "declare exchange %s", exchange)
	}
	return &RabbitMQDispatcher{conn: conn, ch: ch, exchange: exchange}, nil
}

func (d *RabbitMQDispatcher) Dispatch(event service.Event) error {
	now := time.Now()
	body, err := encode(event, now)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	err = d.ch.PublishWithContext(ctx, d.exchange, RoutingKey(event.Type()), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    now,
		Type:         event.Type(),
		Body:         body,
	})
	return errors.Wrapf(err, "publish %s", event.Type())
}

func (d *RabbitMQDispatcher) Close() error {
	if err := d.ch.Close(); err != nil {
		_ = d.conn.Close()
		return errors.Wrap(err, "close rabbitmq channel")
	}
	return errors.Wrap(d.conn.Close(), "close rabbitmq connection")
}
