package messaging

import (
	"context"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"
)

// RabbitBroker shares one connection between publishing and listening.
// Every listener gets its own channel.
type RabbitBroker struct {
	prefix string
	conn   *amqp.Connection
}

func Connect(cfg RabbitConfig, topics ...ChangeTopic) (*RabbitBroker, error) {
	conn, err := amqp.DialConfig(cfg.Url, amqp.Config{
		Vhost:      cfg.VHost,
		Properties: amqp.NewConnectionProperties(),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to rabbit: %w", err)
	}
	b := &RabbitBroker{prefix: cfg.Prefix, conn: conn}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	defer ch.Close()
	for _, topic := range topics {
		if err := DefineTopic(ch, cfg.Prefix, topic); err != nil {
			conn.Close()
			return nil, fmt.Errorf("define topic %s: %w", topic, err)
		}
	}
	log.WithField("topics", topics).Info("Connected to rabbit")
	return b, nil
}

func (b *RabbitBroker) Publish(ctx context.Context, topic ChangeTopic, data any) error {
	return SendChange(ctx, b.conn, b.prefix, topic, data)
}

var ErrConnectionLost = errors.New("rabbit connection lost")

// Watch blocks until ctx is done or the connection closes. An unexpected
// close is returned as an error, a close through Close is not.
func (b *RabbitBroker) Watch(ctx context.Context) error {
	if b.conn.IsClosed() {
		return ErrConnectionLost
	}
	return waitForClose(ctx, b.conn.NotifyClose(make(chan *amqp.Error, 1)))
}

func waitForClose(ctx context.Context, closed <-chan *amqp.Error) error {
	select {
	case <-ctx.Done():
		return nil
	case amqpErr, ok := <-closed:
		if !ok || amqpErr == nil {
			return nil
		}
		log.WithError(amqpErr).Error("Rabbit connection closed")
		return fmt.Errorf("%w: %v", ErrConnectionLost, amqpErr)
	}
}

func (b *RabbitBroker) Close() error {
	return b.conn.Close()
}

// Subscribe decodes every message on topic into V before calling handler.
func Subscribe[V any](b *RabbitBroker, topic ChangeTopic, handler func(V) error) error {
	ch, err := b.conn.Channel()
	if err != nil {
		return err
	}
	if err := ListenToTopic(ch, b.prefix, topic, decodeBody(handler)); err != nil {
		ch.Close()
		return err
	}
	return nil
}
