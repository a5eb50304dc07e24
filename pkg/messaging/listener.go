package messaging

import (
	amqp "github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"

	"github.com/matst80/slask-storefront/pkg/common/jsoncompat"
)

func DeclareBindAndConsume(ch *amqp.Channel, prefix string, topic ChangeTopic) (<-chan amqp.Delivery, error) {
	name := getName(prefix, topic)
	q, err := ch.QueueDeclare(
		"",    // name
		false, // durable
		false, // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return nil, err
	}
	err = ch.QueueBind(q.Name, name, name, false, nil)
	if err != nil {
		return nil, err
	}
	return ch.Consume(
		q.Name,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
}

// ListenToTopic consumes topic until the channel closes. Messages the
// handler rejects are dropped without requeue.
func ListenToTopic(ch *amqp.Channel, prefix string, topic ChangeTopic, handler func(amqp.Delivery) error) error {
	fc, err := DeclareBindAndConsume(ch, prefix, topic)
	if err != nil {
		return err
	}

	go func(msgs <-chan amqp.Delivery) {
		defer ch.Close()
		for d := range msgs {
			if err := handler(d); err != nil {
				log.WithError(err).WithField("topic", topic).Error("Error processing message")
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
		log.WithField("topic", topic).Info("Stopped listening")
	}(fc)
	return nil
}

func decodeBody[V any](handler func(V) error) func(amqp.Delivery) error {
	return func(d amqp.Delivery) error {
		var data V
		if err := jsoncompat.Unmarshal(d.Body, &data); err != nil {
			return err
		}
		return handler(data)
	}
}
