package rabbitmq

import (
	"fmt"

	"github.com/streadway/amqp"
)

// MailQueue — очередь почтовых заданий, публикуемых API и
// потребляемых воркером отправки писем.
const MailQueue = "mail.outbound"

// QueueConfig описывает объявляемую очередь.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetMailQueues возвращает очереди почтового конвейера.
func GetMailQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: MailQueue, RoutingKey: MailQueue},
	}
}

// SetupChannel открывает канал и объявляет переданные очереди.
// Очереди объявляются durable, сообщения переживают рестарт брокера.
func SetupChannel(conn *amqp.Connection, queues []QueueConfig) (*amqp.Channel, error) {
	const op = "rabbitmq.SetupChannel"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, q := range queues {
		_, err = ch.QueueDeclare(
			q.QueueName,
			true,  // durable
			false, // autoDelete
			false, // exclusive
			false, // noWait
			nil,
		)
		if err != nil {
			ch.Close()
			return nil, fmt.Errorf("%s: declare %s: %w", op, q.QueueName, err)
		}
	}
	return ch, nil
}
