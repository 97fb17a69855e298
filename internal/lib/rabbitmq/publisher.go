package rabbitmq

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"
)

// Publisher описывает публикацию сообщения в очередь.
// Вынесен в интерфейс, чтобы сервисы могли подменять его в тестах.
type Publisher interface {
	Publish(routingKey string, message any) error
}

// ChannelPublisher публикует сообщения через канал AMQP.
type ChannelPublisher struct {
	ch *amqp.Channel
}

// NewChannelPublisher создает Publisher поверх открытого канала.
func NewChannelPublisher(ch *amqp.Channel) *ChannelPublisher {
	return &ChannelPublisher{ch: ch}
}

// Publish сериализует сообщение в JSON и публикует его в default exchange
// с заданным routing key (именем очереди).
func (p *ChannelPublisher) Publish(routingKey string, message any) error {
	return PublishMessage(p.ch, "", routingKey, message)
}

// PublishMessage публикует сообщение в RabbitMQ.
func PublishMessage(ch *amqp.Channel, exchange string, routingkey string, message any) error {
	const op = "rabbitmq.PublishMessage"
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = ch.Publish(
		exchange,
		routingkey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
