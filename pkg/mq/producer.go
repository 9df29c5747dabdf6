package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/rabbitmq/amqp091-go"
)

type Producer struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
}

func NewProducer(rabbitmqURL string) (*Producer, error) {
	conn, err := amqp091.Dial(rabbitmqURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	producer := &Producer{
		conn:    conn,
		channel: ch,
	}

	// 声明exchange和queue
	if err := setupTopology(ch); err != nil {
		producer.Close()
		return nil, fmt.Errorf("failed to setup topology: %w", err)
	}

	return producer, nil
}

func setupTopology(ch *amqp091.Channel) error {
	err := ch.ExchangeDeclare(
		NotificationEventExchange,
		"fanout",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare notification event exchange: %w", err)
	}

	_, err = ch.QueueDeclare(
		NotificationEventQueue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare notification event queue: %w", err)
	}

	err = ch.QueueBind(
		NotificationEventQueue,
		"",
		NotificationEventExchange,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to bind notification event queue: %w", err)
	}
	return nil
}

func encodeEvent(event *NotificationEvent) (amqp091.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp091.Publishing{}, fmt.Errorf("failed to marshal notification event: %w", err)
	}
	return amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		MessageId:    event.EventID,
		Timestamp:    time.Now(),
		Body:         body,
	}, nil
}

func (p *Producer) PublishNotificationEvent(ctx context.Context, event *NotificationEvent) error {
	msg, err := encodeEvent(event)
	if err != nil {
		return err
	}

	err = p.channel.PublishWithContext(
		ctx,
		NotificationEventExchange,
		"",
		false, // mandatory
		false, // immediate
		msg,
	)
	if err != nil {
		return fmt.Errorf("failed to publish notification event: %w", err)
	}

	hlog.CtxInfof(ctx, "Published notification event: id=%s notification=%d", event.EventID, event.NotificationID)
	return nil
}

func (p *Producer) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
