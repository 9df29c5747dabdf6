package mq

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/rabbitmq/amqp091-go"
)

type Consumer struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
}

func NewConsumer(rabbitmqURL string) (*Consumer, error) {
	conn, err := amqp091.Dial(rabbitmqURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	// 设置QoS，限制未确认消息数量
	err = ch.Qos(
		10,    // prefetch count
		0,     // prefetch size
		false, // global
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	if err = setupTopology(ch); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to setup topology: %w", err)
	}

	return &Consumer{
		conn:    conn,
		channel: ch,
	}, nil
}

func (c *Consumer) ConsumeNotificationEvents(ctx context.Context, handler NotificationEventHandler) error {
	msgs, err := c.channel.Consume(
		NotificationEventQueue,
		"",    // consumer
		false, // auto-ack (设置为false，手动确认)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("failed to register a consumer: %w", err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				hlog.Info("Notification event consumer context cancelled")
				return
			case d, ok := <-msgs:
				if !ok {
					hlog.Info("Notification event consumer channel closed")
					return
				}
				dispatch(ctx, handler, d)
			}
		}
	}()

	return nil
}

// acknowledger 便于测试时替换 amqp091.Delivery
type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

func dispatch(ctx context.Context, handler NotificationEventHandler, d amqp091.Delivery) {
	handleDelivery(ctx, handler, d.Body, &d)
}

func handleDelivery(ctx context.Context, handler NotificationEventHandler, body []byte, ack acknowledger) {
	var event NotificationEvent
	if err := json.Unmarshal(body, &event); err != nil {
		hlog.Errorf("Failed to unmarshal notification event: %v", err)
		ack.Nack(false, false) // 拒绝消息，不重新入队
		return
	}

	// 推送失败不重新入队，通知本身已经落库
	if err := handler.HandleNotificationEvent(ctx, &event); err != nil {
		hlog.CtxWarnf(ctx, "Failed to handle notification event %s: %v", event.EventID, err)
		ack.Nack(false, false)
		return
	}
	ack.Ack(false)
}

func (c *Consumer) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
