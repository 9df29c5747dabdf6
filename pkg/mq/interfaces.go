package mq

import "context"

// EventPublisher 通知事件的发布方
type EventPublisher interface {
	PublishNotificationEvent(ctx context.Context, event *NotificationEvent) error
}

type NotificationEventHandler interface {
	HandleNotificationEvent(ctx context.Context, event *NotificationEvent) error
}

// 确保Producer实现EventPublisher接口
var _ EventPublisher = (*Producer)(nil)
