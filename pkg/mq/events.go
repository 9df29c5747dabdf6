package mq

import (
	"time"

	"UniVideo.com/cmd/model"
	"github.com/google/uuid"
)

// NotificationEvent 通知落库并提交后发出，用于实时推送
type NotificationEvent struct {
	EventID        string  `json:"event_id"`
	NotificationID int64   `json:"notification_id"`
	UserID         *int64  `json:"user_id"` // 为空表示广播
	Title          string  `json:"title"`
	Content        string  `json:"content"`
	MsgType        string  `json:"msg_type"`
	RelatedLink    *string `json:"related_link,omitempty"`
	VideoID        *int64  `json:"video_id,omitempty"`
	Timestamp      int64   `json:"timestamp"`
}

func NewNotificationEvent(n *model.Notification) *NotificationEvent {
	return &NotificationEvent{
		EventID:        uuid.NewString(),
		NotificationID: n.ID,
		UserID:         n.UserID,
		Title:          n.Title,
		Content:        n.Content,
		MsgType:        string(n.MsgType),
		RelatedLink:    n.RelatedLink,
		VideoID:        n.VideoID,
		Timestamp:      time.Now().Unix(),
	}
}

func (e *NotificationEvent) Recipient() model.Recipient {
	return model.RecipientFromColumn(e.UserID)
}

const (
	NotificationEventExchange = "notification_events"
	NotificationEventQueue    = "notification_event_queue"
)
