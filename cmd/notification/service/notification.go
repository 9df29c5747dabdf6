package service

import (
	"context"
	"encoding/json"
	"strings"

	"UniVideo.com/cmd/model"
	"UniVideo.com/cmd/notification/dal/db"
	userdb "UniVideo.com/cmd/user/dal/db"
	"UniVideo.com/pkg/constants"
	"UniVideo.com/pkg/errno"
	"UniVideo.com/pkg/mq"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type NotificationService struct {
	ctx       context.Context
	publisher mq.EventPublisher
}

// NewNotificationService publisher 为空时只落库不推送
func NewNotificationService(ctx context.Context, publisher mq.EventPublisher) *NotificationService {
	return &NotificationService{ctx: ctx, publisher: publisher}
}

type NotifyRequest struct {
	Recipient   model.Recipient
	Title       string
	Content     string
	Type        model.NotificationType
	RelatedLink string
	VideoID     *int64
	Extra       map[string]interface{}
}

func (req *NotifyRequest) build() (*model.Notification, error) {
	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)
	if title == "" {
		return nil, errno.ValidationErr.WithMessage("缺少必填字段：title")
	}
	if content == "" {
		return nil, errno.ValidationErr.WithMessage("缺少必填字段：content")
	}
	msgType := req.Type
	if msgType == "" {
		msgType = model.NotificationSystem
	}
	if !msgType.Valid() {
		return nil, errno.ValidationErr.WithMessage("msg_type 参数无效，仅支持: system, audit, interaction")
	}

	n := &model.Notification{
		Title:   title,
		Content: content,
		MsgType: msgType,
		UserID:  req.Recipient.Column(),
		VideoID: req.VideoID,
	}
	if link := strings.TrimSpace(req.RelatedLink); link != "" {
		n.RelatedLink = &link
	}
	if len(req.Extra) > 0 {
		b, err := json.Marshal(req.Extra)
		if err != nil {
			return nil, errors.WithMessage(err, "marshal extra_data")
		}
		extra := string(b)
		n.ExtraData = &extra
	}
	return n, nil
}

// NotifyTx 在调用方的事务里写入通知，提交后由调用方调用 Publish
func (s *NotificationService) NotifyTx(tx *gorm.DB, req *NotifyRequest) (*model.Notification, error) {
	n, err := req.build()
	if err != nil {
		return nil, err
	}
	if err = db.CreateNotification(s.ctx, tx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *NotificationService) Notify(req *NotifyRequest) (*model.Notification, error) {
	n, err := s.NotifyTx(nil, req)
	if err != nil {
		return nil, err
	}
	s.Publish(n)
	return n, nil
}

// Publish 实时推送，失败只记录日志
func (s *NotificationService) Publish(n *model.Notification) {
	if s.publisher == nil || n == nil {
		return
	}
	if err := s.publisher.PublishNotificationEvent(s.ctx, mq.NewNotificationEvent(n)); err != nil {
		hlog.CtxWarnf(s.ctx, "publish notification %d failed: %v", n.ID, err)
	}
}

type SendRequest struct {
	TargetUsername string `json:"target_username"`
	Title          string `json:"title"`
	Content        string `json:"content"`
	MsgType        string `json:"msg_type"`
	RelatedLink    string `json:"related_link"`
}

type SendResult struct {
	NotificationID int64                  `json:"notification_id"`
	Title          string                 `json:"title"`
	MsgType        model.NotificationType `json:"msg_type"`
	UserID         *int64                 `json:"user_id"`
	TargetUsername string                 `json:"target_username"`
}

// SendByUsername 管理员发送通知，用户名为空时广播
func (s *NotificationService) SendByUsername(req *SendRequest) (*SendResult, error) {
	target := strings.TrimSpace(req.TargetUsername)
	recipient := model.Broadcast()
	if target != "" {
		user, err := userdb.GetUserByName(s.ctx, target)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, errno.NotFoundErr.WithMessagef("找不到用户: %s", target)
		}
		recipient = model.ToUser(user.ID)
	}

	n, err := s.Notify(&NotifyRequest{
		Recipient:   recipient,
		Title:       req.Title,
		Content:     req.Content,
		Type:        model.NotificationType(strings.TrimSpace(req.MsgType)),
		RelatedLink: req.RelatedLink,
	})
	if err != nil {
		return nil, err
	}
	if target == "" {
		target = constants.BroadcastDisplayName
	}
	hlog.CtxInfof(s.ctx, "notification %d sent to %s", n.ID, target)
	return &SendResult{
		NotificationID: n.ID,
		Title:          n.Title,
		MsgType:        n.MsgType,
		UserID:         n.UserID,
		TargetUsername: target,
	}, nil
}

type ListResult struct {
	Total int64                 `json:"total"`
	List  []*model.Notification `json:"list"`
}

func (s *NotificationService) List(r model.Recipient, isRead *bool, limit, offset int) (*ListResult, error) {
	if limit <= 0 {
		limit = constants.DefaultNotificationLimit
	}
	if limit > constants.MaxNotificationLimit {
		limit = constants.MaxNotificationLimit
	}
	if offset < 0 {
		offset = 0
	}
	list, total, err := db.ListNotifications(s.ctx, r, isRead, limit, offset)
	if err != nil {
		return nil, err
	}
	return &ListResult{Total: total, List: list}, nil
}

// MarkRead 只能标记自己可见的通知，已读的返回 0
func (s *NotificationService) MarkRead(r model.Recipient, id int64) (int64, error) {
	n, err := db.GetNotification(s.ctx, id)
	if err != nil {
		return 0, err
	}
	if n == nil {
		return 0, errno.NotFoundErr.WithMessage("通知不存在")
	}
	if !r.Visible(n) {
		return 0, errno.ForbiddenErr.WithMessage("无权操作该通知")
	}
	if n.IsRead {
		return 0, nil
	}
	return db.MarkRead(s.ctx, id)
}

func (s *NotificationService) MarkAllRead(r model.Recipient) (int64, error) {
	return db.MarkAllRead(s.ctx, r)
}

func (s *NotificationService) UnreadCount(r model.Recipient) (int64, error) {
	return db.UnreadCount(s.ctx, r)
}
