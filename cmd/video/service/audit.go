package service

import (
	"fmt"
	"strings"

	"UniVideo.com/cmd/model"
	notifyservice "UniVideo.com/cmd/notification/service"
	"UniVideo.com/cmd/video/dal/db"
	"UniVideo.com/pkg/constants"
	"UniVideo.com/pkg/errno"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"gorm.io/gorm"
)

type DecideResult struct {
	VideoID    int64             `json:"video_id"`
	Title      string            `json:"title"`
	NewStatus  model.VideoStatus `json:"new_status"`
	StatusText string            `json:"status_text"`
}

func invalidTransition(current model.VideoStatus) error {
	return errno.InvalidTransitionErr.WithMessagef(`该视频当前状态为"%s"，无法重复审核`, current.Label())
}

// auditNotification 审核结果通知，驳回时附带理由
func auditNotification(v *model.Video, to model.VideoStatus, reason string) *notifyservice.NotifyRequest {
	req := &notifyservice.NotifyRequest{
		Recipient: model.ToUser(v.UserID),
		Title:     constants.AuditNotificationTitle,
		Type:      model.NotificationAudit,
		VideoID:   &v.ID,
	}
	if to == model.VideoPublished {
		req.Content = fmt.Sprintf("您的视频《%s》已通过审核并发布", v.Title)
		req.RelatedLink = fmt.Sprintf("/video/%d", v.ID)
		return req
	}
	req.Content = fmt.Sprintf("您的视频《%s》未通过审核", v.Title)
	if reason != "" {
		req.Content += "，驳回理由：" + reason
		req.Extra = map[string]interface{}{"reason": reason}
	}
	req.RelatedLink = "/upload"
	return req
}

// Decide 审核视频：状态变更与审核通知在同一事务中提交
func (s *VideoService) Decide(videoId int64, decision model.Decision, reason string) (*DecideResult, error) {
	to, ok := decision.Target()
	if !ok {
		return nil, errno.ValidationErr.WithMessage("action 参数无效，仅支持 approve 或 reject")
	}
	reason = strings.TrimSpace(reason)

	var (
		video        *model.Video
		notification *model.Notification
	)
	err := db.DB.WithContext(s.ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		video, err = db.GetVideoForUpdate(s.ctx, tx, videoId)
		if err != nil {
			return err
		}
		if video == nil {
			return errno.NotFoundErr.WithMessage("视频不存在")
		}
		if video.Status != model.VideoPending {
			return invalidTransition(video.Status)
		}

		rows, err := db.TransitionStatus(s.ctx, tx, videoId, model.VideoPending, to)
		if err != nil {
			return err
		}
		if rows == 0 {
			return errno.InvalidTransitionErr.WithMessage("该视频已被其他管理员审核")
		}
		video.Status = to

		notification, err = s.notifier.NotifyTx(tx, auditNotification(video, to, reason))
		return err
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Publish(notification)
	hlog.CtxInfof(s.ctx, "video %d audited: %s", videoId, to)
	return &DecideResult{
		VideoID:    video.ID,
		Title:      video.Title,
		NewStatus:  to,
		StatusText: to.Label(),
	}, nil
}
