package handlers

import (
	"context"
	"strconv"

	"UniVideo.com/cmd/api/handlers/pack"
	"UniVideo.com/cmd/model"
	"UniVideo.com/cmd/notification/service"
	"UniVideo.com/pkg/errno"
	"UniVideo.com/pkg/jwt"
	"github.com/cloudwego/hertz/pkg/app"
)

type ListParam struct {
	IsRead string `query:"is_read"`
	Limit  int    `query:"limit"`
	Offset int    `query:"offset"`
}

func recipient(c *app.RequestContext) model.Recipient {
	identity, _ := jwt.IdentityFrom(c)
	return model.ToUser(identity.UserID)
}

// List 个人通知与广播通知的并集
func List(ctx context.Context, c *app.RequestContext) {
	var param ListParam
	if err := c.BindAndValidate(&param); err != nil {
		pack.SendResponse(c, errno.ValidationErr, nil)
		return
	}
	var isRead *bool
	if param.IsRead != "" {
		v, err := strconv.ParseBool(param.IsRead)
		if err != nil {
			pack.SendResponse(c, errno.ValidationErr.WithMessage("is_read 参数无效"), nil)
			return
		}
		isRead = &v
	}
	res, err := service.NewNotificationService(ctx, nil).List(recipient(c), isRead, param.Limit, param.Offset)
	if err != nil {
		pack.SendResponse(c, err, nil)
		return
	}
	pack.SendResponse(c, errno.Success, res)
}

func UnreadCount(ctx context.Context, c *app.RequestContext) {
	count, err := service.NewNotificationService(ctx, nil).UnreadCount(recipient(c))
	if err != nil {
		pack.SendResponse(c, err, nil)
		return
	}
	pack.SendResponse(c, errno.Success, map[string]int64{"unread_count": count})
}

func MarkRead(ctx context.Context, c *app.RequestContext) {
	id, err := pack.PathID(c, "id")
	if err != nil {
		pack.SendResponse(c, err, nil)
		return
	}
	updated, err := service.NewNotificationService(ctx, nil).MarkRead(recipient(c), id)
	if err != nil {
		pack.SendResponse(c, err, nil)
		return
	}
	pack.SendResponse(c, errno.Success.WithMessage("已标记为已读"), map[string]int64{"updated_count": updated})
}

func MarkAllRead(ctx context.Context, c *app.RequestContext) {
	updated, err := service.NewNotificationService(ctx, nil).MarkAllRead(recipient(c))
	if err != nil {
		pack.SendResponse(c, err, nil)
		return
	}
	pack.SendResponse(c, errno.Success.WithMessage("全部标记为已读"), map[string]int64{"updated_count": updated})
}
