package handlers

import (
	"context"

	"UniVideo.com/cmd/api/handlers/pack"
	"UniVideo.com/cmd/model"
	notifyservice "UniVideo.com/cmd/notification/service"
	"UniVideo.com/cmd/user/service"
	"UniVideo.com/pkg/errno"
	"github.com/cloudwego/hertz/pkg/app"
)

func ListUsers(ctx context.Context, c *app.RequestContext) {
	var param UserListParam
	if err := c.BindAndValidate(&param); err != nil {
		pack.SendResponse(c, errno.ValidationErr, nil)
		return
	}
	page, err := service.NewUserService(ctx).ListUsers(param.Page, param.PerPage, param.Keyword)
	if err != nil {
		pack.SendResponse(c, err, nil)
		return
	}
	pack.SendResponse(c, errno.Success, page)
}

func UpdateUserStatus(ctx context.Context, c *app.RequestContext) {
	userId, err := pack.PathID(c, "id")
	if err != nil {
		pack.SendResponse(c, err, nil)
		return
	}
	var param UserStatusParam
	if err = c.BindAndValidate(&param); err != nil {
		pack.SendResponse(c, errno.ValidationErr.WithMessage("请求参数格式错误"), nil)
		return
	}
	user, err := service.NewUserService(ctx).UpdateStatus(userId, model.UserStatus(param.Status))
	if err != nil {
		pack.SendResponse(c, err, nil)
		return
	}
	pack.SendResponse(c, errno.Success, user)
}

// SendNotification 用户名为空时发送全站广播
func SendNotification(ctx context.Context, c *app.RequestContext) {
	var req notifyservice.SendRequest
	if err := c.BindAndValidate(&req); err != nil {
		pack.SendResponse(c, errno.ValidationErr.WithMessage("请求参数格式错误"), nil)
		return
	}
	res, err := notifyservice.NewNotificationService(ctx, publisher).SendByUsername(&req)
	if err != nil {
		pack.SendResponse(c, err, nil)
		return
	}
	pack.SendResponse(c, errno.Success.WithMessage("通知发送成功"), res)
}
