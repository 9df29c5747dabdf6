package handlers

import (
	"context"

	"UniVideo.com/cmd/api/handlers/pack"
	"UniVideo.com/cmd/interaction/service"
	"UniVideo.com/cmd/model"
	"UniVideo.com/pkg/errno"
	"UniVideo.com/pkg/jwt"
	"github.com/cloudwego/hertz/pkg/app"
)

func PostDanmaku(ctx context.Context, c *app.RequestContext) {
	identity, _ := jwt.IdentityFrom(c)
	videoId, err := pack.PathID(c, "id")
	if err != nil {
		pack.SendResponse(c, err, nil)
		return
	}
	var param DanmakuParam
	if err = c.BindAndValidate(&param); err != nil {
		pack.SendResponse(c, errno.ValidationErr.WithMessage("请求参数格式错误"), nil)
		return
	}
	d, err := service.NewInteractionService(ctx, guard).PostDanmaku(&service.PostDanmakuRequest{
		VideoID: videoId,
		UserID:  identity.UserID,
		Text:    param.Text,
		Time:    param.Time,
		Color:   param.Color,
		Mode:    model.DanmakuMode(param.Mode),
		Border:  param.Border,
	})
	if err != nil {
		pack.SendResponse(c, err, nil)
		return
	}
	pack.SendResponse(c, errno.Success, d)
}

func ListDanmaku(ctx context.Context, c *app.RequestContext) {
	videoId, err := pack.PathID(c, "id")
	if err != nil {
		pack.SendResponse(c, err, nil)
		return
	}
	list, err := service.NewInteractionService(ctx, guard).ListDanmaku(videoId)
	if err != nil {
		pack.SendResponse(c, err, nil)
		return
	}
	pack.SendResponse(c, errno.Success, list)
}
