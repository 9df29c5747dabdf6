package handlers

import (
	"context"
	"time"

	"UniVideo.com/cmd/api/handlers/pack"
	"UniVideo.com/cmd/model"
	"UniVideo.com/cmd/video/service"
	"UniVideo.com/pkg/errno"
	"github.com/cloudwego/hertz/pkg/app"
)

func Audit(ctx context.Context, c *app.RequestContext) {
	videoId, err := pack.PathID(c, "id")
	if err != nil {
		pack.SendResponse(c, err, nil)
		return
	}
	var param AuditParam
	if err = c.BindAndValidate(&param); err != nil {
		pack.SendResponse(c, errno.ValidationErr.WithMessage("请求参数格式错误"), nil)
		return
	}
	res, err := service.NewVideoService(ctx, store, publisher).Decide(videoId, model.Decision(param.Action), param.Reason)
	if err != nil {
		pack.SendResponse(c, err, nil)
		return
	}
	pack.SendResponse(c, errno.Success.WithMessagef("审核完成，视频状态已更新为%s", res.StatusText), res)
}

func AuditList(ctx context.Context, c *app.RequestContext) {
	videos, err := service.NewVideoService(ctx, store, publisher).AuditQueue()
	if err != nil {
		pack.SendResponse(c, err, nil)
		return
	}
	pack.SendResponse(c, errno.Success, videos)
}

func ManageList(ctx context.Context, c *app.RequestContext) {
	var param ManageListParam
	if err := c.BindAndValidate(&param); err != nil {
		pack.SendResponse(c, errno.ValidationErr, nil)
		return
	}
	var status *model.VideoStatus
	if param.Status != "" {
		s := model.VideoStatus(param.Status)
		status = &s
	}
	videos, err := service.NewVideoService(ctx, store, publisher).ManageList(param.Keyword, status)
	if err != nil {
		pack.SendResponse(c, err, nil)
		return
	}
	pack.SendResponse(c, errno.Success, videos)
}

func Stats(ctx context.Context, c *app.RequestContext) {
	stats, err := service.NewVideoService(ctx, store, publisher).Stats(time.Now())
	if err != nil {
		pack.SendResponse(c, err, nil)
		return
	}
	pack.SendResponse(c, errno.Success, stats)
}

// DeleteVideo 文件删除失败不影响结果，deleted_files 只包含删除成功的文件
func DeleteVideo(ctx context.Context, c *app.RequestContext) {
	videoId, err := pack.PathID(c, "id")
	if err != nil {
		pack.SendResponse(c, err, nil)
		return
	}
	res, err := service.NewVideoService(ctx, store, publisher).Delete(videoId)
	if err != nil {
		pack.SendResponse(c, err, nil)
		return
	}
	pack.SendResponse(c, errno.Success.WithMessage("视频已删除"), res)
}
