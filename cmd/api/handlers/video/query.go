package handlers

import (
	"context"

	"UniVideo.com/cmd/api/handlers/pack"
	"UniVideo.com/cmd/video/service"
	"UniVideo.com/pkg/errno"
	"UniVideo.com/pkg/utils"
	"github.com/cloudwego/hertz/pkg/app"
)

func List(ctx context.Context, c *app.RequestContext) {
	var param ListParam
	if err := c.BindAndValidate(&param); err != nil {
		pack.SendResponse(c, errno.ValidationErr, nil)
		return
	}
	categoryId, ok := utils.ParseOptionalID(param.CategoryID)
	if !ok {
		pack.SendResponse(c, errno.ValidationErr.WithMessage("无效的分类"), nil)
		return
	}
	videos, err := service.NewVideoService(ctx, store, nil).ListPublished(categoryId)
	if err != nil {
		pack.SendResponse(c, err, nil)
		return
	}
	pack.SendResponse(c, errno.Success, videos)
}

// Detail 每次成功获取详情都计一次播放
func Detail(ctx context.Context, c *app.RequestContext) {
	videoId, err := pack.PathID(c, "id")
	if err != nil {
		pack.SendResponse(c, err, nil)
		return
	}
	view, err := service.NewVideoService(ctx, store, nil).Detail(viewer(c), videoId)
	if err != nil {
		pack.SendResponse(c, err, nil)
		return
	}
	pack.SendResponse(c, errno.Success, view)
}

func Categories(ctx context.Context, c *app.RequestContext) {
	categories, err := service.NewVideoService(ctx, store, nil).ListCategories()
	if err != nil {
		pack.SendResponse(c, err, nil)
		return
	}
	pack.SendResponse(c, errno.Success, categories)
}
