package handlers

import (
	"context"

	"UniVideo.com/cmd/api/handlers/pack"
	"UniVideo.com/cmd/interaction/service"
	"UniVideo.com/pkg/errno"
	"UniVideo.com/pkg/jwt"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
)

func PostComment(ctx context.Context, c *app.RequestContext) {
	identity, _ := jwt.IdentityFrom(c)
	videoId, err := pack.PathID(c, "id")
	if err != nil {
		pack.SendResponse(c, err, nil)
		return
	}
	var param CommentParam
	if err = c.BindAndValidate(&param); err != nil {
		hlog.CtxInfof(ctx, "comment bind failed: %v", err)
		pack.SendResponse(c, errno.ValidationErr.WithMessage("请求参数格式错误"), nil)
		return
	}
	comment, err := service.NewInteractionService(ctx, guard).PostComment(&service.PostCommentRequest{
		VideoID:  videoId,
		UserID:   identity.UserID,
		Content:  param.Content,
		ParentID: param.ParentID,
	})
	if err != nil {
		pack.SendResponse(c, err, nil)
		return
	}
	pack.SendResponse(c, errno.Success.WithMessage("评论成功"), comment)
}

func ListComments(ctx context.Context, c *app.RequestContext) {
	videoId, err := pack.PathID(c, "id")
	if err != nil {
		pack.SendResponse(c, err, nil)
		return
	}
	res, err := service.NewInteractionService(ctx, guard).ListComments(videoId)
	if err != nil {
		pack.SendResponse(c, err, nil)
		return
	}
	pack.SendResponse(c, errno.Success, res)
}

func ListReplies(ctx context.Context, c *app.RequestContext) {
	videoId, err := pack.PathID(c, "id")
	if err != nil {
		pack.SendResponse(c, err, nil)
		return
	}
	rootId, err := pack.PathID(c, "root_id")
	if err != nil {
		pack.SendResponse(c, err, nil)
		return
	}
	res, err := service.NewInteractionService(ctx, guard).ListThread(videoId, rootId)
	if err != nil {
		pack.SendResponse(c, err, nil)
		return
	}
	pack.SendResponse(c, errno.Success, res)
}
