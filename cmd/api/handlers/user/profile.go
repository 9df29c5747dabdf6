package handlers

import (
	"context"

	"UniVideo.com/cmd/api/handlers/pack"
	"UniVideo.com/cmd/user/service"
	videoservice "UniVideo.com/cmd/video/service"
	"UniVideo.com/pkg/errno"
	"UniVideo.com/pkg/jwt"
	"github.com/cloudwego/hertz/pkg/app"
)

func optionalForm(c *app.RequestContext, key string) *string {
	v, ok := c.GetPostForm(key)
	if !ok {
		return nil
	}
	return &v
}

func UpdateProfile(ctx context.Context, c *app.RequestContext) {
	identity, _ := jwt.IdentityFrom(c)
	req := &service.ProfileRequest{
		UserID:   identity.UserID,
		Nickname: optionalForm(c, "nickname"),
		Password: optionalForm(c, "password"),
	}

	// 没有上传头像时保持原头像
	if fh, err := c.FormFile("avatar"); err == nil {
		f, err := fh.Open()
		if err != nil {
			pack.SendResponse(c, errno.ValidationErr.WithMessage("头像文件读取失败"), nil)
			return
		}
		defer f.Close()
		req.Avatar = &service.AvatarFile{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Reader:      f,
		}
	}

	user, err := service.NewUserService(ctx).UpdateProfile(store, req)
	if err != nil {
		pack.SendResponse(c, err, nil)
		return
	}
	pack.SendResponse(c, errno.Success.WithMessage("资料更新成功"), newUserView(user))
}

// Homepage 作者主页：基本信息与已发布视频
func Homepage(ctx context.Context, c *app.RequestContext) {
	userId, err := pack.PathID(c, "id")
	if err != nil {
		pack.SendResponse(c, err, nil)
		return
	}
	user, err := service.NewUserService(ctx).GetUser(userId)
	if err != nil {
		pack.SendResponse(c, err, nil)
		return
	}
	videos, err := videoservice.NewVideoService(ctx, store, nil).ListByAuthor(userId)
	if err != nil {
		pack.SendResponse(c, err, nil)
		return
	}
	pack.SendResponse(c, errno.Success, map[string]interface{}{
		"user":   user.Summary(),
		"videos": videos,
	})
}

func MyVideos(ctx context.Context, c *app.RequestContext) {
	identity, _ := jwt.IdentityFrom(c)
	videos, err := videoservice.NewVideoService(ctx, store, nil).ListMine(identity.UserID)
	if err != nil {
		pack.SendResponse(c, err, nil)
		return
	}
	pack.SendResponse(c, errno.Success, videos)
}

func MyCollections(ctx context.Context, c *app.RequestContext) {
	identity, _ := jwt.IdentityFrom(c)
	videos, err := videoservice.NewVideoService(ctx, store, nil).ListCollected(identity.UserID)
	if err != nil {
		pack.SendResponse(c, err, nil)
		return
	}
	pack.SendResponse(c, errno.Success, videos)
}
