package handlers

import (
	"context"
	"io"
	"mime/multipart"

	"UniVideo.com/cmd/api/handlers/pack"
	"UniVideo.com/cmd/video/service"
	"UniVideo.com/pkg/errno"
	"UniVideo.com/pkg/jwt"
	"UniVideo.com/pkg/utils"
	"github.com/cloudwego/hertz/pkg/app"
)

func formFile(c *app.RequestContext, key string) (*service.FileInput, io.Closer, error) {
	fh, err := c.FormFile(key)
	if err != nil {
		return nil, nil, nil
	}
	var f multipart.File
	if f, err = fh.Open(); err != nil {
		return nil, nil, errno.ValidationErr.WithMessagef("%s 读取失败", key)
	}
	return &service.FileInput{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Reader:      f,
	}, f, nil
}

func Upload(ctx context.Context, c *app.RequestContext) {
	identity, _ := jwt.IdentityFrom(c)
	categoryId, ok := utils.ParseID(c.PostForm("category_id"))
	if !ok {
		pack.SendResponse(c, errno.ValidationErr.WithMessage("缺少必填字段：title、category_id"), nil)
		return
	}

	video, closer, err := formFile(c, "video_file")
	if err != nil {
		pack.SendResponse(c, err, nil)
		return
	}
	if closer != nil {
		defer closer.Close()
	}
	cover, closer, err := formFile(c, "cover_file")
	if err != nil {
		pack.SendResponse(c, err, nil)
		return
	}
	if closer != nil {
		defer closer.Close()
	}

	view, err := service.NewVideoService(ctx, store, nil).Submit(&service.SubmitRequest{
		UserID:      identity.UserID,
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		CategoryID:  categoryId,
		Video:       video,
		Cover:       cover,
	})
	if err != nil {
		pack.SendResponse(c, err, nil)
		return
	}
	pack.SendResponse(c, errno.Success.WithMessage("视频上传成功，等待管理员审核"), view)
}
