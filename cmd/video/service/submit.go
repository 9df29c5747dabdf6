package service

import (
	"io"
	"strings"
	"unicode/utf8"

	"UniVideo.com/cmd/model"
	userdb "UniVideo.com/cmd/user/dal/db"
	"UniVideo.com/cmd/video/dal/db"
	"UniVideo.com/pkg/constants"
	"UniVideo.com/pkg/errno"
	"UniVideo.com/pkg/oss"
	"github.com/cloudwego/hertz/pkg/common/hlog"
)

type FileInput struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

type SubmitRequest struct {
	UserID      int64
	Title       string
	Description string
	CategoryID  int64
	Video       *FileInput
	Cover       *FileInput
}

// Submit 保存文件并以待审核状态入库，上传不产生通知
func (s *VideoService) Submit(req *SubmitRequest) (*model.VideoView, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" || req.CategoryID <= 0 {
		return nil, errno.ValidationErr.WithMessage("缺少必填字段：title、category_id")
	}
	if utf8.RuneCountInString(title) > constants.MaxTitleLength {
		return nil, errno.ValidationErr.WithMessage("标题长度不能超过100个字符")
	}
	if req.Video == nil || req.Cover == nil {
		return nil, errno.ValidationErr.WithMessage("缺少必传文件：video_file、cover_file")
	}
	if req.Video.Size == 0 || req.Cover.Size == 0 {
		return nil, errno.ValidationErr.WithMessage("文件不能为空")
	}
	videoExt, err := oss.Ext(req.Video.Filename, oss.VideoExtensions, "视频")
	if err != nil {
		return nil, err
	}
	coverExt, err := oss.Ext(req.Cover.Filename, oss.ImageExtensions, "图片")
	if err != nil {
		return nil, err
	}

	ok, err := userdb.UserExists(s.ctx, nil, req.UserID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errno.NotFoundErr.WithMessage("用户不存在")
	}
	ok, err = db.CategoryExists(s.ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errno.NotFoundErr.WithMessage("分类不存在")
	}
	if s.store == nil {
		return nil, errno.OssErr
	}

	videoPath, err := s.store.Put(s.ctx, constants.MinioVideoDir, videoExt, req.Video.Reader, req.Video.Size, req.Video.ContentType)
	if err != nil {
		return nil, err
	}
	coverPath, err := s.store.Put(s.ctx, constants.MinioCoverDir, coverExt, req.Cover.Reader, req.Cover.Size, req.Cover.ContentType)
	if err != nil {
		oss.RemoveAll(s.ctx, s.store, videoPath)
		return nil, err
	}

	video := &model.Video{
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		VideoPath:   videoPath,
		CoverPath:   coverPath,
		Status:      model.VideoPending,
		UserID:      req.UserID,
		CategoryID:  req.CategoryID,
	}
	if err = db.CreateVideo(s.ctx, video); err != nil {
		// 入库失败时清理刚写入的文件
		oss.RemoveAll(s.ctx, s.store, videoPath, coverPath)
		return nil, err
	}
	hlog.CtxInfof(s.ctx, "video %d submitted by user %d, waiting for audit", video.ID, req.UserID)
	return s.view(video, 0, 0), nil
}
