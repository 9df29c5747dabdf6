package service

import (
	"UniVideo.com/cmd/model"
	"UniVideo.com/cmd/video/dal/db"
	"UniVideo.com/pkg/errno"
	"UniVideo.com/pkg/oss"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"gorm.io/gorm"
)

type DeleteResult struct {
	VideoID      int64    `json:"video_id"`
	Title        string   `json:"title"`
	DeletedFiles []string `json:"deleted_files"`
}

// Delete 删除视频，关联数据由数据库级联清理，文件在提交后尽力删除
func (s *VideoService) Delete(videoId int64) (*DeleteResult, error) {
	var video *model.Video
	err := db.DB.WithContext(s.ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		video, err = db.GetVideoForUpdate(s.ctx, tx, videoId)
		if err != nil {
			return err
		}
		if video == nil {
			return errno.NotFoundErr.WithMessage("视频不存在")
		}
		return db.DeleteVideo(s.ctx, tx, videoId)
	})
	if err != nil {
		return nil, err
	}

	deleted := oss.RemoveAll(s.ctx, s.store, video.VideoPath, video.CoverPath)
	hlog.CtxInfof(s.ctx, "video %d deleted, %d files removed", videoId, len(deleted))
	return &DeleteResult{
		VideoID:      video.ID,
		Title:        video.Title,
		DeletedFiles: deleted,
	}, nil
}
