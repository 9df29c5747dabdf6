package service

import (
	"strings"
	"time"

	"UniVideo.com/cmd/model"
	userdb "UniVideo.com/cmd/user/dal/db"
	"UniVideo.com/cmd/video/dal/db"
	"UniVideo.com/pkg/errno"
)

// RecordView 播放量加一
func (s *VideoService) RecordView(videoId int64) error {
	rows, err := db.IncrViewCount(s.ctx, videoId)
	if err != nil {
		return err
	}
	if rows == 0 {
		return errno.NotFoundErr.WithMessage("视频不存在")
	}
	return nil
}

// Detail 未发布的视频只有上传者本人和管理员可以查看，每次成功查看都计入播放量
func (s *VideoService) Detail(viewer *Viewer, videoId int64) (*model.VideoView, error) {
	video, err := db.GetVideo(s.ctx, videoId)
	if err != nil {
		return nil, err
	}
	if video == nil {
		return nil, errno.NotFoundErr.WithMessage("视频不存在")
	}
	if !viewer.canSee(video) {
		if video.Status == model.VideoPending {
			return nil, errno.ForbiddenErr.WithMessage("该视频正在审核中，暂时无法查看")
		}
		return nil, errno.ForbiddenErr.WithMessage("该视频未通过审核，暂时无法查看")
	}
	if err = s.RecordView(videoId); err != nil {
		return nil, err
	}
	video.ViewCount++

	views, err := s.views([]*model.Video{video})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// ListPublished 首页列表，只包含已发布视频，最新的在前
func (s *VideoService) ListPublished(categoryId *int64) ([]*model.VideoView, error) {
	status := model.VideoPublished
	videos, err := db.ListVideos(s.ctx, db.VideoFilter{Status: &status, CategoryID: categoryId})
	if err != nil {
		return nil, err
	}
	return s.views(videos)
}

// ListMine 用户自己上传的视频，包含各种状态
func (s *VideoService) ListMine(userId int64) ([]*model.VideoView, error) {
	videos, err := db.ListVideos(s.ctx, db.VideoFilter{UserID: &userId})
	if err != nil {
		return nil, err
	}
	return s.views(videos)
}

// ListByAuthor 作者主页，只展示已发布视频
func (s *VideoService) ListByAuthor(userId int64) ([]*model.VideoView, error) {
	status := model.VideoPublished
	videos, err := db.ListVideos(s.ctx, db.VideoFilter{UserID: &userId, Status: &status})
	if err != nil {
		return nil, err
	}
	return s.views(videos)
}

func (s *VideoService) ManageList(keyword string, status *model.VideoStatus) ([]*model.VideoView, error) {
	if status != nil && !status.Valid() {
		return nil, errno.ValidationErr.WithMessage("status 参数无效，仅支持 pending、published、rejected")
	}
	videos, err := db.ListVideos(s.ctx, db.VideoFilter{Keyword: strings.TrimSpace(keyword), Status: status})
	if err != nil {
		return nil, err
	}
	return s.views(videos)
}

// AuditQueue 待审核视频，先上传的先审
func (s *VideoService) AuditQueue() ([]*model.VideoView, error) {
	status := model.VideoPending
	videos, err := db.ListVideos(s.ctx, db.VideoFilter{Status: &status, OldestFirst: true})
	if err != nil {
		return nil, err
	}
	return s.views(videos)
}

type Stats struct {
	PendingVideos int64 `json:"pending_videos"`
	TotalUsers    int64 `json:"total_users"`
	TodayNew      int64 `json:"today_new"`
}

func (s *VideoService) Stats(now time.Time) (*Stats, error) {
	pending, err := db.CountByStatus(s.ctx, model.VideoPending)
	if err != nil {
		return nil, err
	}
	users, err := userdb.CountUsers(s.ctx)
	if err != nil {
		return nil, err
	}
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	today, err := db.CountCreatedSince(s.ctx, todayStart)
	if err != nil {
		return nil, err
	}
	return &Stats{PendingVideos: pending, TotalUsers: users, TodayNew: today}, nil
}

func (s *VideoService) ListCategories() ([]*model.Category, error) {
	return db.ListCategories(s.ctx)
}

// ListCollected 用户的收藏列表
func (s *VideoService) ListCollected(userId int64) ([]*model.VideoView, error) {
	videos, err := db.ListCollectedBy(s.ctx, userId)
	if err != nil {
		return nil, err
	}
	return s.views(videos)
}
