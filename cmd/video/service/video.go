package service

import (
	"context"

	"UniVideo.com/cmd/model"
	notifyservice "UniVideo.com/cmd/notification/service"
	"UniVideo.com/cmd/video/dal/db"
	"UniVideo.com/pkg/constants"
	"UniVideo.com/pkg/mq"
	"UniVideo.com/pkg/oss"
)

// VideoService 视频的上传、审核、删除与查询
type VideoService struct {
	ctx      context.Context
	store    oss.BlobStore
	notifier *notifyservice.NotificationService
}

func NewVideoService(ctx context.Context, store oss.BlobStore, publisher mq.EventPublisher) *VideoService {
	return &VideoService{
		ctx:      ctx,
		store:    store,
		notifier: notifyservice.NewNotificationService(ctx, publisher),
	}
}

// Viewer 当前请求的身份，匿名访问时为 nil
type Viewer struct {
	UserID int64
	Admin  bool
}

func (v *Viewer) canSee(video *model.Video) bool {
	if video.Status == model.VideoPublished {
		return true
	}
	return v != nil && (v.Admin || v.UserID == video.UserID)
}

// views 批量统计点赞和收藏数
func (s *VideoService) views(videos []*model.Video) ([]*model.VideoView, error) {
	ids := make([]int64, 0, len(videos))
	for _, v := range videos {
		ids = append(ids, v.ID)
	}
	likes, err := db.CountByVideo(s.ctx, constants.LikeTableName, ids)
	if err != nil {
		return nil, err
	}
	collections, err := db.CountByVideo(s.ctx, constants.CollectionTableName, ids)
	if err != nil {
		return nil, err
	}
	res := make([]*model.VideoView, 0, len(videos))
	for _, v := range videos {
		res = append(res, s.view(v, likes[v.ID], collections[v.ID]))
	}
	return res, nil
}

func (s *VideoService) view(v *model.Video, likes, collections int64) *model.VideoView {
	view := model.NewVideoView(v, likes, collections)
	if s.store != nil {
		view.VideoURL = s.store.URL(v.VideoPath)
		view.CoverURL = s.store.URL(v.CoverPath)
	}
	return view
}
