package db

import (
	"context"

	"UniVideo.com/cmd/model"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm/clause"
)

func CreateDanmaku(ctx context.Context, d *model.Danmaku) error {
	if err := DB.WithContext(ctx).Omit(clause.Associations).Create(d).Error; err != nil {
		return pkgerrors.WithMessage(err, "CreateDanmaku failed")
	}
	return nil
}

// ListDanmaku 按出现时间排序
func ListDanmaku(ctx context.Context, videoId int64) ([]*model.Danmaku, error) {
	list := make([]*model.Danmaku, 0)
	err := DB.WithContext(ctx).
		Where("video_id = ?", videoId).
		Order("time ASC").Order("id ASC").
		Find(&list).Error
	if err != nil {
		return nil, pkgerrors.WithMessage(err, "ListDanmaku failed")
	}
	return list, nil
}
