package db

import (
	"context"
	"errors"
	"time"

	"UniVideo.com/cmd/model"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func CreateVideo(ctx context.Context, v *model.Video) error {
	if err := DB.WithContext(ctx).Create(v).Error; err != nil {
		return pkgerrors.WithMessage(err, "CreateVideo failed")
	}
	return nil
}

// GetVideo 不存在时返回 nil，同时加载作者
func GetVideo(ctx context.Context, videoId int64) (*model.Video, error) {
	var v model.Video
	err := DB.WithContext(ctx).Preload("Author").Where("id = ?", videoId).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.WithMessage(err, "GetVideo failed")
	}
	return &v, nil
}

// GetVideoForUpdate 在事务内对视频行加排他锁
func GetVideoForUpdate(ctx context.Context, tx *gorm.DB, videoId int64) (*model.Video, error) {
	var v model.Video
	err := tx.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", videoId).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.WithMessage(err, "GetVideoForUpdate failed")
	}
	return &v, nil
}

// VideoExists tx 为空时使用全局连接
func VideoExists(ctx context.Context, tx *gorm.DB, videoId int64) (bool, error) {
	if tx == nil {
		tx = DB
	}
	var count int64
	if err := tx.WithContext(ctx).Model(&model.Video{}).Where("id = ?", videoId).Count(&count).Error; err != nil {
		return false, pkgerrors.WithMessage(err, "VideoExists failed")
	}
	return count > 0, nil
}

// TransitionStatus 条件更新，只有当前状态仍为 from 时才会生效，返回影响行数
func TransitionStatus(ctx context.Context, tx *gorm.DB, videoId int64, from, to model.VideoStatus) (int64, error) {
	res := tx.WithContext(ctx).Model(&model.Video{}).
		Where("id = ? AND status = ?", videoId, from).
		Update("status", to)
	if res.Error != nil {
		return 0, pkgerrors.WithMessage(res.Error, "TransitionStatus failed")
	}
	return res.RowsAffected, nil
}

// DeleteVideo 评论、点赞、收藏、弹幕由外键级联删除
func DeleteVideo(ctx context.Context, tx *gorm.DB, videoId int64) error {
	if err := tx.WithContext(ctx).Delete(&model.Video{}, videoId).Error; err != nil {
		return pkgerrors.WithMessage(err, "DeleteVideo failed")
	}
	return nil
}

func IncrViewCount(ctx context.Context, videoId int64) (int64, error) {
	res := DB.WithContext(ctx).Model(&model.Video{}).
		Where("id = ?", videoId).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
	if res.Error != nil {
		return 0, pkgerrors.WithMessage(res.Error, "IncrViewCount failed")
	}
	return res.RowsAffected, nil
}

type VideoFilter struct {
	Status      *model.VideoStatus
	CategoryID  *int64
	UserID      *int64
	Keyword     string
	OldestFirst bool
}

func ListVideos(ctx context.Context, f VideoFilter) ([]*model.Video, error) {
	db := DB.WithContext(ctx).Preload("Author")
	if f.Status != nil {
		db = db.Where("status = ?", *f.Status)
	}
	if f.CategoryID != nil {
		db = db.Where("category_id = ?", *f.CategoryID)
	}
	if f.UserID != nil {
		db = db.Where("user_id = ?", *f.UserID)
	}
	if f.Keyword != "" {
		db = db.Where("title LIKE ?", "%"+f.Keyword+"%")
	}
	if f.OldestFirst {
		db = db.Order("created_at ASC").Order("id ASC")
	} else {
		db = db.Order("created_at DESC").Order("id DESC")
	}
	videos := make([]*model.Video, 0)
	if err := db.Find(&videos).Error; err != nil {
		return nil, pkgerrors.WithMessage(err, "ListVideos failed")
	}
	return videos, nil
}

func CountByStatus(ctx context.Context, status model.VideoStatus) (int64, error) {
	var count int64
	if err := DB.WithContext(ctx).Model(&model.Video{}).Where("status = ?", status).Count(&count).Error; err != nil {
		return 0, pkgerrors.WithMessage(err, "CountByStatus failed")
	}
	return count, nil
}

func CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	if err := DB.WithContext(ctx).Model(&model.Video{}).Where("created_at >= ?", since).Count(&count).Error; err != nil {
		return 0, pkgerrors.WithMessage(err, "CountCreatedSince failed")
	}
	return count, nil
}

func CategoryExists(ctx context.Context, categoryId int64) (bool, error) {
	var count int64
	if err := DB.WithContext(ctx).Model(&model.Category{}).Where("id = ?", categoryId).Count(&count).Error; err != nil {
		return false, pkgerrors.WithMessage(err, "CategoryExists failed")
	}
	return count > 0, nil
}

func ListCategories(ctx context.Context) ([]*model.Category, error) {
	categories := make([]*model.Category, 0)
	if err := DB.WithContext(ctx).Order("id ASC").Find(&categories).Error; err != nil {
		return nil, pkgerrors.WithMessage(err, "ListCategories failed")
	}
	return categories, nil
}

// ListCollectedBy 用户收藏的视频，按收藏时间倒序
func ListCollectedBy(ctx context.Context, userId int64) ([]*model.Video, error) {
	videos := make([]*model.Video, 0)
	err := DB.WithContext(ctx).Preload("Author").
		Joins("JOIN collections ON collections.video_id = videos.id").
		Where("collections.user_id = ?", userId).
		Order("collections.created_at DESC").
		Find(&videos).Error
	if err != nil {
		return nil, pkgerrors.WithMessage(err, "ListCollectedBy failed")
	}
	return videos, nil
}
