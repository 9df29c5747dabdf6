package db

import (
	"context"
	"errors"

	"UniVideo.com/cmd/model"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func CreateComment(ctx context.Context, tx *gorm.DB, comment *model.Comment) error {
	if tx == nil {
		tx = DB
	}
	if err := tx.WithContext(ctx).Omit(clause.Associations).Create(comment).Error; err != nil {
		return pkgerrors.WithMessage(err, "CreateComment failed")
	}
	return nil
}

// GetCommentForShare 加共享锁读取父评论，插入回复期间父评论不会被删除
func GetCommentForShare(ctx context.Context, tx *gorm.DB, commentId int64) (*model.Comment, error) {
	var c model.Comment
	err := tx.WithContext(ctx).Clauses(clause.Locking{Strength: "SHARE"}).Where("id = ?", commentId).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.WithMessage(err, "GetCommentForShare failed")
	}
	return &c, nil
}

func GetComment(ctx context.Context, commentId int64) (*model.Comment, error) {
	var c model.Comment
	err := DB.WithContext(ctx).Where("id = ?", commentId).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.WithMessage(err, "GetComment failed")
	}
	return &c, nil
}

// ListComments 按时间正序返回视频下全部评论，客户端按 root_id 分组还原楼层
func ListComments(ctx context.Context, videoId int64) ([]*model.Comment, error) {
	comments := make([]*model.Comment, 0)
	err := DB.WithContext(ctx).Preload("Author").
		Where("video_id = ?", videoId).
		Order("created_at ASC").Order("id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, pkgerrors.WithMessage(err, "ListComments failed")
	}
	return comments, nil
}

// ListReplies 某一楼层下的全部回复，走 (video_id, root_id) 索引
func ListReplies(ctx context.Context, videoId, rootId int64) ([]*model.Comment, error) {
	comments := make([]*model.Comment, 0)
	err := DB.WithContext(ctx).Preload("Author").
		Where("video_id = ? AND root_id = ?", videoId, rootId).
		Order("created_at ASC").Order("id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, pkgerrors.WithMessage(err, "ListReplies failed")
	}
	return comments, nil
}
