package db

import (
	"context"

	"UniVideo.com/cmd/model"
	"UniVideo.com/pkg/constants"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Relation 用户与视频之间的唯一关系表（点赞、收藏）
type Relation struct {
	Name  string
	Table string
	row   func(userId, videoId int64) interface{}
}

var (
	LikeRelation = Relation{
		Name:  "like",
		Table: constants.LikeTableName,
		row: func(userId, videoId int64) interface{} {
			return &model.Like{UserID: userId, VideoID: videoId}
		},
	}
	CollectRelation = Relation{
		Name:  "collect",
		Table: constants.CollectionTableName,
		row: func(userId, videoId int64) interface{} {
			return &model.Collection{UserID: userId, VideoID: videoId}
		},
	}
)

// LockRelation 对 (user, video) 行加排他锁，返回是否存在
func LockRelation(ctx context.Context, tx *gorm.DB, rel Relation, userId, videoId int64) (bool, error) {
	var ids []int64
	err := tx.WithContext(ctx).Table(rel.Table).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND video_id = ?", userId, videoId).
		Limit(1).
		Pluck("id", &ids).Error
	if err != nil {
		return false, pkgerrors.WithMessagef(err, "LockRelation %s failed", rel.Name)
	}
	return len(ids) > 0, nil
}

// InsertRelation 唯一索引冲突时原样返回错误，由调用方判断
func InsertRelation(ctx context.Context, tx *gorm.DB, rel Relation, userId, videoId int64) error {
	return tx.WithContext(ctx).Create(rel.row(userId, videoId)).Error
}

func DeleteRelation(ctx context.Context, tx *gorm.DB, rel Relation, userId, videoId int64) error {
	err := tx.WithContext(ctx).
		Where("user_id = ? AND video_id = ?", userId, videoId).
		Delete(rel.row(0, 0)).Error
	if err != nil {
		return pkgerrors.WithMessagef(err, "DeleteRelation %s failed", rel.Name)
	}
	return nil
}

// CountRelation 实时统计，tx 为空时使用全局连接
func CountRelation(ctx context.Context, tx *gorm.DB, rel Relation, videoId int64) (int64, error) {
	if tx == nil {
		tx = DB
	}
	var count int64
	if err := tx.WithContext(ctx).Table(rel.Table).Where("video_id = ?", videoId).Count(&count).Error; err != nil {
		return 0, pkgerrors.WithMessagef(err, "CountRelation %s failed", rel.Name)
	}
	return count, nil
}

func RelationExists(ctx context.Context, rel Relation, userId, videoId int64) (bool, error) {
	var count int64
	err := DB.WithContext(ctx).Table(rel.Table).
		Where("user_id = ? AND video_id = ?", userId, videoId).
		Count(&count).Error
	if err != nil {
		return false, pkgerrors.WithMessagef(err, "RelationExists %s failed", rel.Name)
	}
	return count > 0, nil
}
