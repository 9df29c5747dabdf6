package db

import (
	"context"
	"errors"

	"UniVideo.com/cmd/model"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

// VisibleTo 个人通知加上全体广播；广播接收方只能看到广播
func VisibleTo(r model.Recipient) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if uid, ok := r.UserID(); ok {
			return db.Where("user_id = ? OR user_id IS NULL", uid)
		}
		return db.Where("user_id IS NULL")
	}
}

func CreateNotification(ctx context.Context, tx *gorm.DB, n *model.Notification) error {
	if tx == nil {
		tx = DB
	}
	if err := tx.WithContext(ctx).Create(n).Error; err != nil {
		return pkgerrors.WithMessage(err, "CreateNotification failed")
	}
	return nil
}

func GetNotification(ctx context.Context, id int64) (*model.Notification, error) {
	var n model.Notification
	err := DB.WithContext(ctx).Where("id = ?", id).First(&n).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.WithMessage(err, "GetNotification failed")
	}
	return &n, nil
}

// ListNotifications isRead 为空时不按已读状态筛选
func ListNotifications(ctx context.Context, r model.Recipient, isRead *bool, limit, offset int) ([]*model.Notification, int64, error) {
	db := DB.WithContext(ctx).Model(&model.Notification{}).Scopes(VisibleTo(r))
	if isRead != nil {
		db = db.Where("is_read = ?", *isRead)
	}
	var total int64
	if err := db.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, pkgerrors.WithMessage(err, "ListNotifications count failed")
	}
	list := make([]*model.Notification, 0)
	if err := db.Order("created_at DESC").Order("id DESC").Limit(limit).Offset(offset).Find(&list).Error; err != nil {
		return nil, total, pkgerrors.WithMessage(err, "ListNotifications failed")
	}
	return list, total, nil
}

// MarkRead 只更新未读的行，返回更新数量
func MarkRead(ctx context.Context, id int64) (int64, error) {
	res := DB.WithContext(ctx).Model(&model.Notification{}).
		Where("id = ? AND is_read = ?", id, false).
		Update("is_read", true)
	if res.Error != nil {
		return 0, pkgerrors.WithMessage(res.Error, "MarkRead failed")
	}
	return res.RowsAffected, nil
}

// MarkAllRead 只更新未读的行，返回更新数量
func MarkAllRead(ctx context.Context, r model.Recipient) (int64, error) {
	res := DB.WithContext(ctx).Model(&model.Notification{}).
		Where("is_read = ?", false).
		Scopes(VisibleTo(r)).
		Update("is_read", true)
	if res.Error != nil {
		return 0, pkgerrors.WithMessage(res.Error, "MarkAllRead failed")
	}
	return res.RowsAffected, nil
}

func UnreadCount(ctx context.Context, r model.Recipient) (int64, error) {
	var count int64
	err := DB.WithContext(ctx).Model(&model.Notification{}).
		Where("is_read = ?", false).
		Scopes(VisibleTo(r)).
		Count(&count).Error
	if err != nil {
		return 0, pkgerrors.WithMessage(err, "UnreadCount failed")
	}
	return count, nil
}
