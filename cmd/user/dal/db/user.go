package db

import (
	"context"
	"errors"

	"UniVideo.com/cmd/model"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

func CreateUser(ctx context.Context, user *model.User) error {
	if err := DB.WithContext(ctx).Create(user).Error; err != nil {
		return pkgerrors.WithMessage(err, "CreateUser failed")
	}
	return nil
}

// GetUserByName 用户名区分大小写，不存在时返回 nil
func GetUserByName(ctx context.Context, username string) (*model.User, error) {
	var users []*model.User
	if err := DB.WithContext(ctx).Where("BINARY username = ?", username).Limit(1).Find(&users).Error; err != nil {
		return nil, pkgerrors.WithMessage(err, "GetUserByName failed")
	}
	if len(users) == 0 {
		return nil, nil
	}
	return users[0], nil
}

// GetUser 不存在时返回 nil，tx 为空时使用全局连接
func GetUser(ctx context.Context, tx *gorm.DB, userId int64) (*model.User, error) {
	if tx == nil {
		tx = DB
	}
	var user model.User
	err := tx.WithContext(ctx).Where("id = ?", userId).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.WithMessage(err, "GetUser failed")
	}
	return &user, nil
}

func UserExists(ctx context.Context, tx *gorm.DB, userId int64) (bool, error) {
	if tx == nil {
		tx = DB
	}
	var count int64
	if err := tx.WithContext(ctx).Model(&model.User{}).Where("id = ?", userId).Count(&count).Error; err != nil {
		return false, pkgerrors.WithMessage(err, "UserExists failed")
	}
	return count > 0, nil
}

func QueryUser(ctx context.Context, keyword string, page, pageSize int) ([]*model.User, int64, error) {
	db := DB.WithContext(ctx).Model(&model.User{})
	if keyword != "" {
		db = db.Where("username LIKE ?", "%"+keyword+"%")
	}
	var total int64
	if err := db.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, pkgerrors.WithMessage(err, "QueryUser count failed")
	}
	users := make([]*model.User, 0)
	if err := db.Order("created_at DESC").Limit(pageSize).Offset(pageSize * (page - 1)).Find(&users).Error; err != nil {
		return nil, total, pkgerrors.WithMessage(err, "QueryUser failed")
	}
	return users, total, nil
}

func UpdateUserStatus(ctx context.Context, userId int64, status model.UserStatus) error {
	if err := DB.WithContext(ctx).Model(&model.User{}).Where("id = ?", userId).Update("status", status).Error; err != nil {
		return pkgerrors.WithMessage(err, "UpdateUserStatus failed")
	}
	return nil
}

func CountUsers(ctx context.Context) (int64, error) {
	var count int64
	if err := DB.WithContext(ctx).Model(&model.User{}).Count(&count).Error; err != nil {
		return 0, pkgerrors.WithMessage(err, "CountUsers failed")
	}
	return count, nil
}

// UpdateUserProfile 只更新传入的列
func UpdateUserProfile(ctx context.Context, userId int64, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	if err := DB.WithContext(ctx).Model(&model.User{}).Where("id = ?", userId).Updates(updates).Error; err != nil {
		return pkgerrors.WithMessage(err, "UpdateUserProfile failed")
	}
	return nil
}
