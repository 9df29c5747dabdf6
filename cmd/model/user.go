package model

import (
	"time"

	"UniVideo.com/pkg/constants"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type UserStatus string

const (
	UserActive UserStatus = "active"
	UserBanned UserStatus = "banned"
)

func (s UserStatus) Valid() bool {
	return s == UserActive || s == UserBanned
}

type User struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username  string     `gorm:"size:50;not null;uniqueIndex" json:"username"`
	Password  string     `gorm:"size:255;not null" json:"-"`
	Nickname  string     `gorm:"size:50;not null" json:"nickname"`
	Role      Role       `gorm:"size:20;not null;default:user" json:"role"`
	Status    UserStatus `gorm:"size:20;not null;default:active" json:"status"`
	Avatar    string     `gorm:"size:255" json:"avatar"`
	CreatedAt time.Time  `json:"created_at"`
}

func (User) TableName() string {
	return constants.UserTableName
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Author 评论、视频、弹幕中展示的作者摘要
type Author struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar"`
}

func (u *User) Summary() *Author {
	if u == nil {
		return nil
	}
	return &Author{ID: u.ID, Username: u.Username, Nickname: u.Nickname, Avatar: u.Avatar}
}

// Category 分类为预置数据
type Category struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"size:50;not null;uniqueIndex" json:"name"`
}

func (Category) TableName() string {
	return constants.CategoryTableName
}

var DefaultCategories = []string{"生活", "科技", "游戏", "音乐", "影视", "学习"}
