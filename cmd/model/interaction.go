package model

import (
	"time"

	"UniVideo.com/pkg/constants"
)

// Comment 楼中楼结构：ParentID 指向直接回复对象，RootID 始终指向顶层评论
type Comment struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	UserID    int64     `gorm:"not null;index" json:"user_id"`
	VideoID   int64     `gorm:"not null;index:idx_video_root,priority:1" json:"video_id"`
	ParentID  *int64    `gorm:"index" json:"parent_id"`
	RootID    *int64    `gorm:"index:idx_video_root,priority:2" json:"root_id"`
	CreatedAt time.Time `json:"created_at"`

	Author *User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Video  *Video   `gorm:"foreignKey:VideoID;constraint:OnDelete:CASCADE" json:"-"`
	Parent *Comment `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE" json:"-"`
	Root   *Comment `gorm:"foreignKey:RootID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Comment) TableName() string {
	return constants.CommentTableName
}

// IsTopLevel 顶层评论的 parent 与 root 都为空
func (c *Comment) IsTopLevel() bool {
	return c.ParentID == nil
}

// ThreadRoot 回复这条评论时新评论应使用的 root_id
func (c *Comment) ThreadRoot() int64 {
	if c.RootID != nil {
		return *c.RootID
	}
	return c.ID
}

// CommentView 接口返回的评论，带作者摘要
type CommentView struct {
	*Comment
	Author *Author `json:"author,omitempty"`
}

func NewCommentView(c *Comment) *CommentView {
	return &CommentView{Comment: c, Author: c.Author.Summary()}
}

type Like struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:unique_like,priority:1" json:"user_id"`
	VideoID   int64     `gorm:"not null;uniqueIndex:unique_like,priority:2;index" json:"video_id"`
	CreatedAt time.Time `json:"created_at"`

	User  *User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Video *Video `gorm:"foreignKey:VideoID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Like) TableName() string {
	return constants.LikeTableName
}

type Collection struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:unique_collection,priority:1" json:"user_id"`
	VideoID   int64     `gorm:"not null;uniqueIndex:unique_collection,priority:2;index" json:"video_id"`
	CreatedAt time.Time `json:"created_at"`

	User  *User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Video *Video `gorm:"foreignKey:VideoID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Collection) TableName() string {
	return constants.CollectionTableName
}

type DanmakuMode int8

const (
	DanmakuScroll DanmakuMode = 0
	DanmakuTop    DanmakuMode = 1
	DanmakuBottom DanmakuMode = 2
)

func (m DanmakuMode) Valid() bool {
	return m >= DanmakuScroll && m <= DanmakuBottom
}

type Danmaku struct {
	ID        int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	Text      string      `gorm:"size:100;not null" json:"text"`
	Time      float64     `gorm:"not null;index:idx_video_time,priority:2" json:"time"`
	Color     string      `gorm:"size:20;not null;default:'#FFFFFF'" json:"color"`
	Mode      DanmakuMode `gorm:"not null;default:0" json:"mode"`
	Border    bool        `gorm:"not null;default:false" json:"border"`
	UserID    int64       `gorm:"not null;index" json:"user_id"`
	VideoID   int64       `gorm:"not null;index:idx_video_time,priority:1" json:"video_id"`
	CreatedAt time.Time   `json:"created_at"`

	User  *User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Video *Video `gorm:"foreignKey:VideoID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Danmaku) TableName() string {
	return constants.DanmakuTableName
}
