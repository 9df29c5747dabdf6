package model

import (
	"time"

	"UniVideo.com/pkg/constants"
)

// VideoStatus 审核状态，pending 只能单向流转到 published 或 rejected
type VideoStatus string

const (
	VideoPending   VideoStatus = "pending"
	VideoPublished VideoStatus = "published"
	VideoRejected  VideoStatus = "rejected"
)

func (s VideoStatus) Label() string {
	switch s {
	case VideoPending:
		return "待审核"
	case VideoPublished:
		return "已发布"
	case VideoRejected:
		return "已驳回"
	}
	return "未知"
}

func (s VideoStatus) Valid() bool {
	switch s {
	case VideoPending, VideoPublished, VideoRejected:
		return true
	}
	return false
}

func (s VideoStatus) IsTerminal() bool {
	return s == VideoPublished || s == VideoRejected
}

type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// Target 审核结论对应的目标状态
func (d Decision) Target() (VideoStatus, bool) {
	switch d {
	case DecisionApprove:
		return VideoPublished, true
	case DecisionReject:
		return VideoRejected, true
	}
	return "", false
}

type Video struct {
	ID          int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string      `gorm:"size:100;not null" json:"title"`
	Description string      `gorm:"type:text" json:"description"`
	VideoPath   string      `gorm:"size:255;not null" json:"video_path"`
	CoverPath   string      `gorm:"size:255;not null" json:"cover_path"`
	Status      VideoStatus `gorm:"size:20;not null;default:pending;index" json:"status"`
	ViewCount   int64       `gorm:"not null;default:0" json:"view_count"`
	UserID      int64       `gorm:"not null;index" json:"user_id"`
	CategoryID  int64       `gorm:"not null;index" json:"category_id"`
	CreatedAt   time.Time   `gorm:"index" json:"created_at"`

	Author   *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Category *Category `gorm:"foreignKey:CategoryID" json:"-"`
}

func (Video) TableName() string {
	return constants.VideoTableName
}

// VideoView 接口返回的视频信息，计数由关系表实时统计
type VideoView struct {
	*Video
	StatusText       string  `json:"status_text"`
	LikesCount       int64   `json:"likes_count"`
	CollectionsCount int64   `json:"collections_count"`
	Author           *Author `json:"author,omitempty"`
	VideoURL         string  `json:"video_url,omitempty"`
	CoverURL         string  `json:"cover_url,omitempty"`
}

func NewVideoView(v *Video, likes, collections int64) *VideoView {
	return &VideoView{
		Video:            v,
		StatusText:       v.Status.Label(),
		LikesCount:       likes,
		CollectionsCount: collections,
		Author:           v.Author.Summary(),
	}
}
