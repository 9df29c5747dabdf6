package model

import (
	"time"

	"UniVideo.com/pkg/constants"
)

type NotificationType string

const (
	NotificationSystem      NotificationType = "system"
	NotificationAudit       NotificationType = "audit"
	NotificationInteraction NotificationType = "interaction"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationSystem, NotificationAudit, NotificationInteraction:
		return true
	}
	return false
}

// Recipient 通知接收方：全体广播或者某个用户
type Recipient struct {
	userID int64
	user   bool
}

func Broadcast() Recipient {
	return Recipient{}
}

func ToUser(id int64) Recipient {
	return Recipient{userID: id, user: true}
}

// RecipientFromColumn 把可空的 user_id 列还原为 Recipient
func RecipientFromColumn(userID *int64) Recipient {
	if userID == nil {
		return Broadcast()
	}
	return ToUser(*userID)
}

func (r Recipient) IsBroadcast() bool {
	return !r.user
}

// UserID 广播时返回 false
func (r Recipient) UserID() (int64, bool) {
	return r.userID, r.user
}

// Column 存储层的表示，广播为 NULL
func (r Recipient) Column() *int64 {
	if r.IsBroadcast() {
		return nil
	}
	id := r.userID
	return &id
}

// Visible 通知对该接收方是否可见：个人通知只给本人，广播对所有人可见
func (r Recipient) Visible(n *Notification) bool {
	if n.UserID == nil {
		return true
	}
	return r.user && *n.UserID == r.userID
}

type Notification struct {
	ID          int64            `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string           `gorm:"size:100;not null" json:"title"`
	Content     string           `gorm:"type:text;not null" json:"content"`
	MsgType     NotificationType `gorm:"size:20;not null;default:system" json:"msg_type"`
	RelatedLink *string          `gorm:"size:255" json:"related_link"`
	UserID      *int64           `gorm:"index" json:"user_id"`
	IsRead      bool             `gorm:"not null;default:false" json:"is_read"`
	VideoID     *int64           `gorm:"index" json:"video_id"`
	ExtraData   *string          `gorm:"type:text" json:"extra_data"`
	CreatedAt   time.Time        `gorm:"index" json:"created_at"`

	User  *User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Video *Video `gorm:"foreignKey:VideoID;constraint:OnDelete:SET NULL" json:"-"`
}

func (Notification) TableName() string {
	return constants.NotificationTableName
}

func (n *Notification) Recipient() Recipient {
	return RecipientFromColumn(n.UserID)
}
