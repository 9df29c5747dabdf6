package constants

import "time"

const (
	UserTableName         = "users"
	CategoryTableName     = "categories"
	VideoTableName        = "videos"
	CommentTableName      = "comments"
	LikeTableName         = "likes"
	CollectionTableName   = "collections"
	DanmakuTableName      = "danmaku"
	NotificationTableName = "notifications"
)

// jwt
const (
	IdentityKey = "identity"
	RoleKey     = "role"
)

// 评论
const (
	MaxCommentLength    = 500
	CommentRateLimit    = 10                // 每分钟最多评论数
	CommentRateWindow   = time.Minute       // 限流窗口
	DuplicateTimeWindow = 300 * time.Second // 重复内容检测窗口
)

// 弹幕
const (
	MaxDanmakuLength    = 100
	DefaultDanmakuColor = "#FFFFFF"
)

// 用户
const (
	MinUsernameLength = 3
	MaxUsernameLength = 50
	MinPasswordLength = 6
	DefaultPerPage    = 10
	MaxPerPage        = 100
)

// 通知
const (
	DefaultNotificationLimit = 20
	MaxNotificationLimit     = 100
	AuditNotificationTitle   = "视频审核结果"
	BroadcastDisplayName     = "全体用户"
)

// 视频
const (
	MaxTitleLength = 100
	MinioVideoDir  = "videos"
	MinioCoverDir  = "covers"
	MinioAvatarDir = "avatars"
)

// sentinel 资源名
const (
	WriteResource = "univideo-write"
)
