package main

import (
	"context"

	admin "UniVideo.com/cmd/api/handlers/admin"
	interaction "UniVideo.com/cmd/api/handlers/interaction"
	notification "UniVideo.com/cmd/api/handlers/notification"
	"UniVideo.com/cmd/api/handlers/pack"
	user "UniVideo.com/cmd/api/handlers/user"
	video "UniVideo.com/cmd/api/handlers/video"
	"UniVideo.com/cmd/api/router/authfunc"
	"UniVideo.com/pkg/constants"
	"UniVideo.com/pkg/database"
	"UniVideo.com/pkg/errno"
	"UniVideo.com/pkg/middleware"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"gorm.io/gorm"
)

// 写接口：先认证再限流
func _writeMw() []app.HandlerFunc {
	return append(authfunc.Auth(), middleware.FlowControl(constants.WriteResource, pack.SendError))
}

func health(db *gorm.DB) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		if err := database.Ping(ctx, db); err != nil {
			pack.SendResponse(c, errno.ServiceErr.WithMessage("数据库不可用"), nil)
			return
		}
		pack.SendResponse(c, errno.Success, map[string]string{"status": "ok"})
	}
}

func register(r *server.Hertz, db *gorm.DB) {
	root := r.Group("/api")
	root.GET("/health", health(db))

	{
		auth := root.Group("/auth")
		auth.POST("/register", user.Register)
		auth.POST("/login", user.Login)
		auth.GET("/me", append(authfunc.Auth(), user.Me)...)
	}

	{
		u := root.Group("/user")
		u.GET("/me/videos", append(authfunc.Auth(), user.MyVideos)...)
		u.GET("/me/collections", append(authfunc.Auth(), user.MyCollections)...)
		u.PUT("/me", append(_writeMw(), user.UpdateProfile)...)
		u.GET("/:id", user.Homepage)
	}

	{
		v := root.Group("/videos")
		v.GET("/list", video.List)
		v.GET("/categories", video.Categories)
		v.POST("/upload", append(_writeMw(), video.Upload)...)
		v.GET("/:id", authfunc.OptionalAuth(), video.Detail)

		v.GET("/:id/comments", interaction.ListComments)
		v.POST("/:id/comments", append(_writeMw(), interaction.PostComment)...)
		v.GET("/:id/comments/:root_id/replies", interaction.ListReplies)

		v.POST("/:id/like", append(_writeMw(), interaction.ToggleLike)...)
		v.GET("/:id/like/status", append(authfunc.Auth(), interaction.LikeStatus)...)
		v.POST("/:id/collect", append(_writeMw(), interaction.ToggleCollect)...)
		v.GET("/:id/collect/status", append(authfunc.Auth(), interaction.CollectStatus)...)

		v.GET("/:id/danmaku", interaction.ListDanmaku)
		v.POST("/:id/danmaku", append(_writeMw(), interaction.PostDanmaku)...)
	}

	{
		a := root.Group("/admin", authfunc.Admin()...)
		a.POST("/audit/:id", admin.Audit)
		a.GET("/audit/list", admin.AuditList)
		a.GET("/manage/list", admin.ManageList)
		a.GET("/stats", admin.Stats)
		a.DELETE("/video/:id", admin.DeleteVideo)
		a.POST("/notifications/send", admin.SendNotification)
		a.GET("/users", admin.ListUsers)
		a.POST("/users/:id/status", admin.UpdateUserStatus)
	}

	{
		n := root.Group("/notifications", authfunc.Auth()...)
		n.GET("", notification.List)
		n.GET("/unread-count", notification.UnreadCount)
		n.PUT("/read-all", notification.MarkAllRead)
		n.PUT("/:id/read", notification.MarkRead)
	}
}
