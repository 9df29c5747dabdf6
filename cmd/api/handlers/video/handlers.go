package handlers

import (
	"UniVideo.com/cmd/video/service"
	"UniVideo.com/pkg/jwt"
	"UniVideo.com/pkg/oss"
	"github.com/cloudwego/hertz/pkg/app"
)

var store oss.BlobStore

func Init(s oss.BlobStore) {
	store = s
}

type ListParam struct {
	CategoryID string `query:"category_id"`
}

// viewer 匿名访问返回 nil
func viewer(c *app.RequestContext) *service.Viewer {
	identity, ok := jwt.IdentityFrom(c)
	if !ok {
		return nil
	}
	return &service.Viewer{UserID: identity.UserID, Admin: identity.IsAdmin()}
}
