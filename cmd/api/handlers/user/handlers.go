package handlers

import (
	"time"

	"UniVideo.com/cmd/api/handlers/pack"
	"UniVideo.com/cmd/model"
	"UniVideo.com/pkg/errno"
	"UniVideo.com/pkg/oss"
	"github.com/cloudwego/hertz/pkg/app"
)

var store oss.BlobStore

func Init(s oss.BlobStore) {
	store = s
}

type userView struct {
	*model.User
	AvatarURL string `json:"avatar_url,omitempty"`
}

func newUserView(u *model.User) *userView {
	v := &userView{User: u}
	if store != nil && u.Avatar != "" {
		v.AvatarURL = store.URL(u.Avatar)
	}
	return v
}

// LoginResponse 登录成功后由 jwt 中间件回调
func LoginResponse(c *app.RequestContext, token string, expire time.Time, user *model.User) {
	pack.SendResponse(c, errno.Success.WithMessage("登录成功"), map[string]interface{}{
		"token":  token,
		"expire": expire.Format(time.RFC3339),
		"user":   newUserView(user),
	})
}
