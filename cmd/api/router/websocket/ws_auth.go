package websocket

import (
	"context"

	"UniVideo.com/pkg/constants"
	"UniVideo.com/pkg/jwt"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
)

func _wsAuth() []app.HandlerFunc {
	return append(make([]app.HandlerFunc, 0),
		tokenAuthFunc(),
	)
}

// tokenAuthFunc 浏览器建立 websocket 时无法带 header，token 走 query 参数
func tokenAuthFunc() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		identity, err := jwt.Parse(ctx, c)
		if err != nil {
			hlog.CtxInfof(ctx, "websocket auth failed: %v", err)
			c.AbortWithStatus(401)
			return
		}
		c.Set(constants.IdentityKey, identity)
		c.Next(ctx)
	}
}
