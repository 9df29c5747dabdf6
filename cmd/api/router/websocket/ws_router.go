package websocket

import (
	"context"

	"UniVideo.com/pkg/jwt"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/hertz-contrib/websocket"
)

var upgrader = websocket.HertzUpgrader{
	CheckOrigin: func(ctx *app.RequestContext) bool {
		return true // 允许所有来源连接
	},
}

// Register 服务需要设置 NoHijackConnPool
func Register(h *server.Hertz, hub *Hub) {
	h.GET(`/ws/notifications`, append(_wsAuth(), hub.handler)...)
}

func (h *Hub) handler(ctx context.Context, c *app.RequestContext) {
	identity, ok := jwt.IdentityFrom(c)
	if !ok {
		c.AbortWithStatus(401)
		return
	}
	err := upgrader.Upgrade(c, func(conn *websocket.Conn) {
		cl := newWSClient(conn)
		go cl.writeLoop()
		defer cl.close()
		h.add(identity.UserID, cl)
		defer h.remove(identity.UserID, cl)
		hlog.CtxInfof(ctx, "user %d connected to notification push, online=%d", identity.UserID, h.Online())

		// 客户端不发送业务消息，读循环只用于感知断开
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				hlog.CtxInfof(ctx, "user %d disconnected: %v", identity.UserID, err)
				return
			}
		}
	})
	if err != nil {
		hlog.CtxWarnf(ctx, "websocket upgrade failed: %v", err)
	}
}
