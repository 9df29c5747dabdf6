package handlers

import (
	"context"
	"time"

	"UniVideo.com/cmd/api/handlers/pack"
	"UniVideo.com/cmd/user/service"
	"UniVideo.com/pkg/errno"
	"UniVideo.com/pkg/jwt"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
)

func Register(ctx context.Context, c *app.RequestContext) {
	var req service.RegisterRequest
	if err := c.BindAndValidate(&req); err != nil {
		hlog.CtxInfof(ctx, "register bind failed: %v", err)
		pack.SendResponse(c, errno.ValidationErr.WithMessage("请求参数格式错误"), nil)
		return
	}
	user, err := service.NewUserService(ctx).Register(&req)
	if err != nil {
		pack.SendResponse(c, err, nil)
		return
	}
	token, expire, err := jwt.GenerateToken(user)
	if err != nil {
		pack.SendResponse(c, err, nil)
		return
	}
	pack.SendResponse(c, errno.Success.WithMessage("注册成功"), map[string]interface{}{
		"token":  token,
		"expire": expire.Format(time.RFC3339),
		"user":   newUserView(user),
	})
}

// Login 交给 jwt 中间件，校验逻辑见 service.Login
func Login(ctx context.Context, c *app.RequestContext) {
	jwt.Middleware.LoginHandler(ctx, c)
}

func Me(ctx context.Context, c *app.RequestContext) {
	identity, _ := jwt.IdentityFrom(c)
	user, err := service.NewUserService(ctx).GetUser(identity.UserID)
	if err != nil {
		pack.SendResponse(c, err, nil)
		return
	}
	pack.SendResponse(c, errno.Success, newUserView(user))
}
