package authfunc

import (
	"context"

	"UniVideo.com/cmd/api/handlers/pack"
	"UniVideo.com/pkg/constants"
	"UniVideo.com/pkg/errno"
	"UniVideo.com/pkg/jwt"
	"github.com/cloudwego/hertz/pkg/app"
)

// Authorization 权限检查的结果
type Authorization int

const (
	Granted Authorization = iota
	Unauthenticated
	Forbidden
)

func (a Authorization) Err() error {
	switch a {
	case Unauthenticated:
		return errno.UnauthorizedErr
	case Forbidden:
		return errno.ForbiddenErr.WithMessage("需要管理员权限")
	}
	return nil
}

// Authorize 在业务逻辑之前根据已认证身份判定权限
func Authorize(c *app.RequestContext, requireAdmin bool) (*jwt.Identity, Authorization) {
	identity, ok := jwt.IdentityFrom(c)
	if !ok {
		return nil, Unauthenticated
	}
	if requireAdmin && !identity.IsAdmin() {
		return identity, Forbidden
	}
	return identity, Granted
}

func Auth() []app.HandlerFunc {
	return append(make([]app.HandlerFunc, 0),
		jwt.Middleware.MiddlewareFunc(),
	)
}

func Admin() []app.HandlerFunc {
	return append(Auth(), RequireAdmin())
}

func RequireAdmin() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		if _, a := Authorize(c, true); a != Granted {
			pack.SendError(c, a.Err())
			return
		}
		c.Next(ctx)
	}
}

// OptionalAuth 带了有效 token 时写入身份，否则按匿名继续
func OptionalAuth() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		if identity, err := jwt.Parse(ctx, c); err == nil {
			c.Set(constants.IdentityKey, identity)
		}
		c.Next(ctx)
	}
}
