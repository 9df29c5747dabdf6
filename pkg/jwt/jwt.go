package jwt

import (
	"context"
	"errors"
	"time"

	"UniVideo.com/cmd/model"
	"UniVideo.com/pkg/constants"
	"UniVideo.com/pkg/errno"
	"UniVideo.com/pkg/utils"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/hertz-contrib/jwt"
)

const (
	loginUserKey = "login_user"
	authErrKey   = "auth_err"
)

// Identity 已认证的请求身份
type Identity struct {
	UserID int64
	Role   model.Role
}

func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == model.RoleAdmin
}

type LoginParam struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// LoginFunc 校验用户名密码
type LoginFunc func(ctx context.Context, username, password string) (*model.User, error)

type Options struct {
	Secret  string
	Timeout time.Duration
	Login   LoginFunc
	// OnLogin 登录成功时输出 token 与用户信息
	OnLogin func(c *app.RequestContext, token string, expire time.Time, user *model.User)
	// OnError 认证失败时输出错误
	OnError func(c *app.RequestContext, err error)
}

var Middleware *jwt.HertzJWTMiddleware

func identityFromClaims(claims jwt.MapClaims) (*Identity, bool) {
	uid, ok := utils.Transfer(claims[constants.IdentityKey])
	if !ok {
		return nil, false
	}
	role, _ := claims[constants.RoleKey].(string)
	return &Identity{UserID: uid, Role: model.Role(role)}, true
}

func Init(opts Options) error {
	mw, err := jwt.New(&jwt.HertzJWTMiddleware{
		Realm:         "univideo",
		Key:           []byte(opts.Secret),
		Timeout:       opts.Timeout,
		MaxRefresh:    opts.Timeout,
		IdentityKey:   constants.IdentityKey,
		TokenLookup:   "header: Authorization, query: token",
		TokenHeadName: "Bearer",
		TimeFunc:      time.Now,
		PayloadFunc: func(data interface{}) jwt.MapClaims {
			if user, ok := data.(*model.User); ok {
				return jwt.MapClaims{
					constants.IdentityKey: user.ID,
					constants.RoleKey:     string(user.Role),
				}
			}
			return jwt.MapClaims{}
		},
		IdentityHandler: func(ctx context.Context, c *app.RequestContext) interface{} {
			identity, ok := identityFromClaims(jwt.ExtractClaims(ctx, c))
			if !ok {
				return nil
			}
			return identity
		},
		Authenticator: func(ctx context.Context, c *app.RequestContext) (interface{}, error) {
			var param LoginParam
			if err := c.Bind(&param); err != nil {
				c.Set(authErrKey, errno.ValidationErr.WithMessage("请求参数格式错误"))
				return nil, jwt.ErrMissingLoginValues
			}
			user, err := opts.Login(ctx, param.Username, param.Password)
			if err != nil {
				c.Set(authErrKey, err)
				return nil, err
			}
			c.Set(loginUserKey, user)
			hlog.CtxInfof(ctx, "user %d logged in", user.ID)
			return user, nil
		},
		LoginResponse: func(ctx context.Context, c *app.RequestContext, code int, token string, expire time.Time) {
			user, _ := c.Get(loginUserKey)
			u, _ := user.(*model.User)
			opts.OnLogin(c, token, expire, u)
		},
		Unauthorized: func(ctx context.Context, c *app.RequestContext, code int, message string) {
			if v, ok := c.Get(authErrKey); ok {
				if err, ok := v.(error); ok {
					opts.OnError(c, err)
					return
				}
			}
			opts.OnError(c, errno.UnauthorizedErr)
		},
		HTTPStatusMessageFunc: func(e error, ctx context.Context, c *app.RequestContext) string {
			return errno.ConvertErr(e).ErrMsg
		},
	})
	if err != nil {
		return err
	}
	Middleware = mw
	return nil
}

// IdentityFrom 取出中间件写入的身份
func IdentityFrom(c *app.RequestContext) (*Identity, bool) {
	v, ok := c.Get(constants.IdentityKey)
	if !ok {
		return nil, false
	}
	identity, ok := v.(*Identity)
	return identity, ok && identity != nil
}

// Parse 校验请求中的 token，不写响应，用于可选登录的接口
func Parse(ctx context.Context, c *app.RequestContext) (*Identity, error) {
	if Middleware == nil {
		return nil, errors.New("jwt middleware not initialized")
	}
	claims, err := Middleware.GetClaimsFromJWT(ctx, c)
	if err != nil {
		return nil, err
	}
	identity, ok := identityFromClaims(claims)
	if !ok {
		return nil, errno.UnauthorizedErr
	}
	return identity, nil
}

// GenerateToken 注册成功后直接签发 token
func GenerateToken(user *model.User) (string, time.Time, error) {
	return Middleware.TokenGenerator(user)
}
