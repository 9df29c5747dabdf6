package service

import (
	"context"
	"math"
	"strings"
	"unicode/utf8"

	"UniVideo.com/cmd/model"
	"UniVideo.com/cmd/user/dal/db"
	"UniVideo.com/pkg/constants"
	"UniVideo.com/pkg/database"
	"UniVideo.com/pkg/errno"
	"UniVideo.com/pkg/utils"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/pkg/errors"
)

type UserService struct {
	ctx context.Context
}

func NewUserService(ctx context.Context) *UserService {
	return &UserService{ctx: ctx}
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Nickname string `json:"nickname"`
}

func (s *UserService) Register(req *RegisterRequest) (*model.User, error) {
	username := strings.TrimSpace(req.Username)
	nickname := strings.TrimSpace(req.Nickname)
	if username == "" || req.Password == "" || nickname == "" {
		return nil, errno.ValidationErr.WithMessage("缺少必填字段：username、password、nickname")
	}
	if n := utf8.RuneCountInString(username); n < constants.MinUsernameLength || n > constants.MaxUsernameLength {
		return nil, errno.ValidationErr.WithMessage("用户名长度必须在3-50个字符之间")
	}
	if len(req.Password) < constants.MinPasswordLength {
		return nil, errno.ValidationErr.WithMessage("密码长度至少6位")
	}

	exist, err := db.GetUserByName(s.ctx, username)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, errno.ConflictErr.WithMessage("用户名已存在，请更换")
	}

	password, err := utils.Crypt(req.Password)
	if err != nil {
		return nil, errors.WithMessage(err, "Password fail to crypt")
	}
	user := &model.User{
		Username: username,
		Password: password,
		Nickname: nickname,
		Role:     model.RoleUser,
		Status:   model.UserActive,
	}
	if err = db.CreateUser(s.ctx, user); err != nil {
		// 并发注册同名用户由唯一索引兜底
		if database.IsDuplicateKey(err) {
			return nil, errno.ConflictErr.WithMessage("用户名已存在，请更换")
		}
		return nil, err
	}
	hlog.CtxInfof(s.ctx, "user registered: id=%d username=%s", user.ID, user.Username)
	return user, nil
}

// Login 校验密码，封禁用户不允许登录
func (s *UserService) Login(username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, errno.ValidationErr.WithMessage("缺少必填字段：username、password")
	}
	user, err := db.GetUserByName(s.ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil || !utils.VerifyPassword(password, user.Password) {
		return nil, errno.UnauthorizedErr.WithMessage("用户名或密码错误")
	}
	if user.Status == model.UserBanned {
		return nil, errno.ForbiddenErr.WithMessage("该账号因违反社区规定已被封禁，无法登录。如有申诉请联系管理员。")
	}
	return user, nil
}

func (s *UserService) GetUser(userId int64) (*model.User, error) {
	user, err := db.GetUser(s.ctx, nil, userId)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errno.NotFoundErr.WithMessage("用户不存在")
	}
	return user, nil
}

type UserPage struct {
	List    []*model.User `json:"list"`
	Total   int64         `json:"total"`
	Page    int           `json:"page"`
	PerPage int           `json:"per_page"`
	Pages   int           `json:"pages"`
}

// ListUsers 每页数量超出 1..100 时回退为默认值
func (s *UserService) ListUsers(page, perPage int, keyword string) (*UserPage, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > constants.MaxPerPage {
		perPage = constants.DefaultPerPage
	}
	users, total, err := db.QueryUser(s.ctx, strings.TrimSpace(keyword), page, perPage)
	if err != nil {
		return nil, err
	}
	return &UserPage{
		List:    users,
		Total:   total,
		Page:    page,
		PerPage: perPage,
		Pages:   int(math.Ceil(float64(total) / float64(perPage))),
	}, nil
}

func (s *UserService) UpdateStatus(userId int64, status model.UserStatus) (*model.User, error) {
	if !status.Valid() {
		return nil, errno.ValidationErr.WithMessage("status 参数无效，仅支持 active（正常）或 banned（封禁）")
	}
	user, err := s.GetUser(userId)
	if err != nil {
		return nil, err
	}
	if user.IsAdmin() && status == model.UserBanned {
		return nil, errno.ForbiddenErr.WithMessage("不能封禁管理员账号")
	}
	if err = db.UpdateUserStatus(s.ctx, userId, status); err != nil {
		return nil, err
	}
	user.Status = status
	hlog.CtxInfof(s.ctx, "user %d status changed to %s", userId, status)
	return user, nil
}

func (s *UserService) CountUsers() (int64, error) {
	return db.CountUsers(s.ctx)
}
