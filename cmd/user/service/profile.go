package service

import (
	"io"
	"strings"
	"unicode/utf8"

	"UniVideo.com/cmd/model"
	"UniVideo.com/cmd/user/dal/db"
	"UniVideo.com/pkg/constants"
	"UniVideo.com/pkg/errno"
	"UniVideo.com/pkg/oss"
	"UniVideo.com/pkg/utils"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/pkg/errors"
)

type AvatarFile struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// ProfileRequest 为空的字段保持不变
type ProfileRequest struct {
	UserID   int64
	Nickname *string
	Password *string
	Avatar   *AvatarFile
}

func (s *UserService) UpdateProfile(store oss.BlobStore, req *ProfileRequest) (*model.User, error) {
	user, err := s.GetUser(req.UserID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Nickname != nil {
		nickname := strings.TrimSpace(*req.Nickname)
		if n := utf8.RuneCountInString(nickname); n < 2 || n > constants.MaxUsernameLength {
			return nil, errno.ValidationErr.WithMessage("昵称长度必须在2-50个字符之间")
		}
		updates["nickname"] = nickname
		user.Nickname = nickname
	}
	if req.Password != nil {
		if len(*req.Password) < constants.MinPasswordLength {
			return nil, errno.ValidationErr.WithMessage("密码长度至少6位")
		}
		hashed, err := utils.Crypt(*req.Password)
		if err != nil {
			return nil, errors.WithMessage(err, "Password fail to crypt")
		}
		updates["password"] = hashed
	}

	oldAvatar := user.Avatar
	if req.Avatar != nil {
		ext, err := oss.Ext(req.Avatar.Filename, oss.AvatarExtensions, "头像")
		if err != nil {
			return nil, err
		}
		if store == nil {
			return nil, errno.OssErr
		}
		avatar, err := store.Put(s.ctx, constants.MinioAvatarDir, ext, req.Avatar.Reader, req.Avatar.Size, req.Avatar.ContentType)
		if err != nil {
			return nil, err
		}
		updates["avatar"] = avatar
		user.Avatar = avatar
	}

	if err = db.UpdateUserProfile(s.ctx, req.UserID, updates); err != nil {
		if req.Avatar != nil {
			oss.RemoveAll(s.ctx, store, user.Avatar)
		}
		return nil, err
	}
	if req.Avatar != nil && oldAvatar != "" {
		oss.RemoveAll(s.ctx, store, oldAvatar)
	}
	hlog.CtxInfof(s.ctx, "user %d updated profile fields %d", req.UserID, len(updates))
	return user, nil
}
