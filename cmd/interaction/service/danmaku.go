package service

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"UniVideo.com/cmd/interaction/dal/db"
	"UniVideo.com/cmd/model"
	"UniVideo.com/pkg/constants"
	"UniVideo.com/pkg/errno"
)

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

type PostDanmakuRequest struct {
	VideoID int64
	UserID  int64
	Text    string
	Time    float64
	Color   string
	Mode    model.DanmakuMode
	Border  bool
}

func (req *PostDanmakuRequest) build() (*model.Danmaku, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, errno.ValidationErr.WithMessage("弹幕内容不能为空")
	}
	if utf8.RuneCountInString(text) > constants.MaxDanmakuLength {
		return nil, errno.ValidationErr.WithMessagef("弹幕内容不能超过%d个字符", constants.MaxDanmakuLength)
	}
	if req.Time < 0 {
		return nil, errno.ValidationErr.WithMessage("弹幕时间不能为负数")
	}
	if !req.Mode.Valid() {
		return nil, errno.ValidationErr.WithMessage("弹幕模式无效")
	}
	color := strings.TrimSpace(req.Color)
	if color == "" {
		color = constants.DefaultDanmakuColor
	}
	if !colorPattern.MatchString(color) {
		return nil, errno.ValidationErr.WithMessage("弹幕颜色格式无效")
	}
	return &model.Danmaku{
		Text:    text,
		Time:    req.Time,
		Color:   strings.ToUpper(color),
		Mode:    req.Mode,
		Border:  req.Border,
		UserID:  req.UserID,
		VideoID: req.VideoID,
	}, nil
}

func (s *InteractionService) PostDanmaku(req *PostDanmakuRequest) (*model.Danmaku, error) {
	d, err := req.build()
	if err != nil {
		return nil, err
	}
	if err = s.requireVideo(req.VideoID); err != nil {
		return nil, err
	}
	if err = db.CreateDanmaku(s.ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *InteractionService) ListDanmaku(videoId int64) ([]*model.Danmaku, error) {
	if err := s.requireVideo(videoId); err != nil {
		return nil, err
	}
	return db.ListDanmaku(s.ctx, videoId)
}
