package service

import (
	"strings"
	"unicode/utf8"

	"UniVideo.com/cmd/interaction/dal/db"
	"UniVideo.com/cmd/model"
	userdb "UniVideo.com/cmd/user/dal/db"
	videodb "UniVideo.com/cmd/video/dal/db"
	"UniVideo.com/pkg/constants"
	"UniVideo.com/pkg/errno"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"gorm.io/gorm"
)

type PostCommentRequest struct {
	VideoID  int64
	UserID   int64
	Content  string
	ParentID *int64
}

// resolveThread 计算回复的 root_id：父评论是顶层时以父评论为根，否则继承父评论的根
func resolveThread(parent *model.Comment, videoId int64) (*int64, error) {
	if parent == nil {
		return nil, errno.InvalidReferenceErr.WithMessage("父评论不存在")
	}
	if parent.VideoID != videoId {
		return nil, errno.InvalidReferenceErr.WithMessage("父评论不属于该视频")
	}
	root := parent.ThreadRoot()
	return &root, nil
}

func validateComment(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", errno.ValidationErr.WithMessage("评论内容不能为空")
	}
	if utf8.RuneCountInString(content) > constants.MaxCommentLength {
		return "", errno.ValidationErr.WithMessagef("评论内容不能超过%d个字符", constants.MaxCommentLength)
	}
	return content, nil
}

func (s *InteractionService) PostComment(req *PostCommentRequest) (*model.CommentView, error) {
	content, err := validateComment(req.Content)
	if err != nil {
		return nil, err
	}
	if s.guard != nil {
		if err = s.guard.Check(s.ctx, req.UserID, content); err != nil {
			return nil, err
		}
	}

	comment := &model.Comment{
		Content: content,
		UserID:  req.UserID,
		VideoID: req.VideoID,
	}
	err = db.DB.WithContext(s.ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := videodb.VideoExists(s.ctx, tx, req.VideoID)
		if err != nil {
			return err
		}
		if !ok {
			return errno.NotFoundErr.WithMessage("视频不存在")
		}
		author, err := userdb.GetUser(s.ctx, tx, req.UserID)
		if err != nil {
			return err
		}
		if author == nil {
			return errno.NotFoundErr.WithMessage("用户不存在")
		}
		comment.Author = author

		if req.ParentID != nil {
			parent, err := db.GetCommentForShare(s.ctx, tx, *req.ParentID)
			if err != nil {
				return err
			}
			if comment.RootID, err = resolveThread(parent, req.VideoID); err != nil {
				return err
			}
			comment.ParentID = req.ParentID
		}
		return db.CreateComment(s.ctx, tx, comment)
	})
	if err != nil {
		if s.guard != nil {
			s.guard.Release(s.ctx, req.UserID, content)
		}
		return nil, err
	}
	hlog.CtxInfof(s.ctx, "user %d commented on video %d, comment %d", req.UserID, req.VideoID, comment.ID)
	return model.NewCommentView(comment), nil
}

type CommentList struct {
	Total int64                `json:"total"`
	List  []*model.CommentView `json:"list"`
}

func newCommentList(comments []*model.Comment) *CommentList {
	list := make([]*model.CommentView, 0, len(comments))
	for _, c := range comments {
		list = append(list, model.NewCommentView(c))
	}
	return &CommentList{Total: int64(len(list)), List: list}
}

func (s *InteractionService) requireVideo(videoId int64) error {
	ok, err := videodb.VideoExists(s.ctx, nil, videoId)
	if err != nil {
		return err
	}
	if !ok {
		return errno.NotFoundErr.WithMessage("视频不存在")
	}
	return nil
}

// ListComments 视频下的全部评论，最早的在前
func (s *InteractionService) ListComments(videoId int64) (*CommentList, error) {
	if err := s.requireVideo(videoId); err != nil {
		return nil, err
	}
	comments, err := db.ListComments(s.ctx, videoId)
	if err != nil {
		return nil, err
	}
	return newCommentList(comments), nil
}

// ListThread 某一楼层下的回复
func (s *InteractionService) ListThread(videoId, rootId int64) (*CommentList, error) {
	root, err := db.GetComment(s.ctx, rootId)
	if err != nil {
		return nil, err
	}
	if root == nil || root.VideoID != videoId {
		return nil, errno.NotFoundErr.WithMessage("评论不存在")
	}
	if !root.IsTopLevel() {
		return nil, errno.ValidationErr.WithMessage("只能查看顶层评论的回复")
	}
	comments, err := db.ListReplies(s.ctx, videoId, rootId)
	if err != nil {
		return nil, err
	}
	return newCommentList(comments), nil
}
