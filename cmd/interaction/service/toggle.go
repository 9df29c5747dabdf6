package service

import (
	"UniVideo.com/cmd/interaction/dal/db"
	userdb "UniVideo.com/cmd/user/dal/db"
	videodb "UniVideo.com/cmd/video/dal/db"
	"UniVideo.com/pkg/database"
	"UniVideo.com/pkg/errno"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"gorm.io/gorm"
)

type Kind string

const (
	KindLike    Kind = "like"
	KindCollect Kind = "collect"
)

func (k Kind) relation() (db.Relation, bool) {
	switch k {
	case KindLike:
		return db.LikeRelation, true
	case KindCollect:
		return db.CollectRelation, true
	}
	return db.Relation{}, false
}

type Outcome string

const (
	Activated   Outcome = "activated"
	Deactivated Outcome = "deactivated"
	// RaceRetried 并发插入撞上唯一索引，按取消处理
	RaceRetried Outcome = "race_retried"
)

type ToggleResult struct {
	Outcome Outcome `json:"outcome"`
	Active  bool    `json:"active"`
	Count   int64   `json:"count"`
}

// Toggle 点赞/收藏取反，唯一索引是并发下的最终保证
func (s *InteractionService) Toggle(kind Kind, userId, videoId int64) (*ToggleResult, error) {
	rel, ok := kind.relation()
	if !ok {
		return nil, errno.ValidationErr.WithMessagef("不支持的操作类型: %s", kind)
	}

	res, err := s.toggleOnce(rel, userId, videoId, false)
	if database.IsLockConflict(err) {
		// 两个首次插入在间隙锁上互相等待，失败的一方整体重跑一次
		hlog.CtxInfof(s.ctx, "%s lock conflict on user %d video %d, retrying: %v", rel.Name, userId, videoId, err)
		res, err = s.toggleOnce(rel, userId, videoId, true)
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

// toggleOnce 单个事务内完成取反；retried 为 true 时删除已存在的行记为 RaceRetried
func (s *InteractionService) toggleOnce(rel db.Relation, userId, videoId int64, retried bool) (*ToggleResult, error) {
	res := &ToggleResult{}
	err := db.DB.WithContext(s.ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := userdb.UserExists(s.ctx, tx, userId)
		if err != nil {
			return err
		}
		if !ok {
			return errno.NotFoundErr.WithMessage("用户不存在")
		}
		if ok, err = videodb.VideoExists(s.ctx, tx, videoId); err != nil {
			return err
		}
		if !ok {
			return errno.NotFoundErr.WithMessage("视频不存在")
		}

		exists, err := db.LockRelation(s.ctx, tx, rel, userId, videoId)
		if err != nil {
			return err
		}
		if exists {
			if err = db.DeleteRelation(s.ctx, tx, rel, userId, videoId); err != nil {
				return err
			}
			res.Outcome = Deactivated
			if retried {
				res.Outcome = RaceRetried
			}
		} else {
			err = tx.Transaction(func(sp *gorm.DB) error {
				return db.InsertRelation(s.ctx, sp, rel, userId, videoId)
			})
			switch {
			case err == nil:
				res.Outcome, res.Active = Activated, true
			case database.IsDuplicateKey(err):
				// 另一个请求已经插入，本次视为取消
				hlog.CtxInfof(s.ctx, "%s race on user %d video %d, retried as toggle-off", rel.Name, userId, videoId)
				if err = db.DeleteRelation(s.ctx, tx, rel, userId, videoId); err != nil {
					return err
				}
				res.Outcome = RaceRetried
			default:
				return err
			}
		}

		res.Count, err = db.CountRelation(s.ctx, tx, rel, videoId)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Status 只读查询当前用户是否已点赞/收藏
func (s *InteractionService) Status(kind Kind, userId, videoId int64) (bool, error) {
	rel, ok := kind.relation()
	if !ok {
		return false, errno.ValidationErr.WithMessagef("不支持的操作类型: %s", kind)
	}
	if err := s.requireVideo(videoId); err != nil {
		return false, err
	}
	return db.RelationExists(s.ctx, rel, userId, videoId)
}
