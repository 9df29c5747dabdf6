package service

import (
	"context"
)

// Guard 评论发布前的防刷检查，评论没能写入时 Release 撤销重复内容标记
type Guard interface {
	Check(ctx context.Context, userId int64, content string) error
	Release(ctx context.Context, userId int64, content string)
}

// InteractionService 评论、点赞收藏与弹幕
type InteractionService struct {
	ctx   context.Context
	guard Guard
}

func NewInteractionService(ctx context.Context, guard Guard) *InteractionService {
	return &InteractionService{ctx: ctx, guard: guard}
}
