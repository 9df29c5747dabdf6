package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"UniVideo.com/pkg/constants"
	"UniVideo.com/pkg/errno"
	"UniVideo.com/pkg/utils"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/redis/go-redis/v9"
)

const (
	// 评论频率限制 Key：comment_rate_limit:{user_id}
	CommentRateLimitKeyTemplate = "comment_rate_limit:%d"

	// 评论内容哈希 Key：comment_hash:{user_id}:{hash}
	CommentHashKeyTemplate = "comment_hash:%d:%s"
)

func rateLimitKey(userId int64) string {
	return fmt.Sprintf(CommentRateLimitKeyTemplate, userId)
}

func contentHashKey(userId int64, content string) string {
	return fmt.Sprintf(CommentHashKeyTemplate, userId, utils.MD5(strings.TrimSpace(content)))
}

// CommentGuard 评论频率限制与重复内容检测
type CommentGuard struct {
	client    *redis.Client
	limit     int64
	window    time.Duration
	dupWindow time.Duration
}

func NewCommentGuard(client *redis.Client) *CommentGuard {
	return &CommentGuard{
		client:    client,
		limit:     constants.CommentRateLimit,
		window:    constants.CommentRateWindow,
		dupWindow: constants.DuplicateTimeWindow,
	}
}

// Check Redis 不可用时放行
func (g *CommentGuard) Check(ctx context.Context, userId int64, content string) error {
	if g == nil || g.client == nil {
		return nil
	}

	key := rateLimitKey(userId)
	pipe := g.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, g.window)
	if _, err := pipe.Exec(ctx); err != nil {
		hlog.CtxWarnf(ctx, "comment rate limit check failed for user %d: %v", userId, err)
		return nil
	}
	if incr.Val() > g.limit {
		return errno.TooManyRequestsErr.WithMessage("评论过于频繁，请稍后再试")
	}

	stored, err := g.client.SetNX(ctx, contentHashKey(userId, content), 1, g.dupWindow).Result()
	if err != nil {
		hlog.CtxWarnf(ctx, "duplicate comment check failed for user %d: %v", userId, err)
		return nil
	}
	if !stored {
		return errno.ValidationErr.WithMessage("请勿重复发表相同的评论")
	}
	return nil
}

// Release 评论未能写入时撤销重复内容标记，允许原样重发
func (g *CommentGuard) Release(ctx context.Context, userId int64, content string) {
	if g == nil || g.client == nil {
		return
	}
	if err := g.client.Del(ctx, contentHashKey(userId, content)).Err(); err != nil {
		hlog.CtxWarnf(ctx, "release comment hash failed for user %d: %v", userId, err)
	}
}
