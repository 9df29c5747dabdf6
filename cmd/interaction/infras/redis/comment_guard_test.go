package redis

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"UniVideo.com/pkg/errno"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestKeys(t *testing.T) {
	require.Equal(t, "comment_rate_limit:7", rateLimitKey(7))
	require.Equal(t, contentHashKey(7, "hello"), contentHashKey(7, "  hello "))
	require.NotEqual(t, contentHashKey(7, "hello"), contentHashKey(8, "hello"))
	require.Equal(t, "comment_hash:7:5d41402abc4b2a76b9719d911017c592", contentHashKey(7, "hello"))
}

func TestCheckFailsOpen(t *testing.T) {
	var nilGuard *CommentGuard
	require.NoError(t, nilGuard.Check(context.Background(), 1, "hi"))

	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	require.NoError(t, NewCommentGuard(client).Check(context.Background(), 1, "hi"))
}

func newTestGuard(t *testing.T) (*CommentGuard, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCommentGuard(client), mr
}

func TestCheckRateLimit(t *testing.T) {
	ctx := context.Background()
	g, mr := newTestGuard(t)

	for i := 0; i < 10; i++ {
		require.NoError(t, g.Check(ctx, 1, fmt.Sprintf("comment %d", i)))
	}
	err := g.Check(ctx, 1, "comment 10")
	require.True(t, errors.Is(err, errno.TooManyRequestsErr))
	require.Contains(t, errno.ConvertErr(err).ErrMsg, "评论过于频繁")

	// 其他用户不受影响
	require.NoError(t, g.Check(ctx, 2, "comment 0"))

	// 窗口过期后恢复
	mr.FastForward(time.Minute + time.Second)
	require.NoError(t, g.Check(ctx, 1, "comment 11"))
}

func TestCheckDuplicateWindow(t *testing.T) {
	ctx := context.Background()
	g, mr := newTestGuard(t)

	require.NoError(t, g.Check(ctx, 1, "hello"))
	err := g.Check(ctx, 1, "  hello ")
	require.True(t, errors.Is(err, errno.ValidationErr))
	require.Contains(t, errno.ConvertErr(err).ErrMsg, "请勿重复发表相同的评论")
	require.NoError(t, g.Check(ctx, 2, "hello"))

	mr.FastForward(300*time.Second + time.Second)
	require.NoError(t, g.Check(ctx, 1, "hello"))
}

func TestRelease(t *testing.T) {
	ctx := context.Background()
	g, mr := newTestGuard(t)

	require.NoError(t, g.Check(ctx, 1, "hello"))
	require.True(t, mr.Exists(contentHashKey(1, "hello")))
	g.Release(ctx, 1, "hello")
	require.False(t, mr.Exists(contentHashKey(1, "hello")))
	require.NoError(t, g.Check(ctx, 1, "hello"))

	var nilGuard *CommentGuard
	nilGuard.Release(ctx, 1, "hello")
}
