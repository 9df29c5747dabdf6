package redis

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/redis/go-redis/v9"
)

// NewClient Redis 只用于评论防刷，连接失败不影响启动
func NewClient(ctx context.Context, addr, password string, db int) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    password,
		DB:          db,
		DialTimeout: 2 * time.Second,
	})
	if _, err := client.Ping(ctx).Result(); err != nil {
		hlog.CtxWarnf(ctx, "redis %s unavailable, comment guard degraded: %v", addr, err)
	}
	return client
}
