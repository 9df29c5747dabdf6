package middleware

import (
	"context"

	"UniVideo.com/pkg/errno"
	sentinel "github.com/alibaba/sentinel-golang/api"
	"github.com/alibaba/sentinel-golang/core/base"
	"github.com/alibaba/sentinel-golang/core/flow"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
)

// InitFlow 初始化 sentinel 并加载规则
func InitFlow(resource string, qps float64) error {
	if err := sentinel.InitDefault(); err != nil {
		return err
	}
	return LoadFlowRules(resource, qps)
}

// LoadFlowRules 写接口整体 QPS 限制，qps <= 0 时不限流
func LoadFlowRules(resource string, qps float64) error {
	if qps <= 0 {
		_, err := flow.LoadRules(nil)
		return err
	}
	_, err := flow.LoadRules([]*flow.Rule{
		{
			Resource:               resource,
			TokenCalculateStrategy: flow.Direct,
			ControlBehavior:        flow.Reject,
			Threshold:              qps,
			StatIntervalInMs:       1000,
		},
	})
	return err
}

// FlowControl 被限流时返回 TooManyRequests
func FlowControl(resource string, reject func(c *app.RequestContext, err error)) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		e, b := sentinel.Entry(resource, sentinel.WithTrafficType(base.Inbound))
		if b != nil {
			hlog.CtxWarnf(ctx, "request %s %s blocked by flow rule: %s", c.Method(), c.Path(), b.BlockMsg())
			reject(c, errno.TooManyRequestsErr)
			c.Abort()
			return
		}
		defer e.Exit()
		c.Next(ctx)
	}
}
