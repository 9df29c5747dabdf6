package middleware

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
)

// Tracing 每个请求一个 server span，下游的 SQL span 挂在它下面
func Tracing() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		span := opentracing.GlobalTracer().StartSpan(string(c.Method()) + " " + c.FullPath())
		ext.SpanKindRPCServer.Set(span)
		ext.HTTPMethod.Set(span, string(c.Method()))
		ext.HTTPUrl.Set(span, string(c.Request.URI().PathOriginal()))
		ctx = opentracing.ContextWithSpan(ctx, span)

		c.Next(ctx)

		status := c.Response.StatusCode()
		ext.HTTPStatusCode.Set(span, uint16(status))
		if status >= 500 {
			ext.Error.Set(span, true)
		}
		span.Finish()
	}
}
