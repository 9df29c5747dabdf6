package jaeger

import (
	"io"

	"github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"
	"github.com/uber/jaeger-client-go"
	jaegercfg "github.com/uber/jaeger-client-go/config"
)

// Init 创建全局 tracer，gorm 的 opentracing 插件与 HTTP 中间件共用
func Init(serviceName, agentAddr string, sampleRate float64) (io.Closer, error) {
	cfg := jaegercfg.Configuration{
		ServiceName: serviceName,
		Sampler: &jaegercfg.SamplerConfig{
			Type:  jaeger.SamplerTypeProbabilistic,
			Param: sampleRate,
		},
		Reporter: &jaegercfg.ReporterConfig{
			LocalAgentHostPort: agentAddr,
		},
	}
	tracer, closer, err := cfg.NewTracer()
	if err != nil {
		return nil, err
	}
	opentracing.SetGlobalTracer(tracer)
	logrus.Infof("jaeger tracer %s reporting to %s", serviceName, agentAddr)
	return closer, nil
}
