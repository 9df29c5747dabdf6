package main

import (
	"context"
	"time"

	admin "UniVideo.com/cmd/api/handlers/admin"
	interaction "UniVideo.com/cmd/api/handlers/interaction"
	"UniVideo.com/cmd/api/handlers/pack"
	user "UniVideo.com/cmd/api/handlers/user"
	video "UniVideo.com/cmd/api/handlers/video"
	webs "UniVideo.com/cmd/api/router/websocket"
	interactiondb "UniVideo.com/cmd/interaction/dal/db"
	"UniVideo.com/cmd/interaction/infras/redis"
	"UniVideo.com/cmd/model"
	notifydb "UniVideo.com/cmd/notification/dal/db"
	userdb "UniVideo.com/cmd/user/dal/db"
	userservice "UniVideo.com/cmd/user/service"
	videodb "UniVideo.com/cmd/video/dal/db"
	"UniVideo.com/config"
	"UniVideo.com/config/jaeger"
	"UniVideo.com/config/pprof"
	"UniVideo.com/pkg/constants"
	"UniVideo.com/pkg/database"
	"UniVideo.com/pkg/errno"
	"UniVideo.com/pkg/jwt"
	"UniVideo.com/pkg/middleware"
	"UniVideo.com/pkg/mq"
	"UniVideo.com/pkg/oss"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/middlewares/server/recovery"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/hertz-contrib/cors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Init 依赖初始化：MySQL 不可用时直接退出，其余组件降级运行
func Init(ctx context.Context) (*gorm.DB, *webs.Hub, func()) {
	c := config.ConfigInfo
	var closers []func()

	if closer, err := jaeger.Init(c.Jaeger.ServiceName, c.Jaeger.AgentAddr, c.Jaeger.SampleRate); err != nil {
		logrus.Warnf("jaeger disabled: %v", err)
	} else {
		closers = append(closers, func() { closer.Close() })
	}

	db, err := database.Open(c.MysqlDSN(), database.DefaultPool)
	if err != nil {
		panic(err)
	}
	if err = database.Migrate(ctx, db); err != nil {
		panic(err)
	}
	userdb.Init(db)
	videodb.Init(db)
	interactiondb.Init(db)
	notifydb.Init(db)

	var store oss.BlobStore
	if s, err := oss.NewMinioStore(ctx, oss.MinioConfig{
		Endpoint:        c.Minio.Endpoint,
		AccessKeyID:     c.Minio.AccessKeyID,
		SecretAccessKey: c.Minio.SecretAccessKey,
		UseSSL:          c.Minio.UseSSL,
		Bucket:          c.Minio.Bucket,
	}); err != nil {
		hlog.Warnf("minio unavailable, uploads disabled: %v", err)
	} else {
		store = s
	}

	hub := webs.NewHub()
	var publisher mq.EventPublisher
	if producer, err := mq.NewProducer(c.RabbitMqURL()); err != nil {
		hlog.Warnf("rabbitmq producer unavailable, realtime push disabled: %v", err)
	} else {
		publisher = producer
		closers = append(closers, func() { producer.Close() })
	}
	if consumer, err := mq.NewConsumer(c.RabbitMqURL()); err != nil {
		hlog.Warnf("rabbitmq consumer unavailable: %v", err)
	} else if err = consumer.ConsumeNotificationEvents(ctx, hub); err != nil {
		hlog.Warnf("consume notification events failed: %v", err)
		consumer.Close()
	} else {
		closers = append(closers, func() { consumer.Close() })
	}

	guard := redis.NewCommentGuard(redis.NewClient(ctx, c.Redis.Addr, c.Redis.Password, c.Redis.DB))

	user.Init(store)
	video.Init(store)
	admin.Init(store, publisher)
	interaction.Init(guard)

	if err = jwt.Init(jwt.Options{
		Secret:  c.Jwt.Secret,
		Timeout: time.Duration(c.Jwt.TimeoutHour) * time.Hour,
		Login: func(ctx context.Context, username, password string) (*model.User, error) {
			return userservice.NewUserService(ctx).Login(username, password)
		},
		OnLogin: user.LoginResponse,
		OnError: pack.SendError,
	}); err != nil {
		panic(err)
	}
	if err = middleware.InitFlow(constants.WriteResource, c.Sentinel.WriteQPS); err != nil {
		hlog.Warnf("sentinel init failed, flow control disabled: %v", err)
	}

	return db, hub, func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
}

func main() {
	config.Init()
	pprof.Load(config.ConfigInfo.Server.PprofAddr)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	db, hub, cleanup := Init(ctx)
	defer cleanup()

	r := server.New(
		server.WithHostPorts(config.ConfigInfo.Server.Addr),
		server.WithHandleMethodNotAllowed(true),
		server.WithMaxRequestBodySize(config.ConfigInfo.Server.MaxUploadMB<<20),
	)
	// websocket 升级需要关闭连接池劫持
	r.NoHijackConnPool = true

	r.Use(recovery.Recovery(recovery.WithRecoveryHandler(
		func(ctx context.Context, c *app.RequestContext, err interface{}, stack []byte) {
			hlog.SystemLogger().CtxErrorf(ctx, "[Recovery] err=%v\nstack=%s", err, stack)
			pack.SendResponse(c, errno.ServiceErr, nil)
		})))

	// 配置 CORS
	r.Use(cors.New(cors.Config{
		AllowOrigins:     config.ConfigInfo.Server.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.Tracing(), middleware.AccessLog())

	register(r, db)
	webs.Register(r, hub)

	hlog.Infof("univideo api listening on %s", config.ConfigInfo.Server.Addr)
	r.Spin()
}
