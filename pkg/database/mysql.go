package database

import (
	"context"
	"errors"
	"time"

	"UniVideo.com/cmd/model"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	mysqldriver "github.com/go-sql-driver/mysql"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
	gormopentracing "gorm.io/plugin/opentracing"
)

const (
	mysqlDuplicateEntry  = 1062
	mysqlLockWaitTimeout = 1205
	mysqlDeadlock        = 1213
)

type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

var DefaultPool = PoolConfig{MaxOpenConns: 100, MaxIdleConns: 10, ConnMaxLifetime: time.Hour}

// Open 建立 MySQL 连接并挂载 opentracing 插件
func Open(dsn string, pool PoolConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().Local()
		},
	})
	if err != nil {
		return nil, pkgerrors.WithMessage(err, "open mysql")
	}
	if err = db.Use(gormopentracing.New()); err != nil {
		return nil, pkgerrors.WithMessage(err, "use opentracing plugin")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// 设置连接池参数
	sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(pool.ConnMaxLifetime)
	return db, nil
}

// Migrate 建表并写入预置分类，被引用的表必须先建
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Video{},
		&model.Comment{},
		&model.Like{},
		&model.Collection{},
		&model.Danmaku{},
		&model.Notification{},
	); err != nil {
		return pkgerrors.WithMessage(err, "auto migrate")
	}
	return SeedCategories(ctx, db)
}

func SeedCategories(ctx context.Context, db *gorm.DB) error {
	categories := make([]model.Category, 0, len(model.DefaultCategories))
	for _, name := range model.DefaultCategories {
		categories = append(categories, model.Category{Name: name})
	}
	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&categories).Error
	if err != nil {
		return pkgerrors.WithMessage(err, "seed categories")
	}
	hlog.Infof("seeded %d categories", len(categories))
	return nil
}

// Ping 健康检查
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// IsDuplicateKey 唯一约束冲突，TranslateError 开启时为 gorm.ErrDuplicatedKey，否则是驱动原始错误
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *mysqldriver.MySQLError
	return errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry
}

// IsLockConflict 死锁或锁等待超时，InnoDB 已回滚整个事务，可以重跑
func IsLockConflict(err error) bool {
	var myErr *mysqldriver.MySQLError
	if !errors.As(err, &myErr) {
		return false
	}
	return myErr.Number == mysqlDeadlock || myErr.Number == mysqlLockWaitTimeout
}
