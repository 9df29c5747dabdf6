package oss

import (
	"context"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinioConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
	Bucket          string
	// 默认区域，根据实际情况修改
	Location string
}

// NewMinioStore 连接 MinIO，存储桶不存在时创建
func NewMinioStore(ctx context.Context, cfg MinioConfig) (*MinioStore, error) {
	hlog.Infof("Initializing MinIO client with endpoint: %s, accessKey: %s", cfg.Endpoint, cfg.AccessKeyID)

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		hlog.Errorf("Failed to create MinIO client: %v", err)
		return nil, err
	}

	location := cfg.Location
	if location == "" {
		location = "us-east-1"
	}
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err = client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: location}); err != nil {
			return nil, err
		}
	}

	hlog.Info("Connect Minio Success")
	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	return &MinioStore{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: scheme + "://" + cfg.Endpoint + "/" + cfg.Bucket,
	}, nil
}
