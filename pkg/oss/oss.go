package oss

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"UniVideo.com/pkg/errno"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	pkgerrors "github.com/pkg/errors"
)

// BlobStore 视频与封面文件的存储，返回的路径写入数据库
type BlobStore interface {
	Put(ctx context.Context, dir, ext string, r io.Reader, size int64, contentType string) (string, error)
	Remove(ctx context.Context, objectPath string) error
	URL(objectPath string) string
}

var (
	VideoExtensions  = []string{"mp4", "avi", "mov", "mkv", "flv", "wmv"}
	ImageExtensions  = []string{"jpg", "jpeg", "png", "gif", "webp"}
	AvatarExtensions = ImageExtensions
)

// Ext 取文件扩展名并校验，不合法时返回 ValidationErr
func Ext(filename string, allowed []string, kind string) (string, error) {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(filename)), ".")
	for _, a := range allowed {
		if ext == a {
			return ext, nil
		}
	}
	return "", errno.ValidationErr.WithMessagef("不支持的%s格式，允许的格式: %s", kind, strings.Join(allowed, ", "))
}

// ObjectName 时间戳加 8 位随机串，避免文件名冲突
func ObjectName(dir, ext string, now time.Time) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s/%s_%s.%s", dir, now.Format("20060102150405"), id, ext)
}

type MinioStore struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

var _ BlobStore = (*MinioStore)(nil)

func (s *MinioStore) Put(ctx context.Context, dir, ext string, r io.Reader, size int64, contentType string) (string, error) {
	objectName := ObjectName(dir, ext, time.Now())
	_, err := s.client.PutObject(ctx, s.bucket, objectName, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		hlog.CtxErrorf(ctx, "upload %s failed: %v", objectName, err)
		return "", pkgerrors.WithMessage(errno.OssErr, err.Error())
	}
	return objectName, nil
}

func (s *MinioStore) Remove(ctx context.Context, objectPath string) error {
	if objectPath == "" {
		return nil
	}
	if err := s.client.RemoveObject(ctx, s.bucket, objectPath, minio.RemoveObjectOptions{}); err != nil {
		return pkgerrors.WithMessagef(err, "remove %s", objectPath)
	}
	return nil
}

func (s *MinioStore) URL(objectPath string) string {
	return s.baseURL + "/" + objectPath
}

// RemoveAll 逐个删除，返回成功删除的路径
func RemoveAll(ctx context.Context, store BlobStore, paths ...string) []string {
	deleted := make([]string, 0, len(paths))
	if store == nil {
		return deleted
	}
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := store.Remove(ctx, p); err != nil {
			hlog.CtxWarnf(ctx, "Failed to delete %s: %v", p, err)
			continue
		}
		deleted = append(deleted, p)
	}
	return deleted
}
