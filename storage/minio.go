package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"VidPlayer/config"
	"VidPlayer/core/catalog"
	"VidPlayer/logger"
	"VidPlayer/model"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const connectTimeout = 5 * time.Second

// MinioClient 封装了 MinIO 客户端及目录所在的存储桶
type MinioClient struct {
	client     *minio.Client
	bucketName string
}

// NewMinioClient 根据配置创建 MinIO 客户端
func NewMinioClient(cfg *config.Config) (*MinioClient, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
		Region: cfg.MinioRegion,
	})
	if err != nil {
		return nil, fmt.Errorf("创建 MinIO 客户端失败: %w", err)
	}
	return &MinioClient{client: client, bucketName: cfg.MinioBucket}, nil
}

// Bucket 返回存储桶名称
func (m *MinioClient) Bucket() string {
	return m.bucketName
}

// EnsureBucket 检查存储桶是否存在，不存在时创建
func (m *MinioClient) EnsureBucket(ctx context.Context, region string) error {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	exists, err := m.client.BucketExists(ctx, m.bucketName)
	if err != nil {
		return fmt.Errorf("检查存储桶失败: %w", err)
	}
	if exists {
		logger.Debug("bucket exists", logger.String("bucket", m.bucketName))
		return nil
	}
	if err := m.client.MakeBucket(ctx, m.bucketName, minio.MakeBucketOptions{Region: region}); err != nil {
		return fmt.Errorf("创建存储桶失败: %w", err)
	}
	logger.Info("bucket created", logger.String("bucket", m.bucketName))
	return nil
}

// UploadCatalog 上传目录文本
func (m *MinioClient) UploadCatalog(ctx context.Context, object string, r io.Reader, size int64) error {
	info, err := m.client.PutObject(ctx, m.bucketName, object, r, size, minio.PutObjectOptions{
		ContentType: "text/plain; charset=utf-8",
	})
	if err != nil {
		return fmt.Errorf("上传目录失败: %w", err)
	}
	logger.Info("catalog uploaded",
		logger.String("bucket", m.bucketName),
		logger.String("object", object),
		logger.Any("size", info.Size))
	return nil
}

// UploadCatalogFile 校验本地目录文件后上传
func (m *MinioClient) UploadCatalogFile(ctx context.Context, object, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := catalog.Parse(f); err != nil {
		return fmt.Errorf("invalid catalog %s: %w", path, err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return err
	}
	st, err := f.Stat()
	if err != nil {
		return err
	}
	return m.UploadCatalog(ctx, object, f, st.Size())
}

// open 返回对象的读取流
func (m *MinioClient) open(ctx context.Context, object string) (io.ReadCloser, error) {
	obj, err := m.client.GetObject(ctx, m.bucketName, object, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("读取对象失败: %w", err)
	}
	return obj, nil
}

// MinioSource 从 MinIO 对象加载目录，格式与本地目录文件相同
type MinioSource struct {
	name string
	open func(ctx context.Context) (io.ReadCloser, error)
}

// NewMinioSource 创建 MinIO 目录来源
func NewMinioSource(m *MinioClient, object string) *MinioSource {
	return &MinioSource{
		name: fmt.Sprintf("minio:%s/%s", m.bucketName, object),
		open: func(ctx context.Context) (io.ReadCloser, error) {
			return m.open(ctx, object)
		},
	}
}

// Name implements catalog.Source.
func (s *MinioSource) Name() string {
	return s.name
}

// Load implements catalog.Source.
func (s *MinioSource) Load(ctx context.Context) ([]model.Record, error) {
	rc, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return catalog.Parse(rc)
}
