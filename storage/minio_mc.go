package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
)

// BucketStats 存储桶统计信息
type BucketStats struct {
	TotalObjects int64
	TotalSize    int64
	LastModified time.Time
}

// ObjectInfo 文件信息
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
	ContentType  string
	ETag         string
}

// ListObjects 列出前缀下的对象并汇总统计
func (m *MinioClient) ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, *BucketStats, error) {
	stats := &BucketStats{}
	var objects []ObjectInfo

	objectCh := m.client.ListObjects(ctx, m.bucketName, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})
	for object := range objectCh {
		if object.Err != nil {
			return nil, nil, fmt.Errorf("列出对象时出错: %w", object.Err)
		}
		objects = append(objects, ObjectInfo{
			Key:          object.Key,
			Size:         object.Size,
			LastModified: object.LastModified,
			ContentType:  object.ContentType,
			ETag:         object.ETag,
		})
	}
	stats.add(objects)
	return objects, stats, nil
}

func (s *BucketStats) add(objects []ObjectInfo) {
	for _, o := range objects {
		s.TotalObjects++
		s.TotalSize += o.Size
		if o.LastModified.After(s.LastModified) {
			s.LastModified = o.LastModified
		}
	}
}

// PrintObjects 打印对象列表及统计
func PrintObjects(w io.Writer, bucket, prefix string, objects []ObjectInfo, stats *BucketStats) {
	fmt.Fprintf(w, "Bucket: %s\n", bucket)
	fmt.Fprintf(w, "Prefix: %s\n", prefix)
	fmt.Fprintf(w, "Objects: %d\n", stats.TotalObjects)
	fmt.Fprintf(w, "Total size: %s\n", FormatSize(stats.TotalSize))
	if stats.TotalObjects > 0 {
		fmt.Fprintf(w, "Last modified: %s\n", stats.LastModified.Format("2006-01-02 15:04:05"))
	}
	for _, obj := range objects {
		fmt.Fprintf(w, "  %s\t%s\t%s\n", obj.Key, FormatSize(obj.Size), obj.LastModified.Format("2006-01-02 15:04:05"))
	}
}

// FormatSize 格式化文件大小
func FormatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
