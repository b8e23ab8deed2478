package catalog

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"VidPlayer/model"
)

// Source 目录数据源
type Source interface {
	// Load 读取全部记录，顺序即目录顺序
	Load(ctx context.Context) ([]model.Record, error)
	// Name 返回用于日志的数据源描述
	Name() string
}

// FileSource reads records from a local text file.
type FileSource struct {
	Path string
}

// NewFileSource 创建本地文件数据源
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// Load 读取并解析文件
func (s *FileSource) Load(ctx context.Context) ([]model.Record, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open catalog file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Name 返回文件路径
func (s *FileSource) Name() string {
	return "file:" + s.Path
}

// Parse 解析目录文本，每行一条记录：
//
//	Amazing Cats | amazing_cats_video_id | #cat , #animal
//
// 空行与以 # 开头的注释行会被跳过，标签列可省略
func Parse(r io.Reader) ([]model.Record, error) {
	var records []model.Record
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		rec, err := ParseLine(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return records, nil
}

// ParseLine parses a single "title | id | tags" record.
func ParseLine(text string) (model.Record, error) {
	parts := strings.Split(text, "|")
	if len(parts) < 2 || len(parts) > 3 {
		return model.Record{}, fmt.Errorf("expected \"title | id | tags\", got %q", text)
	}
	rec := model.Record{
		Title: strings.TrimSpace(parts[0]),
		ID:    strings.TrimSpace(parts[1]),
	}
	if rec.Title == "" || rec.ID == "" {
		return model.Record{}, fmt.Errorf("title and id are required in %q", text)
	}
	if len(parts) == 3 {
		rec.Tags = SplitTags(parts[2])
	}
	return rec, nil
}

// SplitTags 按逗号拆分标签并去除空白
func SplitTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// StaticSource serves a fixed record list.
type StaticSource []model.Record

// Load 返回记录副本
func (s StaticSource) Load(ctx context.Context) ([]model.Record, error) {
	out := make([]model.Record, len(s))
	copy(out, s)
	return out, nil
}

// Name 返回固定名称
func (s StaticSource) Name() string {
	return "static"
}
