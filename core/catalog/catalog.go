package catalog

import (
	"context"
	"fmt"
	"strings"

	"VidPlayer/model"
)

// Catalog 会话期间固定不变的视频集合
// 加载完成后不再增删视频，视频实体的状态由播放控制器修改
type Catalog struct {
	videos []*model.Video
	byID   map[string]*model.Video
}

// New 根据加载记录构建目录，ID 为空或重复时返回错误
func New(records []model.Record) (*Catalog, error) {
	c := &Catalog{
		videos: make([]*model.Video, 0, len(records)),
		byID:   make(map[string]*model.Video, len(records)),
	}
	for i, r := range records {
		id := strings.TrimSpace(r.ID)
		if id == "" {
			return nil, fmt.Errorf("record %d (%q): empty video id", i+1, r.Title)
		}
		if _, exists := c.byID[id]; exists {
			return nil, fmt.Errorf("record %d: duplicate video id %q", i+1, id)
		}
		r.ID = id
		v := model.NewVideo(r)
		c.videos = append(c.videos, v)
		c.byID[id] = v
	}
	return c, nil
}

// Load 从数据源读取记录并构建目录
func Load(ctx context.Context, src Source) (*Catalog, error) {
	records, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog from %s: %w", src.Name(), err)
	}
	c, err := New(records)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog from %s: %w", src.Name(), err)
	}
	return c, nil
}

// Lookup 根据 ID 查找视频，不存在时返回 false
func (c *Catalog) Lookup(id string) (*model.Video, bool) {
	v, ok := c.byID[id]
	return v, ok
}

// All returns the videos in load order. The slice must not be modified.
func (c *Catalog) All() []*model.Video {
	return c.videos
}

// Len 返回目录中的视频数量
func (c *Catalog) Len() int {
	return len(c.videos)
}
