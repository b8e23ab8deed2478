package search

import (
	"sort"
	"strings"

	"VidPlayer/model"
)

// Lister 搜索引擎依赖的目录枚举
type Lister interface {
	All() []*model.Video
}

// Engine 目录搜索，被标记的视频不会出现在结果中
type Engine struct {
	videos Lister
}

// NewEngine 创建搜索引擎
func NewEngine(videos Lister) *Engine {
	return &Engine{videos: videos}
}

// ByTitle 按标题做大小写不敏感的子串匹配，结果按标题升序
func (e *Engine) ByTitle(term string) []*model.Video {
	needle := strings.ToLower(term)
	return e.filter(func(v *model.Video) bool {
		return strings.Contains(strings.ToLower(v.Title), needle)
	})
}

// ByTag 按标签精确匹配（区分大小写），结果按标题升序
func (e *Engine) ByTag(tag string) []*model.Video {
	return e.filter(func(v *model.Video) bool {
		return v.HasTag(tag)
	})
}

func (e *Engine) filter(match func(v *model.Video) bool) []*model.Video {
	results := make([]*model.Video, 0)
	for _, v := range e.videos.All() {
		if v.Flagged || !match(v) {
			continue
		}
		results = append(results, v)
	}
	SortByTitle(results)
	return results
}

// SortByTitle sorts videos by title in byte order, keeping load order for equal titles.
func SortByTitle(videos []*model.Video) {
	sort.SliceStable(videos, func(i, j int) bool {
		return videos[i].Title < videos[j].Title
	})
}
