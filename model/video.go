package model

import "fmt"

// PlaybackStatus 视频播放状态
type PlaybackStatus int8

const (
	StatusStopped PlaybackStatus = iota // 已停止
	StatusPlaying                       // 播放中
	StatusPaused                        // 已暂停
)

// String returns the lowercase name of the status.
func (s PlaybackStatus) String() string {
	switch s {
	case StatusStopped:
		return "stopped"
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	default:
		return "unknown"
	}
}

// MarshalText 让状态在 JSON 中以字符串形式输出
func (s PlaybackStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText 解析 MarshalText 输出的状态名
func (s *PlaybackStatus) UnmarshalText(text []byte) error {
	switch string(text) {
	case "stopped":
		*s = StatusStopped
	case "playing":
		*s = StatusPlaying
	case "paused":
		*s = StatusPaused
	default:
		return fmt.Errorf("unknown playback status %q", text)
	}
	return nil
}

// DefaultFlagReason 标记视频时未提供原因的默认值
const DefaultFlagReason = "Not supplied"

// Record 目录加载时的一条原始记录（标题/ID/标签）
type Record struct {
	Title string   `json:"title"`
	ID    string   `json:"id"`
	Tags  []string `json:"tags"`
}

// Video 目录中的视频实体
// ID、Title、Tags 加载后不可变；Status 与标记状态在会话中变化
type Video struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	Tags       []string       `json:"tags"`
	Status     PlaybackStatus `json:"status"`
	Flagged    bool           `json:"flagged"`
	FlagReason string         `json:"flagReason,omitempty"`
}

// NewVideo 根据加载记录创建处于停止状态的视频
func NewVideo(r Record) *Video {
	tags := make([]string, len(r.Tags))
	copy(tags, r.Tags)
	return &Video{
		ID:     r.ID,
		Title:  r.Title,
		Tags:   tags,
		Status: StatusStopped,
	}
}

// HasTag reports whether tag is one of the video's tags (exact match).
func (v *Video) HasTag(tag string) bool {
	for _, t := range v.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Snapshot 返回视频的只读副本，供核心外部使用
func (v *Video) Snapshot() Video {
	cp := *v
	cp.Tags = make([]string, len(v.Tags))
	copy(cp.Tags, v.Tags)
	return cp
}
