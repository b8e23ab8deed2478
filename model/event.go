package model

import (
	"time"

	"github.com/google/uuid"
)

// EventKind 会话事件类型
type EventKind string

const (
	// 播放控制事件
	EventStopped   EventKind = "stopped"   // 停止播放
	EventPlaying   EventKind = "playing"   // 开始播放
	EventPaused    EventKind = "paused"    // 暂停
	EventContinued EventKind = "continued" // 继续播放

	// 审核事件
	EventFlagged   EventKind = "flagged"   // 标记视频
	EventUnflagged EventKind = "unflagged" // 取消标记

	// 播放列表事件
	EventPlaylistCreated      EventKind = "playlist_created"
	EventPlaylistDeleted      EventKind = "playlist_deleted"
	EventPlaylistVideoAdded   EventKind = "playlist_video_added"
	EventPlaylistVideoRemoved EventKind = "playlist_video_removed"
	EventPlaylistCleared      EventKind = "playlist_cleared"
)

// Event 一次操作产生的有序副作用记录
type Event struct {
	ID        string    `json:"id"`
	Kind      EventKind `json:"kind"`
	VideoID   string    `json:"videoId,omitempty"`
	Title     string    `json:"title,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	Playlist  string    `json:"playlist,omitempty"`
	Timestamp int64     `json:"timestamp"` // Unix 毫秒
}

// NewVideoEvent 创建与视频相关的事件
func NewVideoEvent(kind EventKind, v *Video) Event {
	e := Event{
		ID:        uuid.New().String(),
		Kind:      kind,
		Timestamp: time.Now().UnixMilli(),
	}
	if v != nil {
		e.VideoID = v.ID
		e.Title = v.Title
		if v.Flagged {
			e.Reason = v.FlagReason
		}
	}
	return e
}

// NewPlaylistEvent 创建与播放列表相关的事件，v 可以为 nil
func NewPlaylistEvent(kind EventKind, playlist string, v *Video) Event {
	e := NewVideoEvent(kind, v)
	e.Playlist = playlist
	return e
}
