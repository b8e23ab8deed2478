package model

import "strings"

// Playlist 用户创建的播放列表
// Name 保留创建时的大小写，身份以小写名称比较；VideoIDs 按加入顺序排列且不重复
type Playlist struct {
	Name     string   `json:"name"`
	VideoIDs []string `json:"videoIds"`
}

// PlaylistKey 返回播放列表名称的大小写无关键
func PlaylistKey(name string) string {
	return strings.ToLower(name)
}

// Key 返回播放列表的身份键
func (p *Playlist) Key() string {
	return PlaylistKey(p.Name)
}

// IndexOf returns the position of videoID in the playlist, or -1.
func (p *Playlist) IndexOf(videoID string) int {
	for i, id := range p.VideoIDs {
		if id == videoID {
			return i
		}
	}
	return -1
}

// Snapshot 返回播放列表的副本
func (p *Playlist) Snapshot() Playlist {
	ids := make([]string, len(p.VideoIDs))
	copy(ids, p.VideoIDs)
	return Playlist{Name: p.Name, VideoIDs: ids}
}
