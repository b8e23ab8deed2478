package playlist

import (
	"strings"
	"unicode"

	"VidPlayer/core/outcome"
	"VidPlayer/model"
)

// VideoLookup 播放列表校验视频所需的目录查询
type VideoLookup interface {
	Lookup(id string) (*model.Video, bool)
}

// Store 播放列表存储，名称大小写不敏感且唯一
// 名称是否可用只取决于当前是否存在同名列表，删除后可立即复用
type Store struct {
	videos    VideoLookup
	playlists map[string]*model.Playlist
}

// NewStore 创建空的播放列表存储
func NewStore(videos VideoLookup) *Store {
	return &Store{
		videos:    videos,
		playlists: make(map[string]*model.Playlist),
	}
}

// ValidName reports whether name is a single non-empty token without whitespace.
func ValidName(name string) bool {
	return name != "" && strings.IndexFunc(name, unicode.IsSpace) < 0
}

// Create 创建播放列表，保留调用方提供的大小写
func (s *Store) Create(name string) (*model.Playlist, error) {
	if !ValidName(name) {
		return nil, outcome.New(outcome.KindInvalidName, name)
	}
	key := model.PlaylistKey(name)
	if _, exists := s.playlists[key]; exists {
		return nil, outcome.New(outcome.KindAlreadyExists, name)
	}
	p := &model.Playlist{Name: name, VideoIDs: []string{}}
	s.playlists[key] = p
	return p, nil
}

// Exists 判断播放列表是否存在（大小写不敏感）
func (s *Store) Exists(name string) bool {
	_, ok := s.playlists[model.PlaylistKey(name)]
	return ok
}

// Get 获取播放列表（大小写不敏感）
func (s *Store) Get(name string) (*model.Playlist, bool) {
	p, ok := s.playlists[model.PlaylistKey(name)]
	return p, ok
}

// List returns every playlist in no particular order.
func (s *Store) List() []*model.Playlist {
	out := make([]*model.Playlist, 0, len(s.playlists))
	for _, p := range s.playlists {
		out = append(out, p)
	}
	return out
}

// Len 返回播放列表数量
func (s *Store) Len() int {
	return len(s.playlists)
}

// Delete 删除播放列表并释放名称
func (s *Store) Delete(name string) (*model.Playlist, error) {
	key := model.PlaylistKey(name)
	p, ok := s.playlists[key]
	if !ok {
		return nil, outcome.New(outcome.KindPlaylistNotFound, name)
	}
	delete(s.playlists, key)
	return p, nil
}

// AddVideo 将视频追加到播放列表末尾
// 校验顺序：列表存在、视频存在、视频未被标记、视频不在列表中
func (s *Store) AddVideo(name, videoID string) (*model.Playlist, *model.Video, error) {
	p, ok := s.Get(name)
	if !ok {
		return nil, nil, outcome.New(outcome.KindPlaylistNotFound, name)
	}
	v, ok := s.videos.Lookup(videoID)
	if !ok {
		return nil, nil, outcome.New(outcome.KindVideoNotFound, videoID)
	}
	if v.Flagged {
		return nil, nil, outcome.Flagged(videoID, v.FlagReason)
	}
	if p.IndexOf(v.ID) >= 0 {
		return nil, nil, outcome.New(outcome.KindAlreadyInPlaylist, videoID)
	}
	p.VideoIDs = append(p.VideoIDs, v.ID)
	return p, v, nil
}

// RemoveVideo 从播放列表中移除视频
func (s *Store) RemoveVideo(name, videoID string) (*model.Playlist, *model.Video, error) {
	p, ok := s.Get(name)
	if !ok {
		return nil, nil, outcome.New(outcome.KindPlaylistNotFound, name)
	}
	v, ok := s.videos.Lookup(videoID)
	if !ok {
		return nil, nil, outcome.New(outcome.KindVideoNotFound, videoID)
	}
	idx := p.IndexOf(v.ID)
	if idx < 0 {
		return nil, nil, outcome.New(outcome.KindNotInPlaylist, videoID)
	}
	p.VideoIDs = append(p.VideoIDs[:idx], p.VideoIDs[idx+1:]...)
	return p, v, nil
}

// Clear 清空播放列表，列表本身保留
func (s *Store) Clear(name string) (*model.Playlist, error) {
	p, ok := s.Get(name)
	if !ok {
		return nil, outcome.New(outcome.KindPlaylistNotFound, name)
	}
	p.VideoIDs = p.VideoIDs[:0]
	return p, nil
}
