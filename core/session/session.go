package session

import (
	"sort"
	"sync"

	"VidPlayer/core/catalog"
	"VidPlayer/core/outcome"
	"VidPlayer/core/player"
	"VidPlayer/core/playlist"
	"VidPlayer/core/search"
	"VidPlayer/logger"
	"VidPlayer/metrics"
	"VidPlayer/model"
)

// Observer 接收会话事件，在会话锁内按顺序同步调用，实现方不得阻塞
type Observer interface {
	Notify(event model.Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(event model.Event)

// Notify 调用函数本身
func (f ObserverFunc) Notify(event model.Event) {
	f(event)
}

// PlaylistView 播放列表及其解析后的视频
type PlaylistView struct {
	Name   string        `json:"name"`
	Videos []model.Video `json:"videos"`
}

// Session 单一会话状态：目录、播放槽位、播放列表
// 所有操作持有同一把互斥锁执行完毕
type Session struct {
	mu        sync.Mutex
	catalog   *catalog.Catalog
	player    *player.Controller
	playlists *playlist.Store
	search    *search.Engine
	observers []Observer
}

// Option configures a Session.
type Option func(*sessionOptions)

type sessionOptions struct {
	playerOpts []player.Option
	observers  []Observer
}

// WithObserver 注册事件观察者
func WithObserver(o Observer) Option {
	return func(so *sessionOptions) {
		so.observers = append(so.observers, o)
	}
}

// WithPlayerOptions 透传播放控制器选项（如随机源）
func WithPlayerOptions(opts ...player.Option) Option {
	return func(so *sessionOptions) {
		so.playerOpts = append(so.playerOpts, opts...)
	}
}

// New 基于已加载的目录创建会话
func New(c *catalog.Catalog, opts ...Option) *Session {
	var so sessionOptions
	for _, opt := range opts {
		opt(&so)
	}
	s := &Session{
		catalog:   c,
		player:    player.NewController(c, so.playerOpts...),
		playlists: playlist.NewStore(c),
		search:    search.NewEngine(c),
		observers: so.observers,
	}
	metrics.CatalogVideos.Set(float64(c.Len()))
	return s
}

// Subscribe 在会话创建后追加观察者
func (s *Session) Subscribe(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// run executes a mutating operation under the session lock and fans out its events.
func (s *Session) run(op string, fn func() ([]model.Event, error)) ([]model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	events, err := fn()
	metrics.ObserveOperation(op, err)
	if err != nil {
		logger.Debug("operation rejected",
			logger.String("op", op),
			logger.String("outcome", metrics.OutcomeLabel(err)),
			logger.ErrorField(err))
		return nil, err
	}

	metrics.ObserveEvents(events)
	s.refreshGauges()
	for _, e := range events {
		for _, o := range s.observers {
			o.Notify(e)
		}
	}
	logger.Debug("operation applied",
		logger.String("op", op),
		logger.Int("events", len(events)))
	return events, nil
}

func (s *Session) refreshGauges() {
	flagged := 0
	for _, v := range s.catalog.All() {
		if v.Flagged {
			flagged++
		}
	}
	metrics.FlaggedVideos.Set(float64(flagged))
	metrics.Playlists.Set(float64(s.playlists.Len()))
}

// ========== 目录 ==========

// CountVideos 返回目录中的视频总数
func (s *Session) CountVideos() int {
	return s.catalog.Len()
}

// Videos 按加载顺序返回所有视频的快照
func (s *Session) Videos() []model.Video {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshots(s.catalog.All())
}

// Video 返回单个视频的快照
func (s *Session) Video(id string) (model.Video, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.catalog.Lookup(id)
	if !ok {
		return model.Video{}, false
	}
	return v.Snapshot(), true
}

// ========== 播放控制 ==========

// Play 播放指定视频
func (s *Session) Play(id string) ([]model.Event, error) {
	return s.run("play", func() ([]model.Event, error) {
		return s.player.Play(id)
	})
}

// PlayRandom 随机播放一个未被标记的视频
func (s *Session) PlayRandom() ([]model.Event, error) {
	return s.run("play_random", s.player.PlayRandom)
}

// Stop 停止当前视频
func (s *Session) Stop() ([]model.Event, error) {
	return s.run("stop", s.player.Stop)
}

// Pause 暂停当前视频
func (s *Session) Pause() ([]model.Event, error) {
	return s.run("pause", s.player.Pause)
}

// Resume 继续播放当前视频
func (s *Session) Resume() ([]model.Event, error) {
	return s.run("resume", s.player.Resume)
}

// NowPlaying 返回当前视频的快照
func (s *Session) NowPlaying() (model.Video, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.player.NowPlaying()
	if !ok {
		return model.Video{}, false
	}
	return v.Snapshot(), true
}

// Flag 标记视频
func (s *Session) Flag(id, reason string) ([]model.Event, error) {
	return s.run("flag", func() ([]model.Event, error) {
		return s.player.Flag(id, reason)
	})
}

// Unflag 取消视频标记
func (s *Session) Unflag(id string) ([]model.Event, error) {
	return s.run("unflag", func() ([]model.Event, error) {
		return s.player.Unflag(id)
	})
}

// ========== 播放列表 ==========

// CreatePlaylist 创建播放列表
func (s *Session) CreatePlaylist(name string) ([]model.Event, error) {
	return s.run("create_playlist", func() ([]model.Event, error) {
		p, err := s.playlists.Create(name)
		if err != nil {
			return nil, err
		}
		return []model.Event{model.NewPlaylistEvent(model.EventPlaylistCreated, p.Name, nil)}, nil
	})
}

// DeletePlaylist 删除播放列表
func (s *Session) DeletePlaylist(name string) ([]model.Event, error) {
	return s.run("delete_playlist", func() ([]model.Event, error) {
		p, err := s.playlists.Delete(name)
		if err != nil {
			return nil, err
		}
		return []model.Event{model.NewPlaylistEvent(model.EventPlaylistDeleted, p.Name, nil)}, nil
	})
}

// AddToPlaylist 将视频加入播放列表
func (s *Session) AddToPlaylist(name, videoID string) ([]model.Event, error) {
	return s.run("add_to_playlist", func() ([]model.Event, error) {
		p, v, err := s.playlists.AddVideo(name, videoID)
		if err != nil {
			return nil, err
		}
		return []model.Event{model.NewPlaylistEvent(model.EventPlaylistVideoAdded, p.Name, v)}, nil
	})
}

// RemoveFromPlaylist 从播放列表移除视频
func (s *Session) RemoveFromPlaylist(name, videoID string) ([]model.Event, error) {
	return s.run("remove_from_playlist", func() ([]model.Event, error) {
		p, v, err := s.playlists.RemoveVideo(name, videoID)
		if err != nil {
			return nil, err
		}
		return []model.Event{model.NewPlaylistEvent(model.EventPlaylistVideoRemoved, p.Name, v)}, nil
	})
}

// ClearPlaylist 清空播放列表
func (s *Session) ClearPlaylist(name string) ([]model.Event, error) {
	return s.run("clear_playlist", func() ([]model.Event, error) {
		p, err := s.playlists.Clear(name)
		if err != nil {
			return nil, err
		}
		return []model.Event{model.NewPlaylistEvent(model.EventPlaylistCleared, p.Name, nil)}, nil
	})
}

// PlaylistExists 判断播放列表是否存在
func (s *Session) PlaylistExists(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playlists.Exists(name)
}

// Playlists returns every playlist sorted by display name.
func (s *Session) Playlists() []model.Playlist {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.playlists.List()
	out := make([]model.Playlist, len(all))
	for i, p := range all {
		out[i] = p.Snapshot()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Playlist 返回播放列表及其视频快照
func (s *Session) Playlist(name string) (PlaylistView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.playlists.Get(name)
	if !ok {
		return PlaylistView{}, outcome.New(outcome.KindPlaylistNotFound, name)
	}
	view := PlaylistView{Name: p.Name, Videos: make([]model.Video, 0, len(p.VideoIDs))}
	for _, id := range p.VideoIDs {
		if v, ok := s.catalog.Lookup(id); ok {
			view.Videos = append(view.Videos, v.Snapshot())
		}
	}
	return view, nil
}

// ========== 搜索 ==========

// SearchByTitle 按标题搜索未被标记的视频
func (s *Session) SearchByTitle(term string) []model.Video {
	s.mu.Lock()
	defer s.mu.Unlock()
	results := snapshots(s.search.ByTitle(term))
	metrics.ObserveOperation("search_title", nil)
	return results
}

// SearchByTag 按标签搜索未被标记的视频
func (s *Session) SearchByTag(tag string) []model.Video {
	s.mu.Lock()
	defer s.mu.Unlock()
	results := snapshots(s.search.ByTag(tag))
	metrics.ObserveOperation("search_tag", nil)
	return results
}

func snapshots(videos []*model.Video) []model.Video {
	out := make([]model.Video, len(videos))
	for i, v := range videos {
		out[i] = v.Snapshot()
	}
	return out
}
