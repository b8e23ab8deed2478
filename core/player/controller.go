package player

import (
	"math/rand"
	"time"

	"VidPlayer/core/outcome"
	"VidPlayer/model"
)

// Library 播放控制器依赖的视频目录
type Library interface {
	Lookup(id string) (*model.Video, bool)
	All() []*model.Video
}

// Controller 单一"正在播放"槽位的播放状态机
// 不变式：只有当前视频的状态可以是 PLAYING 或 PAUSED，其余视频均为 STOPPED；
// 被标记的视频永远不会成为当前视频
type Controller struct {
	library Library
	current *model.Video
	newRand func() *rand.Rand
}

// Option configures a Controller.
type Option func(*Controller)

// WithRandSource 替换随机播放使用的随机源工厂，每次随机播放调用一次
func WithRandSource(f func() *rand.Rand) Option {
	return func(c *Controller) {
		c.newRand = f
	}
}

// NewController 创建播放控制器
func NewController(lib Library, opts ...Option) *Controller {
	c := &Controller{
		library: lib,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Play 播放指定视频
// 若另一个视频正在播放或暂停，先将其停止并产生 stopped 事件
func (c *Controller) Play(id string) ([]model.Event, error) {
	v, ok := c.library.Lookup(id)
	if !ok {
		return nil, outcome.New(outcome.KindVideoNotFound, id)
	}
	return c.play(v)
}

func (c *Controller) play(v *model.Video) ([]model.Event, error) {
	if v.Flagged {
		return nil, outcome.Flagged(v.ID, v.FlagReason)
	}

	var events []model.Event
	if c.current != nil && c.current.ID != v.ID {
		prev := c.current
		prev.Status = model.StatusStopped
		events = append(events, model.NewVideoEvent(model.EventStopped, prev))
	}

	v.Status = model.StatusPlaying
	c.current = v
	events = append(events, model.NewVideoEvent(model.EventPlaying, v))
	return events, nil
}

// Stop 停止当前视频并清空槽位
func (c *Controller) Stop() ([]model.Event, error) {
	if c.current == nil {
		return nil, outcome.New(outcome.KindNoneCurrent, "")
	}
	v := c.current
	v.Status = model.StatusStopped
	c.current = nil
	return []model.Event{model.NewVideoEvent(model.EventStopped, v)}, nil
}

// PlayRandom 在未被标记的视频中均匀随机选择一个播放
// 只读取目录快照，不修改任何共享状态
func (c *Controller) PlayRandom() ([]model.Event, error) {
	all := c.library.All()
	candidates := make([]*model.Video, 0, len(all))
	for _, v := range all {
		if !v.Flagged {
			candidates = append(candidates, v)
		}
	}
	if len(candidates) == 0 {
		return nil, outcome.New(outcome.KindCatalogEmpty, "")
	}

	r := c.newRand()
	return c.play(candidates[r.Intn(len(candidates))])
}

// Pause 暂停当前视频
func (c *Controller) Pause() ([]model.Event, error) {
	if c.current == nil {
		return nil, outcome.New(outcome.KindNoneCurrent, "")
	}
	if c.current.Status == model.StatusPaused {
		return nil, outcome.New(outcome.KindAlreadyPaused, c.current.ID)
	}
	c.current.Status = model.StatusPaused
	return []model.Event{model.NewVideoEvent(model.EventPaused, c.current)}, nil
}

// Resume 继续播放已暂停的当前视频
func (c *Controller) Resume() ([]model.Event, error) {
	if c.current == nil {
		return nil, outcome.New(outcome.KindNoneCurrent, "")
	}
	if c.current.Status != model.StatusPaused {
		return nil, outcome.New(outcome.KindNotPaused, c.current.ID)
	}
	c.current.Status = model.StatusPlaying
	return []model.Event{model.NewVideoEvent(model.EventContinued, c.current)}, nil
}

// NowPlaying returns the current video, if any.
func (c *Controller) NowPlaying() (*model.Video, bool) {
	if c.current == nil {
		return nil, false
	}
	return c.current, true
}

// Flag 标记视频，reason 为空时使用默认原因
// 若目标是当前视频，先隐式停止，事件顺序为 stopped 后 flagged
func (c *Controller) Flag(id, reason string) ([]model.Event, error) {
	v, ok := c.library.Lookup(id)
	if !ok {
		return nil, outcome.New(outcome.KindVideoNotFound, id)
	}
	if v.Flagged {
		return nil, outcome.New(outcome.KindAlreadyFlagged, id)
	}
	if reason == "" {
		reason = model.DefaultFlagReason
	}

	var events []model.Event
	if c.current != nil && c.current.ID == v.ID && v.Status != model.StatusStopped {
		stopped, err := c.Stop()
		if err != nil {
			return nil, err
		}
		events = append(events, stopped...)
	}

	v.Flagged = true
	v.FlagReason = reason
	events = append(events, model.NewVideoEvent(model.EventFlagged, v))
	return events, nil
}

// Unflag 取消标记，不恢复播放
func (c *Controller) Unflag(id string) ([]model.Event, error) {
	v, ok := c.library.Lookup(id)
	if !ok {
		return nil, outcome.New(outcome.KindVideoNotFound, id)
	}
	if !v.Flagged {
		return nil, outcome.New(outcome.KindNotFlagged, id)
	}
	v.Flagged = false
	v.FlagReason = ""
	return []model.Event{model.NewVideoEvent(model.EventUnflagged, v)}, nil
}
