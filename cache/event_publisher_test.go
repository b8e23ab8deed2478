package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"VidPlayer/model"

	"github.com/go-redis/redis/v8"
)

type fakePublisher struct {
	mu       sync.Mutex
	channels []string
	messages [][]byte
	err      error
	block    chan struct{}
}

func (f *fakePublisher) Publish(_ context.Context, channel string, message interface{}) *redis.IntCmd {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.channels = append(f.channels, channel)
	f.messages = append(f.messages, message.([]byte))
	return redis.NewIntResult(1, f.err)
}

func TestEventPublisherDeliversInOrder(t *testing.T) {
	fp := &fakePublisher{}
	p := NewEventPublisher(fp, "vidplayer:events", 8)

	video := &model.Video{ID: "amazing_cats_video_id", Title: "Amazing Cats"}
	p.Notify(model.NewVideoEvent(model.EventPlaying, video))
	p.Notify(model.NewVideoEvent(model.EventStopped, video))
	p.Close()

	if len(fp.messages) != 2 {
		t.Fatalf("published %d messages, want 2", len(fp.messages))
	}
	kinds := []model.EventKind{model.EventPlaying, model.EventStopped}
	for i, raw := range fp.messages {
		var e model.Event
		if err := json.Unmarshal(raw, &e); err != nil {
			t.Fatalf("message %d is not JSON: %v", i, err)
		}
		if e.Kind != kinds[i] || e.VideoID != "amazing_cats_video_id" {
			t.Errorf("message %d = %+v", i, e)
		}
		if fp.channels[i] != "vidplayer:events" {
			t.Errorf("channel = %q", fp.channels[i])
		}
	}
}

func TestEventPublisherNotifyDoesNotBlock(t *testing.T) {
	fp := &fakePublisher{block: make(chan struct{})}
	p := NewEventPublisher(fp, "ch", 1)

	// One event is held by the sender, one fills the queue, the rest are dropped.
	for i := 0; i < 10; i++ {
		p.Notify(model.Event{Kind: model.EventPlaying})
	}
	close(fp.block)
	p.Close()

	if n := len(fp.messages); n < 1 || n > 2 {
		t.Errorf("published %d messages, want 1 or 2", n)
	}
}

func TestEventPublisherAfterClose(t *testing.T) {
	fp := &fakePublisher{}
	p := NewEventPublisher(fp, "ch", 4)
	p.Close()
	p.Close()
	p.Notify(model.Event{Kind: model.EventPlaying})
	if len(fp.messages) != 0 {
		t.Errorf("published %d messages after Close", len(fp.messages))
	}
}

func TestEventPublisherSurvivesErrors(t *testing.T) {
	fp := &fakePublisher{err: errors.New("connection refused")}
	p := NewEventPublisher(fp, "ch", 4)
	p.Notify(model.Event{Kind: model.EventPlaying})
	p.Notify(model.Event{Kind: model.EventPaused})
	p.Close()
	if len(fp.messages) != 2 {
		t.Errorf("attempted %d publishes, want 2", len(fp.messages))
	}
}
