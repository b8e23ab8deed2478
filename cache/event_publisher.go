package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"VidPlayer/logger"
	"VidPlayer/metrics"
	"VidPlayer/model"

	"github.com/go-redis/redis/v8"
)

const (
	defaultQueueSize = 256
	publishTimeout   = 2 * time.Second
)

// Publisher 发布消息所需的 Redis 能力
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// EventPublisher 将会话事件以 JSON 发布到 Redis 频道
// Notify 只入队不阻塞，队列满时丢弃事件
type EventPublisher struct {
	client  Publisher
	channel string

	mu     sync.RWMutex
	closed bool
	queue  chan model.Event
	done   chan struct{}
}

// NewEventPublisher 创建发布器并启动后台发送协程
func NewEventPublisher(client Publisher, channel string, queueSize int) *EventPublisher {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	p := &EventPublisher{
		client:  client,
		channel: channel,
		queue:   make(chan model.Event, queueSize),
		done:    make(chan struct{}),
	}
	go p.loop()
	return p
}

// Notify implements session.Observer.
func (p *EventPublisher) Notify(event model.Event) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return
	}
	select {
	case p.queue <- event:
	default:
		metrics.EventsPublished.WithLabelValues("redis", "dropped").Inc()
		logger.Warn("event queue full, dropping event",
			logger.String("kind", string(event.Kind)),
			logger.String("id", event.ID))
	}
}

// Close 停止接收新事件并等待队列发送完毕
func (p *EventPublisher) Close() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()
	<-p.done
}

func (p *EventPublisher) loop() {
	defer close(p.done)
	for event := range p.queue {
		p.publish(event)
	}
}

func (p *EventPublisher) publish(event model.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error("failed to marshal event", logger.ErrorField(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		metrics.EventsPublished.WithLabelValues("redis", "error").Inc()
		logger.Warn("failed to publish event",
			logger.String("channel", p.channel),
			logger.String("kind", string(event.Kind)),
			logger.ErrorField(err))
		return
	}
	metrics.EventsPublished.WithLabelValues("redis", "ok").Inc()
}
