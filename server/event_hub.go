package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"VidPlayer/logger"
	"VidPlayer/metrics"
	"VidPlayer/model"

	"github.com/gorilla/websocket"
)

const (
	// WebSocket 配置
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10 // 必须小于 pongWait
	maxMessageSize = 512
	sendBuffer     = 64
)

// eventClient 一个事件流连接
type eventClient struct {
	conn *websocket.Conn
	send chan []byte
}

// EventHub 将会话事件广播给所有 WebSocket 客户端
type EventHub struct {
	upgrader websocket.Upgrader

	clients map[*eventClient]bool
	mu      sync.RWMutex

	register   chan *eventClient
	unregister chan *eventClient
	broadcast  chan []byte

	done     chan struct{}
	stopOnce sync.Once
}

// NewEventHub 创建事件 Hub，需要调用 Run 启动
func NewEventHub() *EventHub {
	return &EventHub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		clients:    make(map[*eventClient]bool),
		register:   make(chan *eventClient),
		unregister: make(chan *eventClient),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
	}
}

// Run 启动 Hub 主循环
func (h *EventHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			metrics.WebsocketClients.Inc()
			logger.Debug("event client registered", logger.String("remote", client.conn.RemoteAddr().String()))

		case client := <-h.unregister:
			h.mu.Lock()
			h.removeClient(client)
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- msg:
				default:
					// 发送缓冲区满，断开慢客户端
					h.removeClient(client)
				}
			}
			h.mu.Unlock()

		case <-h.done:
			h.mu.Lock()
			for client := range h.clients {
				h.removeClient(client)
			}
			h.mu.Unlock()
			return
		}
	}
}

// removeClient 需要持有锁
func (h *EventHub) removeClient(client *eventClient) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.send)
	metrics.WebsocketClients.Dec()
}

// Stop 停止 Hub 并关闭所有连接
func (h *EventHub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// ClientCount 当前连接数
func (h *EventHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Notify implements session.Observer. 广播队列满时丢弃事件
func (h *EventHub) Notify(event model.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("failed to marshal event", logger.ErrorField(err))
		return
	}
	select {
	case h.broadcast <- data:
		metrics.EventsPublished.WithLabelValues("websocket", "ok").Inc()
	case <-h.done:
	default:
		metrics.EventsPublished.WithLabelValues("websocket", "dropped").Inc()
		logger.Warn("event broadcast queue full, dropping event", logger.String("kind", string(event.Kind)))
	}
}

// ServeWS 将请求升级为 WebSocket 并订阅事件流
func (h *EventHub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", logger.ErrorField(err))
		return
	}

	client := &eventClient{conn: conn, send: make(chan []byte, sendBuffer)}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go h.writePump(client)
	h.readPump(client)
}

// readPump 丢弃客户端消息，只用于感知断开和处理 pong
func (h *EventHub) readPump(client *eventClient) {
	defer func() {
		select {
		case h.unregister <- client:
		case <-h.done:
		}
		client.conn.Close()
	}()

	client.conn.SetReadLimit(maxMessageSize)
	client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		client.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				logger.Warn("websocket unexpected close", logger.ErrorField(err))
			}
			return
		}
	}
}

func (h *EventHub) writePump(client *eventClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-client.send:
			client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				client.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
