package api

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"pp_quest/internal/model"
	"pp_quest/internal/service"
	"pp_quest/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	feedSendBuffer = 8
	feedWriteWait  = 10 * time.Second
	feedPongWait   = 60 * time.Second
	feedPingPeriod = feedPongWait * 9 / 10

	MessageTypeState = "state"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Message struct {
	Type    string      `json:"type"`
	Payload model.State `json:"payload"`
}

type feedClient struct {
	conn *websocket.Conn
	send chan []byte
}

// FeedHub fans committed state snapshots out to connected WebSocket clients. A client whose
// buffer is full misses the frame; the next snapshot carries the full state anyway.
type FeedHub struct {
	mu        sync.RWMutex
	clients   map[*feedClient]struct{}
	published atomic.Uint64
}

func NewFeedHub() *FeedHub {
	return &FeedHub{clients: make(map[*feedClient]struct{})}
}

func encodeState(state model.State) ([]byte, error) {
	return json.Marshal(Message{Type: MessageTypeState, Payload: state})
}

// Publish implements service.Notifier.
func (h *FeedHub) Publish(state model.State) {
	data, err := encodeState(state)
	if err != nil {
		logger.Named("feed").Error("failed to marshal state", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	h.published.Add(1)
	for client := range h.clients {
		select {
		case client.send <- data:
		default:
			logger.Named("feed").Warn("feed client is slow, dropping frame")
		}
	}
}

func (h *FeedHub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *FeedHub) register(client *feedClient) {
	h.mu.Lock()
	h.clients[client] = struct{}{}
	h.mu.Unlock()
}

// sendInitial queues the connect-time snapshot unless a publish reached the client after seq
// was read, in which case that frame is already at least as new.
func (h *FeedHub) sendInitial(client *feedClient, seq uint64, data []byte) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok || h.published.Load() != seq {
		return false
	}
	select {
	case client.send <- data:
		return true
	default:
		return false
	}
}

func (h *FeedHub) unregister(client *feedClient) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	h.mu.Unlock()
}

type feedRoutes struct {
	hub *FeedHub
	qs  service.QuestServiceI
}

func NewFeedRoutes(handler *gin.RouterGroup, hub *FeedHub, qs service.QuestServiceI) {
	r := &feedRoutes{hub: hub, qs: qs}
	handler.GET("/feed", r.handleWebSocket)
}

func (r *feedRoutes) handleWebSocket(c *gin.Context) {
	log := logger.Named("feed")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &feedClient{conn: conn, send: make(chan []byte, feedSendBuffer)}
	r.hub.register(client)

	seq := r.hub.published.Load()
	initial, err := encodeState(r.qs.Snapshot())
	if err != nil {
		log.Error("failed to marshal state", zap.Error(err))
		r.hub.unregister(client)
		conn.Close()
		return
	}
	r.hub.sendInitial(client, seq, initial)

	go r.writeLoop(client)
	go r.readLoop(client)
}

// readLoop only drains control frames so that a closed connection is noticed.
func (r *feedRoutes) readLoop(client *feedClient) {
	defer func() {
		r.hub.unregister(client)
		client.conn.Close()
	}()

	client.conn.SetReadLimit(512)
	_ = client.conn.SetReadDeadline(time.Now().Add(feedPongWait))
	client.conn.SetPongHandler(func(string) error {
		return client.conn.SetReadDeadline(time.Now().Add(feedPongWait))
	})

	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Named("feed").Info("websocket unexpected close", zap.Error(err))
			}
			return
		}
	}
}

func (r *feedRoutes) writeLoop(client *feedClient) {
	log := logger.Named("feed")
	ticker := time.NewTicker(feedPingPeriod)
	defer func() {
		ticker.Stop()
		client.conn.Close()
	}()

	for {
		select {
		case data, ok := <-client.send:
			_ = client.conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
			if !ok {
				_ = client.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error("failed to send state", zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = client.conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
