package server

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ActivityEvent is one entry in the activity feed: a navigation served, a
// lazy resolution, or a failure.
type ActivityEvent struct {
	Time     time.Time `json:"time"`
	Type     string    `json:"type"` // "navigate", "resolve", "error"
	Path     string    `json:"path,omitempty"`
	Route    string    `json:"route,omitempty"`
	Status   int       `json:"status,omitempty"`
	Duration int64     `json:"durationMs,omitempty"`
	Detail   string    `json:"detail,omitempty"`
}

// ActivityBus fans activity events out to feed subscribers. Slow subscribers
// drop events rather than stall request handling.
type ActivityBus struct {
	mu   sync.Mutex
	subs map[chan ActivityEvent]struct{}
}

// NewActivityBus creates an empty bus.
func NewActivityBus() *ActivityBus {
	return &ActivityBus{subs: make(map[chan ActivityEvent]struct{})}
}

// Publish delivers an event to every subscriber without blocking.
func (b *ActivityBus) Publish(ev ActivityEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Subscribe registers a new subscriber channel.
func (b *ActivityBus) Subscribe() chan ActivityEvent {
	ch := make(chan ActivityEvent, 64)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber.
func (b *ActivityBus) Unsubscribe(ch chan ActivityEvent) {
	b.mu.Lock()
	delete(b.subs, ch)
	b.mu.Unlock()
}

const (
	activityWriteTimeout = 10 * time.Second
	activityPingInterval = 30 * time.Second
)

// activityHandler upgrades the connection and streams events until the
// client goes away.
func (s *Server) activityHandler() http.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     s.config.CheckOrigin,
	}

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			s.logger.Warn("activity feed upgrade failed", "error", err)
			return
		}

		ch := s.bus.Subscribe()
		defer s.bus.Unsubscribe(ch)
		defer conn.Close()

		closed := make(chan struct{})
		go readUntilClose(conn, closed, s.logger)

		ping := time.NewTicker(activityPingInterval)
		defer ping.Stop()

		for {
			select {
			case ev := <-ch:
				conn.SetWriteDeadline(time.Now().Add(activityWriteTimeout))
				if err := conn.WriteJSON(ev); err != nil {
					return
				}
			case <-ping.C:
				conn.SetWriteDeadline(time.Now().Add(activityWriteTimeout))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			case <-closed:
				return
			case <-r.Context().Done():
				return
			}
		}
	}
}

// readUntilClose drains the connection so close frames are processed.
func readUntilClose(conn *websocket.Conn, closed chan<- struct{}, logger *slog.Logger) {
	defer close(closed)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseNormalClosure) {
				logger.Debug("activity feed read error", "error", err)
			}
			return
		}
	}
}
