package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"fleet-platform/internal/logx"
	"fleet-platform/internal/realtime"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
	wsSendQueue  = 64
)

type wsMessage struct {
	Type    string           `json:"type"`
	State   realtime.State   `json:"state,omitempty"`
	Entry   *realtime.Entry  `json:"entry,omitempty"`
	Entries []realtime.Entry `json:"entries,omitempty"`
	Error   string           `json:"error,omitempty"`
}

// RealtimeHandler streams the session feed over a websocket.
type RealtimeHandler struct {
	logger     logx.Logger
	hub        realtime.Subscriber
	classifier realtime.Classifier
	bufferSize int
	upgrader   websocket.Upgrader
}

// NewRealtimeHandler creates a RealtimeHandler. checkOrigin may be nil to accept same-host
// origins only.
func NewRealtimeHandler(logger logx.Logger, hub realtime.Subscriber, classifier realtime.Classifier,
	bufferSize int, checkOrigin func(*http.Request) bool) *RealtimeHandler {
	return &RealtimeHandler{
		logger:     logger,
		hub:        hub,
		classifier: classifier,
		bufferSize: bufferSize,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
	}
}

type wsSession struct {
	conn   *websocket.Conn
	send   chan wsMessage
	done   chan struct{}
	once   sync.Once
	logger logx.Logger
}

func (s *wsSession) push(m wsMessage) {
	select {
	case <-s.done:
	case s.send <- m:
	default:
		s.logger.Debug("websocket send queue full", logx.String("event", "realtime_dropped"), logx.String("type", m.Type))
	}
}

func (s *wsSession) stop() {
	s.once.Do(func() { close(s.done) })
}

func (s *wsSession) writeLoop() {
	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			s.flush()
			_ = s.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(wsWriteWait))
			return
		case m := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := s.conn.WriteJSON(m); err != nil {
				s.stop()
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.stop()
				return
			}
		}
	}
}

func (s *wsSession) flush() {
	for {
		select {
		case m := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := s.conn.WriteJSON(m); err != nil {
				return
			}
		default:
			return
		}
	}
}

// Serve handles GET /api/realtime/ws. The client receives {"type":"event"} messages as entries
// arrive and may send {"type":"snapshot"} to get the whole buffer.
func (h *RealtimeHandler) Serve(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrReject(h.logger, w, r)
	if !ok {
		return
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", logx.String("req_id", reqID(r.Context())), logx.Err(err))
		return
	}
	defer conn.Close()

	logger := h.logger.With(logx.String("user_id", actor.UserID))
	sess := &wsSession{
		conn:   conn,
		send:   make(chan wsMessage, wsSendQueue),
		done:   make(chan struct{}),
		logger: logger,
	}
	feed := realtime.NewFeed(h.hub, realtime.NewBuffer(h.bufferSize), h.classifier, logger, func(e realtime.Entry) {
		sess.push(wsMessage{Type: "event", Entry: &e})
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		sess.writeLoop()
	}()
	defer func() {
		feed.Close()
		sess.stop()
		wg.Wait()
	}()

	if err := feed.Connect(actor); err != nil {
		sess.push(wsMessage{Type: "state", State: feed.State(), Error: "Realtime setup failed"})
		return
	}
	sess.push(wsMessage{Type: "state", State: feed.State()})

	conn.SetReadLimit(4096)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	for {
		var in struct {
			Type string `json:"type"`
		}
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Debug("websocket closed", logx.String("event", "realtime_disconnected"), logx.Err(err))
			}
			return
		}
		switch in.Type {
		case "snapshot":
			sess.push(wsMessage{Type: "snapshot", Entries: feed.Snapshot()})
		case "ping":
			sess.push(wsMessage{Type: "pong"})
		default:
			sess.push(wsMessage{Type: "error", Error: "Unknown message type"})
		}
	}
}
