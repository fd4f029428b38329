package net

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/crusoe/game/internal/input"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const maxMessageSize = 512

// clientMessage is what a controller sends: {"type":"key","key":"W"}.
type clientMessage struct {
	Type string `json:"type"`
	Key  string `json:"key"`
}

// Session is one websocket client. Network I/O runs in dedicated
// goroutines; the tick loop reads InQueue and calls Send.
type Session struct {
	ID   uint64
	conn *websocket.Conn

	InQueue  chan input.Signal // tick loop drains key signals from here
	OutQueue chan []byte       // writer goroutine reads frames from here

	IP string

	writeTimeout time.Duration
	readTimeout  time.Duration

	closeCh   chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool

	log *zap.Logger
}

func NewSession(conn *websocket.Conn, id uint64, inSize, outSize int, writeTimeout, readTimeout time.Duration, log *zap.Logger) *Session {
	return &Session{
		ID:           id,
		conn:         conn,
		InQueue:      make(chan input.Signal, inSize),
		OutQueue:     make(chan []byte, outSize),
		IP:           conn.RemoteAddr().String(),
		writeTimeout: writeTimeout,
		readTimeout:  readTimeout,
		closeCh:      make(chan struct{}),
		log:          log.With(zap.Uint64("session", id)),
	}
}

// Start launches the reader and writer goroutines.
func (s *Session) Start() {
	go s.readLoop()
	go s.writeLoop()
}

// Send queues one frame. Frames are snapshots, so when the client falls
// behind the frame is skipped rather than queued.
func (s *Session) Send(data []byte) bool {
	if s.closed.Load() {
		return false
	}
	select {
	case s.OutQueue <- data:
		return true
	default:
		s.log.Debug("output queue full, frame skipped")
		return false
	}
}

// Close gracefully shuts down the session.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		close(s.closeCh)
		s.conn.Close()
	})
}

// Done is closed when the session closes.
func (s *Session) Done() <-chan struct{} {
	return s.closeCh
}

func (s *Session) IsClosed() bool {
	return s.closed.Load()
}

// readLoop decodes key messages, stamps them with their arrival time and
// pushes them onto InQueue. Keys arriving while InQueue is full are
// dropped, the same as keys arriving inside a throttle window.
func (s *Session) readLoop() {
	defer s.Close()

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(s.readTimeout))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(s.readTimeout))
	})

	for {
		_, payload, err := s.conn.ReadMessage()
		if err != nil {
			if !s.closed.Load() && websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Debug("read error", zap.Error(err))
			}
			return
		}
		s.conn.SetReadDeadline(time.Now().Add(s.readTimeout))

		var msg clientMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			s.log.Debug("discarding malformed message", zap.Error(err))
			continue
		}
		if msg.Type != "key" || msg.Key == "" {
			s.log.Debug("discarding unknown message", zap.String("type", msg.Type))
			continue
		}

		sig := input.Signal{Key: input.NormalizeKey(msg.Key), At: time.Now()}
		select {
		case s.InQueue <- sig:
		case <-s.closeCh:
			return
		default:
			s.log.Debug("input queue full, key dropped", zap.String("key", string(sig.Key)))
		}
	}
}

// writeLoop writes queued frames and keeps the connection alive with pings.
func (s *Session) writeLoop() {
	ping := time.NewTicker(s.readTimeout * 9 / 10)
	defer func() {
		ping.Stop()
		s.Close()
	}()

	for {
		select {
		case data := <-s.OutQueue:
			s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				if !s.closed.Load() {
					s.log.Debug("write error", zap.Error(err))
				}
				return
			}
		case <-ping.C:
			s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-s.closeCh:
			return
		}
	}
}
