package net

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync/atomic"

	"github.com/crusoe/game/internal/config"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Server accepts websocket clients on /ws and creates Sessions.
// New/dead sessions are communicated to the tick loop via channels.
//
// A client is a keyboard and a screen for the single local player, not a
// second player. At most cfg.MaxSessions clients are connected at once;
// extra connections are refused before the upgrade.
type Server struct {
	listener net.Listener
	http     *http.Server
	upgrader websocket.Upgrader
	nextID   atomic.Uint64
	active   atomic.Int64
	newConns chan *Session
	deadCh   chan uint64 // session IDs of dead sessions
	cfg      config.NetworkConfig
	log      *zap.Logger
}

func NewServer(cfg config.NetworkConfig, log *zap.Logger) (*Server, error) {
	ln, err := net.Listen("tcp", cfg.BindAddress)
	if err != nil {
		return nil, err
	}
	s := &Server{
		listener: ln,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		newConns: make(chan *Session, 64),
		deadCh:   make(chan uint64, 64),
		cfg:      cfg,
		log:      log,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	s.http = &http.Server{Handler: mux}
	return s, nil
}

// Serve blocks until Shutdown.
func (s *Server) Serve() error {
	err := s.http.Serve(s.listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	if n := s.active.Add(1); n > int64(s.cfg.MaxSessions) {
		s.active.Add(-1)
		s.log.Info("client refused, session limit reached",
			zap.String("ip", r.RemoteAddr),
			zap.Int("max_sessions", s.cfg.MaxSessions),
		)
		http.Error(w, "session limit reached", http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.active.Add(-1)
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	id := s.nextID.Add(1)
	sess := NewSession(conn, id, s.cfg.InQueueSize, s.cfg.OutQueueSize, s.cfg.WriteTimeout, s.cfg.ReadTimeout, s.log)
	sess.Start()
	go func() {
		<-sess.Done()
		s.active.Add(-1)
	}()

	s.log.Info("client connected", zap.Uint64("session", id), zap.String("ip", sess.IP))

	select {
	case s.newConns <- sess:
	default:
		s.log.Warn("session queue full, client rejected")
		sess.Close()
	}
}

// Active returns the number of connected clients.
func (s *Server) Active() int {
	return int(s.active.Load())
}

// NewSessions returns the channel of newly connected sessions.
func (s *Server) NewSessions() <-chan *Session {
	return s.newConns
}

// NotifyDead reports a dead session ID to the tick loop.
func (s *Server) NotifyDead(sessionID uint64) {
	select {
	case s.deadCh <- sessionID:
	default:
	}
}

// DeadSessions returns the channel of dead session IDs.
func (s *Server) DeadSessions() <-chan uint64 {
	return s.deadCh
}

// Shutdown stops accepting new clients.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// Addr returns the listener's address.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}
