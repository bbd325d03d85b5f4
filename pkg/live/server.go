// Package live serves stateful views over a websocket.
//
// A browser opens /live?page=<name>. The server builds that page's views
// through a ViewFactory, mounts each on a per-session scheduler fiber, and
// streams JSON frames: re-rendered view HTML, progress values and toasts.
// Client frames carry user actions back to the views.
package live

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	sendBuffer   = 64
	maxFrameSize = 4096
)

// Options configures a Server
type Options struct {
	// MaxSessions caps concurrent sessions; zero means unlimited
	MaxSessions int
	// CheckOrigin is passed to the websocket upgrader; nil accepts same-origin
	// requests only
	CheckOrigin func(r *http.Request) bool
	Recorder    Recorder
	Logger      *slog.Logger
}

// Server handles websocket connections for live views
type Server struct {
	upgrader websocket.Upgrader
	factory  ViewFactory
	opts     Options
	logger   *slog.Logger
	recorder Recorder

	mu       sync.Mutex
	sessions map[string]*Session
	closed   bool
	wg       sync.WaitGroup
}

// NewServer creates a live server building views with factory
func NewServer(factory ViewFactory, opts Options) *Server {
	s := &Server{
		factory:  factory,
		opts:     opts,
		logger:   opts.Logger,
		recorder: opts.Recorder,
		sessions: make(map[string]*Session),
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.recorder == nil {
		s.recorder = nopRecorder{}
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     opts.CheckOrigin,
	}
	return s
}

// ServeHTTP upgrades the request and runs a session until the client leaves
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	page := r.URL.Query().Get("page")
	if page == "" {
		page = "home"
	}

	views, err := s.factory(page)
	if err != nil {
		s.logger.Debug("live page rejected", "page", page, "error", err)
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader already wrote an HTTP error
		s.logger.Debug("websocket upgrade failed", "error", err)
		closeViews(views)
		return
	}

	session := newSession(uuid.NewString(), page, conn, views, s.recorder, s.logger)
	if !s.register(session) {
		s.logger.Warn("live session limit reached", "max", s.opts.MaxSessions)
		session.reject(ErrTooManySessions)
		return
	}
	defer s.unregister(session)

	s.recorder.SessionOpened(page)
	defer s.recorder.SessionClosed(page)

	session.run()
}

func (s *Server) register(session *Session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	if s.opts.MaxSessions > 0 && len(s.sessions) >= s.opts.MaxSessions {
		return false
	}
	s.sessions[session.ID] = session
	s.wg.Add(1)
	return true
}

func (s *Server) unregister(session *Session) {
	s.mu.Lock()
	delete(s.sessions, session.ID)
	s.mu.Unlock()
	s.wg.Done()
}

// SessionCount returns the number of open sessions
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Shutdown closes every session and waits for them to finish or for ctx to
// expire. New connections are refused afterwards.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	open := make([]*Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		open = append(open, session)
	}
	s.mu.Unlock()

	for _, session := range open {
		session.Close()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func closeViews(views []View) {
	for _, v := range views {
		v.Close()
	}
}
