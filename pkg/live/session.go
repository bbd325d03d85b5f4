package live

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/recera/clueso-site/pkg/scheduler"
)

// Session is one websocket connection and the views mounted on it
type Session struct {
	ID   string
	Page string

	conn     *websocket.Conn
	views    map[string]*mountedView
	order    []*mountedView
	sched    *scheduler.Scheduler
	recorder Recorder
	logger   *slog.Logger

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func newSession(id, page string, conn *websocket.Conn, views []View, rec Recorder, logger *slog.Logger) *Session {
	s := &Session{
		ID:       id,
		Page:     page,
		conn:     conn,
		views:    make(map[string]*mountedView, len(views)),
		sched:    scheduler.NewScheduler(),
		recorder: rec,
		logger:   logger.With("session", id, "page", page),
		send:     make(chan []byte, sendBuffer),
		done:     make(chan struct{}),
	}
	for _, v := range views {
		mv := &mountedView{view: v, session: s}
		s.views[v.Name()] = mv
		s.order = append(s.order, mv)
	}
	return s
}

// run serves the session until the connection ends, then closes it
func (s *Session) run() {
	defer s.Close()

	go s.writer()
	s.enqueue(helloFrame(s.ID))

	s.sched.SetLogger(s.logger)
	s.sched.SetCommit(s.commit)
	s.sched.SetDefaultErrorHandler(func(f *scheduler.Fiber, err error) bool {
		s.enqueue(errorFrame("render failed"))
		return true
	})

	for _, mv := range s.order {
		if err := s.mount(mv); err != nil {
			s.logger.Error("mount view", "view", mv.view.Name(), "error", err)
			s.enqueue(errorFrame("view " + mv.view.Name() + " unavailable"))
		}
	}
	s.sched.Start()

	s.logger.Debug("live session started", "views", len(s.order))
	s.readLoop()
}

func (s *Session) readLoop() {
	s.conn.SetReadLimit(maxFrameSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		messageType, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				s.logger.Debug("live session read error", "error", err)
			}
			return
		}
		_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))

		if messageType != websocket.TextMessage {
			s.enqueue(errorFrame("binary frames are not supported"))
			continue
		}

		frame, err := DecodeClientFrame(data)
		if err != nil {
			s.enqueue(errorFrame(err.Error()))
			continue
		}
		s.recorder.FrameReceived(string(frame.Type))

		switch frame.Type {
		case FramePing:
			s.enqueue(ServerFrame{Type: FramePong})
		case FrameEvent:
			s.dispatch(frame)
		}
	}
}

func (s *Session) dispatch(frame ClientFrame) {
	mv, ok := s.views[frame.View]
	if !ok || !mv.mounted.Load() {
		s.enqueue(errorFrame(ErrUnknownView.Error() + ": " + frame.View))
		return
	}

	err := mv.view.HandleEvent(Event{Action: frame.Action, Value: frame.Value})
	switch {
	case err == nil:
	case errors.Is(err, ErrUnknownAction):
		s.enqueue(errorFrame(err.Error()))
	default:
		s.logger.Warn("view event failed", "view", frame.View, "action", frame.Action, "error", err)
		s.enqueue(errorFrame("action failed"))
	}
}

// enqueue hands a frame to the writer. Frames are dropped when the buffer is
// full; the next render of the view carries the current state anyway.
func (s *Session) enqueue(frame ServerFrame) {
	data, err := EncodeFrame(frame)
	if err != nil {
		s.logger.Error("encode frame", "type", frame.Type, "error", err)
		return
	}

	select {
	case <-s.done:
	case s.send <- data:
		s.recorder.FrameSent(string(frame.Type))
	default:
		s.logger.Warn("live send buffer full, dropping frame", "type", frame.Type)
	}
}

// writer handles writing messages to the websocket
func (s *Session) writer() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				s.logger.Debug("live write failed", "error", err)
				s.conn.Close()
				return
			}

		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.conn.Close()
				return
			}

		case <-s.done:
			return
		}
	}
}

// Close unmounts every view, stops the scheduler and closes the connection.
// It is safe to call more than once and from any goroutine.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		for _, mv := range s.order {
			mv.unmount()
		}
		s.sched.Stop()
		close(s.done)

		deadline := time.Now().Add(writeWait)
		_ = s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
		s.conn.Close()

		s.logger.Debug("live session closed")
	})
}

// reject tells the client why it cannot be served and closes the session
// without mounting anything.
func (s *Session) reject(reason error) {
	if data, err := EncodeFrame(errorFrame(reason.Error())); err == nil {
		_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
		_ = s.conn.WriteMessage(websocket.TextMessage, data)
	}
	_ = s.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseTryAgainLater, reason.Error()), time.Now().Add(writeWait))
	s.conn.Close()

	for _, mv := range s.order {
		mv.view.Close()
	}
}
