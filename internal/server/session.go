package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/alnah/go-mdlatex"
)

// Websocket timing, after gorilla/websocket's chat example.
const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 64
)

// session is one browser tab. Events are applied in arrival order by the
// read loop; outgoing messages are queued to the write loop.
type session struct {
	srv    *Server
	conn   *websocket.Conn
	bus    *mdlatex.PointerBus
	layout *mdlatex.SplitLayout

	send      chan any
	done      chan struct{}
	closeOnce sync.Once

	mu       sync.Mutex
	lastEdit *string // text of this session's latest edit
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied with an HTTP error.
		s.logger.Debug("websocket upgrade failed", "error", err)
		return
	}

	bus := mdlatex.NewPointerBus()
	layout, err := mdlatex.NewSplitLayout(bus, s.opts.EditorWidth, s.opts.PreviewWidth, s.opts.MinWidth)
	if err != nil {
		// Widths were validated by New.
		_ = conn.Close()
		return
	}

	sess := &session{
		srv:    s,
		conn:   conn,
		bus:    bus,
		layout: layout,
		send:   make(chan any, sendBuffer),
		done:   make(chan struct{}),
	}

	s.track(sess)
	defer s.untrack(sess)

	sess.run(r.Context())
}

// run serves the session until the connection closes.
func (sess *session) run(ctx context.Context) {
	logger := sess.srv.logger.With("remote", sess.conn.RemoteAddr().String())
	logger.Debug("session opened")

	defer sess.close()
	// Disposal releases any drag subscriptions still held.
	defer sess.layout.Close()

	sess.layout.OnChange(func(w mdlatex.Widths, dragging bool) {
		sess.queue(newLayoutMessage(w, dragging))
	})
	cancel := sess.srv.editor.Subscribe(sess.onSnapshot)
	defer cancel()

	go sess.writeLoop()

	sess.queue(newDocumentMessage(sess.srv.editor.Snapshot()))
	sess.queue(newLayoutMessage(sess.layout.Widths(), false))

	sess.conn.SetReadLimit(maxDocumentSize)
	_ = sess.conn.SetReadDeadline(time.Now().Add(pongWait))
	sess.conn.SetPongHandler(func(string) error {
		return sess.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg inbound
		if err := sess.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("session read failed", "error", err)
			}
			break
		}
		if err := sess.apply(ctx, msg); err != nil {
			logger.Debug("session event rejected", "type", msg.Type, "error", err)
			sess.queue(newErrorMessage(err))
		}
	}

	logger.Debug("session closed")
}

// apply dispatches one client event.
func (sess *session) apply(ctx context.Context, msg inbound) error {
	switch msg.Type {
	case msgEdit:
		sess.mu.Lock()
		text := msg.Text
		sess.lastEdit = &text
		sess.mu.Unlock()
		_, err := sess.srv.editor.SetDocument(ctx, msg.Text)
		return err
	case msgResize:
		return sess.layout.Resize(msg.EditorWidth, msg.PreviewWidth)
	case msgPointerDown:
		sess.layout.PointerDown(msg.X)
	case msgPointerMove:
		sess.bus.Move(msg.X)
	case msgPointerUp:
		sess.bus.Up()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMessage, msg.Type)
	}
	return nil
}

// onSnapshot forwards document changes. The session's own edit only needs
// the new preview; other changes replace the text area too.
func (sess *session) onSnapshot(snap mdlatex.Snapshot) {
	sess.mu.Lock()
	own := sess.lastEdit != nil && *sess.lastEdit == snap.Text
	sess.mu.Unlock()

	if own {
		sess.queue(newPreviewMessage(snap))
		return
	}
	sess.queue(newDocumentMessage(snap))
}

// queue hands msg to the write loop. A client too slow to drain its
// buffer is disconnected; on reconnect it receives the full state.
func (sess *session) queue(msg any) {
	select {
	case <-sess.done:
		return
	default:
	}

	select {
	case sess.send <- msg:
	default:
		sess.srv.logger.Warn("session send buffer full, disconnecting")
		sess.close()
	}
}

func (sess *session) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-sess.done:
			return
		case msg := <-sess.send:
			_ = sess.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sess.conn.WriteJSON(msg); err != nil {
				if !errors.Is(err, websocket.ErrCloseSent) {
					sess.srv.logger.Debug("session write failed", "error", err)
				}
				sess.close()
				return
			}
		case <-ticker.C:
			_ = sess.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sess.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				sess.close()
				return
			}
		}
	}
}

// close ends the session once; the read loop then fails and returns.
func (sess *session) close() {
	sess.closeOnce.Do(func() {
		close(sess.done)
		_ = sess.conn.Close()
	})
}
