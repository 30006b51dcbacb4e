// Package server exposes game sessions to presentation clients over
// WebSocket. Each connection owns exactly one session.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	engine "github.com/lisahua0613-lab/Crazy-EIGHT-cards-games-Lisa/engine"
	"github.com/lisahua0613-lab/Crazy-EIGHT-cards-games-Lisa/internal/config"
	"github.com/lisahua0613-lab/Crazy-EIGHT-cards-games-Lisa/internal/game"
	"github.com/lisahua0613-lab/Crazy-EIGHT-cards-games-Lisa/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	outboxSize   = 64
	writeTimeout = 5 * time.Second
)

// Server routes HTTP requests and tracks live sessions.
type Server struct {
	cfg config.Config
	log *logrus.Entry

	// OriginPatterns is passed to websocket.Accept. Empty means same-origin only.
	OriginPatterns []string

	mu       sync.Mutex
	sessions map[uuid.UUID]*session
	seeded   uint64 // Sessions created so far; offsets cfg.Seed.
}

// New creates a Server for cfg. A nil logger uses the logrus standard logger.
func New(cfg config.Config, logger *logrus.Logger) *Server {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Server{
		cfg:      cfg,
		log:      logger.WithField("component", "server"),
		sessions: make(map[uuid.UUID]*session),
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /ws", s.handleWS)
	return mux
}

// Run listens on the configured address until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then closes every
// session and shuts the HTTP server down within cfg.ShutdownTimeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.log.WithField("addr", ln.Addr().String()).Info("listening")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	s.closeSessions()
	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	sctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// SessionCount returns the number of connected sessions.
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: s.OriginPatterns})
	if err != nil {
		s.log.WithError(err).WithField("remote", r.RemoteAddr).Warn("websocket accept failed")
		return
	}
	sess := s.newSession(conn, r.RemoteAddr)
	defer s.dropSession(sess)
	sess.run(r.Context())
}

// newSession builds the game controller for a new connection and registers it.
func (s *Server) newSession(conn *websocket.Conn, remote string) *session {
	g := game.NewCrazyEightsGame()
	g.AIDelay = s.cfg.AIDelay
	g.Log = s.log.WithFields(logrus.Fields{"game": g.ID.String(), "remote": remote})

	s.mu.Lock()
	if s.cfg.Seed != 0 {
		g.Rand = engine.NewRand(s.cfg.Seed + s.seeded)
	}
	s.seeded++
	sess := &session{
		game: g,
		conn: conn,
		out:  make(chan game.GameEvent, outboxSize),
		log:  g.Log,
	}
	s.sessions[g.ID] = sess
	s.mu.Unlock()

	g.BroadcastFn = sess.enqueue
	g.OnGameEnd = func(gameID uuid.UUID, winner engine.Turn) {
		sess.log.WithField("winner", winner).Info("session game finished")
	}
	sess.log.Info("client connected")
	return sess
}

func (s *Server) dropSession(sess *session) {
	s.mu.Lock()
	delete(s.sessions, sess.game.ID)
	s.mu.Unlock()
	sess.log.Info("client disconnected")
}

// closeSessions ends every live session. Hijacked connections are not
// closed by http.Server.Shutdown.
func (s *Server) closeSessions() {
	s.mu.Lock()
	live := make([]*session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		live = append(live, sess)
	}
	s.mu.Unlock()
	for _, sess := range live {
		sess.conn.Close(websocket.StatusGoingAway, "server shutting down")
	}
}

// session couples one connection to one game controller.
type session struct {
	game *game.CrazyEightsGame
	conn *websocket.Conn
	out  chan game.GameEvent
	log  *logrus.Entry

	cancelMu sync.Mutex
	cancel   context.CancelFunc
}

// run deals the first game, then reads actions until the connection ends.
func (sess *session) run(parent context.Context) {
	ctx, cancel := context.WithCancel(parent)
	sess.cancelMu.Lock()
	sess.cancel = cancel
	sess.cancelMu.Unlock()
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		sess.writeLoop(ctx)
	}()

	if err := sess.game.InitGame(); err != nil {
		sess.log.WithError(err).Error("failed to start game")
		cancel()
	} else {
		sess.readLoop(ctx)
	}

	sess.game.Close()
	cancel()
	<-done
	sess.conn.Close(websocket.StatusNormalClosure, "")
}

// readLoop decodes inbound actions and hands them to the controller.
func (sess *session) readLoop(ctx context.Context) {
	for {
		typ, data, err := sess.conn.Read(ctx)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				sess.log.Debug("connection closed by peer")
			default:
				if ctx.Err() == nil {
					sess.log.WithError(err).Warn("read failed")
				}
			}
			return
		}
		if typ != websocket.MessageText {
			sess.rejectFrame("binary frames are not supported")
			continue
		}
		var action models.GameAction
		if err := json.Unmarshal(data, &action); err != nil {
			sess.log.WithError(err).Warn("malformed client message")
			sess.rejectFrame("malformed message: " + err.Error())
			continue
		}
		sess.game.HandlePlayerAction(action)
	}
}

// writeLoop drains the outbox onto the connection.
func (sess *session) writeLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-sess.out:
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := wsjson.Write(wctx, sess.conn, ev)
			cancel()
			if err != nil {
				if ctx.Err() == nil {
					sess.log.WithError(err).Warn("write failed")
				}
				sess.stop()
				return
			}
		}
	}
}

// enqueue is the controller's BroadcastFn. It runs under the controller
// lock, so a full outbox ends the session instead of blocking.
func (sess *session) enqueue(ev game.GameEvent) {
	select {
	case sess.out <- ev:
	default:
		sess.log.WithField("event", ev.Type).Warn("client too slow, dropping session")
		sess.stop()
	}
}

func (sess *session) rejectFrame(msg string) {
	sess.enqueue(game.GameEvent{
		Type:    game.EventActionError,
		Payload: map[string]any{"message": msg},
	})
}

func (sess *session) stop() {
	sess.cancelMu.Lock()
	defer sess.cancelMu.Unlock()
	if sess.cancel != nil {
		sess.cancel()
	}
}
