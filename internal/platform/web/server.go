package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/lane-runner/internal/config"
	"github.com/vovakirdan/lane-runner/internal/core"
	"github.com/vovakirdan/lane-runner/internal/identity"
	"github.com/vovakirdan/lane-runner/internal/leaderboard"
	"github.com/vovakirdan/lane-runner/internal/logging"
	"github.com/vovakirdan/lane-runner/internal/render"
)

//go:embed static
var staticFS embed.FS

// DefaultFrameRate is how many frames per second are pushed to a browser.
const DefaultFrameRate = 30

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Options configures the web server.
type Options struct {
	Config    config.RunnerConfig
	TickRate  int               // Simulation ticks per second, 0 means 60
	FrameRate int               // Frames per second sent, 0 means DefaultFrameRate
	Seed      int64             // 0 seeds each connection from the clock
	Store     leaderboard.Store // nil disables score saving
	Theme     render.Theme
	Logger    *log.Logger
}

// Server serves the canvas page and one websocket session per connection.
type Server struct {
	opts Options
	log  *log.Logger
}

// NewServer validates the runner config and creates a server.
func NewServer(opts Options) (*Server, error) {
	if err := opts.Config.Validate(); err != nil {
		return nil, fmt.Errorf("web: %w", err)
	}
	if opts.TickRate <= 0 {
		opts.TickRate = core.DefaultConfig().TickRate
	}
	if opts.FrameRate <= 0 {
		opts.FrameRate = DefaultFrameRate
	}
	if opts.Theme.Name == "" {
		opts.Theme = render.DefaultTheme()
	}
	return &Server{opts: opts, log: logging.OrDiscard(opts.Logger)}, nil
}

// Handler returns the HTTP routes: the websocket at /ws and the page at /.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWS)

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		// The embedded directory is part of the binary.
		panic(err)
	}
	mux.Handle("/", http.FileServer(http.FS(static)))
	return mux
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("starting web server", "address", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.log.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// serveWS upgrades the request and runs a session until the socket closes.
// The optional name query parameter signs the player in.
func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}

	var user *identity.UserIdentity
	if name := r.URL.Query().Get("name"); name != "" {
		if id, err := identity.NewLocalProvider(name, "").SignIn(r.Context()); err == nil {
			user = &id
		}
	}

	c, err := newConn(s.opts, ws, user, s.log.With("remote", r.RemoteAddr))
	if err != nil {
		s.log.Error("cannot start session", "err", err)
		ws.Close()
		return
	}

	s.log.Info("session started", "remote", r.RemoteAddr, "session", c.session.ID())
	c.run(r.Context())
	s.log.Info("session ended", "remote", r.RemoteAddr)
}
