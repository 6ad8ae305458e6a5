package web

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/lane-runner/internal/core"
	"github.com/vovakirdan/lane-runner/internal/identity"
	"github.com/vovakirdan/lane-runner/internal/leaderboard"
	"github.com/vovakirdan/lane-runner/internal/projection"
	"github.com/vovakirdan/lane-runner/internal/render"
	"github.com/vovakirdan/lane-runner/internal/runner"
)

// Websocket settings
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	noticeDuration = 3 * time.Second
)

// conn couples one websocket with one session. The run loop is the only
// goroutine that touches the session or writes to the socket; readPump only
// decodes messages into inbound.
type conn struct {
	opts        Options
	ws          *websocket.Conn
	session     *runner.Session
	scores      *leaderboard.Client
	user        *identity.UserIdentity
	theme       render.Theme
	hud         render.HUD
	noticeUntil time.Time
	inbound     chan ClientMessage
	done        chan struct{} // Closed when readPump exits
	stop        chan struct{} // Closed when run exits
	log         *log.Logger
}

func newConn(opts Options, ws *websocket.Conn, user *identity.UserIdentity, logger *log.Logger) (*conn, error) {
	c := &conn{
		opts:    opts,
		ws:      ws,
		theme:   opts.Theme,
		inbound: make(chan ClientMessage, 16),
		done:    make(chan struct{}),
		stop:    make(chan struct{}),
		log:     logger,
	}
	if opts.Store != nil {
		c.scores = leaderboard.NewClient(opts.Store, leaderboard.DefaultTimeout, logger)
	}
	if err := c.newSession(user); err != nil {
		return nil, err
	}
	return c, nil
}

// newSession replaces the session, signing in user.
func (c *conn) newSession(user *identity.UserIdentity) error {
	opts := runner.Options{
		Config:   c.opts.Config,
		Seed:     c.opts.Seed,
		TickRate: c.opts.TickRate,
		Identity: user,
		Logger:   c.log,
	}
	if c.scores != nil {
		opts.Scores = c.scores
	}
	session, err := runner.NewSession(opts)
	if err != nil {
		return err
	}

	c.session = session
	c.user = user
	c.hud = render.HUD{}
	if user != nil {
		c.hud.Player = user.DisplayName()
		if c.scores != nil {
			c.hud.HighScore, c.hud.HasHighScore = c.scores.HighScore(context.Background(), user.ID)
		}
	}
	return nil
}

// run drives the session until the socket closes or ctx ends.
func (c *conn) run(ctx context.Context) {
	defer c.ws.Close()
	defer close(c.stop)
	go c.readPump()

	if !c.send(c.welcome()) || !c.send(NewPalette(c.theme)) {
		return
	}

	ticker := time.NewTicker(c.session.TickDuration())
	defer ticker.Stop()
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	frameEvery := max(1, c.opts.TickRate/c.opts.FrameRate)
	last := time.Now()
	ticks := 0

	for {
		select {
		case <-ctx.Done():
			c.closeMessage()
			return

		case <-c.done:
			return

		case msg := <-c.inbound:
			if !c.handle(msg) {
				c.closeMessage()
				return
			}

		case now := <-ticker.C:
			c.session.Update(now.Sub(last))
			last = now
			c.pollScores(now)

			ticks++
			if ticks%frameEvery == 0 {
				if !c.send(BuildFrame(c.session.Snapshot(), c.opts.Config, c.hud)) {
					return
				}
			}

		case <-ping.C:
			if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.Warn("failed to set ping write deadline", "err", err)
			}
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.log.Debug("ping failed", "err", err)
				return
			}
		}
	}
}

// handle applies one client message. Returns false when the client quit.
func (c *conn) handle(msg ClientMessage) bool {
	switch msg.Type {
	case MsgIntent:
		in := core.ParseIntent(msg.Intent)
		if in == core.IntentQuit {
			return false
		}
		if in == core.IntentNone {
			c.log.Debug("unknown intent", "intent", msg.Intent)
			return true
		}
		c.session.Enqueue(in)

	case MsgTheme:
		if t, ok := render.ThemeByName(msg.Theme); ok {
			c.theme = t
		} else {
			c.theme = render.NextTheme(c.theme.Name)
		}
		return c.send(NewPalette(c.theme))

	case MsgHello:
		// Identity is fixed for a run, so renaming is only allowed before one starts.
		if c.session.State() != runner.StateIdle {
			c.log.Debug("hello ignored mid-run")
			return true
		}
		id, err := identity.NewLocalProvider(msg.Name, "").SignIn(context.Background())
		var user *identity.UserIdentity
		if err == nil {
			user = &id
		}
		if err := c.newSession(user); err != nil {
			c.log.Error("cannot restart session", "err", err)
			return false
		}
		return c.send(c.welcome())

	default:
		c.log.Debug("unknown message", "type", msg.Type)
	}
	return true
}

// pollScores moves submission results into the HUD.
func (c *conn) pollScores(now time.Time) {
	if c.scores != nil {
		if r, ok := c.scores.Poll(); ok {
			c.hud.Notice = r.Notice()
			c.noticeUntil = now.Add(noticeDuration)
			switch {
			case r.Best > 0:
				c.hud.HighScore, c.hud.HasHighScore = r.Best, true
			case r.Status == leaderboard.StatusSaved:
				c.hud.HighScore, c.hud.HasHighScore = r.Score, true
			}
		}
	}
	if !c.noticeUntil.IsZero() && now.After(c.noticeUntil) {
		c.hud.Notice = ""
		c.noticeUntil = time.Time{}
	}
}

func (c *conn) welcome() Welcome {
	return Welcome{
		Type:         MsgWelcome,
		Session:      string(c.session.ID()),
		Player:       c.hud.Player,
		CanvasWidth:  projection.CanvasWidth,
		CanvasHeight: projection.CanvasHeight,
		HorizonY:     c.opts.Config.Camera.HorizonY,
		TickRate:     c.opts.TickRate,
	}
}

// send writes one JSON message. Returns false when the socket is gone.
func (c *conn) send(v any) bool {
	if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.log.Warn("failed to set write deadline", "err", err)
	}
	if err := c.ws.WriteJSON(v); err != nil {
		c.log.Debug("write json message failed", "err", err)
		return false
	}
	return true
}

func (c *conn) closeMessage() {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if err := c.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait)); err != nil {
		c.log.Debug("write close message failed", "err", err)
	}
}

// readPump decodes client messages until the socket fails.
func (c *conn) readPump() {
	defer close(c.done)

	c.ws.SetReadLimit(maxMessageSize)
	if err := c.ws.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.log.Warn("failed to set read deadline", "err", err)
	}
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg ClientMessage
		if err := c.ws.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("websocket read failed", "err", err)
			}
			return
		}
		// Reset the deadline on any traffic, not only pongs.
		if err := c.ws.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			c.log.Warn("failed to set read deadline", "err", err)
		}
		select {
		case c.inbound <- msg:
		case <-c.stop:
			return
		}
	}
}
