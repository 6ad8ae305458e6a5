package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vovakirdan/lane-runner/internal/config"
	"github.com/vovakirdan/lane-runner/internal/storage"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	srv, err := NewServer(Options{
		Config: config.DefaultRunnerConfig(),
		Seed:   11,
		Store:  store,
	})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func dial(t *testing.T, ts *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws" + query
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { ws.Close() })
	return ws
}

// readUntil reads messages until match accepts one or the deadline passes.
func readUntil(t *testing.T, ws *websocket.Conn, match func(typ string, raw []byte) bool) {
	t.Helper()
	if err := ws.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
		t.Fatal(err)
	}
	for {
		_, raw, err := ws.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		var head struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(raw, &head); err != nil {
			t.Fatalf("bad message %s: %v", raw, err)
		}
		if match(head.Type, raw) {
			return
		}
	}
}

func TestHandshake(t *testing.T) {
	ts := newTestServer(t)
	ws := dial(t, ts, "?name=ada")

	var welcome Welcome
	readUntil(t, ws, func(typ string, raw []byte) bool {
		if typ != MsgWelcome {
			t.Fatalf("first message = %q, want welcome", typ)
		}
		return json.Unmarshal(raw, &welcome) == nil
	})
	if welcome.Player != "ada" || welcome.Session == "" || welcome.TickRate != 60 {
		t.Errorf("welcome = %+v", welcome)
	}

	readUntil(t, ws, func(typ string, raw []byte) bool {
		if typ != MsgPalette {
			t.Fatalf("second message = %q, want palette", typ)
		}
		return true
	})
}

func TestIntentsDriveSession(t *testing.T) {
	ts := newTestServer(t)
	ws := dial(t, ts, "")

	if err := ws.WriteJSON(ClientMessage{Type: MsgIntent, Intent: "Start"}); err != nil {
		t.Fatal(err)
	}

	var f Frame
	readUntil(t, ws, func(typ string, raw []byte) bool {
		if typ != MsgFrame {
			return false
		}
		if err := json.Unmarshal(raw, &f); err != nil {
			t.Fatal(err)
		}
		return f.State == "Running" && f.Tick > 0
	})
	if len(f.Edges) != 2 {
		t.Errorf("edges = %d, want 2", len(f.Edges))
	}
	if len(f.Quads) == 0 || f.Quads[len(f.Quads)-1].Paint != "player" {
		t.Errorf("frame should end with the player quad: %+v", f.Quads)
	}

	if err := ws.WriteJSON(ClientMessage{Type: MsgIntent, Intent: "TogglePause"}); err != nil {
		t.Fatal(err)
	}
	readUntil(t, ws, func(typ string, raw []byte) bool {
		if typ != MsgFrame {
			return false
		}
		if err := json.Unmarshal(raw, &f); err != nil {
			t.Fatal(err)
		}
		return f.State == "Paused"
	})
}

func TestThemeMessage(t *testing.T) {
	ts := newTestServer(t)
	ws := dial(t, ts, "")

	if err := ws.WriteJSON(ClientMessage{Type: MsgTheme, Theme: "day"}); err != nil {
		t.Fatal(err)
	}

	readUntil(t, ws, func(typ string, raw []byte) bool {
		if typ != MsgPalette {
			return false
		}
		var p Palette
		if err := json.Unmarshal(raw, &p); err != nil {
			t.Fatal(err)
		}
		return p.Theme == "DAY"
	})
}

func TestHelloBeforeRunRenames(t *testing.T) {
	ts := newTestServer(t)
	ws := dial(t, ts, "")

	var first Welcome
	readUntil(t, ws, func(typ string, raw []byte) bool {
		return typ == MsgWelcome && json.Unmarshal(raw, &first) == nil
	})

	if err := ws.WriteJSON(ClientMessage{Type: MsgHello, Name: "bob"}); err != nil {
		t.Fatal(err)
	}

	var second Welcome
	readUntil(t, ws, func(typ string, raw []byte) bool {
		return typ == MsgWelcome && json.Unmarshal(raw, &second) == nil
	})
	if second.Player != "bob" {
		t.Errorf("player = %q, want bob", second.Player)
	}
	if second.Session == first.Session {
		t.Error("signing in should start a new session")
	}
}

func TestQuitClosesSocket(t *testing.T) {
	ts := newTestServer(t)
	ws := dial(t, ts, "")

	if err := ws.WriteJSON(ClientMessage{Type: MsgIntent, Intent: "Quit"}); err != nil {
		t.Fatal(err)
	}

	if err := ws.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
		t.Fatal(err)
	}
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				t.Errorf("read error = %v, want normal closure", err)
			}
			return
		}
	}
}

func TestServesCanvasPage(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "<canvas") {
		t.Errorf("GET / = %d, body missing canvas", resp.StatusCode)
	}
}

func TestNewServerRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	cfg.Lanes.Mode = "wide"
	if _, err := NewServer(Options{Config: cfg}); err == nil {
		t.Error("expected error for invalid config")
	}
}
