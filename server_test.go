package main

import (
	"fmt"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"gridsnake/game"
)

// manualScheduler keeps armed timers until the test fires them
type manualScheduler struct {
	mu     sync.Mutex
	timers []*manualTimer
}

type manualTimer struct {
	mu      sync.Mutex
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	was := !t.stopped && !t.fired
	t.stopped = true
	return was
}

func (m *manualScheduler) AfterFunc(d time.Duration, f func()) game.Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &manualTimer{f: f}
	m.timers = append(m.timers, t)
	return t
}

// fire runs the newest live timer, returning false if none is armed
func (m *manualScheduler) fire() bool {
	m.mu.Lock()
	var live *manualTimer
	for i := len(m.timers) - 1; i >= 0 && live == nil; i-- {
		t := m.timers[i]
		t.mu.Lock()
		if !t.stopped && !t.fired {
			t.fired = true
			live = t
		}
		t.mu.Unlock()
	}
	m.mu.Unlock()
	if live == nil {
		return false
	}
	live.f()
	return true
}

func newTestServer(t *testing.T, maxSessions int, cooldown time.Duration) (*httptest.Server, *manualScheduler) {
	t.Helper()
	sched := &manualScheduler{}
	srv := NewServer(maxSessions, cooldown, game.WithScheduler(sched))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		srv.CloseAll()
		ts.Close()
	})
	return ts, sched
}

func dial(t *testing.T, ts *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + WebSocketPath + query
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { ws.Close() })
	return ws
}

func send(t *testing.T, ws *websocket.Conn, codec Codec, msg any) {
	t.Helper()
	data, err := codec.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := ws.WriteMessage(codec.FrameType(), data); err != nil {
		t.Fatalf("write: %v", err)
	}
}

// readUntil returns the first message matching pred, failing after a few seconds
func readUntil(t *testing.T, ws *websocket.Conn, codec Codec, pred func(map[string]any) bool) map[string]any {
	t.Helper()
	_ = ws.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		kind, data, err := ws.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if kind != codec.FrameType() {
			t.Fatalf("Expected frame type %d, got %d", codec.FrameType(), kind)
		}
		var msg map[string]any
		if err := codec.Unmarshal(data, &msg); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if pred(msg) {
			return msg
		}
	}
}

// field formats a decoded value so JSON floats and msgpack ints compare alike
func field(msg map[string]any, key string) string {
	return fmt.Sprint(msg[key])
}

func isType(kind string) func(map[string]any) bool {
	return func(m map[string]any) bool { return field(m, "t") == kind }
}

func isPhase(phase string) func(map[string]any) bool {
	return func(m map[string]any) bool { return field(m, "t") == MsgState && field(m, "h") == phase }
}

func TestServerSession(t *testing.T) {
	ts, _ := newTestServer(t, 4, 0)
	ws := dial(t, ts, "?w=390&h=844")

	welcome := readUntil(t, ws, CodecJSON, isType(MsgWelcome))
	if field(welcome, "c") != "14" || field(welcome, "r") != "19" {
		t.Errorf("Expected a 14x19 board, got %sx%s", field(welcome, "c"), field(welcome, "r"))
	}
	if field(welcome, "i") == "" {
		t.Error("Expected a session id")
	}

	send(t, ws, CodecJSON, ClientMessage{Type: MsgStart, D: "beginner"})
	st := readUntil(t, ws, CodecJSON, isPhase("running"))
	if field(st, "v") != "300" || field(st, "p") != "0" || field(st, "l") != "1" {
		t.Errorf("Expected fresh beginner state, got %v", st)
	}
	if snake, ok := st["s"].([]any); !ok || len(snake) != 3 {
		t.Errorf("Expected a 3-cell snake, got %v", st["s"])
	}

	send(t, ws, CodecJSON, ClientMessage{Type: MsgPause})
	readUntil(t, ws, CodecJSON, isPhase("paused"))

	send(t, ws, CodecJSON, ClientMessage{Type: MsgPause})
	e := readUntil(t, ws, CodecJSON, isType(MsgError))
	if field(e, "m") != game.ErrNotRunning.Error() {
		t.Errorf("Expected %q, got %q", game.ErrNotRunning, field(e, "m"))
	}

	send(t, ws, CodecJSON, ClientMessage{Type: MsgResume})
	readUntil(t, ws, CodecJSON, isPhase("running"))

	send(t, ws, CodecJSON, ClientMessage{Type: MsgReset})
	readUntil(t, ws, CodecJSON, isPhase("idle"))
}

func TestServerGameOver(t *testing.T) {
	ts, sched := newTestServer(t, 4, 0)
	ws := dial(t, ts, "")
	readUntil(t, ws, CodecJSON, isType(MsgWelcome))

	send(t, ws, CodecJSON, ClientMessage{Type: MsgStart})
	readUntil(t, ws, CodecJSON, isPhase("running"))

	// Heading right from the centre of a 14-wide walled board, the wall is a few ticks away
	for i := 0; i < 20; i++ {
		if !sched.fire() {
			break
		}
	}

	over := readUntil(t, ws, CodecJSON, isType(MsgGameOver))
	if field(over, "k") != "wall" {
		t.Errorf("Expected a wall crash, got %q", field(over, "k"))
	}
	if field(over, "l") == "0" {
		t.Errorf("Expected a level in the game over message, got %v", over)
	}
}

func TestServerMsgpack(t *testing.T) {
	ts, _ := newTestServer(t, 4, 0)
	ws := dial(t, ts, "?codec=msgpack&w=800&h=600")

	welcome := readUntil(t, ws, CodecMsgpack, isType(MsgWelcome))
	// (800-40)/24 = 31 cols, 600*0.55/24 = 13 rows
	if field(welcome, "c") != "31" || field(welcome, "r") != "13" {
		t.Errorf("Expected a 31x13 board, got %sx%s", field(welcome, "c"), field(welcome, "r"))
	}

	send(t, ws, CodecMsgpack, ClientMessage{Type: MsgStart, D: "expert"})
	st := readUntil(t, ws, CodecMsgpack, isPhase("running"))
	if field(st, "v") != "150" {
		t.Errorf("Expected expert interval 150, got %s", field(st, "v"))
	}
}

func TestServerRejects(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"bad codec", "?codec=xml", "unknown codec"},
		{"tiny viewport", "?w=100&h=844", "grid too small"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, _ := newTestServer(t, 4, 0)
			ws := dial(t, ts, tt.query)
			e := readUntil(t, ws, CodecJSON, isType(MsgError))
			if !strings.Contains(field(e, "m"), tt.want) {
				t.Errorf("Expected error containing %q, got %q", tt.want, field(e, "m"))
			}
		})
	}
}

func TestServerLimits(t *testing.T) {
	t.Run("full", func(t *testing.T) {
		ts, _ := newTestServer(t, 1, 0)
		first := dial(t, ts, "")
		readUntil(t, first, CodecJSON, isType(MsgWelcome))

		second := dial(t, ts, "")
		e := readUntil(t, second, CodecJSON, isType(MsgError))
		if !strings.Contains(field(e, "m"), "Server full") {
			t.Errorf("Expected server full, got %q", field(e, "m"))
		}
	})

	t.Run("cooldown", func(t *testing.T) {
		ts, _ := newTestServer(t, 4, time.Hour)
		first := dial(t, ts, "")
		readUntil(t, first, CodecJSON, isType(MsgWelcome))

		second := dial(t, ts, "")
		e := readUntil(t, second, CodecJSON, isType(MsgError))
		if !strings.Contains(field(e, "m"), "Too many connections") {
			t.Errorf("Expected rate limit, got %q", field(e, "m"))
		}
	})
}

func TestIPRateLimiterSweep(t *testing.T) {
	rl := &ipRateLimiter{cooldown: time.Minute, times: make(map[string]time.Time)}
	if !rl.allow("1.2.3.4") {
		t.Fatal("Expected first connection to be allowed")
	}
	if rl.allow("1.2.3.4") {
		t.Error("Expected second connection inside the cooldown to be refused")
	}
	rl.sweep(time.Now().Add(2 * time.Minute))
	if len(rl.times) != 0 {
		t.Errorf("Expected sweep to forget stale IPs, got %d", len(rl.times))
	}
}

func TestViewportSide(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"", DefaultViewportWidth},
		{"abc", DefaultViewportWidth},
		{"-5", DefaultViewportWidth},
		{"NaN", DefaultViewportWidth},
		{"99999", DefaultViewportWidth},
		{"1024", 1024},
	}
	for _, tt := range tests {
		if got := viewportSide(tt.raw, DefaultViewportWidth); got != tt.want {
			t.Errorf("viewportSide(%q): expected %v, got %v", tt.raw, tt.want, got)
		}
	}
}
