package main

import (
	"fmt"
	"log"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"gridsnake/game"
)

// ipRateLimiter tracks last connection time per IP to prevent abuse
type ipRateLimiter struct {
	mu       sync.Mutex
	cooldown time.Duration
	times    map[string]time.Time
}

func newIPRateLimiter(cooldown time.Duration) *ipRateLimiter {
	rl := &ipRateLimiter{cooldown: cooldown, times: make(map[string]time.Time)}
	// Cleanup stale entries every 60s
	go func() {
		for range time.Tick(60 * time.Second) {
			rl.sweep(time.Now())
		}
	}()
	return rl
}

// allow returns true if this IP can connect, and records the attempt
func (rl *ipRateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if last, ok := rl.times[ip]; ok {
		if time.Since(last) < rl.cooldown {
			return false
		}
	}
	rl.times[ip] = time.Now()
	return true
}

// sweep forgets IPs whose cooldown ended before now
func (rl *ipRateLimiter) sweep(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	cutoff := now.Add(-rl.cooldown)
	for ip, t := range rl.times {
		if t.Before(cutoff) {
			delete(rl.times, ip)
		}
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins for development; tighten in production
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Enable per-message deflate compression (RFC 7692)
	EnableCompression: true,
}

// Server hands every websocket connection its own game session
type Server struct {
	conns       *ConnManager
	limiter     *ipRateLimiter
	maxSessions int
	sessionOpts []game.Option
}

// NewServer creates a server admitting at most maxSessions connections, one per IP per cooldown
func NewServer(maxSessions int, cooldown time.Duration, sessionOpts ...game.Option) *Server {
	return &Server{
		conns:       NewConnManager(),
		limiter:     newIPRateLimiter(cooldown),
		maxSessions: maxSessions,
		sessionOpts: sessionOpts,
	}
}

// Handler routes the websocket endpoint
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(WebSocketPath, s.handleWS)
	return mux
}

// CloseAll drops every connection and its session
func (s *Server) CloseAll() {
	for _, c := range s.conns.Snapshot() {
		c.Close()
	}
}

// sendErrorAndClose sends an error message via WebSocket then closes the connection
func sendErrorAndClose(ws *websocket.Conn, codec Codec, msg string) {
	data, _ := codec.Marshal(ErrorMsg{Type: MsgError, Message: msg})
	_ = ws.WriteMessage(codec.FrameType(), data)
	ws.Close()
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	// Extract client IP (handle X-Forwarded-For for reverse proxies)
	ip := strings.TrimSpace(strings.Split(r.Header.Get("X-Forwarded-For"), ",")[0])
	if ip == "" {
		ip, _, _ = net.SplitHostPort(r.RemoteAddr)
	}

	q := r.URL.Query()
	codec, codecErr := ParseCodec(q.Get("codec"))

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade error: %v", err)
		return
	}

	// Check limits after upgrade so client can receive error messages
	if codecErr != nil {
		sendErrorAndClose(ws, codec, codecErr.Error())
		return
	}
	if s.conns.Count() >= s.maxSessions {
		sendErrorAndClose(ws, codec, "Server full. Please try again later.")
		return
	}
	if !s.limiter.allow(ip) {
		sendErrorAndClose(ws, codec, fmt.Sprintf("Too many connections. Please wait %v.", s.limiter.cooldown))
		return
	}

	width := viewportSide(q.Get("w"), DefaultViewportWidth)
	height := viewportSide(q.Get("h"), DefaultViewportHeight)
	session, err := game.NewSession(game.DefaultConfig(game.GridForViewport(width, height)), s.sessionOpts...)
	if err != nil {
		sendErrorAndClose(ws, codec, fmt.Sprintf("viewport %.0fx%.0f: %v", width, height, err))
		return
	}

	// Enable per-message write compression at best-speed level
	ws.EnableWriteCompression(true)

	conn := NewConn(ws, codec, session)
	s.conns.Add(conn)
	g := session.Config().Grid
	log.Printf("player connected: %s (%s, grid %dx%d)", conn.ID, codec, g.Cols, g.Rows)

	// Send welcome immediately so client knows its ID and board size
	_ = conn.Send(WelcomeMsg{Type: MsgWelcome, ID: conn.ID, Cols: g.Cols, Rows: g.Rows})

	go conn.Pump()

	onDisconnect := func(c *Conn) {
		s.conns.Remove(c.ID)
		log.Printf("player disconnected: %s (best %d)", c.ID, c.session.Best())
	}

	// Blocking read loop; runs until client disconnects
	conn.ReadLoop(onDisconnect)
}

// viewportSide parses a viewport dimension in px, falling back to def when absent or invalid
func viewportSide(raw string, def float64) float64 {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || v <= 0 || v > MaxViewportSide {
		return def
	}
	return v
}
