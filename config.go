package main

import "time"

// Server configuration constants
const (
	// Server
	ServerAddr    = ":8080"
	AddrEnv       = "GRIDSNAKE_ADDR" // overrides ServerAddr when -addr is not given
	WebSocketPath = "/ws"

	// Limits
	MaxSessions   = 200 // concurrent websocket sessions
	IPCooldownSec = 2   // min seconds between connections from one IP

	// Viewport assumed when the client sends none (a phone in portrait)
	DefaultViewportWidth  = 390.0
	DefaultViewportHeight = 844.0
	MaxViewportSide       = 8192.0

	// Writes that take longer than this drop the connection
	WriteTimeout = 5 * time.Second

	// Terminal board cap, in cells
	MaxBoardCols = 32
	MaxBoardRows = 20
)

// Logging, terminal mode only
const (
	logDir      = "logs"
	logFileName = "gridsnake.log"
	maxLogSize  = 10 * 1024 * 1024 // rotate above 10MB
)
