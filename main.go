package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"gridsnake/game"
	"gridsnake/terminal"
)

func main() {
	addr := flag.String("addr", ServerAddr, "listen address for the websocket server (env "+AddrEnv+")")
	tui := flag.Bool("tui", false, "play in this terminal instead of serving")
	demo := flag.Bool("demo", false, "terminal: let the autopilot play")
	difficulty := flag.String("difficulty", "intermediate", "terminal: beginner, intermediate or expert")
	walls := flag.Bool("walls", true, "terminal: walled board; false wraps at the edges")
	debug := flag.Bool("debug", false, "terminal: write logs to "+filepath.Join(logDir, logFileName))
	sound := flag.Bool("sound", true, "terminal: play sound effects")
	flag.Parse()

	if *tui {
		d, err := game.ParseDifficulty(*difficulty)
		if err != nil {
			fmt.Fprintf(os.Stderr, "-difficulty: %v\n", err)
			os.Exit(2)
		}
		opts := terminal.Options{
			Difficulty: d,
			Walls:      *walls,
			Demo:       *demo,
			Sound:      *sound,
			MaxCols:    MaxBoardCols,
			MaxRows:    MaxBoardRows,
		}
		if err := runTerminal(opts, *debug); err != nil {
			fmt.Fprintf(os.Stderr, "gridsnake: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if env := os.Getenv(AddrEnv); env != "" && !flagSet("addr") {
		*addr = env
	}
	if err := serve(*addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func flagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

// serve runs the websocket server until SIGINT/SIGTERM
func serve(addr string) error {
	srv := NewServer(MaxSessions, IPCooldownSec*time.Second)
	httpSrv := &http.Server{Addr: addr, Handler: srv.Handler()}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		log.Printf("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
		srv.CloseAll()
	}()

	log.Printf("server listening on %s (max %d sessions)", addr, MaxSessions)
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// runTerminal plays one game session on the controlling terminal
func runTerminal(opts terminal.Options, debug bool) error {
	if logFile := setupLogging(debug); logFile != nil {
		defer logFile.Close()
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	app, err := terminal.NewApp(screen, opts)
	if err != nil {
		return err
	}
	defer app.Close()

	log.Printf("terminal session %s (%s, walls=%v, demo=%v)", app.Session().ID, opts.Difficulty, opts.Walls, opts.Demo)
	return app.Run()
}

// setupLogging routes the log package away from the terminal tcell owns. With debug it appends
// to logs/gridsnake.log, rotating a file over maxLogSize first; otherwise logs are discarded.
// The returned file is nil when logging is off.
func setupLogging(debug bool) *os.File {
	if !debug {
		log.SetOutput(io.Discard)
		return nil
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.SetOutput(io.Discard)
		return nil
	}

	logPath := filepath.Join(logDir, logFileName)
	if info, err := os.Stat(logPath); err == nil && info.Size() > maxLogSize {
		rotated := filepath.Join(logDir, fmt.Sprintf("gridsnake-%s.log", time.Now().Format("20060102-150405")))
		_ = os.Rename(logPath, rotated)
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.SetOutput(io.Discard)
		return nil
	}
	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	return f
}
