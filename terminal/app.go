package terminal

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/gdamore/tcell/v2"

	"gridsnake/game"
)

const (
	frameInterval = 16 * time.Millisecond // ~60 FPS
	demoRestart   = 1500 * time.Millisecond
)

// Options configures the terminal frontend
type Options struct {
	Difficulty game.Difficulty
	Walls      bool
	Demo       bool
	Sound      bool
	MaxCols    int
	MaxRows    int
}

// App drives one session on a tcell screen
type App struct {
	screen  tcell.Screen
	session *game.Session
	sound   Sound
	pilot   *game.Autopilot
	rng     *rand.Rand
	opts    Options

	lastAt time.Time // At of the last snapshot that played a sound
	overAt time.Time // when the demo game ended
}

// NewApp sizes the board to the screen and creates an Idle session. The caller keeps
// ownership of screen.
func NewApp(screen tcell.Screen, opts Options, sessionOpts ...game.Option) (*App, error) {
	w, h := screen.Size()
	cfg := game.DefaultConfig(GridForScreen(w, h, opts.MaxCols, opts.MaxRows))
	cfg.Difficulty = opts.Difficulty
	cfg.Walls = opts.Walls

	session, err := game.NewSession(cfg, sessionOpts...)
	if err != nil {
		return nil, fmt.Errorf("terminal %dx%d: %w", w, h, err)
	}

	a := &App{
		screen:  screen,
		session: session,
		sound:   Silent{},
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		opts:    opts,
	}
	if opts.Sound {
		sp, err := NewSpeaker()
		if err != nil {
			// Non-fatal, play without sound
			log.Printf("audio disabled: %v", err)
		} else {
			a.sound = sp
		}
	}
	if opts.Demo {
		if err := a.start(); err != nil {
			session.Close()
			return nil, err
		}
	}
	return a, nil
}

// Session exposes the underlying game session
func (a *App) Session() *game.Session {
	return a.session
}

// Run pumps input, tick snapshots and frames until the player quits
func (a *App) Run() error {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				// Screen finalized
				return
			}
			events <- ev
		}
	}()

	updates := a.session.Updates()
	for {
		select {
		case ev := <-events:
			if !a.Handle(ev) {
				return nil
			}

		case snap, ok := <-updates:
			if !ok {
				return nil
			}
			a.observe(snap)

		case now := <-ticker.C:
			a.tick(now)
			a.Draw()
		}
	}
}

// Handle applies one terminal event. It returns false when the player quits.
func (a *App) Handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
		return true
	case *tcell.EventKey:
		return a.command(MapKey(ev))
	}
	return true
}

func (a *App) command(cmd Command) bool {
	phase := a.session.Snapshot().State.Phase

	switch cmd.Action {
	case ActionSteer:
		if _, err := a.session.QueueKey(cmd.Dir); err != nil {
			log.Printf("steer %v: %v", cmd.Dir, err)
		}

	case ActionStart:
		switch phase {
		case game.Running:
		case game.Paused:
			a.report("resume", a.session.Resume())
		default:
			a.report("start", a.start())
		}

	case ActionPause:
		if phase == game.Running || phase == game.Paused {
			a.report("pause", a.session.TogglePause())
		}

	case ActionReset:
		a.report("reset", a.session.Reset())

	case ActionDifficulty:
		a.opts.Difficulty = cmd.Difficulty

	case ActionWalls:
		a.opts.Walls = !a.opts.Walls

	case ActionDemo:
		a.opts.Demo = !a.opts.Demo
		if a.opts.Demo && phase != game.Running && phase != game.Paused {
			a.report("start", a.start())
		}

	case ActionQuit:
		return false
	}
	return true
}

// start begins a game with the selected difficulty and walls and rebinds the autopilot
func (a *App) start() error {
	if err := a.session.Start(a.opts.Difficulty, a.opts.Walls); err != nil {
		return err
	}
	engine, err := game.NewEngine(a.session.Config(), a.rng)
	if err != nil {
		return err
	}
	a.pilot = game.NewAutopilot(engine, a.rng)
	a.overAt = time.Time{}
	return nil
}

// observe reacts to a published snapshot: sound for a fresh tick, demo steering
func (a *App) observe(snap game.Snapshot) {
	st := snap.State
	if !snap.At.Equal(a.lastAt) {
		a.lastAt = snap.At
		if st.Event != game.EventNone && st.Event != game.EventMoved {
			a.sound.Play(st.Event)
		}
	}

	if !a.opts.Demo || a.pilot == nil {
		return
	}
	switch st.Phase {
	case game.Running:
		if _, err := a.session.QueueKey(a.pilot.Choose(st)); err != nil {
			log.Printf("demo steer: %v", err)
		}
	case game.GameOver:
		if a.overAt.IsZero() {
			a.overAt = snap.At
		}
	}
}

// tick handles per-frame housekeeping
func (a *App) tick(now time.Time) {
	if a.opts.Demo && !a.overAt.IsZero() && now.Sub(a.overAt) >= demoRestart {
		a.report("demo restart", a.start())
	}
}

// Draw renders the current frame
func (a *App) Draw() {
	snap, segs := a.session.Frame()
	Draw(a.screen, View{
		Snap:       snap,
		Segments:   segs,
		Difficulty: a.opts.Difficulty,
		Demo:       a.opts.Demo,
	})
}

// Close stops the session and releases audio. The screen is left to the caller.
func (a *App) Close() {
	a.session.Close()
	a.sound.Close()
}

func (a *App) report(op string, err error) {
	if err == nil || errors.Is(err, game.ErrNotRunning) || errors.Is(err, game.ErrNotPaused) {
		return
	}
	log.Printf("%s: %v", op, err)
}
