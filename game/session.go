package game

import (
	"errors"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrSessionClosed = errors.New("session closed")
	ErrNotRunning    = errors.New("game not running")
	ErrNotPaused     = errors.New("game not paused")
)

// Timer is a pending one-shot tick
type Timer interface {
	Stop() bool
}

// Scheduler arms one-shot timers. The default uses time.AfterFunc.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Snapshot is an immutable view of a session for rendering
type Snapshot struct {
	State State
	Prev  []Cell    // body before the last tick, nil right after start/reset
	At    time.Time // when the last tick ran
	Best  int       // best score in this session
}

// Option configures a Session
type Option func(*Session)

// WithScheduler replaces the tick timer source
func WithScheduler(s Scheduler) Option {
	return func(ss *Session) { ss.sched = s }
}

// WithRand fixes the random source used for food placement
func WithRand(r *rand.Rand) Option {
	return func(ss *Session) { ss.rng = r }
}

// WithTimeProvider replaces the clock used for snapshots and the frame clock
func WithTimeProvider(tp TimeProvider) Option {
	return func(ss *Session) { ss.time = tp }
}

// WithInputMapper replaces the swipe mapper used by QueueDirection
func WithInputMapper(m InputMapper) Option {
	return func(ss *Session) { ss.mapper = m }
}

// Session owns the single live game state of one player. Ticks come from a one-shot timer
// that is re-armed after every tick with the current interval; input only writes the queued
// direction. Both run under mu, so a tick never overlaps an input.
type Session struct {
	ID string

	mu     sync.Mutex
	cfg    Config
	engine *Engine
	state  State
	prev   []Cell
	at     time.Time
	best   int
	closed bool

	sched  Scheduler
	timer  Timer
	gen    uint64 // bumped whenever the timer is torn down; stale firings compare unequal
	rng    *rand.Rand
	time   TimeProvider
	mapper InputMapper
	clock  *FrameClock

	updates chan Snapshot
}

// NewSession creates an Idle session with a fresh board
func NewSession(cfg Config, opts ...Option) (*Session, error) {
	s := &Session{
		ID:      uuid.New().String(),
		cfg:     cfg,
		sched:   realScheduler{},
		time:    SystemTime{},
		mapper:  SwipeInput,
		updates: make(chan Snapshot, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s.clock = NewFrameClock(s.time)

	engine, err := NewEngine(cfg, s.rng)
	if err != nil {
		return nil, err
	}
	s.engine = engine
	s.state = engine.Reset(Idle)
	s.at = s.time.Now()
	return s, nil
}

// Start begins a new game with the given difficulty and boundary policy. It works from any
// phase, so it doubles as restart after GameOver.
func (s *Session) Start(d Difficulty, walls bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}

	cfg := s.cfg
	cfg.Difficulty = d
	cfg.Walls = walls
	engine, err := NewEngine(cfg, s.rng)
	if err != nil {
		return err
	}

	s.stopTimer()
	s.cfg = cfg
	s.engine = engine
	s.state = engine.Reset(Running)
	s.prev = nil
	s.at = s.time.Now()
	s.clock.Resume()
	s.clock.Resync(s.state.Interval)
	s.arm()
	log.Printf("session %s started (%s, walls=%v, grid %dx%d)", s.ID, d, walls, cfg.Grid.Cols, cfg.Grid.Rows)
	s.publish()
	return nil
}

// Pause suspends ticking without touching the state
func (s *Session) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	if s.state.Phase != Running {
		return ErrNotRunning
	}
	s.stopTimer()
	s.state.Phase = Paused
	s.clock.Pause()
	s.publish()
	return nil
}

// Resume re-arms the timer with the unchanged interval
func (s *Session) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	if s.state.Phase != Paused {
		return ErrNotPaused
	}
	s.state.Phase = Running
	s.clock.Resume()
	s.arm()
	s.publish()
	return nil
}

// TogglePause pauses a running game or resumes a paused one
func (s *Session) TogglePause() error {
	s.mu.Lock()
	phase := s.state.Phase
	s.mu.Unlock()
	if phase == Paused {
		return s.Resume()
	}
	return s.Pause()
}

// Reset stops the game and returns to Idle with a fresh board
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	s.stopTimer()
	s.state = s.engine.Reset(Idle)
	s.prev = nil
	s.at = s.time.Now()
	s.clock.Resync(s.state.Interval)
	s.publish()
	return nil
}

// Close tears the timer down and discards the state. Further calls fail with ErrSessionClosed.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.stopTimer()
	s.state = State{}
	s.prev = nil
	close(s.updates)
}

// QueueDirection maps a raw swipe/drag vector and queues the result. Vectors inside the
// deadzone and reversals are dropped; the bool reports whether a direction was queued.
func (s *Session) QueueDirection(dx, dy float64) (bool, error) {
	d, ok := s.mapper.Map(dx, dy)
	if !ok {
		return false, nil
	}
	return s.QueueKey(d)
}

// QueueKey queues a direction directly, as from a key press
func (s *Session) QueueKey(d Direction) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, ErrSessionClosed
	}
	next, ok := QueueDirection(s.state, d)
	s.state = next
	return ok, nil
}

// Snapshot returns the current state
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Frame returns the current snapshot together with the interpolated snake for this instant
func (s *Session) Frame() (Snapshot, []Segment) {
	snap := s.Snapshot()
	return snap, Interpolate(snap.Prev, snap.State.Snake, snap.State.Grid, s.clock.Progress())
}

// Updates delivers a snapshot after every change. Only the latest is kept: a slow reader
// skips intermediate snapshots. The channel is closed by Close.
func (s *Session) Updates() <-chan Snapshot {
	return s.updates
}

// Best returns the best score reached in this session
func (s *Session) Best() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.best
}

// Config returns the config of the current game
func (s *Session) Config() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// fire runs one tick. gen ties the firing to the timer that scheduled it.
func (s *Session) fire(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || gen != s.gen || s.state.Phase != Running {
		return
	}
	s.timer = nil

	prev := s.state.Snake
	s.state = s.engine.Step(s.state, s.state.Queued)
	s.prev = prev
	s.at = s.time.Now()
	s.clock.Resync(s.state.Interval)
	if s.state.Score > s.best {
		s.best = s.state.Score
	}

	if s.state.Phase == Running {
		s.arm()
	} else {
		log.Printf("session %s game over (%s) score=%d level=%d", s.ID, s.state.Outcome, s.state.Score, s.state.Level)
	}
	s.publish()
}

// arm schedules the next tick. Caller must hold s.mu.
func (s *Session) arm() {
	gen := s.gen
	s.timer = s.sched.AfterFunc(s.state.Interval, func() { s.fire(gen) })
}

// stopTimer cancels any pending tick. Caller must hold s.mu.
func (s *Session) stopTimer() {
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// snapshot copies the state. Caller must hold s.mu.
func (s *Session) snapshot() Snapshot {
	snap := Snapshot{State: s.state.Clone(), At: s.at, Best: s.best}
	if s.prev != nil {
		snap.Prev = make([]Cell, len(s.prev))
		copy(snap.Prev, s.prev)
	}
	return snap
}

// publish offers the latest snapshot, replacing one the reader has not taken yet.
// Caller must hold s.mu.
func (s *Session) publish() {
	snap := s.snapshot()
	select {
	case s.updates <- snap:
		return
	default:
	}
	select {
	case <-s.updates:
	default:
	}
	select {
	case s.updates <- snap:
	default:
	}
}
