package game

import (
	"sync"
	"time"
)

// TimeProvider supplies the current time
type TimeProvider interface {
	Now() time.Time
}

// SystemTime reads the wall clock
type SystemTime struct{}

// Now returns time.Now()
func (SystemTime) Now() time.Time {
	return time.Now()
}

// MockTime is a controllable TimeProvider for tests
type MockTime struct {
	mu      sync.RWMutex
	current time.Time
}

// NewMockTime creates a mock clock starting at start
func NewMockTime(start time.Time) *MockTime {
	return &MockTime{current: start}
}

// Now returns the mocked time
func (m *MockTime) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Advance moves the mocked time forward by d
func (m *MockTime) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.current.Add(d)
}

// FrameClock drives interpolation progress. It runs independently of the tick timer and is
// resynchronized to 0 at the start of every tick.
type FrameClock struct {
	mu       sync.Mutex
	time     TimeProvider
	start    time.Time
	interval time.Duration
	paused   bool
	pausedAt time.Time
}

// NewFrameClock creates a clock reading tp; nil means SystemTime
func NewFrameClock(tp TimeProvider) *FrameClock {
	if tp == nil {
		tp = SystemTime{}
	}
	return &FrameClock{time: tp, start: tp.Now()}
}

// Resync restarts progress at 0 for a tick lasting interval
func (c *FrameClock) Resync(interval time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.time.Now()
	c.start = now
	c.interval = interval
	if c.paused {
		c.pausedAt = now
	}
}

// Progress returns the elapsed share of the current tick in [0,1]
func (c *FrameClock) Progress() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.interval <= 0 {
		return 1
	}
	now := c.time.Now()
	if c.paused {
		now = c.pausedAt
	}
	return clamp01(float64(now.Sub(c.start)) / float64(c.interval))
}

// Pause freezes progress
func (c *FrameClock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.paused {
		c.paused = true
		c.pausedAt = c.time.Now()
	}
}

// Resume continues progress from where Pause froze it
func (c *FrameClock) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.paused {
		c.start = c.start.Add(c.time.Now().Sub(c.pausedAt))
		c.paused = false
	}
}
