package game

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Game configuration constants
const (
	// Board geometry: a viewport is reduced to a board, then divided into square cells
	CellSize         = 24   // px per grid cell
	BoardPadding     = 20   // px trimmed from each horizontal edge of the viewport
	BoardHeightRatio = 0.55 // share of the viewport height given to the board

	// Scoring
	FoodReward     = 10 // points per food
	PointsPerLevel = 50 // level = score/PointsPerLevel + 1

	// Spawn
	SpawnLength   = 3   // snake cells at reset
	SpawnAttempts = 100 // random draws before food placement falls back to a free-cell scan

	// Cosmetic
	DefaultTint = "#64748B"
)

var (
	ErrUnknownDifficulty = errors.New("unknown difficulty")
	ErrGridTooSmall      = errors.New("grid too small")
	ErrInvalidTuning     = errors.New("invalid tuning")
)

// Difficulty selects one of the speed presets
type Difficulty int

const (
	Beginner Difficulty = iota
	Intermediate
	Expert
)

// Preset holds the tick timing for a difficulty
type Preset struct {
	Initial   time.Duration // tick interval at reset
	Decrement time.Duration // interval reduction per food
	Floor     time.Duration // interval never drops below this
}

var presets = map[Difficulty]Preset{
	Beginner:     {Initial: 300 * time.Millisecond, Decrement: 6 * time.Millisecond, Floor: 120 * time.Millisecond},
	Intermediate: {Initial: 200 * time.Millisecond, Decrement: 8 * time.Millisecond, Floor: 80 * time.Millisecond},
	Expert:       {Initial: 150 * time.Millisecond, Decrement: 10 * time.Millisecond, Floor: 60 * time.Millisecond},
}

// Preset returns the timing preset, falling back to Intermediate for unknown values
func (d Difficulty) Preset() Preset {
	if p, ok := presets[d]; ok {
		return p
	}
	return presets[Intermediate]
}

func (d Difficulty) String() string {
	switch d {
	case Beginner:
		return "beginner"
	case Intermediate:
		return "intermediate"
	case Expert:
		return "expert"
	default:
		return fmt.Sprintf("difficulty(%d)", int(d))
	}
}

// ParseDifficulty accepts the preset names (any case) or their first letter
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "beginner", "b", "easy":
		return Beginner, nil
	case "intermediate", "i", "medium", "":
		return Intermediate, nil
	case "expert", "e", "hard":
		return Expert, nil
	}
	return Intermediate, fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
}

// Config is the per-game configuration. Zero tunables are replaced with the package defaults
// by DefaultConfig; Validate rejects anything the engine cannot run.
type Config struct {
	Grid       Grid
	Difficulty Difficulty
	Walls      bool // true: leaving the grid is fatal; false: wrap to the opposite edge

	FoodReward     int
	PointsPerLevel int
	SpawnAttempts  int
}

// DefaultConfig returns an Intermediate, walled config on the given grid
func DefaultConfig(grid Grid) Config {
	return Config{
		Grid:           grid,
		Difficulty:     Intermediate,
		Walls:          true,
		FoodReward:     FoodReward,
		PointsPerLevel: PointsPerLevel,
		SpawnAttempts:  SpawnAttempts,
	}
}

// Validate checks the config can host a game: the spawn snake must fit with at least one free
// cell left for food.
func (c Config) Validate() error {
	if c.Grid.Cols < SpawnLength+1 || c.Grid.Rows < 1 {
		return fmt.Errorf("%w: %dx%d", ErrGridTooSmall, c.Grid.Cols, c.Grid.Rows)
	}
	if _, ok := presets[c.Difficulty]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownDifficulty, int(c.Difficulty))
	}
	if c.FoodReward <= 0 || c.PointsPerLevel <= 0 || c.SpawnAttempts < 0 {
		return fmt.Errorf("%w: reward=%d perLevel=%d attempts=%d",
			ErrInvalidTuning, c.FoodReward, c.PointsPerLevel, c.SpawnAttempts)
	}
	return nil
}
