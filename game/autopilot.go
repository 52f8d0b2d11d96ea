package game

import "math/rand"

// seekLimit times the longer board side is how many ticks the autopilot chases one food
// before it wanders for a few random safe moves; greedy seeking can orbit its own body.
const seekLimit = 4

// Autopilot steers a snake for demo play. Rules in priority order: never take a fatal move,
// prefer moves that leave room for a follow-up, head for the food, otherwise keep going.
type Autopilot struct {
	engine    *Engine
	rng       *rand.Rand
	seekTicks int
	lastScore int
	wander    int // ticks left heading away from food after a seek timeout
}

// NewAutopilot creates an autopilot bound to engine's rules
func NewAutopilot(engine *Engine, rng *rand.Rand) *Autopilot {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Autopilot{engine: engine, rng: rng}
}

// Choose returns the direction to queue for the next tick of s
func (a *Autopilot) Choose(s State) Direction {
	if len(s.Snake) == 0 {
		return s.Direction
	}
	g := a.engine.cfg.Grid
	wrap := !a.engine.cfg.Walls

	// Detect if food was eaten -> reset seek budget
	if s.Score > a.lastScore {
		a.seekTicks = 0
		a.wander = 0
	}
	a.lastScore = s.Score

	type option struct {
		dir   Direction
		dist  int
		room  int
		ahead bool
	}
	var safe []option
	for _, d := range Directions {
		if len(s.Snake) > 1 && d == s.Direction.Opposite() {
			continue
		}
		if a.engine.Fatal(s, d) {
			continue
		}
		head, _ := a.engine.NextHead(s.Head(), d)
		safe = append(safe, option{
			dir:   d,
			dist:  g.Distance(head, s.Food.Cell, wrap),
			room:  a.followUps(s, d),
			ahead: d == s.Direction,
		})
	}
	if len(safe) == 0 {
		return s.Direction
	}

	// Moves with no follow-up are traps; drop them while something better exists
	open := safe[:0:0]
	for _, o := range safe {
		if o.room > 0 {
			open = append(open, o)
		}
	}
	if len(open) > 0 {
		safe = open
	}

	if a.wander > 0 {
		a.wander--
		o := safe[a.rng.Intn(len(safe))]
		return o.dir
	}
	if a.seekTicks >= seekLimit*max(g.Cols, g.Rows) {
		a.seekTicks = 0
		a.wander = 3 + a.rng.Intn(5)
	}
	a.seekTicks++

	best := safe[0]
	for _, o := range safe[1:] {
		switch {
		case o.dist < best.dist:
			best = o
		case o.dist == best.dist && o.room > best.room:
			best = o
		case o.dist == best.dist && o.room == best.room && o.ahead:
			best = o
		}
	}
	return best.dir
}

// followUps counts the non-fatal moves available after moving s one cell in d
func (a *Autopilot) followUps(s State, d Direction) int {
	next := s
	next.Phase = Running
	next.Queued = d
	after := a.engine.stepNoSpawn(next, d)
	if after.Phase != Running {
		return 0
	}
	n := 0
	for _, d2 := range Directions {
		if d2 == after.Direction.Opposite() {
			continue
		}
		if !a.engine.Fatal(after, d2) {
			n++
		}
	}
	return n
}

// stepNoSpawn is Step without food placement or scoring, for look-ahead that must not
// consume random numbers.
func (e *Engine) stepNoSpawn(s State, d Direction) State {
	head, ok := e.NextHead(s.Head(), d)
	if !ok {
		s.Phase = GameOver
		return s
	}
	grow := head == s.Food.Cell
	if hits(s.Snake, head, grow) {
		s.Phase = GameOver
		return s
	}
	s.Snake = advance(s.Snake, head, grow)
	s.Direction = d
	if grow {
		s.Food = noFood
	}
	return s
}
