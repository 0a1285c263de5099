// internal/game/game.go
//
// Round state machine for one learner.
// Responsibilities:
//   - Draw triangles from a triangle.Generator (weighted or by category).
//   - Evaluate guesses against the generator's ground truth via Session.
//   - Track phases: idle → shown → awaiting → feedback → (auto-advance) → shown.
//   - Schedule the auto-advance after a correct answer as a cancellable timer.
//
// Notes:
//   - A wrong guess keeps the round open ("try again").
//   - Reset cancels a pending auto-advance, zeroes the session and the
//     triangle counter, and drops the current triangle.
//   - Timer callbacks run on their own goroutine, so Game guards its state
//     with a mutex. A token is bumped on every transition that invalidates a
//     scheduled advance; a callback that lost the race to Stop sees a stale
//     token and does nothing.
package game

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/trianglequiz/internal/geometry"
	"github.com/robalobadob/trianglequiz/internal/triangle"
)

// DefaultAdvanceDelay is the pause between a correct answer and the next triangle.
const DefaultAdvanceDelay = 2 * time.Second

var (
	// ErrNoTriangle is returned when an action needs a triangle and none is shown.
	ErrNoTriangle = errors.New("game: no triangle, generate one first")

	// ErrRoundOver is returned for guesses after the current triangle was solved.
	ErrRoundOver = errors.New("game: triangle already classified")
)

// Phase is the coarse state of the current round.
type Phase string

const (
	PhaseIdle     Phase = "idle"     // no triangle
	PhaseShown    Phase = "shown"    // triangle drawn, not picked up yet
	PhaseAwaiting Phase = "awaiting" // learner is classifying
	PhaseFeedback Phase = "feedback" // solved; next triangle pending
)

// Shape is the learner-facing view of a triangle. It omits the category.
type Shape struct {
	Number   int                  `json:"number"`
	Vertices [3]geometry.Point    `json:"vertices"`
	Sides    geometry.SideLengths `json:"sides"`
}

// Snapshot is a consistent copy of a game's public state.
type Snapshot struct {
	ID       string            `json:"id"`
	Phase    Phase             `json:"phase"`
	Triangle *Shape            `json:"triangle,omitempty"`
	Session  Session           `json:"session"`
	Revealed triangle.Category `json:"revealed,omitempty"` // set only in feedback
}

// Outcome is returned by Guess.
type Outcome struct {
	Result
	Guess   triangle.Category `json:"guess"`
	Actual  triangle.Category `json:"actual"`
	Session Session           `json:"session"`
}

// Options tune a Game. Zero values pick the defaults.
type Options struct {
	AdvanceDelay time.Duration
	Scheduler    Scheduler

	// OnAdvance is called (outside the lock) after an automatic advance.
	OnAdvance func(Snapshot, error)
}

// Game is one learner's play state.
type Game struct {
	ID        string
	StartedAt time.Time

	mu        sync.Mutex
	gen       *triangle.Generator
	sched     Scheduler
	delay     time.Duration
	onAdvance func(Snapshot, error)

	session Session
	current *triangle.Triangle
	counter int
	phase   Phase
	pending Timer
	token   uint64
}

// New constructs an idle game drawing from gen.
func New(gen *triangle.Generator, opts Options) *Game {
	if opts.AdvanceDelay <= 0 {
		opts.AdvanceDelay = DefaultAdvanceDelay
	}
	if opts.Scheduler == nil {
		opts.Scheduler = RealScheduler()
	}
	return &Game{
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC(),
		gen:       gen,
		sched:     opts.Scheduler,
		delay:     opts.AdvanceDelay,
		onAdvance: opts.OnAdvance,
		phase:     PhaseIdle,
	}
}

// Next draws a new triangle of cat, or a weighted random category if cat
// is empty. Any pending auto-advance is cancelled.
func (g *Game) Next(cat triangle.Category) (Snapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.nextLocked(cat); err != nil {
		return g.snapshotLocked(), err
	}
	return g.snapshotLocked(), nil
}

func (g *Game) nextLocked(cat triangle.Category) error {
	g.cancelLocked()

	var (
		t   triangle.Triangle
		err error
	)
	if cat == "" {
		t, err = g.gen.Random()
	} else {
		t, err = g.gen.Generate(cat)
	}
	if err != nil {
		return err
	}
	g.counter++
	g.current = &t
	g.phase = PhaseShown
	return nil
}

// Select marks the current triangle as picked up for classification.
func (g *Game) Select() (Snapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	switch g.phase {
	case PhaseIdle:
		return g.snapshotLocked(), ErrNoTriangle
	case PhaseFeedback:
		return g.snapshotLocked(), ErrRoundOver
	}
	g.phase = PhaseAwaiting
	return g.snapshotLocked(), nil
}

// Guess evaluates cat against the current triangle's ground truth.
// A correct guess moves to feedback and schedules the next triangle.
func (g *Game) Guess(cat triangle.Category) (Outcome, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	switch g.phase {
	case PhaseIdle:
		return Outcome{Session: g.session}, ErrNoTriangle
	case PhaseFeedback:
		return Outcome{Session: g.session}, ErrRoundOver
	}

	actual := g.current.Category
	res := g.session.Evaluate(cat, actual)
	if res.Correct {
		g.phase = PhaseFeedback
		g.scheduleLocked()
	} else {
		g.phase = PhaseAwaiting
	}
	return Outcome{Result: res, Guess: cat, Actual: actual, Session: g.session}, nil
}

// Hint returns the current triangle's category, for hint lookup.
func (g *Game) Hint() (triangle.Category, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.current == nil {
		return "", ErrNoTriangle
	}
	return g.current.Category, nil
}

// Measure returns the current side lengths and how they classify.
func (g *Game) Measure() (geometry.SideLengths, triangle.Category, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.current == nil {
		return geometry.SideLengths{}, "", ErrNoTriangle
	}
	s := g.current.Sides()
	return s, triangle.ClassifySides(s), nil
}

// Reset clears the session and the round. A pending advance never fires.
func (g *Game) Reset() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cancelLocked()
	g.session.Reset()
	g.counter = 0
	g.current = nil
	g.phase = PhaseIdle
	return g.snapshotLocked()
}

// Snapshot returns the current public state.
func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}

// Session returns a copy of the counters.
func (g *Game) Session() Session {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.session
}

// Close cancels any pending advance.
func (g *Game) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cancelLocked()
}

func (g *Game) scheduleLocked() {
	g.cancelLocked()
	token := g.token
	g.pending = g.sched.AfterFunc(g.delay, func() { g.advance(token) })
}

func (g *Game) cancelLocked() {
	g.token++
	if g.pending != nil {
		g.pending.Stop()
		g.pending = nil
	}
}

// advance is the timer callback.
func (g *Game) advance(token uint64) {
	g.mu.Lock()
	if token != g.token || g.phase != PhaseFeedback {
		g.mu.Unlock()
		return
	}
	g.pending = nil
	err := g.nextLocked("")
	snap := g.snapshotLocked()
	hook := g.onAdvance
	g.mu.Unlock()

	if hook != nil {
		hook(snap, err)
	}
}

func (g *Game) snapshotLocked() Snapshot {
	s := Snapshot{ID: g.ID, Phase: g.phase, Session: g.session}
	if g.current != nil {
		s.Triangle = &Shape{
			Number:   g.counter,
			Vertices: g.current.Vertices,
			Sides:    g.current.Sides(),
		}
		if g.phase == PhaseFeedback {
			s.Revealed = g.current.Category
		}
	}
	return s
}
