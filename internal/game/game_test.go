package game

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/trianglequiz/internal/random"
	"github.com/robalobadob/trianglequiz/internal/triangle"
)

// manualScheduler records callbacks and runs them on demand.
type manualScheduler struct {
	mu     sync.Mutex
	timers []*manualTimer
}

type manualTimer struct {
	d       time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTimer{d: d, f: f}
	s.timers = append(s.timers, t)
	return t
}

// fireAll runs every timer that is neither stopped nor fired.
func (s *manualScheduler) fireAll() int {
	s.mu.Lock()
	due := append([]*manualTimer(nil), s.timers...)
	s.mu.Unlock()
	n := 0
	for _, t := range due {
		if t.stopped || t.fired {
			continue
		}
		t.fired = true
		t.f()
		n++
	}
	return n
}

// fireStale runs every timer, including stopped ones, to mimic a callback
// that was already running when Stop was called.
func (s *manualScheduler) fireStale() {
	s.mu.Lock()
	due := append([]*manualTimer(nil), s.timers...)
	s.mu.Unlock()
	for _, t := range due {
		t.f()
	}
}

func newTestGame(t *testing.T) (*Game, *manualScheduler) {
	t.Helper()
	gen, err := triangle.NewGenerator(triangle.DefaultConfig(), random.NewSeeded(21))
	require.NoError(t, err)
	sched := &manualScheduler{}
	return New(gen, Options{Scheduler: sched}), sched
}

func TestSessionEvaluateCorrect(t *testing.T) {
	var s Session
	res := s.Evaluate(triangle.Equilateral, triangle.Equilateral)
	assert.Equal(t, Result{Correct: true, ScoreDelta: 10}, res)
	assert.Equal(t, Session{Score: 10, Attempts: 1}, s)
}

func TestSessionEvaluateWrong(t *testing.T) {
	s := Session{Score: 30, Attempts: 4}
	res := s.Evaluate(triangle.Scalene, triangle.Isosceles)
	assert.Equal(t, Result{Correct: false, ScoreDelta: 0}, res)
	assert.Equal(t, Session{Score: 30, Attempts: 5}, s)
}

func TestSessionReset(t *testing.T) {
	var s Session
	for i := 0; i < 7; i++ {
		s.Evaluate(triangle.Scalene, triangle.Categories[i%3])
	}
	require.NotZero(t, s.Attempts)
	s.Reset()
	assert.Equal(t, Session{}, s)
}

func TestGameStartsIdle(t *testing.T) {
	g, _ := newTestGame(t)
	snap := g.Snapshot()
	assert.Equal(t, PhaseIdle, snap.Phase)
	assert.Nil(t, snap.Triangle)
	assert.NotEmpty(t, snap.ID)

	_, err := g.Guess(triangle.Scalene)
	assert.ErrorIs(t, err, ErrNoTriangle)
	_, err = g.Select()
	assert.ErrorIs(t, err, ErrNoTriangle)
	_, err = g.Hint()
	assert.ErrorIs(t, err, ErrNoTriangle)
	_, _, err = g.Measure()
	assert.ErrorIs(t, err, ErrNoTriangle)
	assert.Equal(t, Session{}, g.Session(), "rejected guesses do not count")
}

func TestGameWrongGuessKeepsRoundOpen(t *testing.T) {
	g, sched := newTestGame(t)
	snap, err := g.Next(triangle.Isosceles)
	require.NoError(t, err)
	require.Equal(t, PhaseShown, snap.Phase)
	require.Equal(t, 1, snap.Triangle.Number)
	assert.Empty(t, snap.Revealed, "ground truth stays hidden")

	snap, err = g.Select()
	require.NoError(t, err)
	assert.Equal(t, PhaseAwaiting, snap.Phase)

	out, err := g.Guess(triangle.Scalene)
	require.NoError(t, err)
	assert.False(t, out.Correct)
	assert.Equal(t, triangle.Isosceles, out.Actual)
	assert.Equal(t, Session{Score: 0, Attempts: 1}, out.Session)
	assert.Equal(t, PhaseAwaiting, g.Snapshot().Phase)
	assert.Empty(t, sched.timers)
}

func TestGameCorrectGuessAutoAdvances(t *testing.T) {
	g, sched := newTestGame(t)
	_, err := g.Next(triangle.Equilateral)
	require.NoError(t, err)

	out, err := g.Guess(triangle.Equilateral)
	require.NoError(t, err)
	assert.True(t, out.Correct)
	assert.Equal(t, 10, out.ScoreDelta)

	snap := g.Snapshot()
	assert.Equal(t, PhaseFeedback, snap.Phase)
	assert.Equal(t, triangle.Equilateral, snap.Revealed)
	require.Len(t, sched.timers, 1)
	assert.Equal(t, DefaultAdvanceDelay, sched.timers[0].d)

	_, err = g.Guess(triangle.Equilateral)
	assert.ErrorIs(t, err, ErrRoundOver)
	assert.Equal(t, Session{Score: 10, Attempts: 1}, g.Session())

	require.Equal(t, 1, sched.fireAll())
	snap = g.Snapshot()
	assert.Equal(t, PhaseShown, snap.Phase)
	assert.Equal(t, 2, snap.Triangle.Number)
	assert.Empty(t, snap.Revealed)
}

func TestGameOnAdvanceHook(t *testing.T) {
	gen, err := triangle.NewGenerator(triangle.DefaultConfig(), random.NewSeeded(3))
	require.NoError(t, err)
	sched := &manualScheduler{}
	var got []Snapshot
	g := New(gen, Options{Scheduler: sched, OnAdvance: func(s Snapshot, err error) {
		require.NoError(t, err)
		got = append(got, s)
	}})

	_, err = g.Next(triangle.Scalene)
	require.NoError(t, err)
	_, err = g.Guess(triangle.Scalene)
	require.NoError(t, err)
	sched.fireAll()

	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].Triangle.Number)
}

func TestGameResetCancelsPendingAdvance(t *testing.T) {
	g, sched := newTestGame(t)
	_, err := g.Next(triangle.Scalene)
	require.NoError(t, err)
	_, err = g.Guess(triangle.Scalene)
	require.NoError(t, err)

	snap := g.Reset()
	assert.Equal(t, PhaseIdle, snap.Phase)
	assert.Nil(t, snap.Triangle)
	assert.Equal(t, Session{}, snap.Session)
	assert.True(t, sched.timers[0].stopped)

	// Even a callback that slipped past Stop must not revive the round.
	sched.fireStale()
	assert.Equal(t, PhaseIdle, g.Snapshot().Phase)

	snap, err = g.Next("")
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Triangle.Number, "counter restarts after reset")
}

func TestGameManualNextCancelsAdvance(t *testing.T) {
	g, sched := newTestGame(t)
	_, err := g.Next(triangle.Isosceles)
	require.NoError(t, err)
	_, err = g.Guess(triangle.Isosceles)
	require.NoError(t, err)

	_, err = g.Next(triangle.Equilateral)
	require.NoError(t, err)
	assert.Zero(t, sched.fireAll())
	assert.Equal(t, 2, g.Snapshot().Triangle.Number)
}

func TestGameHintAndMeasure(t *testing.T) {
	g, _ := newTestGame(t)
	_, err := g.Next(triangle.Isosceles)
	require.NoError(t, err)

	cat, err := g.Hint()
	require.NoError(t, err)
	assert.Equal(t, triangle.Isosceles, cat)

	sides, live, err := g.Measure()
	require.NoError(t, err)
	assert.Equal(t, triangle.Isosceles, live)
	assert.Greater(t, sides.A, 0.0)
}

func TestGameRealSchedulerAdvances(t *testing.T) {
	gen, err := triangle.NewGenerator(triangle.DefaultConfig(), random.NewSeeded(8))
	require.NoError(t, err)
	done := make(chan Snapshot, 1)
	g := New(gen, Options{AdvanceDelay: 10 * time.Millisecond, OnAdvance: func(s Snapshot, _ error) { done <- s }})

	_, err = g.Next(triangle.Equilateral)
	require.NoError(t, err)
	_, err = g.Guess(triangle.Equilateral)
	require.NoError(t, err)

	select {
	case s := <-done:
		assert.Equal(t, 2, s.Triangle.Number)
	case <-time.After(2 * time.Second):
		t.Fatal("auto-advance did not fire")
	}
	g.Close()
}
