// internal/game/session.go
//
// Score keeping for a learner.
// A Session is the pair (score, attempts). Evaluate is the only mutation
// besides Reset; both are total and never fail.

package game

import "github.com/robalobadob/trianglequiz/internal/triangle"

// PointsPerCorrect is the score awarded for a correct classification.
const PointsPerCorrect = 10

// Session holds the learner's counters.
type Session struct {
	Score    int `json:"score"`
	Attempts int `json:"attempts"`
}

// Result is the outcome of one evaluated guess.
type Result struct {
	Correct    bool `json:"correct"`
	ScoreDelta int  `json:"scoreDelta"`
}

// Evaluate compares a guess with the ground truth, counts the attempt and
// awards PointsPerCorrect when they match.
func (s *Session) Evaluate(guess, actual triangle.Category) Result {
	s.Attempts++
	if guess != actual {
		return Result{Correct: false, ScoreDelta: 0}
	}
	s.Score += PointsPerCorrect
	return Result{Correct: true, ScoreDelta: PointsPerCorrect}
}

// Reset zeroes both counters.
func (s *Session) Reset() {
	s.Score, s.Attempts = 0, 0
}
