package triangle

import (
	"errors"
	"fmt"
)

var (
	// ErrNonTerminating is returned when rejection sampling found no valid
	// side lengths within the configured attempt limit.
	ErrNonTerminating = errors.New("triangle: no valid sides within attempt limit")

	// ErrDegenerate is returned when the requested lengths cannot close a
	// triangle (e.g. isosceles legs no longer than half the base).
	ErrDegenerate = errors.New("triangle: degenerate triangle")

	// ErrUnknownCategory is returned for a category outside Categories.
	ErrUnknownCategory = errors.New("triangle: unknown category")

	// ErrInvalidConfig is returned by Config.Validate for unusable ranges.
	ErrInvalidConfig = errors.New("triangle: invalid generator config")
)

// GenerationError reports a failed generation. It unwraps to the
// underlying sentinel so callers can match with errors.Is.
type GenerationError struct {
	Category Category
	Attempts int
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate %s after %d attempts: %v", e.Category, e.Attempts, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Retryable reports whether drawing again (or relaxing the config) may succeed.
func (e *GenerationError) Retryable() bool {
	return errors.Is(e.Err, ErrNonTerminating)
}
