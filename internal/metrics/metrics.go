// Package metrics exposes Prometheus counters for the quiz server.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/robalobadob/trianglequiz/internal/triangle"
)

var (
	trianglesGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trianglequiz",
		Name:      "triangles_generated_total",
		Help:      "Triangles generated, by category.",
	}, []string{"category"})

	generationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trianglequiz",
		Name:      "generation_failures_total",
		Help:      "Triangle generations that returned an error, by requested category.",
	}, []string{"category"})

	guesses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trianglequiz",
		Name:      "guesses_total",
		Help:      "Evaluated guesses, by actual category and correctness.",
	}, []string{"actual", "correct"})

	classifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trianglequiz",
		Name:      "classifications_total",
		Help:      "Side-length classifications requested through the API, by result.",
	}, []string{"category"})
)

// Generated records a generated triangle.
func Generated(cat triangle.Category) {
	trianglesGenerated.WithLabelValues(string(cat)).Inc()
}

// GenerationFailed records a failed generation. An empty category means a
// weighted random draw.
func GenerationFailed(cat triangle.Category) {
	if cat == "" {
		cat = "random"
	}
	generationFailures.WithLabelValues(string(cat)).Inc()
}

// Guessed records an evaluated guess.
func Guessed(actual triangle.Category, correct bool) {
	guesses.WithLabelValues(string(actual), strconv.FormatBool(correct)).Inc()
}

// Classified records an API classification.
func Classified(cat triangle.Category) {
	classifications.WithLabelValues(string(cat)).Inc()
}
