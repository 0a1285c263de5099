// internal/random/source.go
//
// Uniform random sources for triangle generation.
// Responsibilities:
//   - Source: the single contract the generators draw from (Float64 in [0,1)).
//   - Crypto: default source for live play (crypto/rand, 53 random bits).
//   - Seeded: reproducible source (PCG) for tests, the CLI --seed flag and
//     the daily challenge.
//   - Sequence: replays a fixed list of values; used to pin edge cases.

package random

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"sync"
)

// Source yields uniformly distributed floats in [0,1).
type Source interface {
	Float64() float64
}

// crypto draws from the operating system CSPRNG.
type crypto struct{}

// NewCrypto returns the default, non-reproducible source.
func NewCrypto() Source { return crypto{} }

func (crypto) Float64() float64 {
	var buf [8]byte
	if _, err := cryptorand.Read(buf[:]); err != nil {
		return rand.Float64()
	}
	u := binary.BigEndian.Uint64(buf[:]) >> 11 // 53 bits
	return float64(u) / (1 << 53)
}

// seeded is a PCG-backed source. The mutex makes a shared seeded source
// safe to use from timer goroutines.
type seeded struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewSeeded returns a deterministic source: the same seed yields the same stream.
func NewSeeded(seed uint64) Source {
	return &seeded{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *seeded) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()
}

// Sequence replays values in order and wraps around when exhausted.
type Sequence struct {
	values []float64
	next   int
}

// NewSequence returns a source that yields values cyclically.
// Values are expected to lie in [0,1); an empty sequence always yields 0.
func NewSequence(values ...float64) *Sequence {
	return &Sequence{values: append([]float64(nil), values...)}
}

func (s *Sequence) Float64() float64 {
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

// Drawn reports how many values have been consumed so far.
func (s *Sequence) Drawn() int { return s.next }

// Uniform maps one draw from src onto [lo, hi).
func Uniform(src Source, lo, hi float64) float64 {
	return lo + src.Float64()*(hi-lo)
}
