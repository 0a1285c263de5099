// internal/daily/daily.go
//
// Daily challenge: one triangle per calendar day, the same for every player.
// The day's seed is HMAC-SHA256(salt, YYYY-MM-DD); the triangle is drawn
// from a seeded source, so it is reproducible without being stored.

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/robalobadob/trianglequiz/internal/random"
	"github.com/robalobadob/trianglequiz/internal/triangle"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Seed returns a deterministic seed for the date using HMAC(salt, YYYY-MM-DD).
func Seed(date time.Time, salt string) uint64 {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes as a big-endian integer
	return binary.BigEndian.Uint64(sum[:8])
}

// TriangleFor returns the day's triangle.
func TriangleFor(date time.Time, salt string, cfg triangle.Config) (triangle.Triangle, error) {
	gen, err := triangle.NewGenerator(cfg, random.NewSeeded(Seed(date, salt)))
	if err != nil {
		return triangle.Triangle{}, err
	}
	return gen.Random()
}
