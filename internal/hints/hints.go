// internal/hints/hints.go
//
// Hint catalogue for the classification game.
//
// Initialization behavior (Init):
//   1. If HINTS_FILE is set, hints are read from that YAML file.
//   2. Otherwise the embedded assets/hints.yaml is used.
//
// File format: one key per category, each a list of hints, first one shown
// first:
//
//   equilateral:
//     - All three sides are equal in length.
//
// Every category must have at least one hint. Init runs once (sync.Once).

package hints

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/robalobadob/trianglequiz/assets"
	"github.com/robalobadob/trianglequiz/internal/triangle"
)

// Catalog maps a category to its hints.
type Catalog map[triangle.Category][]string

var (
	initOnce   sync.Once
	catalog    Catalog
	initialErr error
)

// Init loads the catalogue exactly once.
func Init() error {
	initOnce.Do(func() {
		var (
			raw []byte
			err error
		)
		if path := os.Getenv("HINTS_FILE"); path != "" {
			raw, err = os.ReadFile(path)
		} else {
			raw, err = assets.Hints()
		}
		if err != nil {
			initialErr = fmt.Errorf("hints: read: %w", err)
			return
		}
		catalog, initialErr = Parse(raw)
	})
	return initialErr
}

// Parse decodes and validates a YAML catalogue.
func Parse(raw []byte) (Catalog, error) {
	var m map[string][]string
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("hints: decode: %w", err)
	}
	out := make(Catalog, len(m))
	for k, list := range m {
		cat, err := triangle.ParseCategory(k)
		if err != nil {
			return nil, fmt.Errorf("hints: %w", err)
		}
		for _, h := range list {
			if h = strings.TrimSpace(h); h != "" {
				out[cat] = append(out[cat], h)
			}
		}
	}
	for _, cat := range triangle.Categories {
		if len(out[cat]) == 0 {
			return nil, fmt.Errorf("hints: no hint for %s", cat)
		}
	}
	return out, nil
}

// Get returns hint n (0-based) for cat, clamped to the last available hint.
func (c Catalog) Get(cat triangle.Category, n int) (string, error) {
	list := c[cat]
	if len(list) == 0 {
		return "", fmt.Errorf("hints: no hint for %q", cat)
	}
	if n < 0 {
		n = 0
	}
	if n >= len(list) {
		n = len(list) - 1
	}
	return list[n], nil
}

// For returns hint n for cat from the loaded catalogue.
func For(cat triangle.Category, n int) (string, error) {
	if err := Init(); err != nil {
		return "", err
	}
	if catalog == nil {
		return "", errors.New("hints: catalogue not loaded")
	}
	return catalog.Get(cat, n)
}
