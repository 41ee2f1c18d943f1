package util

import (
	"fmt"
	"sync"

	"github.com/fogleman/ease"
)

var easings = map[string]func(float64) float64{
	"linear":       ease.Linear,
	"in-quad":      ease.InQuad,
	"out-quad":     ease.OutQuad,
	"in-out-quad":  ease.InOutQuad,
	"in-cubic":     ease.InCubic,
	"out-cubic":    ease.OutCubic,
	"in-out-cubic": ease.InOutCubic,
	"in-sine":      ease.InSine,
	"out-sine":     ease.OutSine,
	"in-out-sine":  ease.InOutSine,
	"out-bounce":   ease.OutBounce,
	"out-back":     ease.OutBack,
}

// Easing looks up an easing curve by name. An empty name is linear.
func Easing(name string) (func(float64) float64, bool) {
	if name == "" {
		return ease.Linear, true
	}
	fn, ok := easings[name]
	return fn, ok
}

// GenerateLut samples fn at length evenly spaced points in (0, 1]. The last
// entry is always fn(1).
func GenerateLut(length int, fn func(float64) float64) []float64 {
	lut := make([]float64, length)
	for i := 0; i < length; i++ {
		lut[i] = fn(float64(i+1) / float64(length))
	}
	return lut
}

type lutKey struct {
	length int
	easing string
}

// Memoizer caches look-up tables so repeated animations of the same length
// and easing share one table.
type Memoizer struct {
	mu   sync.Mutex
	luts map[lutKey][]float64
}

// NewMemoizer creates an empty Memoizer.
func NewMemoizer() *Memoizer {
	return &Memoizer{luts: make(map[lutKey][]float64)}
}

// Len returns the number of cached tables.
func (m *Memoizer) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.luts)
}

// GenerateLutMemoized returns the table for (length, easing), generating it on
// first use. Callers must not modify the returned slice.
func GenerateLutMemoized(length int, easing string, m *Memoizer) ([]float64, error) {
	fn, ok := Easing(easing)
	if !ok {
		return nil, fmt.Errorf("unknown easing %q", easing)
	}

	key := lutKey{length, easing}
	m.mu.Lock()
	defer m.mu.Unlock()
	if lut, ok := m.luts[key]; ok {
		return lut, nil
	}
	lut := GenerateLut(length, fn)
	m.luts[key] = lut
	return lut, nil
}
