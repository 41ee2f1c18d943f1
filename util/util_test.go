package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEasing(t *testing.T) {
	for name := range easings {
		fn, ok := Easing(name)
		require.True(t, ok, name)
		assert.InDelta(t, 0.0, fn(0), 1e-9, name)
		assert.InDelta(t, 1.0, fn(1), 1e-9, name)
	}

	fn, ok := Easing("")
	require.True(t, ok)
	assert.Equal(t, 0.25, fn(0.25))

	_, ok = Easing("wobble")
	assert.False(t, ok)
}

func TestGenerateLut(t *testing.T) {
	fn, _ := Easing("linear")
	lut := GenerateLut(4, fn)
	assert.Equal(t, []float64{0.25, 0.5, 0.75, 1}, lut)

	fn, _ = Easing("in-out-quad")
	lut = GenerateLut(10, fn)
	require.Len(t, lut, 10)
	assert.InDelta(t, 1.0, lut[9], 1e-9)
	for i := 1; i < len(lut); i++ {
		assert.Greater(t, lut[i], lut[i-1])
	}
}

func TestGenerateLutMemoized(t *testing.T) {
	m := NewMemoizer()

	a, err := GenerateLutMemoized(8, "in-quad", m)
	require.NoError(t, err)
	b, err := GenerateLutMemoized(8, "in-quad", m)
	require.NoError(t, err)
	assert.Same(t, &a[0], &b[0])

	_, err = GenerateLutMemoized(9, "in-quad", m)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Len())

	_, err = GenerateLutMemoized(8, "wobble", m)
	assert.ErrorContains(t, err, "wobble")
	assert.Equal(t, 2, m.Len())
}
