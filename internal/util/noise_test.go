package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type constNoise float64

func (c constNoise) Noise2D(x, y float64) float64 { return float64(c) }

func TestNoiseSourcesAreDeterministic(t *testing.T) {
	for _, kind := range []string{"perlin", "simplex"} {
		a, err := NewNoiseSource(kind, 42)
		require.NoError(t, err)
		b, err := NewNoiseSource(kind, 42)
		require.NoError(t, err)

		for i := 0; i < 50; i++ {
			x, z := float64(i)*0.37, float64(-i)*0.91
			assert.Equal(t, a.Noise2D(x, z), b.Noise2D(x, z), "%s(%v,%v)", kind, x, z)
		}
	}

	_, err := NewNoiseSource("worley", 1)
	assert.Error(t, err)
}

func TestOctaveHeight(t *testing.T) {
	h := OctaveHeight{
		Base: 10,
		Octaves: []Octave{
			{Source: constNoise(0.5), Frequency: 0.1, Amplitude: 4},
			{Source: constNoise(-1), Frequency: 0.5, Amplitude: 2},
		},
	}
	assert.InDelta(t, 10.0, h.Height(3, 7), 1e-9)

	flat := OctaveHeight{Base: 6}
	assert.Equal(t, 6.0, flat.Height(-100, 100))
}
