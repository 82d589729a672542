package lpcfir

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestAutocorrSymmetryBound checks ac[0] >= |ac[l]| for all l (spec §8
// invariant 8), ignoring the +10 numerical floor added to ac[0].
func TestAutocorrSymmetryBound(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(8, 64).Draw(t, "n")
		lag := rapid.IntRange(1, 7).Draw(t, "lag")
		x := make([]float64, n)
		for i := range x {
			x[i] = rapid.Float64Range(-1, 1).Draw(t, "x")
		}
		window := make([]float64, n)
		for i := range window {
			window[i] = 1
		}

		ac := Autocorr(x, window, 0, lag)
		ac0 := ac[0] - 10
		for l := 1; l <= lag; l++ {
			require.LessOrEqual(t, math.Abs(ac[l]), ac0+1e-6)
		}
	})
}

func TestLevinsonDurbinErrorMonotonic(t *testing.T) {
	ac := []float64{10, 5, 2, 1, 0.5, 0.2}
	p := len(ac) - 1
	_, finalErr := LevinsonDurbin(ac, p)
	require.LessOrEqual(t, finalErr, ac[0])
	require.GreaterOrEqual(t, finalErr, 0.0)

	// A lower order runs the same first iterations as a higher one, so
	// the error must not grow as the order increases.
	prev := ac[0]
	for order := 1; order <= p; order++ {
		_, e := LevinsonDurbin(ac, order)
		require.LessOrEqual(t, e, prev)
		prev = e
	}
}

func TestFIRIIRRoundTrip(t *testing.T) {
	order := 3
	num := []float64{0.5, -0.2, 0.1}
	x := []float64{1, 0, 0, 0, 0, 0, 0, 0}
	y := make([]float64, len(x))
	mem := make([]float64, order)
	FIR(x, num, y, len(x), order, mem)

	back := make([]float64, len(y))
	mem2 := make([]float64, order)
	IIR(y, num, back, len(y), order, mem2)

	require.InDelta(t, x[0], back[0], 1e-9)
}

func TestRms(t *testing.T) {
	require.Equal(t, 0.0, Rms(nil))
	require.InDelta(t, 1.0, Rms([]float64{1, -1, 1, -1}), 1e-9)
}
