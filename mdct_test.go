package celt

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestMDCTOverlapAddReconstruction checks that forward/inverse MDCT,
// windowed and overlap-added across two adjacent blocks, reconstructs a
// stationary input to within numerical noise (spec §8 round-trip law).
func TestMDCTOverlapAddReconstruction(t *testing.T) {
	n := 64
	overlap := n
	window := buildWindow(n, overlap)
	m := NewMDCT(n)

	signal := make([]Sample, 4*n)
	for i := range signal {
		signal[i] = Sample(math.Sin(2 * math.Pi * float64(i) / 37))
	}

	var recon []Sample
	var prevOverlap []Sample
	for block := 0; block+2*n <= len(signal); block += n {
		windowed := make([]Sample, 2*n)
		for i := 0; i < 2*n; i++ {
			windowed[i] = signal[block+i] * window[i]
		}
		coeff := m.Forward(windowed)
		back := m.Inverse(coeff)
		for i := range back {
			back[i] *= window[i]
		}
		if prevOverlap == nil {
			recon = append(recon, back[:n]...)
		} else {
			head := make([]Sample, n)
			for i := 0; i < n; i++ {
				head[i] = back[i] + prevOverlap[i]
			}
			recon = append(recon, head...)
		}
		prevOverlap = back[n:]
	}
	recon = append(recon, prevOverlap...)

	require.Len(t, recon, len(signal))
	for i := n; i < len(signal)-n; i++ {
		require.InDeltaf(t, signal[i], recon[i], 1e-6, "sample %d", i)
	}
}

func TestMDCTForwardInverseShape(t *testing.T) {
	m := NewMDCT(32)
	x := make([]Sample, 64)
	for i := range x {
		x[i] = Sample(i) / 64
	}
	coeff := m.Forward(x)
	require.Len(t, coeff, 32)
	back := m.Inverse(coeff)
	require.Len(t, back, 64)
}
