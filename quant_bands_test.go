package celt

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/audiocore/celt/rangecoding"
)

func TestQuantBandsRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		m := testMode(t, 8, 1, 1)
		total := m.C * m.B * m.N
		x := make([]Sample, total)
		p := make([]Sample, total)
		for i := range x {
			x[i] = Sample(rapid.Float64Range(-1, 1).Draw(t, "x"))
			p[i] = Sample(rapid.Float64Range(-1, 1).Draw(t, "p"))
		}
		bits := rapid.IntRange(8, 128).Draw(t, "bits")

		enc := &rangecoding.Encoder{}
		enc.Init(make([]byte, 128))
		quantBands(m, x, p, bits, enc)
		data := enc.Done()

		dec := &rangecoding.Decoder{}
		dec.Init(data)
		got := unquantBands(m, p, bits, dec)

		require.Len(t, got, total)
		for i := range got {
			require.InDeltaf(t, x[i], got[i], 2*residualRange+1e-6, "coeff %d", i)
		}
	})
}

func TestAllocateBandBitsSumsToBudget(t *testing.T) {
	m := testMode(t, 16, 2, 2)
	total := m.C * m.B * m.N
	p := make([]Sample, total)
	for i := range p {
		p[i] = Sample(i%5) * 0.1
	}
	bits := 200
	alloc := allocateBandBits(m, p, bits)
	sum := 0
	for _, b := range alloc {
		sum += b
	}
	require.Equal(t, bits, sum)
}
