package celt

import "math"

// buildWindow computes the length-2N sine-sine analysis/synthesis window
// described in spec §3: symmetric, unity in the flat middle section, and
// shaped by sin(pi/2 * sin^2(pi/2 * (i+0.5)/overlap)) across each overlap
// region. This is the same window celt_encoder_create/celt_decoder_create
// build once at construction in the original source (libcelt celt.c).
func buildWindow(n, overlap int) []Sample {
	w := make([]Sample, 2*n)
	n4 := (n - overlap) / 2
	for i := 0; i < overlap; i++ {
		x := math.Sin(0.5 * math.Pi * (float64(i) + 0.5) / float64(overlap))
		v := Sample(math.Sin(0.5 * math.Pi * x * x))
		w[n4+i] = v
		w[2*n-n4-i-1] = v
	}
	for i := 0; i < 2*n4; i++ {
		w[n-n4+i] = 1
	}
	return w
}
