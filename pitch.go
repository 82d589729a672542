package celt

import "math"

// pitchSearch implements the frequency-domain pitch analyzer of spec
// §4.3: it cross-correlates the synthesis history against the current
// windowed frame via a real FFT, applies a psychoacoustic decay weighting,
// and returns the lag (pitch_index) that maximizes the weighted
// correlation.
//
// The exact bit pattern of this search never reaches the bitstream (only
// the resulting integer index is range-coded via enc_uint), so there is no
// bit-exactness contract to a reference implementation here — spec §4.3
// describes the algorithm at the conceptual level this type follows:
// spectrum of history, spectrum of current frame, conjugate multiply,
// inverse FFT, decay-weight, take the argmax.
type pitchSearch struct {
	fft   *fftPlan
	decay []Sample // psychoacoustic decay table, length MaxPeriod
}

// newPitchSearch builds a pitch analyzer for a stream at sample rate fs.
// maxPeriod is always MaxPeriod (a package constant); it is threaded
// through as a parameter to keep this type free of global state.
func newPitchSearch(maxPeriod, fs int) *pitchSearch {
	decay := make([]Sample, maxPeriod)
	// ~2ms perceptual decay constant: lags further in the past correlate
	// less reliably with a stationary pitch period, so down-weight them.
	tau := float64(fs) * 0.002
	for i := range decay {
		decay[i] = Sample(math.Exp(-float64(i) / tau))
	}
	return &pitchSearch{fft: newFFTPlan(maxPeriod), decay: decay}
}

// downmix sums channels of an interleaved C-channel buffer into a
// length-n mono buffer (zero-padding if the source is shorter than n*c).
func downmix(src []Sample, n, c int) []Sample {
	out := make([]Sample, n)
	frames := len(src) / c
	if frames > n {
		frames = n
	}
	for i := 0; i < frames; i++ {
		var sum Sample
		for ch := 0; ch < c; ch++ {
			sum += src[i*c+ch]
		}
		out[i] = sum
	}
	return out
}

// find returns the pitch_index in [0, maxLag) that maximizes the
// decay-weighted cross-correlation between outMem (the C-channel
// synthesis history, length MaxPeriod*C) and the current windowed frame
// win (the frame's frameLen*C new samples followed by N4*C zeros), per
// spec §4.3.
func (p *pitchSearch) find(outMem, win []Sample, c, maxLag int) int {
	n := p.fft.n
	hist := downmix(outMem, n, c)
	cur := downmix(win, n, c)

	h := p.fft.realForward(hist)
	y := p.fft.realForward(cur)
	cross := make([]complex128, n)
	for k := range cross {
		cross[k] = complex(real(h[k]), -imag(h[k])) * y[k]
	}
	corr := p.fft.inverseReal(cross)

	if maxLag > n {
		maxLag = n
	}
	best := 0
	var bestScore Sample
	for lag := 0; lag < maxLag; lag++ {
		score := corr[lag] * p.decay[lag]
		if lag == 0 || score > bestScore {
			bestScore = score
			best = lag
		}
	}
	return best
}
