// Package lpcfir provides the linear-prediction building blocks the core
// codec uses for packet-loss concealment (spec §4.6): autocorrelation,
// Levinson-Durbin recursion, and the FIR/IIR filters used to shape and
// whiten a concealment excitation signal. It is grounded directly on
// _celt_autocorr/_celt_lpc/fir/iir from the original C implementation's
// plc.c, translated to float64 throughout (the fixed-point Q-format
// arithmetic in that file exists only to serve a fixed-point profile this
// build does not implement; see the root package's Sample trait).
package lpcfir

import "math"

// Autocorr computes lag values ac[0..lag] of x, applying a symmetric
// taper of the given window over the first and last overlap samples
// (matching _celt_autocorr's edge tapering, which keeps the
// autocorrelation estimate from being dominated by a hard frame edge).
func Autocorr(x []float64, window []float64, overlap, lag int) []float64 {
	n := len(x)
	xx := make([]float64, n)
	copy(xx, x)
	for i := 0; i < overlap && i < n; i++ {
		xx[i] *= window[i]
		xx[n-1-i] *= window[i]
	}

	ac := make([]float64, lag+1)
	for l := lag; l >= 0; l-- {
		var d float64
		for i := l; i < n; i++ {
			d += xx[i] * xx[i-l]
		}
		ac[l] = d
	}
	ac[0] += 10
	return ac
}

// LevinsonDurbin computes the order-p LPC coefficients from autocorrelation
// values ac (length >= p+1), returning the coefficients and the residual
// prediction error. It stops early once the error has decayed below
// 1e-5*ac[0], exactly as _celt_lpc does, since further iterations would
// only fit numerical noise.
func LevinsonDurbin(ac []float64, p int) (lpc []float64, err float64) {
	lpc = make([]float64, p)
	errv := ac[0]
	if ac[0] == 0 {
		return lpc, errv
	}
	for i := 0; i < p; i++ {
		var rr float64
		for j := 0; j < i; j++ {
			rr += lpc[j] * ac[i-j]
		}
		rr += ac[i+1]
		r := -rr / errv

		lpc[i] = r
		for j := 0; j < (i+1)/2; j++ {
			tmp1 := lpc[j]
			tmp2 := lpc[i-1-j]
			lpc[j] = tmp1 + r*tmp2
			lpc[i-1-j] = tmp2 + r*tmp1
		}

		errv -= r * r * errv
		if errv < 1e-5*ac[0] {
			i++
			break
		}
	}
	return lpc, errv
}

// FIR applies the order-ord FIR filter with coefficients num to x,
// writing N output samples to y and threading filter memory mem (length
// ord) across calls so consecutive blocks form a continuous filter
// state.
func FIR(x, num, y []float64, n, ord int, mem []float64) {
	for i := 0; i < n; i++ {
		sum := x[i]
		for j := 0; j < ord; j++ {
			sum += num[j] * mem[j]
		}
		for j := ord - 1; j >= 1; j-- {
			mem[j] = mem[j-1]
		}
		mem[0] = x[i]
		y[i] = sum
	}
}

// IIR applies the order-ord all-pole filter with denominator coefficients
// den to x, writing N output samples to y and threading filter memory mem
// (length ord) across calls.
func IIR(x, den, y []float64, n, ord int, mem []float64) {
	for i := 0; i < n; i++ {
		sum := x[i]
		for j := 0; j < ord; j++ {
			sum -= den[j] * mem[j]
		}
		for j := ord - 1; j >= 1; j-- {
			mem[j] = mem[j-1]
		}
		mem[0] = sum
		y[i] = sum
	}
}

// Energy returns the sum of squares of x, used by callers to scale a
// concealment excitation to match the level of the signal it replaces.
func Energy(x []float64) float64 {
	var e float64
	for _, v := range x {
		e += v * v
	}
	return e
}

// Rms returns the root-mean-square level of x, or 0 for an empty slice.
func Rms(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return math.Sqrt(Energy(x) / float64(len(x)))
}
