package celt

import "math"

// fft is a minimal iterative radix-2 Cooley-Tukey complex FFT. It backs
// the pitch analyzer's cross-correlation (spec §4.3), which only ever
// needs one power-of-two transform length: the pitch search sums the
// channels to mono and transforms MaxPeriod (1024) points, whatever the
// channel count.
//
// This is a from-scratch implementation rather than an adaptation of a
// mixed-radix kissfft port (see DESIGN.md) — the only sizes this codec's
// pitch search ever requests are powers of two, so the general mixed-radix
// machinery a full Opus implementation needs has no job to do here.
type fftPlan struct {
	n       int
	rev     []int
	twiddle []complex128 // length n/2, exp(-2*pi*i*k/n)
}

func newFFTPlan(n int) *fftPlan {
	if n&(n-1) != 0 {
		panic("celt: fft length must be a power of two")
	}
	p := &fftPlan{n: n}
	p.rev = make([]int, n)
	bits := 0
	for 1<<bits < n {
		bits++
	}
	for i := 0; i < n; i++ {
		p.rev[i] = bitReverse(i, bits)
	}
	p.twiddle = make([]complex128, n/2)
	for k := 0; k < n/2; k++ {
		angle := -2 * math.Pi * float64(k) / float64(n)
		p.twiddle[k] = complex(math.Cos(angle), math.Sin(angle))
	}
	return p
}

func bitReverse(x, bits int) int {
	r := 0
	for i := 0; i < bits; i++ {
		r = (r << 1) | (x & 1)
		x >>= 1
	}
	return r
}

// transform computes the in-place forward FFT of buf, including the
// bit-reversal permutation of its input.
func (p *fftPlan) transform(buf []complex128) {
	n := p.n
	for i, j := range p.rev {
		if j > i {
			buf[i], buf[j] = buf[j], buf[i]
		}
	}
	for size := 2; size <= n; size <<= 1 {
		half := size / 2
		step := n / size
		for start := 0; start < n; start += size {
			for k := 0; k < half; k++ {
				w := p.twiddle[k*step]
				u := buf[start+k]
				v := buf[start+k+half] * w
				buf[start+k] = u + v
				buf[start+k+half] = u - v
			}
		}
	}
}

// realForward computes the forward FFT of a real input signal, returning
// the full complex128 spectrum of length n.
func (p *fftPlan) realForward(x []Sample) []complex128 {
	buf := make([]complex128, p.n)
	for i, v := range x {
		buf[i] = complex(float64(v), 0)
	}
	p.transform(buf)
	return buf
}

// inverseReal computes the inverse FFT of spec (by conjugating it and
// running the forward transform) and returns the real parts scaled by
// 1/n.
func (p *fftPlan) inverseReal(spec []complex128) []Sample {
	n := p.n
	buf := make([]complex128, n)
	copy(buf, spec)
	for i := range buf {
		buf[i] = complex(real(buf[i]), -imag(buf[i]))
	}
	p.transform(buf)
	out := make([]Sample, n)
	scale := 1.0 / float64(n)
	for i := range out {
		out[i] = Sample(real(buf[i]) * scale)
	}
	return out
}
