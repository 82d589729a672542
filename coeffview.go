package celt

// coeffIndex computes the interleaved-across-sub-blocks-and-channels
// index described in spec §4.2: frequency coefficient j of sub-block i of
// channel c lives at C*B*j + C*i + c in the frame-sized coefficient array.
// This is a dedicated addressable view (REDESIGN FLAG in spec §9) so the
// stride arithmetic is written once and never inlined at each call site.
type coeffIndex struct {
	b, c int
}

func newCoeffIndex(b, c int) coeffIndex { return coeffIndex{b: b, c: c} }

// at returns the flat index for frequency bin j of sub-block i of channel ch.
func (v coeffIndex) at(j, i, ch int) int {
	return v.c*v.b*j + v.c*i + ch
}

// computeMDCTs implements compute_mdcts (spec §4.2): windows and
// transforms each (channel, sub-block) slice of a length-(B+1)*N*C input
// buffer, scattering the result into the interleaved layout. in is indexed
// as C*(i*N+j)+c for j in [0, 2N); out has length C*B*N. Returns the total
// windowed signal energy with the spec's 1e-15 floor.
func computeMDCTs(mdct *MDCT, window []Sample, in, out []Sample, n, b, c int) Sample {
	view := newCoeffIndex(b, c)
	e := Sample(1e-15)
	x := make([]Sample, 2*n)
	for ch := 0; ch < c; ch++ {
		for i := 0; i < b; i++ {
			for j := 0; j < 2*n; j++ {
				v := window[j] * in[c*(i*n+j)+ch]
				x[j] = v
				e += v * v
			}
			tmp := mdct.Forward(x)
			for j := 0; j < n; j++ {
				out[view.at(j, i, ch)] = tmp[j]
			}
		}
	}
	return e
}

// computeInvMDCTs implements compute_inv_mdcts (spec §4.2): inverse
// transforms each (channel, sub-block) slice of the interleaved
// coefficient buffer X (length C*B*N), applies the window, and
// overlap-adds against mdctOverlap (length C*overlap, persisted across
// calls). dst receives the freshest C*B*N samples of the synthesis
// history, laid out as C*(i*N+j)+ch.
func computeInvMDCTs(mdct *MDCT, window []Sample, x, dst, mdctOverlap []Sample, n, overlap, b, c int) {
	view := newCoeffIndex(b, c)
	n4 := (n - overlap) / 2
	tmp := make([]Sample, n)
	for ch := 0; ch < c; ch++ {
		for i := 0; i < b; i++ {
			for j := 0; j < n; j++ {
				tmp[j] = x[view.at(j, i, ch)]
			}
			y := mdct.Inverse(tmp)
			for j := 0; j < 2*n; j++ {
				y[j] *= window[j]
			}
			for j := 0; j < overlap; j++ {
				dst[c*(i*n+j)+ch] = y[n4+j] + mdctOverlap[c*j+ch]
			}
			for j := 0; j < 2*n4; j++ {
				dst[c*(i*n+j+overlap)+ch] = y[j+n4+overlap]
			}
			for j := 0; j < overlap; j++ {
				mdctOverlap[c*j+ch] = y[n+n4+j]
			}
		}
	}
}
