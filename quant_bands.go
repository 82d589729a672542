package celt

import (
	"math"

	"github.com/audiocore/celt/rangecoding"
)

// Residual coefficients live in the normalized domain, so a single
// coefficient of a unit-norm band vector is bounded by 1 in magnitude;
// headroom covers the pitch-subtracted residual overshooting that bound
// slightly (spec §4.5: "vector-quantize the per-band unit-norm residual").
const residualRange = 2.0

const (
	minResidualBits = 1
	maxResidualBits = 12
)

// minBandWeight keeps every band a nonzero share of the bit budget even
// when its pitch predictor already explains nearly all of its energy.
const minBandWeight = 0.05

// allocateBandBits implements the "P as a predictor for bit allocation"
// half of quant_bands/unquant_bands (spec §4.5): bands whose pitch
// predictor P already carries most of the band's energy need fewer
// residual bits, so bands are weighted by size and by (1 - predictor
// energy share), then the bit budget is split proportionally. Both the
// encoder and decoder recompute this identically from P and bits alone,
// so no side information about the split is transmitted.
func allocateBandBits(mode Mode, p []Sample, bits int) []int {
	c := mode.C
	nb := len(mode.EBands)
	weights := make([]Sample, nb)
	var total Sample
	for bi, band := range mode.EBands {
		size := band.size() * c
		var pe Sample
		for m := band.Start; m < band.End; m++ {
			for ch := 0; ch < c; ch++ {
				v := p[coeffAt(c, m, ch)]
				pe += v * v
			}
		}
		if size > 0 {
			pe /= Sample(size)
		}
		predWeight := 1 - pe
		if predWeight < minBandWeight {
			predWeight = minBandWeight
		}
		w := Sample(size) * predWeight
		weights[bi] = w
		total += w
	}

	out := make([]int, nb)
	if total <= 0 {
		for i := range out {
			out[i] = bits / nb
		}
		return out
	}
	assigned := 0
	for i, w := range weights {
		b := int(Sample(bits) * w / total)
		out[i] = b
		assigned += b
	}
	leftover := bits - assigned
	for i := 0; leftover > 0 && i < len(out); i++ {
		out[i]++
		leftover--
	}
	return out
}

func residualQBits(bandBits, size int) int {
	if size == 0 {
		return minResidualBits
	}
	qb := bandBits / size
	if qb < minResidualBits {
		qb = minResidualBits
	}
	if qb > maxResidualBits {
		qb = maxResidualBits
	}
	return qb
}

// quantBands implements quant_bands: vector-quantizes the per-band
// residual X-P using the bits remaining after energy and pitch
// quantization, with P acting purely as a bit-allocation predictor (the
// residual itself, not P, is what gets coded). x is overwritten in place
// with P plus the dequantized residual, so the caller's local resynthesis
// matches exactly what unquantBands will reconstruct on the decoder side.
func quantBands(mode Mode, x, p []Sample, bits int, enc *rangecoding.Encoder) {
	c := mode.C
	bandBits := allocateBandBits(mode, p, bits)
	for bi, band := range mode.EBands {
		size := band.size() * c
		qbits := residualQBits(bandBits[bi], size)
		ft := uint32(1) << uint(qbits)
		half := Sample(ft - 1) / 2
		for m := band.Start; m < band.End; m++ {
			for ch := 0; ch < c; ch++ {
				idx := coeffAt(c, m, ch)
				v := x[idx] - p[idx]
				if v < -residualRange {
					v = -residualRange
				}
				if v > residualRange {
					v = residualRange
				}
				sym := int(math.Round(float64((v/residualRange + 1) * half)))
				if sym < 0 {
					sym = 0
				}
				if sym > int(ft)-1 {
					sym = int(ft) - 1
				}
				enc.EncodeUniform(uint32(sym), ft)
				vq := (Sample(sym)/half - 1) * residualRange
				x[idx] = p[idx] + vq
			}
		}
	}
}

// unquantBands implements unquant_bands, the exact inverse of quantBands:
// reconstructs X = P + dequantized residual.
func unquantBands(mode Mode, p []Sample, bits int, dec *rangecoding.Decoder) []Sample {
	c := mode.C
	n := len(p)
	x := make([]Sample, n)
	bandBits := allocateBandBits(mode, p, bits)
	for bi, band := range mode.EBands {
		size := band.size() * c
		qbits := residualQBits(bandBits[bi], size)
		ft := uint32(1) << uint(qbits)
		half := Sample(ft - 1) / 2
		for m := band.Start; m < band.End; m++ {
			for ch := 0; ch < c; ch++ {
				idx := coeffAt(c, m, ch)
				sym := dec.DecodeUniform(ft)
				v := (Sample(sym)/half - 1) * residualRange
				x[idx] = p[idx] + v
			}
		}
	}
	return x
}
