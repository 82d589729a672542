package celt

import (
	"math"

	"github.com/audiocore/celt/rangecoding"
)

// Energy quantization works in the log2 domain with one-step prediction
// against the previous frame's quantized energies (spec §4.5). The
// quantizer's resolution is derived directly from the caller's bit
// budget — richer budgets buy a finer step size — which is the natural
// reading of quant_energy's "bits" parameter once the range coder only
// exposes a single uniform primitive (this codec's rangecoding package
// implements enc_uint/dec_uint only; see its package doc).
const (
	energyDeltaRange = 12.0 // log2-domain half-range a single symbol can express
	minEnergyBits    = 1
	maxEnergyBits    = 12
)

// initialLogEnergy is the starting oldBandE value: a deliberately low log2
// energy so that the first frame of near-silence quantizes close to the
// representable floor (spec §8 scenario 1).
const initialLogEnergy = Sample(-15)

func newOldBandE(mode Mode) []Sample {
	n := len(mode.EBands) * mode.C
	out := make([]Sample, n)
	for i := range out {
		out[i] = initialLogEnergy
	}
	return out
}

func energyBitsPerSymbol(bits, nsyms int) int {
	if nsyms == 0 {
		return minEnergyBits
	}
	b := bits / nsyms
	if b < minEnergyBits {
		b = minEnergyBits
	}
	if b > maxEnergyBits {
		b = maxEnergyBits
	}
	return b
}

// quantEnergy implements quant_energy: quantizes bandE in place against
// oldBandE (updated with the quantized values on return), writing to enc
// within a budget of `bits` bits.
func quantEnergy(mode Mode, bandE, oldBandE []Sample, bits int, enc *rangecoding.Encoder) {
	nsyms := len(bandE)
	qbits := energyBitsPerSymbol(bits, nsyms)
	ft := uint32(1) << uint(qbits)
	half := Sample(ft / 2)
	step := Sample(2*energyDeltaRange) / Sample(ft)

	for i, e := range bandE {
		logE := logEnergy(e)
		delta := logE - oldBandE[i]
		sym := int(math.Round(float64(delta/step + half)))
		if sym < 0 {
			sym = 0
		}
		if sym > int(ft)-1 {
			sym = int(ft) - 1
		}
		enc.EncodeUniform(uint32(sym), ft)

		quantDelta := (Sample(sym) - half) * step
		quantLogE := oldBandE[i] + quantDelta
		oldBandE[i] = quantLogE
		bandE[i] = Sample(math.Exp2(float64(quantLogE)))
	}
}

// unquantEnergy implements unquant_energy, the exact inverse of
// quantEnergy.
func unquantEnergy(mode Mode, oldBandE []Sample, bits int, dec *rangecoding.Decoder) []Sample {
	nb := len(mode.EBands)
	nsyms := nb * mode.C
	qbits := energyBitsPerSymbol(bits, nsyms)
	ft := uint32(1) << uint(qbits)
	half := Sample(ft / 2)
	step := Sample(2*energyDeltaRange) / Sample(ft)

	bandE := make([]Sample, nsyms)
	for i := range bandE {
		sym := dec.DecodeUniform(ft)
		quantDelta := (Sample(sym) - half) * step
		quantLogE := oldBandE[i] + quantDelta
		oldBandE[i] = quantLogE
		bandE[i] = Sample(math.Exp2(float64(quantLogE)))
	}
	return bandE
}

func logEnergy(e Sample) Sample {
	if e < energyFloor {
		e = energyFloor
	}
	return Sample(math.Log2(float64(e)))
}
