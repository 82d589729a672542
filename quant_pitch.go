package celt

import (
	"math"

	"github.com/audiocore/celt/rangecoding"
)

// pitchGainLevels is the alphabet size used for both the has-pitch flag
// and each quantized per-band gain, matching the 128-ary marker the
// frame pipeline emits when pitch prediction is gated off (spec §4.3,
// §4.6 step 7: "a single enc_uint(0, 128) marker").
const pitchGainLevels = 128

// quantPitch implements quant_pitch (spec §4.5): vector-quantizes gains
// and emits either a zero marker (no usable pitch gain in this frame) or
// a one flag followed by each quantized gain. Returns has_pitch. gains is
// overwritten in place with the quantized reconstruction, so the caller's
// local resynthesis uses exactly the gain unquantPitch will recover.
func quantPitch(gains []Sample, enc *rangecoding.Encoder) int {
	hasPitch := 0
	for _, g := range gains {
		if g > 1e-6 {
			hasPitch = 1
			break
		}
	}
	if hasPitch == 0 {
		enc.EncodeUniform(0, pitchGainLevels)
		for i := range gains {
			gains[i] = 0
		}
		return 0
	}
	enc.EncodeUniform(1, pitchGainLevels)
	for i, g := range gains {
		sym := quantizeGain(g)
		enc.EncodeUniform(sym, pitchGainLevels)
		gains[i] = Sample(sym) / Sample(pitchGainLevels-1)
	}
	return 1
}

// unquantPitch implements unquant_pitch, the exact inverse of quantPitch.
func unquantPitch(nbPBands int, dec *rangecoding.Decoder) (gains []Sample, hasPitch int) {
	flag := dec.DecodeUniform(pitchGainLevels)
	gains = make([]Sample, nbPBands)
	if flag == 0 {
		return gains, 0
	}
	for i := range gains {
		sym := dec.DecodeUniform(pitchGainLevels)
		gains[i] = Sample(sym) / Sample(pitchGainLevels-1)
	}
	return gains, 1
}

func quantizeGain(g Sample) uint32 {
	if g < 0 {
		g = 0
	}
	if g > 1 {
		g = 1
	}
	sym := int(math.Round(float64(g) * (pitchGainLevels - 1)))
	if sym > pitchGainLevels-1 {
		sym = pitchGainLevels - 1
	}
	return uint32(sym)
}
