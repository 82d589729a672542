package celt

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func smallMode(t require.TestingT, fs, n, b, c, overlap int) Mode {
	total := b * n
	m, err := NewMode(fs, n, b, c, overlap, []Band{{0, total}}, []Band{{0, total}})
	require.NoError(t, err)
	return m
}

func sineFrame(n int, freq, fs float64, amp float64, start int, c int) []int16 {
	out := make([]int16, n*c)
	for i := 0; i < n; i++ {
		v := amp * math.Sin(2*math.Pi*freq*float64(start+i)/fs)
		for ch := 0; ch < c; ch++ {
			out[i*c+ch] = int16(v)
		}
	}
	return out
}

// Scenario 1: mono silence round-trips to near-silence.
func TestScenarioSilence(t *testing.T) {
	m := smallMode(t, 48000, 256, 1, 1, 128)
	enc, err := NewEncoder(m)
	require.NoError(t, err)
	dec, err := NewDecoder(m)
	require.NoError(t, err)

	pcm := make([]int16, 256)
	packet, err := enc.EncodeFrame(pcm, 48)
	require.NoError(t, err)
	require.Len(t, packet, 48)

	out := make([]int16, 256)
	require.NoError(t, dec.DecodeFrame(packet, out))
	for i, s := range out {
		require.LessOrEqualf(t, int(math.Abs(float64(s))), 4, "sample %d = %d", i, s)
	}
}

// Scenario 2: a sine tone round-trips with SNR > 25 dB (spec.md §8,
// literal scenario 2).
func TestScenarioSineSNR(t *testing.T) {
	m := smallMode(t, 48000, 256, 1, 1, 128)
	enc, err := NewEncoder(m)
	require.NoError(t, err)
	dec, err := NewDecoder(m)
	require.NoError(t, err)

	var sigEnergy, errEnergy float64
	for f := 0; f < 8; f++ {
		pcm := sineFrame(256, 1000, 48000, 16000, f*256, 1)
		original := append([]int16(nil), pcm...)
		packet, err := enc.EncodeFrame(pcm, 600)
		require.NoError(t, err)
		out := make([]int16, 256)
		require.NoError(t, dec.DecodeFrame(packet, out))
		for i := range original {
			s := float64(original[i])
			e := float64(out[i]) - s
			sigEnergy += s * s
			errEnergy += e * e
		}
	}
	require.Greater(t, sigEnergy, 0.0)
	require.Greater(t, errEnergy, 0.0)
	snr := 10 * math.Log10(sigEnergy/errEnergy)
	require.Greater(t, snr, 25.0)
}

// Scenario 3: stereo correlated sine round-trips both channels with
// SNR > 20 dB (spec.md §8, literal scenario 3).
func TestScenarioStereo(t *testing.T) {
	m := smallMode(t, 48000, 256, 1, 2, 128)
	enc, err := NewEncoder(m)
	require.NoError(t, err)
	dec, err := NewDecoder(m)
	require.NoError(t, err)

	var sigEnergy, errEnergy float64
	for f := 0; f < 8; f++ {
		pcm := sineFrame(256, 1000, 48000, 16000, f*256, 2)
		original := append([]int16(nil), pcm...)
		packet, err := enc.EncodeFrame(pcm, 1200)
		require.NoError(t, err)
		out := make([]int16, 512)
		require.NoError(t, dec.DecodeFrame(packet, out))
		require.Len(t, out, 512)
		for i := range original {
			s := float64(original[i])
			e := float64(out[i]) - s
			sigEnergy += s * s
			errEnergy += e * e
		}
	}
	require.Greater(t, sigEnergy, 0.0)
	require.Greater(t, errEnergy, 0.0)
	snr := 10 * math.Log10(sigEnergy/errEnergy)
	require.Greater(t, snr, 20.0)
}

// Scenario 4 (in part): after one decoded frame, two consecutive concealed
// frames are identical. That first frame carries no pitch index (the
// synthesis history is still empty, so pitch is gated off), and
// concealment without a decoded pitch index writes silence, so both
// concealed frames are all zeros.
func TestScenarioPLC(t *testing.T) {
	m := smallMode(t, 48000, 256, 1, 1, 128)
	enc, err := NewEncoder(m)
	require.NoError(t, err)
	dec, err := NewDecoder(m)
	require.NoError(t, err)

	first := sineFrame(256, 1000, 48000, 16000, 0, 1)
	packet, err := enc.EncodeFrame(first, 64)
	require.NoError(t, err)
	out := make([]int16, 256)
	require.NoError(t, dec.DecodeFrame(packet, out))

	concealed := make([]int16, 256)
	require.NoError(t, dec.DecodeFrame(nil, concealed))

	concealedAgain := make([]int16, 256)
	require.NoError(t, dec.DecodeFrame(nil, concealedAgain))
	require.Equal(t, concealed, concealedAgain)
}

// Scenario 5: corrupting the trailer byte surfaces CorruptedData.
func TestScenarioCorruptedTrailer(t *testing.T) {
	m := smallMode(t, 48000, 256, 1, 1, 128)
	enc, err := NewEncoder(m)
	require.NoError(t, err)
	dec, err := NewDecoder(m)
	require.NoError(t, err)

	pcm := make([]int16, 256)
	packet, err := enc.EncodeFrame(pcm, 48)
	require.NoError(t, err)

	corrupt := append([]byte(nil), packet...)
	corrupt[len(corrupt)-1] ^= 0xFF

	out := make([]int16, 256)
	decErr := dec.DecodeFrame(corrupt, out)
	require.Error(t, decErr)
	require.True(t, errors.Is(decErr, ErrCorruptedData))
}

// Scenario 6: a generous byte budget does not error (the "many unused
// bits" warning is a diagnostic only, not a failure).
func TestScenarioManyUnusedBits(t *testing.T) {
	m := smallMode(t, 48000, 256, 1, 1, 128)
	enc, err := NewEncoder(m)
	require.NoError(t, err)

	pcm := make([]int16, 256)
	packet, err := enc.EncodeFrame(pcm, 480)
	require.NoError(t, err)
	require.Len(t, packet, 480)
}

func TestDecoderDeterminism(t *testing.T) {
	m := smallMode(t, 48000, 256, 1, 1, 128)
	enc, err := NewEncoder(m)
	require.NoError(t, err)
	pcm := sineFrame(256, 1000, 48000, 16000, 0, 1)
	packet, err := enc.EncodeFrame(pcm, 64)
	require.NoError(t, err)

	dec1, err := NewDecoder(m)
	require.NoError(t, err)
	dec2, err := NewDecoder(m)
	require.NoError(t, err)

	out1 := make([]int16, 256)
	out2 := make([]int16, 256)
	require.NoError(t, dec1.DecodeFrame(packet, out1))
	require.NoError(t, dec2.DecodeFrame(packet, out2))
	require.Equal(t, out1, out2)
}

func TestOutputClamping(t *testing.T) {
	m := smallMode(t, 48000, 256, 1, 1, 128)
	enc, err := NewEncoder(m)
	require.NoError(t, err)
	dec, err := NewDecoder(m)
	require.NoError(t, err)

	pcm := make([]int16, 256)
	for i := range pcm {
		pcm[i] = 32767
	}
	packet, err := enc.EncodeFrame(pcm, 64)
	require.NoError(t, err)
	out := make([]int16, 256)
	require.NoError(t, dec.DecodeFrame(packet, out))
	for _, s := range out {
		require.LessOrEqual(t, int(s), 32767)
		require.GreaterOrEqual(t, int(s), -32767)
	}
}
