package celt

import (
	"fmt"
	"math"

	"github.com/audiocore/celt/rangecoding"
)

// lifecycleState is the Fresh -> Streaming -> Failed state machine shared
// by Encoder and Decoder (spec §4.6). There is no terminal state besides
// explicit destruction.
type lifecycleState int

const (
	stateFresh lifecycleState = iota
	stateStreaming
	stateFailed
)

// Encoder holds all per-stream state for one direction of a CELT-style
// stream: pre-emphasis memory, synthesis history, MDCT overlap, and the
// previous frame's quantized energies. An Encoder is not safe for
// concurrent use by multiple goroutines; a stream is owned by one logical
// producer.
type Encoder struct {
	mode  Mode
	sc    *scratch
	mdct  *MDCT
	pitch *pitchSearch
	state lifecycleState
}

// NewEncoder validates mode and constructs an Encoder for a new stream.
func NewEncoder(mode Mode) (*Encoder, error) {
	if err := CheckMode(mode); err != nil {
		return nil, err
	}
	return &Encoder{
		mode:  mode,
		sc:    newScratch(mode),
		mdct:  NewMDCT(mode.N),
		pitch: newPitchSearch(MaxPeriod, mode.Fs),
		state: stateFresh,
	}, nil
}

// Close releases e's resources. It is safe to call on a nil Encoder.
func (e *Encoder) Close() {
	if e == nil {
		return
	}
	e.sc = nil
}

// frameLen returns the number of samples per channel in one frame.
func (m Mode) frameLen() int { return m.B * m.N }

// EncodeFrame compresses one frame of interleaved 16-bit PCM (length
// frameLen*C) into exactly nbCompressedBytes bytes, running the 12-step
// pipeline of spec §4.6. As a side effect, pcm is overwritten in place
// with the encoder's own local decode of the frame (the same synthesis
// the far-end decoder will produce), so the encoder's pitch-prediction
// state stays exactly in sync with the decoder's.
func (e *Encoder) EncodeFrame(pcm []int16, nbCompressedBytes int) ([]byte, error) {
	m := e.mode
	c := m.C
	fl := m.frameLen()
	if len(pcm) != fl*c {
		return nil, fmt.Errorf("%w: pcm length must be %d, got %d", ErrInternal, fl*c, len(pcm))
	}
	if nbCompressedBytes <= 0 {
		return nil, fmt.Errorf("%w: nbCompressedBytes must be positive", ErrInternal)
	}
	e.state = stateStreaming

	sc := e.sc
	totalBits := nbCompressedBytes * 8
	n4 := (m.N - m.Overlap) / 2
	newOffset := n4 + m.Overlap
	inLen := (m.B + 1) * m.N

	// Step 1: pre-emphasis. in is built exactly as celt.c's analysis buffer:
	// N4 zeros, then the previous frame's overlap-wide tail carried in as
	// head context (scratch.preemphCarry), then the B*N new pre-emphasized
	// samples, then N4 trailing zeros (spec §4.2's window relies on this
	// zero/ramp/flat/ramp/zero layout).
	in := make([]Sample, inLen*c)
	copy(in[n4*c:newOffset*c], sc.preemphCarry)
	for n := 0; n < fl; n++ {
		for ch := 0; ch < c; ch++ {
			raw := Sample(pcm[n*c+ch])
			val := raw - PreemphCoeff*sc.preemphMem[ch]
			sc.preemphMem[ch] = raw
			in[(newOffset+n)*c+ch] = val
		}
	}
	newEnd := (newOffset + fl) * c
	copy(sc.preemphCarry, in[newEnd-m.Overlap*c:newEnd])

	// Step 2: forward MDCT.
	currPower := computeMDCTs(e.mdct, m.window, in, sc.freq, m.N, m.B, c)

	// Step 3: masking curve bypassed (spec §9 open question); sc.mask is
	// left at its zero value and unused by quantBands in this build.

	// Step 4: band energies. Normalize against the raw, pre-quantization
	// energy (original_source/libcelt/celt.c normalizes before quantizing,
	// so the residual VQ sees the true spectral shape) and only then
	// quantize energy, which overwrites bandE with its quantized values.
	copy(sc.bandE, computeBandEnergies(m, sc.freq))
	bandE := sc.bandE
	normaliseBands(m, sc.freq, bandE, sc.x)
	enc := &rangecoding.Encoder{}
	enc.Init(make([]byte, nbCompressedBytes))
	energyBits := totalBits / 3
	quantEnergy(m, bandE, sc.oldBandE, energyBits, enc)

	// Step 5: pitch search, and the pitch reference's own MDCT/energies.
	pitchIdx := e.pitch.find(sc.outMem, in[newOffset*c:], c, m.pitchIndexRange())
	pitchIn := sc.outMem[pitchIdx*c : pitchIdx*c+inLen*c]
	pPower := computeMDCTs(e.mdct, m.window, pitchIn, sc.p, m.N, m.B, c)
	pBandE := computeBandEnergies(m, sc.p)
	normaliseBands(m, sc.p, pBandE, sc.p)

	// Step 6: stereo mix, each signal against its own band energies.
	if c == 2 {
		stereoMix(m, sc.x, bandE, 1)
		stereoMix(m, sc.p, pBandE, 1)
	}

	// Step 7: gate pitch prediction, quantize gains.
	gatePass := currPower+1e5 < 10*pPower
	if gatePass {
		copy(sc.gains, computePitchGain(m, sc.x, sc.p))
	} else {
		for i := range sc.gains {
			sc.gains[i] = 0
		}
	}
	hasPitch := quantPitch(sc.gains, enc)
	if hasPitch == 1 {
		enc.EncodeUniform(uint32(pitchIdx), uint32(m.pitchIndexRange()))
		pitchQuantBands(m, sc.p, sc.gains)
	} else {
		for i := range sc.p {
			sc.p[i] = 0
		}
	}

	// Step 8: residual quantization.
	remaining := totalBits - enc.Tell()
	if remaining < 0 {
		remaining = 0
	}
	quantBands(m, sc.x, sc.p, remaining, enc)
	warnUnusedBits(totalBits - enc.Tell())

	// Step 9: inverse stereo mix and renormalization.
	if c == 2 {
		stereoMix(m, sc.x, bandE, -1)
		renormaliseBands(m, sc.x)
	}

	// Step 10: denormalize and inverse MDCT into the synthesis history.
	denormaliseBands(m, sc.x, bandE, sc.freq)
	tail := make([]Sample, c*fl)
	computeInvMDCTs(e.mdct, m.window, sc.freq, tail, sc.mdctOverlap, m.N, m.Overlap, m.B, c)
	copy(sc.shiftOutMem(c, fl), tail)

	// Step 11: de-emphasis, writing the locally synthesized frame back to
	// the caller's pcm buffer.
	deemphasize(tail, pcm, c, sc.deemphMem)

	// Step 12: trailer, finalize.
	fillTrailer(enc, totalBits)
	out := enc.Done()
	if enc.Error() || len(out) > nbCompressedBytes {
		return nil, fmt.Errorf("%w: encoded frame exceeds %d bytes", ErrInternal, nbCompressedBytes)
	}
	result := make([]byte, nbCompressedBytes)
	copy(result, out)
	return result, nil
}

// fillTrailer implements the spec §4.6 step 12 trailer: alternating
// two-valued symbols emitted until the exact byte boundary.
func fillTrailer(enc *rangecoding.Encoder, totalBits int) {
	v := uint32(0)
	for enc.Tell() < totalBits {
		enc.EncodeUniform(v, 2)
		v ^= 1
	}
}

// deemphasize implements de-emphasis: y[n] = x[n] + alpha*prev_y, clamped
// to [-32767, 32767] and rounded half up.
func deemphasize(samples []Sample, pcm []int16, c int, mem []Sample) {
	n := len(samples) / c
	for i := 0; i < n; i++ {
		for ch := 0; ch < c; ch++ {
			idx := i*c + ch
			y := samples[idx] + PreemphCoeff*mem[ch]
			mem[ch] = y
			if y > 32767 {
				y = 32767
			}
			if y < -32767 {
				y = -32767
			}
			pcm[idx] = int16(math.Floor(float64(y) + 0.5))
		}
	}
}
