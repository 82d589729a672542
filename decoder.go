package celt

import (
	"fmt"

	"github.com/audiocore/celt/lpcfir"
	"github.com/audiocore/celt/rangecoding"
)

// defaultLPCOrder is the linear-prediction order PLC uses, by default, to
// blend a short-term extrapolation with the long-term pitch-offset copy
// (SPEC_FULL.md §4.6.1). No caller in the corpus this is grounded on
// names a specific order for CELT's float PLC path, so this is a judgment
// call sized the way plc.c's own history window is: a small multiple of
// the order gives Autocorr enough samples to fit reliably.
const defaultLPCOrder = 8

// Decoder mirrors Encoder: it holds the synthesis history, MDCT overlap,
// de-emphasis memory, and predicted energies needed to turn a sequence of
// compressed frames back into PCM. Not safe for concurrent use.
type Decoder struct {
	mode     Mode
	sc       *scratch
	mdct     *MDCT
	state    lifecycleState
	lpcOrder int
}

// NewDecoder validates mode and constructs a Decoder for a new stream.
func NewDecoder(mode Mode) (*Decoder, error) {
	if err := CheckMode(mode); err != nil {
		return nil, err
	}
	return &Decoder{
		mode:     mode,
		sc:       newScratch(mode),
		mdct:     NewMDCT(mode.N),
		state:    stateFresh,
		lpcOrder: defaultLPCOrder,
	}, nil
}

// SetLPCOrder overrides the linear-prediction order packet-loss
// concealment uses to blend a short-term LPC extrapolation with the
// long-term pitch-offset copy. order <= 0 disables the LPC path,
// leaving concealment as a pure pitch-offset copy.
func (d *Decoder) SetLPCOrder(order int) {
	d.lpcOrder = order
}

// Close releases d's resources. It is safe to call on a nil Decoder.
func (d *Decoder) Close() {
	if d == nil {
		return
	}
	d.sc = nil
}

// DecodeFrame decompresses one frame from data into pcm (length
// frameLen*C). data == nil triggers packet-loss concealment and pcm is
// filled from the synthesis history instead.
func (d *Decoder) DecodeFrame(data []byte, pcm []int16) error {
	m := d.mode
	c := m.C
	fl := m.frameLen()
	if len(pcm) != fl*c {
		return fmt.Errorf("%w: pcm length must be %d, got %d", ErrInternal, fl*c, len(pcm))
	}

	if data == nil {
		d.conceal(pcm)
		return nil
	}

	sc := d.sc
	d.state = stateStreaming
	totalBits := len(data) * 8

	dec := &rangecoding.Decoder{}
	dec.Init(data)

	// Step 3: dequantize band energies.
	energyBits := totalBits / 3
	copy(sc.bandE, unquantEnergy(m, sc.oldBandE, energyBits, dec))
	bandE := sc.bandE

	// Step 4: dequantize pitch gains, and the pitch index if present.
	decodedGains, hasPitch := unquantPitch(len(m.PBands), dec)
	copy(sc.gains, decodedGains)
	gains := sc.gains
	pitchIdx := 0
	if hasPitch == 1 {
		pitchIdx = int(dec.DecodeUniform(uint32(m.pitchIndexRange())))
		sc.lastPitch = pitchIdx
		sc.hasLastPitch = true
	}

	// Step 5: pitch reference MDCT, band-normalize, stereo-mix.
	inLen := (m.B + 1) * m.N
	for i := range sc.p {
		sc.p[i] = 0
	}
	if hasPitch == 1 {
		pitchIn := sc.outMem[pitchIdx*c : pitchIdx*c+inLen*c]
		computeMDCTs(d.mdct, m.window, pitchIn, sc.p, m.N, m.B, c)
		pBandE := computeBandEnergies(m, sc.p)
		normaliseBands(m, sc.p, pBandE, sc.p)
		if c == 2 {
			stereoMix(m, sc.p, pBandE, 1)
		}
		pitchQuantBands(m, sc.p, gains)
	}

	// Step 6: dequantize the residual using P as predictor.
	remaining := totalBits - dec.Tell()
	if remaining < 0 {
		remaining = 0
	}
	x := unquantBands(m, sc.p, remaining, dec)

	// Step 7: inverse stereo mix, renormalize, denormalize, inverse MDCT.
	if c == 2 {
		stereoMix(m, x, bandE, -1)
		renormaliseBands(m, x)
	}
	denormaliseBands(m, x, bandE, sc.freq)
	tail := make([]Sample, c*fl)
	computeInvMDCTs(d.mdct, m.window, sc.freq, tail, sc.mdctOverlap, m.N, m.Overlap, m.B, c)
	copy(sc.shiftOutMem(c, fl), tail)

	// Step 8: de-emphasis.
	deemphasize(tail, pcm, c, sc.deemphMem)

	// Step 9: verify trailer.
	if !verifyTrailer(dec, totalBits) {
		d.state = stateFailed
		return fmt.Errorf("%w: trailer verification failed", ErrCorruptedData)
	}
	return nil
}

// verifyTrailer reads two-valued symbols until dec.Tell() reaches
// totalBits, checking each against the alternating 0,1,0,1,... pattern
// the encoder emits.
func verifyTrailer(dec *rangecoding.Decoder, totalBits int) bool {
	want := uint32(0)
	ok := true
	for dec.Tell() < totalBits {
		got := dec.DecodeUniform(2)
		if got != want {
			ok = false
		}
		want ^= 1
	}
	return ok
}

// conceal implements packet-loss concealment (spec §4.6): the history at
// last_pitch_index is treated as the missing frame's prediction, run
// through the same MDCT/inverse-MDCT/overlap-add/de-emphasis path a real
// frame would take, then blended with a short-term LPC extrapolation of
// the synthesis history (SPEC_FULL.md §4.6.1) when d.lpcOrder > 0.
// Until a frame carrying a pitch index has been decoded, it writes
// silence to pcm and leaves the decoder state untouched.
// oldBandE is left untouched, so a decoder that has concealed a loss is
// permanently (if harmlessly) out of sync with the encoder's energy
// predictor (spec §7, §9).
func (d *Decoder) conceal(pcm []int16) {
	m := d.mode
	c := m.C
	fl := m.frameLen()
	sc := d.sc

	if !sc.hasLastPitch {
		for i := range pcm {
			pcm[i] = 0
		}
		return
	}

	inLen := (m.B + 1) * m.N
	src := sc.outMem[sc.lastPitch*c : sc.lastPitch*c+inLen*c]
	computeMDCTs(d.mdct, m.window, src, sc.freq, m.N, m.B, c)

	tail := make([]Sample, c*fl)
	computeInvMDCTs(d.mdct, m.window, sc.freq, tail, sc.mdctOverlap, m.N, m.Overlap, m.B, c)
	if d.lpcOrder > 0 {
		blendLPC(sc.outMem, tail, c, fl, d.lpcOrder)
	}
	copy(sc.shiftOutMem(c, fl), tail)

	deemphasize(tail, pcm, c, sc.deemphMem)
	noticePLC(fl)
}

// blendLPC fits a linear predictor to the most recent history in outMem
// (per channel) and averages its zero-input free-decay extrapolation into
// tail, which already holds the pitch-offset copy. Grounded directly on
// original_source/libcelt/plc.c, which runs _celt_autocorr/_celt_lpc over
// the tail of out_mem and blends that short-term prediction with the
// pitch-offset copy rather than relying on the long-term copy alone.
func blendLPC(outMem, tail []Sample, c, fl, order int) {
	frames := len(outMem) / c
	histLen := order * 4
	if histLen > frames {
		histLen = frames
	}
	if histLen <= order {
		return
	}

	window := make([]Sample, histLen)
	for i := range window {
		window[i] = 1
	}
	hist := make([]Sample, histLen)
	mem := make([]Sample, order)
	excitation := make([]Sample, fl)
	ext := make([]Sample, fl)

	for ch := 0; ch < c; ch++ {
		for i := 0; i < histLen; i++ {
			hist[i] = outMem[(frames-histLen+i)*c+ch]
		}
		ac := lpcfir.Autocorr(hist, window, 0, order)
		lpc, _ := lpcfir.LevinsonDurbin(ac, order)
		for i := 0; i < order; i++ {
			mem[i] = hist[histLen-1-i]
		}
		lpcfir.IIR(excitation, lpc, ext, fl, order, mem)
		for i := 0; i < fl; i++ {
			idx := i*c + ch
			tail[idx] = 0.5*tail[idx] + 0.5*ext[i]
		}
	}
}
