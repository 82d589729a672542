package celt

// scratch is the per-stream resource arena described in spec §5: the
// buffers below are allocated once, at construction time, and reused
// frame after frame. Some temporaries are still allocated on every
// EncodeFrame/DecodeFrame call (for example the analysis buffer, the
// synthesis tail and the MDCT engine's output slices). Its fields split
// into two groups:
// state that must persist across frames (the synthesis history, the
// MDCT overlap tail, the predicted log-energies) and per-call
// temporaries that are simply scratch space, cleared and reused each
// call.
type scratch struct {
	// Persisted across frames.
	outMem       []Sample // C*MaxPeriod synthesis history, for pitch search
	mdctOverlap  []Sample // C*Overlap inverse-MDCT overlap-add tail
	oldBandE     []Sample // nbEBands*C one-step energy predictor state
	preemphMem   []Sample // C taps of pre-emphasis filter memory
	preemphCarry []Sample // C*Overlap samples of head context carried into the next frame's `in` buffer
	deemphMem    []Sample // C taps of de-emphasis filter memory
	lastPitch    int      // most recent pitch_index, for PLC (spec §4.6)
	hasLastPitch bool     // whether a frame carrying a pitch index has been decoded (until then PLC writes silence)

	// Per-call temporaries.
	freq  []Sample // C*B*N MDCT coefficients
	x     []Sample // C*B*N normalized spectrum
	p     []Sample // C*B*N pitch predictor contribution
	bandE []Sample // nbEBands*C band energies
	gains []Sample // nbPBands pitch gains
	mask  []Sample // C*B*N masking curve (reserved; never written or read in this build)
}

// newScratch allocates an arena sized for mode.
func newScratch(mode Mode) *scratch {
	c := mode.C
	bn := c * mode.B * mode.N
	nb := len(mode.EBands)
	np := len(mode.PBands)

	s := &scratch{
		outMem:       make([]Sample, c*MaxPeriod),
		mdctOverlap:  make([]Sample, c*mode.Overlap),
		oldBandE:     newOldBandE(mode),
		preemphMem:   make([]Sample, c),
		preemphCarry: make([]Sample, c*mode.Overlap),
		deemphMem:    make([]Sample, c),

		freq:  make([]Sample, bn),
		x:     make([]Sample, bn),
		p:     make([]Sample, bn),
		bandE: make([]Sample, nb*c),
		gains: make([]Sample, np),
		mask:  make([]Sample, bn),
	}
	return s
}

// shiftOutMem slides newTail (length c*frames) into the tail of outMem,
// discarding the oldest c*frames samples, keeping the synthesis history
// a fixed-length rolling window for the next frame's pitch search.
func (s *scratch) shiftOutMem(c, frames int) []Sample {
	keep := len(s.outMem) - c*frames
	copy(s.outMem, s.outMem[c*frames:])
	return s.outMem[keep:]
}
