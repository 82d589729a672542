package celt

import "fmt"

// MaxPeriod is the length, in samples per channel, of the synthesis
// history retained for pitch prediction (spec §3, §6).
const MaxPeriod = 1024

// PreemphCoeff is the fixed pre-emphasis/de-emphasis coefficient alpha.
const PreemphCoeff = 0.8

// Sample is the numeric-policy trait (spec §9 REDESIGN FLAGS): all DSP
// code operates on Sample rather than a hardcoded float type, so that a
// future fixed-point profile can be introduced without touching the
// algorithms. This build ships the floating-point profile only.
type Sample = float64

// Band is a contiguous half-open range of MDCT bin indices, expressed
// over the full B*N coefficient span of a frame.
type Band struct {
	Start, End int
}

func (b Band) size() int { return b.End - b.Start }

// Mode is the immutable configuration handle shared by an Encoder and a
// Decoder for the lifetime of a stream. It is produced externally (by the
// caller, or via LoadModeFile) and never mutated once constructed.
type Mode struct {
	Fs      int    // sample rate, Hz
	N       int    // MDCT length (bins per sub-block)
	B       int    // number of MDCT sub-blocks per frame
	C       int    // channel count, 1 or 2
	Overlap int    // overlap length in samples, <= N
	EBands  []Band // energy-band partition over [0, B*N)
	PBands  []Band // pitch-band partition over [0, B*N)

	window []Sample // precomputed sine-sine window, length 2*N
}

// NewMode validates and constructs a Mode from its raw configuration
// fields, precomputing the analysis window once.
func NewMode(fs, n, b, c, overlap int, ebands, pbands []Band) (Mode, error) {
	m := Mode{Fs: fs, N: n, B: b, C: c, Overlap: overlap, EBands: ebands, PBands: pbands}
	if err := m.check(); err != nil {
		return Mode{}, err
	}
	m.window = buildWindow(n, overlap)
	return m, nil
}

// CheckMode reports whether mode satisfies the data-model invariants of
// spec §3. It is exported so LoadModeFile and tests can validate a Mode
// independently of constructing an Encoder/Decoder.
func CheckMode(m Mode) error {
	return m.check()
}

func (m Mode) check() error {
	if m.C != 1 && m.C != 2 {
		return fmt.Errorf("%w: channels must be 1 or 2, got %d", ErrInvalidMode, m.C)
	}
	if m.N <= 0 || m.B <= 0 {
		return fmt.Errorf("%w: N and B must be positive", ErrInvalidMode)
	}
	if m.Overlap <= 0 || m.Overlap > m.N {
		return fmt.Errorf("%w: overlap must be in (0, N], got %d", ErrInvalidMode, m.Overlap)
	}
	if (m.N-m.Overlap)%2 != 0 {
		return fmt.Errorf("%w: N-overlap must be even", ErrInvalidMode)
	}
	if (m.B+1)*m.N >= MaxPeriod {
		return fmt.Errorf("%w: (B+1)*N must be < MAX_PERIOD (%d), got %d", ErrInvalidMode, MaxPeriod, (m.B+1)*m.N)
	}
	total := m.B * m.N
	if err := checkBandCoverage(m.EBands, total); err != nil {
		return fmt.Errorf("%w: EBands %v", ErrInvalidMode, err)
	}
	if err := checkBandCoverage(m.PBands, total); err != nil {
		return fmt.Errorf("%w: PBands %v", ErrInvalidMode, err)
	}
	return nil
}

func checkBandCoverage(bands []Band, total int) error {
	if len(bands) == 0 {
		return fmt.Errorf("must have at least one band")
	}
	prev := 0
	for i, bnd := range bands {
		if bnd.Start != prev {
			return fmt.Errorf("band %d starts at %d, expected %d", i, bnd.Start, prev)
		}
		if bnd.End <= bnd.Start {
			return fmt.Errorf("band %d is empty or inverted (%d, %d)", i, bnd.Start, bnd.End)
		}
		prev = bnd.End
	}
	if prev != total {
		return fmt.Errorf("bands cover [0, %d), want [0, %d)", prev, total)
	}
	return nil
}

// pitchIndexRange is the exclusive upper bound for the pitch delay index,
// MAX_PERIOD - (B+1)*N, as used by enc_uint/dec_uint for pitch_index.
func (m Mode) pitchIndexRange() int {
	return MaxPeriod - (m.B+1)*m.N
}
