package celt

import "errors"

// Error taxonomy. These are returned (optionally wrapped with fmt.Errorf's
// %w) from the programmatic surface in place of the spec's integer error
// codes.
var (
	// ErrInvalidMode is returned before any processing when CheckMode
	// rejects the Mode passed to NewEncoder/NewDecoder.
	ErrInvalidMode = errors.New("celt: invalid mode")

	// ErrInternal is returned when the range-coded output exceeds the
	// caller's byte budget after finalization — a quantizer-budget bug.
	// It is also returned when a pcm buffer has the wrong length or the
	// byte budget is not positive.
	ErrInternal = errors.New("celt: internal error")

	// ErrCorruptedData is returned from DecodeFrame when the trailer's
	// alternating bit pattern fails to verify.
	ErrCorruptedData = errors.New("celt: corrupted data")
)
