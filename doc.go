// Package celt implements the core of a low-delay, constant-bitrate
// perceptual audio codec: an overlapped MDCT transform, a frequency-domain
// pitch analyzer driving long-term prediction, and a range-coded,
// band-normalized spectral quantizer, plus their inverse (decode) path.
//
// The package deliberately does not include command-line tooling, file
// container framing (e.g. Ogg), or mode-parameter tables beyond the Mode
// type itself — those are external collaborators. Mode can be constructed
// directly with NewMode or loaded from a YAML preset with LoadModeFile.
//
// A Sample is the numeric-policy trait: this build's DSP pipeline is
// written entirely in terms of Sample (float64 here), so a fixed-point
// profile could later substitute a different concrete type without
// touching the algorithmic code.
package celt
