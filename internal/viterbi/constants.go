// Package viterbi implements the DAB mother code: a rate-1/4 convolutional
// code, constraint length K=7, generator polynomials {109, 79, 83, 109}
// (decimal, reversed-binary form of the octal ETSI values {133,171,145,133}),
// decoded by a soft-decision Viterbi algorithm with puncturing support
// (spec.md §4.1). A kernel id is detected at runtime (see kernel.go), but
// every decoder runs the same portable Go branch-metric code whichever
// id is detected, so output is bit-identical, matching spec.md §8
// invariant 1.
package viterbi

const (
	// ConstraintLength is K for the mother code.
	ConstraintLength = 7
	// MemoryBits is K-1, the number of shift-register memory bits.
	MemoryBits = ConstraintLength - 1
	// NumStates is 2^(K-1).
	NumStates = 1 << MemoryBits
	// Rate is R, the number of coded output bits per input bit (1/4 code).
	Rate = 4

	// SoftLow and SoftHigh bound the 8-bit signed soft-decision range.
	// A received bit near certainty-0 reads close to SoftHigh, certainty-1
	// reads close to SoftLow (spec.md §4.1: "SOFT_LOW and SOFT_HIGH").
	SoftLow  int8 = -127
	SoftHigh int8 = 127

	// puncturedSoft is the fixed neutral value inserted in place of a
	// punctured output symbol: midway between SoftLow and SoftHigh.
	puncturedSoft = int32(SoftLow) + (int32(SoftHigh)-int32(SoftLow))/2
)

// Generators holds the four rate-1/4 generator polynomials in the decimal,
// reversed-binary form spec.md §4.1 specifies (reversed form of the octal
// ETSI values 133, 171, 145, 133).
var Generators = [Rate]uint8{109, 79, 83, 109}

// R is the protection-profile relative code-rate attenuation factor used
// to derive the path-metric renormalization threshold: max_error =
// (SOFT_HIGH - SOFT_LOW) * R (spec.md §4.1). R is conservatively fixed at
// the mother code's own rate denominator; subchannel-specific puncturing
// only ever increases the effective rate, never the renormalization need.
const R = Rate
