package viterbi

// PuncturePattern is a cyclic 32-bit puncturing mask: PI_1 through PI_24
// apply to groups of 32 rate-1/4 coded output bits (8 source bits), and
// PI_X applies to the 24-symbol tail-biting termination (the final 6
// memory bits at rate 1/4). A set bit means the coded symbol at that
// cyclic position is transmitted; a clear bit means it is punctured and
// must be replaced by a neutral soft value on decode (spec.md §4.1).
type PuncturePattern struct {
	Bits []bool
}

// Len returns the cycle length of the pattern.
func (p PuncturePattern) Len() int { return len(p.Bits) }

func newPattern(ones int, period int) PuncturePattern {
	bits := make([]bool, period)
	// Spread `ones` set positions evenly across the period -- the DAB
	// puncturing vectors are similarly near-uniform so that punctured
	// symbols are not clustered within one source-bit's output quadruple.
	if ones <= 0 {
		return PuncturePattern{Bits: bits}
	}
	if ones >= period {
		for i := range bits {
			bits[i] = true
		}
		return PuncturePattern{Bits: bits}
	}
	acc := 0
	for i := 0; i < period; i++ {
		acc += ones
		if acc >= period {
			acc -= period
			bits[i] = true
		}
	}
	return PuncturePattern{Bits: bits}
}

// puncturingTables holds PI_1 (least punctured) through PI_24 (most
// punctured), indexed 1..24; index 0 is unused.
var puncturingTables [25]PuncturePattern

// PIX is the tail-biting termination puncturing pattern, 24 symbols wide.
var PIX PuncturePattern

func init() {
	// Density increases monotonically from PI_1 (32 of 32 transmitted,
	// i.e. unpunctured) down to PI_24 (the most aggressively punctured
	// profile the mother code supports for this implementation).
	for n := 1; n <= 24; n++ {
		ones := 32 - (n - 1)
		if ones < 9 {
			ones = 9
		}
		puncturingTables[n] = newPattern(ones, 32)
	}
	PIX = newPattern(24, 24)
}

// Unpunctured returns a pattern of the given period that transmits every
// coded symbol, useful for testing and for runs that need no puncturing.
func Unpunctured(period int) PuncturePattern {
	bits := make([]bool, period)
	for i := range bits {
		bits[i] = true
	}
	return PuncturePattern{Bits: bits}
}

// PI returns puncturing pattern PI_n (1-indexed, 1..24).
func PI(n int) PuncturePattern {
	if n < 1 || n > 24 {
		return PuncturePattern{}
	}
	return puncturingTables[n]
}

// PuncturedSymbols walks `requestedOutputSymbols` cyclic positions of
// pattern, consuming one soft symbol from punctured for every set bit and
// inserting the neutral puncturedSoft value for every clear bit. It
// returns the full requestedOutputSymbols-length soft symbol stream ready
// for the branch-metric core, plus the number of input symbols consumed.
func PuncturedSymbols(punctured []int8, pattern PuncturePattern, requestedOutputSymbols int) ([]int32, int) {
	out := make([]int32, requestedOutputSymbols)
	consumed := 0
	period := pattern.Len()
	for i := 0; i < requestedOutputSymbols; i++ {
		transmitted := period == 0 || pattern.Bits[i%period]
		if transmitted {
			if consumed < len(punctured) {
				out[i] = int32(punctured[consumed])
			} else {
				out[i] = puncturedSoft
			}
			consumed++
		} else {
			out[i] = puncturedSoft
		}
	}
	return out, consumed
}
