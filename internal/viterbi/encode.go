package viterbi

import "github.com/dabreceiver/dabplus/internal/bitio"

// Encode runs inBits (MSB-first packed in in, nBits long) through the
// mother code starting from state 0 and returns the Rate*nBits coded
// output bits as noiseless soft symbols (0 -> SoftHigh, 1 -> SoftLow),
// along with the final encoder state. It exists to support round-trip
// testing of the Viterbi decoder (spec.md §8: "Viterbi round-trip") and
// is not part of the receive path.
func Encode(in []byte, nBits int) ([]int8, uint8) {
	out := make([]int8, nBits*Rate)
	state := uint8(0)
	for i := 0; i < nBits; i++ {
		bit := 0
		if bitio.ReadBit(in, uint(i)) {
			bit = 1
		}
		t := trans[state][bit]
		state = t.nextState
		for g, outBit := range t.outputs {
			out[i*Rate+g] = int8(expectedSoft(outBit))
		}
	}
	return out, state
}
