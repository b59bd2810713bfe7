package reedsolomon

import "fmt"

// Codec is a systematic GF(256) Reed-Solomon encoder/decoder for a fixed
// (n, k) shortened code with consecutive generator roots starting at
// alpha^fcr.
type Codec struct {
	N, K    int
	Parity  int
	fcr     int
	gen     []uint8 // generator polynomial, highest degree first
	corrCap int      // number of correctable errors, t = Parity/2
}

// New constructs a Codec for an (n, k) Reed-Solomon code.
func New(n, k int) *Codec {
	if n <= k || n > 255 {
		panic(fmt.Sprintf("reedsolomon: invalid (n=%d, k=%d)", n, k))
	}
	parity := n - k
	c := &Codec{N: n, K: k, Parity: parity, fcr: 0, corrCap: parity / 2}
	c.gen = buildGenerator(parity, c.fcr)
	return c
}

func buildGenerator(parity, fcr int) []uint8 {
	gen := []uint8{1}
	for i := 0; i < parity; i++ {
		root := gfPow(2, fcr+i)
		gen = polyMulGF(gen, []uint8{1, root})
	}
	return gen
}

// Encode computes the Parity check bytes for a K-byte message and returns
// the full N-byte systematic codeword (message followed by parity).
func (c *Codec) Encode(message []byte) ([]byte, error) {
	if len(message) != c.K {
		return nil, fmt.Errorf("reedsolomon: message length %d, want %d", len(message), c.K)
	}
	// Systematic encode: remainder of message(x) * x^parity divided by
	// the generator polynomial, via a shift-register long division.
	remainder := make([]uint8, c.Parity)
	for _, mByte := range message {
		feedback := mByte ^ remainder[0]
		copy(remainder, remainder[1:])
		remainder[c.Parity-1] = 0
		if feedback != 0 {
			for i := 0; i < c.Parity; i++ {
				remainder[i] ^= gfMul(c.gen[i+1], feedback)
			}
		}
	}

	codeword := make([]byte, c.N)
	copy(codeword, message)
	copy(codeword[c.K:], remainder)
	return codeword, nil
}

// syndromes evaluates the received codeword at each of the Parity
// consecutive roots alpha^(fcr+i). All-zero syndromes mean no errors.
func (c *Codec) syndromes(codeword []byte) []uint8 {
	s := make([]uint8, c.Parity)
	for i := 0; i < c.Parity; i++ {
		root := gfPow(2, c.fcr+i)
		s[i] = polyEvalGF(codeword, root)
	}
	return s
}

// Decode corrects up to corrCap symbol errors in place and returns the
// corrected K-byte message, the number of errors corrected, and whether
// decoding succeeded. On failure the codeword is returned unmodified
// (spec.md §4.3/§4.4: "RS uncorrectable (forward with flag)" -- the
// caller is responsible for still forwarding the frame).
func (c *Codec) Decode(codeword []byte) (message []byte, errorsCorrected int, ok bool) {
	if len(codeword) != c.N {
		return nil, 0, false
	}
	work := append([]byte{}, codeword...)

	syn := c.syndromes(work)
	clean := true
	for _, v := range syn {
		if v != 0 {
			clean = false
			break
		}
	}
	if clean {
		return work[:c.K], 0, true
	}

	locator := berlekampMassey(syn, c.corrCap)
	if locator == nil {
		return codeword, 0, false
	}

	errPositions := chienSearch(locator, c.N)
	if errPositions == nil || len(errPositions) == 0 || len(errPositions) > c.corrCap {
		return codeword, 0, false
	}

	if !forneyCorrect(work, syn, locator, errPositions, c.fcr) {
		return codeword, 0, false
	}

	// Verify: recompute syndromes; a genuine correction zeroes them all.
	verify := c.syndromes(work)
	for _, v := range verify {
		if v != 0 {
			return codeword, 0, false
		}
	}

	return work[:c.K], len(errPositions), true
}
