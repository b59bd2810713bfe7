package reedsolomon

// berlekampMassey finds the error locator polynomial sigma (highest degree
// coefficient first) from the Parity-length syndrome sequence, grounded on
// the same iterative technique pd0mz-go-dmr/fec/rs_12_9.go applies for its
// fixed (12,9) code, generalized here to an arbitrary correction capacity
// t. Returns nil if the syndromes imply more than t errors.
func berlekampMassey(syn []uint8, t int) []uint8 {
	n := len(syn)
	c := make([]uint8, n+1) // current locator
	b := make([]uint8, n+1) // previous locator
	c[0] = 1
	b[0] = 1

	l := 0
	m := 1
	bCoef := uint8(1)

	for i := 0; i < n; i++ {
		delta := syn[i]
		for j := 1; j <= l; j++ {
			delta ^= gfMul(c[j], syn[i-j])
		}
		if delta == 0 {
			m++
			continue
		}
		tCopy := append([]uint8{}, c...)
		coef := gfDiv(delta, bCoef)
		for j := m; j <= n; j++ {
			if j-m < len(b) {
				c[j] ^= gfMul(coef, b[j-m])
			}
		}
		if 2*l <= i {
			l = i + 1 - l
			b = tCopy
			bCoef = delta
			m = 1
		} else {
			m++
		}
	}

	if l > t {
		return nil
	}

	sigma := make([]uint8, l+1)
	for i := 0; i <= l; i++ {
		sigma[l-i] = c[i]
	}
	return sigma
}

// chienSearch finds the roots of the error locator polynomial sigma by
// brute-force evaluation at alpha^-i for each candidate codeword position
// i in [0, n). sigma is stored highest degree first. Returns the set of
// error positions (as indices from the start of the codeword) or nil if
// the number of roots found doesn't match the locator's degree.
func chienSearch(sigma []uint8, n int) []int {
	degree := len(sigma) - 1
	if degree == 0 {
		return []int{}
	}
	var positions []int
	for i := 0; i < n; i++ {
		// Root candidate corresponds to codeword position i counted from
		// the left (highest-degree term first), so we evaluate at
		// alpha^-(n-1-i).
		x := gfInv(gfPow(2, n-1-i))
		if polyEvalGF(sigma, x) == 0 {
			positions = append(positions, i)
		}
	}
	if len(positions) != degree {
		return nil
	}
	return positions
}

// forneyCorrect computes error magnitudes via the Forney algorithm and
// applies them in place to codeword at each reported error position.
// Returns false if the correction cannot be computed consistently.
//
// All polynomials in this function are represented low-order-first
// (index i holds the coefficient of x^i), which is the natural form for
// the syndrome and error-locator recurrences; polyEvalGF/polyMulGF
// elsewhere in the package use the opposite, highest-degree-first,
// convention, so conversions happen only at the boundary.
func forneyCorrect(codeword []byte, syn, sigma []uint8, positions []int, fcr int) bool {
	n := len(codeword)

	sigmaLow := reverseCopy(sigma) // sigmaLow[0] == 1 (constant term)

	// omega(x) = [S(x) * sigma(x)] mod x^parity
	omegaFull := mulLowFirst(syn, sigmaLow)
	parity := len(syn)
	omegaLow := omegaFull
	if len(omegaLow) > parity {
		omegaLow = omegaLow[:parity]
	}

	// sigma'(x): in characteristic 2, d/dx(c*x^k) survives only for odd
	// k, producing c*x^(k-1).
	derivLow := make([]uint8, 0, len(sigmaLow)/2+1)
	for k := 1; k < len(sigmaLow); k += 2 {
		derivLow = append(derivLow, sigmaLow[k])
	}

	for _, pos := range positions {
		xi := gfPow(2, n-1-pos)
		xiInv := gfInv(xi)

		omegaVal := evalLowFirst(omegaLow, xiInv)
		// derivLow[j] holds the coefficient of x^(2j), so evaluate at x^2.
		derivVal := evalLowFirst(derivLow, gfMul(xiInv, xiInv))
		if derivVal == 0 {
			return false
		}

		magnitude := gfDiv(omegaVal, derivVal)
		magnitude = gfMul(magnitude, gfPow(xi, 1-fcr))
		codeword[pos] ^= magnitude
	}
	return true
}

func evalLowFirst(p []uint8, x uint8) uint8 {
	var y uint8
	var xPow uint8 = 1
	for _, c := range p {
		y ^= gfMul(c, xPow)
		xPow = gfMul(xPow, x)
	}
	return y
}

func mulLowFirst(a, b []uint8) []uint8 {
	out := make([]uint8, len(a)+len(b)-1)
	for i, av := range a {
		if av == 0 {
			continue
		}
		for j, bv := range b {
			out[i+j] ^= gfMul(av, bv)
		}
	}
	return out
}

func reverseCopy(p []uint8) []uint8 {
	out := make([]uint8, len(p))
	for i, v := range p {
		out[len(p)-1-i] = v
	}
	return out
}
