// Package reedsolomon implements GF(256) Reed-Solomon encoding and
// syndrome decoding, parametrized to serve both DAB+ RS profiles named in
// spec.md §4.3/§4.4: the MSC outer code RS(204,188) and the AAC
// superframe code RS(120,110). The GF(256) table-building approach is
// grounded on pd0mz-go-dmr/fec/rs_12_9.go's galois exp/log table
// construction, generalized here from its fixed (12,9) shortened code to
// a parametrized (n,k) codec over the standard primitive polynomial
// 0x11D shared by DVB and DAB+.
package reedsolomon

// primitivePoly is x^8 + x^4 + x^3 + x^2 + 1, the GF(256) field
// generator DAB+ (and DVB) Reed-Solomon codes are built over.
const primitivePoly = 0x11D

type galoisField struct {
	exp [512]uint8 // doubled so exp[i] works for i in [0,509] without modulo in hot paths
	log [256]int16
}

var gf galoisField

func init() {
	x := 1
	for i := 0; i < 255; i++ {
		gf.exp[i] = uint8(x)
		gf.log[x] = int16(i)
		x <<= 1
		if x&0x100 != 0 {
			x ^= primitivePoly
		}
	}
	for i := 255; i < 512; i++ {
		gf.exp[i] = gf.exp[i-255]
	}
	gf.log[0] = -1
}

func gfMul(a, b uint8) uint8 {
	if a == 0 || b == 0 {
		return 0
	}
	return gf.exp[int(gf.log[a])+int(gf.log[b])]
}

func gfDiv(a, b uint8) uint8 {
	if a == 0 {
		return 0
	}
	if b == 0 {
		panic("reedsolomon: division by zero in GF(256)")
	}
	li := int(gf.log[a]) - int(gf.log[b])
	if li < 0 {
		li += 255
	}
	return gf.exp[li]
}

func gfPow(a uint8, power int) uint8 {
	if a == 0 {
		return 0
	}
	li := (int(gf.log[a]) * power) % 255
	if li < 0 {
		li += 255
	}
	return gf.exp[li]
}

func gfInv(a uint8) uint8 {
	return gf.exp[255-int(gf.log[a])]
}

// polyEvalGF evaluates polynomial p (p[0] is the highest-degree
// coefficient) at x using Horner's method in GF(256).
func polyEvalGF(p []uint8, x uint8) uint8 {
	y := p[0]
	for i := 1; i < len(p); i++ {
		y = gfMul(y, x) ^ p[i]
	}
	return y
}

func polyMulGF(a, b []uint8) []uint8 {
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
