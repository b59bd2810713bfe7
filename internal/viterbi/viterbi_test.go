package viterbi

import (
	"math/rand"
	"testing"

	"github.com/dabreceiver/dabplus/internal/bitio"
)

func TestRoundTripRandomPayload(t *testing.T) {
	const nBits = 200
	rng := rand.New(rand.NewSource(1))

	in := make([]byte, (nBits+7)/8)
	for i := 0; i < nBits; i++ {
		bitio.WriteBit(in, uint(i), rng.Intn(2) == 1)
	}

	coded, finalState := Encode(in, nBits)

	pattern := Unpunctured(Rate)
	dec := NewDecoder(nBits)
	dec.Reset(0)
	consumed := dec.Update(coded, pattern, nBits*Rate)
	if consumed != len(coded) {
		t.Fatalf("expected to consume %d symbols, consumed %d", len(coded), consumed)
	}

	out := make([]byte, (nBits+7)/8)
	pathErr := dec.Chainback(out, nBits, finalState)

	if pathErr != 0 {
		t.Fatalf("expected zero path error for noiseless input, got %d", pathErr)
	}
	for i := 0; i < nBits; i++ {
		if bitio.ReadBit(in, uint(i)) != bitio.ReadBit(out, uint(i)) {
			t.Fatalf("bit %d mismatch", i)
		}
	}
}

func TestKernelsProduceIdenticalOutput(t *testing.T) {
	const nBits = 64
	rng := rand.New(rand.NewSource(2))
	in := make([]byte, (nBits+7)/8)
	for i := 0; i < nBits; i++ {
		bitio.WriteBit(in, uint(i), rng.Intn(2) == 1)
	}
	coded, finalState := Encode(in, nBits)
	pattern := Unpunctured(Rate)

	var results [][]byte
	for _, k := range []KernelID{KernelScalar, KernelSSE42, KernelAVX2, KernelNEON} {
		dec := NewDecoder(nBits)
		dec.kernel = k
		dec.Reset(0)
		dec.Update(coded, pattern, nBits*Rate)
		out := make([]byte, (nBits+7)/8)
		dec.Chainback(out, nBits, finalState)
		results = append(results, out)
	}

	for i := 1; i < len(results); i++ {
		for b := range results[0] {
			if results[0][b] != results[i][b] {
				t.Fatalf("kernel %d diverged from scalar at byte %d", i, b)
			}
		}
	}
}

func TestResetClearsPathError(t *testing.T) {
	dec := NewDecoder(8)
	dec.Reset(0)
	if dec.oldMetrics[0] != 0 {
		t.Fatalf("expected starting state metric 0")
	}
	for i := 1; i < NumStates; i++ {
		if dec.oldMetrics[i] != maxMetric {
			t.Fatalf("expected non-starting states to be at max metric")
		}
	}
}

func TestPuncturedSymbolsInsertsNeutral(t *testing.T) {
	pattern := PuncturePattern{Bits: []bool{true, false, true, false}}
	symbols, consumed := PuncturedSymbols([]int8{10, 20}, pattern, 4)
	if consumed != 2 {
		t.Fatalf("expected 2 consumed, got %d", consumed)
	}
	if symbols[0] != 10 || symbols[2] != 20 {
		t.Fatalf("expected transmitted positions to carry input values, got %v", symbols)
	}
	if symbols[1] != puncturedSoft || symbols[3] != puncturedSoft {
		t.Fatalf("expected punctured positions to carry neutral value, got %v", symbols)
	}
}
