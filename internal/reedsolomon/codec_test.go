package reedsolomon

import (
	"math/rand"
	"testing"
)

func randomMessage(rng *rand.Rand, n int) []byte {
	b := make([]byte, n)
	rng.Read(b)
	return b
}

func TestEncodeDecodeCleanRoundTrip(t *testing.T) {
	c := NewMSCOuterCode()
	rng := rand.New(rand.NewSource(1))
	msg := randomMessage(rng, c.K)

	codeword, err := c.Encode(msg)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, errs, ok := c.Decode(codeword)
	if !ok {
		t.Fatalf("expected clean decode to succeed")
	}
	if errs != 0 {
		t.Fatalf("expected 0 errors on clean codeword, got %d", errs)
	}
	for i := range msg {
		if msg[i] != decoded[i] {
			t.Fatalf("byte %d mismatch: got %02x want %02x", i, decoded[i], msg[i])
		}
	}
}

func TestDecodeCorrectsWithinCapacity(t *testing.T) {
	c := NewSuperframeCode() // RS(120,110), t=5
	rng := rand.New(rand.NewSource(2))
	msg := randomMessage(rng, c.K)

	codeword, err := c.Encode(msg)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	corrupted := append([]byte{}, codeword...)
	positions := rng.Perm(len(corrupted))[:c.corrCap]
	for _, p := range positions {
		corrupted[p] ^= 0xFF
	}

	decoded, errs, ok := c.Decode(corrupted)
	if !ok {
		t.Fatalf("expected decode to correct %d errors", c.corrCap)
	}
	if errs != c.corrCap {
		t.Fatalf("expected %d corrected errors, got %d", c.corrCap, errs)
	}
	for i := range msg {
		if msg[i] != decoded[i] {
			t.Fatalf("byte %d mismatch after correction: got %02x want %02x", i, decoded[i], msg[i])
		}
	}
}

func TestDecodeReportsUncorrectableBeyondCapacity(t *testing.T) {
	c := NewSuperframeCode()
	rng := rand.New(rand.NewSource(3))
	msg := randomMessage(rng, c.K)

	codeword, _ := c.Encode(msg)
	corrupted := append([]byte{}, codeword...)
	// Corrupt well beyond the correction capacity -- decode must either
	// fail cleanly or, if it lands on another valid codeword by chance,
	// that is an accepted property of bounded-distance decoding, but it
	// must never panic.
	positions := rng.Perm(len(corrupted))
	for _, p := range positions[:c.corrCap*3] {
		corrupted[p] ^= byte(rng.Intn(255) + 1)
	}

	_, _, _ = c.Decode(corrupted)
}

func TestEncodeRejectsWrongLength(t *testing.T) {
	c := NewMSCOuterCode()
	_, err := c.Encode(make([]byte, c.K+1))
	if err == nil {
		t.Fatalf("expected error for wrong-length message")
	}
}
