package scramble

import "testing"

func TestApplyIsInvolution(t *testing.T) {
	data := []byte{0x00, 0xFF, 0xA5, 0x5A, 0x12, 0x34}
	scrambled := Apply(data)
	restored := Apply(scrambled)

	for i := range data {
		if restored[i] != data[i] {
			t.Fatalf("byte %d: got %#x want %#x", i, restored[i], data[i])
		}
	}
}

func TestGeneratorResetRepeats(t *testing.T) {
	g := NewGenerator()
	first := make([]byte, 16)
	for i := range first {
		first[i] = g.NextBit()
	}

	g.Reset()
	second := make([]byte, 16)
	for i := range second {
		second[i] = g.NextBit()
	}

	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("bit %d differs after reset: %d vs %d", i, first[i], second[i])
		}
	}
}
