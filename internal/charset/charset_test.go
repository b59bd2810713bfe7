package charset

import "testing"

func TestDecodeASCIIPassthrough(t *testing.T) {
	got, err := Decode([]byte("Classic FM"))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != "Classic FM" {
		t.Fatalf("got %q", got)
	}
}

func TestDecodeEuroSign(t *testing.T) {
	got, err := Decode([]byte{0xBC})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != "€" {
		t.Fatalf("got %q, want euro sign", got)
	}
}

func TestDecodeLabelUTF8Passthrough(t *testing.T) {
	got, err := DecodeLabel([]byte("Örebro"), CharsetUTF8)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != "Örebro" {
		t.Fatalf("got %q", got)
	}
}

func TestDecodeLabelUnknownFallsBackToEBU(t *testing.T) {
	got, err := DecodeLabel([]byte("Radio"), 0x7)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != "Radio" {
		t.Fatalf("got %q", got)
	}
}
