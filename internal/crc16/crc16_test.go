package crc16

import "testing"

func TestCheckValidFIB(t *testing.T) {
	fib := make([]byte, 32)
	for i := range fib[:30] {
		fib[i] = byte(i * 7)
	}
	crc := Compute(fib[:30])
	fib[30] = byte(crc >> 8)
	fib[31] = byte(crc)

	if !Check(fib) {
		t.Fatalf("expected valid CRC to check out")
	}
}

func TestCheckCorruptedLastTwoBytes(t *testing.T) {
	fib := Append([]byte{0x01, 0x02, 0x03, 0x04})
	fib[len(fib)-1] ^= 0xFF

	if Check(fib) {
		t.Fatalf("expected corrupted CRC bytes to fail check")
	}
}

func TestAppendRoundTrip(t *testing.T) {
	data := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	withCRC := Append(data)

	if len(withCRC) != len(data)+2 {
		t.Fatalf("expected 2 extra bytes, got %d", len(withCRC)-len(data))
	}
	if !Check(withCRC) {
		t.Fatalf("expected appended CRC to validate")
	}
}
