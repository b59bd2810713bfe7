package aacsuperframe

import (
	"encoding/binary"
	"testing"

	"github.com/dabreceiver/dabplus/internal/crc16"
)

func buildHeaderBlock(numAUsIndex byte) []byte {
	header := []byte{0x80, numAUsIndex, 0, 0, 0} // DACRate=48kHz, rest zero
	fc := computeFirecode(header)
	block := append([]byte{}, header...)
	block = append(block, byte(fc>>8), byte(fc))
	return block
}

func buildPayload(cols int, aus [][]byte) []byte {
	numPointers := len(aus) - 1
	tableLen := numPointers * 2
	body := make([]byte, 0, tableLen)
	offset := 0
	for i := 0; i < numPointers; i++ {
		offset += len(aus[i])
		ptr := make([]byte, 2)
		binary.BigEndian.PutUint16(ptr, uint16(offset))
		body = append(body, ptr...)
	}
	for _, au := range aus {
		body = append(body, au...)
	}
	// The payload is neither padded to a multiple of rsRows nor RS
	// encoded: it is shorter than one RS column, so correctRS passes it
	// through unchanged (setting RSError) and the AU split sees it as-is.
	return body
}

func TestAlignFindsValidFirecode(t *testing.T) {
	p := New()
	block := buildHeaderBlock(0)
	raw := append(block, make([]byte, 40)...)

	hb, payload, ok := p.align(raw)
	if !ok {
		t.Fatalf("expected firecode alignment to succeed")
	}
	if len(hb) != headerLength {
		t.Fatalf("unexpected header length %d", len(hb))
	}
	if len(payload) != len(raw)-len(block) {
		t.Fatalf("unexpected payload length %d", len(payload))
	}
}

func TestAlignFailsOnGarbage(t *testing.T) {
	p := New()
	raw := make([]byte, 40)
	for i := range raw {
		raw[i] = 0xAA
	}
	_, _, ok := p.align(raw)
	if ok {
		t.Fatalf("expected alignment to fail on garbage input")
	}
}

func TestHeaderChangeFiresOnHeaderOnce(t *testing.T) {
	p := New()
	var fires int
	p.OnHeader = func(Header) { fires++ }

	block := buildHeaderBlock(1) // numAUs index 1 -> 3 AUs
	au0 := append([]byte("hello-au"), 0, 0)
	binary.BigEndian.PutUint16(au0[len(au0)-2:], crc16.Compute(au0[:len(au0)-2]))
	payload := buildPayload(1, [][]byte{au0, au0, au0})
	raw := append(block, payload...)

	p.ProcessSuperframe(raw)
	p.ProcessSuperframe(raw)

	if fires != 1 {
		t.Fatalf("expected OnHeader to fire exactly once for an unchanged header, got %d", fires)
	}
}

func TestAccessUnitsEmittedInOrder(t *testing.T) {
	p := New()
	var indices []int
	p.OnAccessUnit = func(i, n int, data []byte) { indices = append(indices, i) }

	block := buildHeaderBlock(0) // numAUs index 0 -> 2 AUs
	au := append([]byte("payloadbytes"), 0, 0)
	binary.BigEndian.PutUint16(au[len(au)-2:], crc16.Compute(au[:len(au)-2]))
	payload := buildPayload(1, [][]byte{au, au})
	raw := append(block, payload...)

	p.ProcessSuperframe(raw)

	if len(indices) != 2 || indices[0] != 0 || indices[1] != 1 {
		t.Fatalf("expected AUs 0,1 in order, got %v", indices)
	}
}

func TestFirecodeErrorFlagSetOnMismatch(t *testing.T) {
	p := New()
	raw := make([]byte, 40)
	p.ProcessSuperframe(raw)
	if !p.FirecodeError {
		t.Fatalf("expected firecode error on all-zero input")
	}
}
