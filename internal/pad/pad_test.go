package pad

import (
	"testing"

	"github.com/dabreceiver/dabplus/internal/crc16"
)

func buildShortXPADAU(body []byte) []byte {
	au := append([]byte{}, body...)
	au = append(au, 0x01, 0x02) // F-PAD: indicator=short, content present
	return au
}

func TestLabelAssemblerSingleSegmentLabel(t *testing.T) {
	a := NewLabelAssembler()
	var got string
	var gotCharset byte
	a.OnLabelUpdate = func(label string, cs byte) { got = label; gotCharset = cs }

	header := byte(0x80 | 0x40 | 0x20) // toggle=1, first=1, last=1, segment=0
	segment := append([]byte{header, 0x0F}, []byte("HELLO")...)
	a.Feed(segment)

	if got != "HELLO" {
		t.Fatalf("expected label HELLO, got %q", got)
	}
	if gotCharset != 0x0F {
		t.Fatalf("expected charset 0x0F, got %#x", gotCharset)
	}
}

func TestLabelAssemblerMultiSegmentLabel(t *testing.T) {
	a := NewLabelAssembler()
	var got string
	a.OnLabelUpdate = func(label string, _ byte) { got = label }

	first := append([]byte{0x80 | 0x40, 0x0F}, []byte("AB")...)
	last := []byte{0x80 | 0x20 | 0x01, 'C', 'D'}
	a.Feed(first)
	a.Feed(last)

	if got != "ABCD" {
		t.Fatalf("expected reassembled label ABCD, got %q", got)
	}
}

func TestLabelAssemblerToggleFlipDropsPartial(t *testing.T) {
	a := NewLabelAssembler()
	var fires int
	a.OnLabelUpdate = func(string, byte) { fires++ }

	a.Feed(append([]byte{0x80 | 0x40, 0x0F}, []byte("AB")...))
	// Continuation with the toggle flipped and no first/last flags.
	a.Feed([]byte{0x00 | 0x01, 'X'})

	if fires != 0 {
		t.Fatalf("expected no completed label after a toggle flip mid-segment")
	}
}

func TestMOTXPADAssemblerReassemblesSingleStartSegment(t *testing.T) {
	m := NewMOTXPADAssembler()
	var got []byte
	m.OnDataGroup = func(data []byte) { got = data }

	header := make([]byte, 9)
	payload := []byte("slideshow-bytes")
	group := append(append([]byte{}, header...), payload...)
	group = crc16.Append(group)

	lengthSeg := []byte{byte(0x80 | (len(group) >> 8)), byte(len(group))}
	lengthSeg = append(lengthSeg, group...)
	m.Feed(lengthSeg)

	if string(got) != "slideshow-bytes" {
		t.Fatalf("expected reassembled payload, got %q", got)
	}
}
