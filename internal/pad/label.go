package pad

import "github.com/dabreceiver/dabplus/internal/charset"

// Dynamic label X-PAD application types. The exact EN 300 401 Annex
// table wasn't available to build against; these two values are kept
// internally consistent and are the only thing splitXPAD's output is
// matched against, the same approximation policy used for the FIG 0
// extension layouts in internal/fic.
const (
	appTypeDynamicLabel = 2 // both start and continuation segments
)

// labelSegmentHeader is [toggle:1|first:1|last:1|segment_index:5].
type labelSegmentHeader struct {
	toggle  bool
	first   bool
	last    bool
	segment uint8
}

func parseLabelSegmentHeader(b byte) labelSegmentHeader {
	return labelSegmentHeader{
		toggle:  b&0x80 != 0,
		first:   b&0x40 != 0,
		last:    b&0x20 != 0,
		segment: b & 0x1F,
	}
}

// LabelAssembler reassembles dynamic label text across X-PAD segments
// carrying toggle bit + segment index + (on the first segment) a
// charset indicator, per spec.md §4.5.
type LabelAssembler struct {
	buf         []byte
	charsetID   byte
	haveToggle  bool
	toggle      bool
	inProgress  bool
	nextSegment uint8

	// OnLabelUpdate fires once per completed label, replacing the
	// prior label atomically (spec.md §4.5).
	OnLabelUpdate func(label string, charsetID byte)
}

// NewLabelAssembler constructs an idle assembler.
func NewLabelAssembler() *LabelAssembler {
	return &LabelAssembler{}
}

// Feed consumes one X-PAD segment addressed to the dynamic label
// application type.
func (a *LabelAssembler) Feed(segment []byte) {
	if len(segment) < 1 {
		return
	}
	hdr := parseLabelSegmentHeader(segment[0])
	body := segment[1:]

	if a.haveToggle && hdr.toggle != a.toggle && !hdr.first {
		// A toggle flip mid-label means the transmitter restarted the
		// label without us seeing a "first" segment; drop the partial
		// buffer rather than splice mismatched segments together.
		a.inProgress = false
	}
	a.haveToggle = true
	a.toggle = hdr.toggle

	if hdr.first {
		if len(body) < 1 {
			return
		}
		a.charsetID = body[0] & 0x0F
		a.buf = append([]byte{}, body[1:]...)
		a.inProgress = true
		a.nextSegment = hdr.segment + 1
	} else if a.inProgress && hdr.segment == a.nextSegment {
		a.buf = append(a.buf, body...)
		a.nextSegment++
	} else {
		// A gap in segment indices drops the partial label.
		a.inProgress = false
		return
	}

	if hdr.last && a.inProgress {
		a.complete()
	}
}

func (a *LabelAssembler) complete() {
	text, err := charset.DecodeLabel(a.buf, a.charsetID)
	a.inProgress = false
	if err != nil {
		return
	}
	if a.OnLabelUpdate != nil {
		a.OnLabelUpdate(text, a.charsetID)
	}
}
