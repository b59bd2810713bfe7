package mot

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"testing"
)

func TestSegmentAssemblerReordersOutOfOrderSegments(t *testing.T) {
	s := NewSegmentAssembler()
	s.SetTotalSegments(3)
	s.AddSegment(2, []byte("ghi"))
	s.AddSegment(0, []byte("abc"))
	if s.CheckComplete() {
		t.Fatalf("expected incomplete before all segments arrive")
	}
	s.AddSegment(1, []byte("def"))
	if !s.CheckComplete() {
		t.Fatalf("expected complete once all 3 segments arrive")
	}
	if got := string(s.GetData()); got != "abcdefghi" {
		t.Fatalf("expected reordered abcdefghi, got %q", got)
	}
}

func buildCoreHeader(bodySize uint32, headerSize int, contentType uint8, subType uint16) []byte {
	core := uint64(bodySize&0x0FFFFFFF)<<28 | uint64(headerSize&0x1FFF)<<15 |
		uint64(contentType&0x3F)<<9 | uint64(subType&0x1FF)
	b := make([]byte, 7)
	for i := 0; i < 7; i++ {
		b[6-i] = byte(core >> (8 * i))
	}
	return b
}

func TestParseHeaderExtractsContentTypeAndName(t *testing.T) {
	core := buildCoreHeader(100, 15, contentTypeImage, subTypeJPEG)
	nameParam := append([]byte{byte(0x03<<6) | paramContentName, 6}, append([]byte{0x0F}, []byte("pic.j")...)...)
	raw := append(core, nameParam...)

	h := ParseHeader(raw)
	if h.ContentType != contentTypeImage {
		t.Fatalf("expected content type image, got %d", h.ContentType)
	}
	if h.ContentSubType != subTypeJPEG {
		t.Fatalf("expected subtype jpeg, got %d", h.ContentSubType)
	}
	if h.Name != "pic.j" {
		t.Fatalf("expected name 'pic.j', got %q", h.Name)
	}
}

func TestManagerAssemblesEntityAndFiresSlideshow(t *testing.T) {
	m := NewManager()
	var entity Entity
	var slideshow Slideshow
	m.OnEntity = func(e Entity) { entity = e }
	m.OnSlideshow = func(s Slideshow) { slideshow = s }

	img := image.NewGray(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.Gray{Y: 128})
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("unexpected jpeg encode failure: %v", err)
	}
	body := buf.Bytes()

	header := buildCoreHeader(uint32(len(body)), 7, contentTypeImage, subTypeJPEG)

	headerGroup := dataGroupHeader(false, true, 42, 0, header)
	bodyGroup := dataGroupHeader(true, true, 42, 0, body)

	m.Feed(headerGroup)
	m.Feed(bodyGroup)

	if entity.TransportID != 42 {
		t.Fatalf("expected transport id 42, got %d", entity.TransportID)
	}
	if slideshow.Image == nil {
		t.Fatalf("expected slideshow image to be decoded")
	}
}

func TestManagerGCCollectsIdleEntities(t *testing.T) {
	m := NewManager()
	header := buildCoreHeader(0, 7, 0, 0)
	m.Feed(dataGroupHeader(false, false, 7, 0, header))

	if _, ok := m.entities[7]; !ok {
		t.Fatalf("expected transport id 7 to be tracked")
	}

	for i := 0; i < defaultGCRotations+1; i++ {
		m.AdvanceRotation()
	}

	if _, ok := m.entities[7]; ok {
		t.Fatalf("expected transport id 7 to be garbage collected")
	}
}

func dataGroupHeader(isBody, lastSegment bool, transportID uint16, segmentIndex int, data []byte) []byte {
	var flags byte
	if isBody {
		flags |= 0x80
	}
	if lastSegment {
		flags |= 0x40
	}
	out := make([]byte, 5)
	out[0] = flags
	binary.BigEndian.PutUint16(out[1:3], transportID)
	binary.BigEndian.PutUint16(out[3:5], uint16(segmentIndex))
	return append(out, data...)
}
