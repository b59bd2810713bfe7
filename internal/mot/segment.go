// Package mot implements the MOT (Multimedia Object Transfer) carousel
// assembler of spec.md §4.6: per-transport-id header/body segment
// reassembly, entity lifecycle, transport-id garbage collection, and
// the slideshow upgrade for image/jpeg and image/png content.
package mot

// SegmentAssembler buffers indexed, out-of-order segments for one
// direction (header or body) of a single MOT transport-id, per
// spec.md §4.6.
type SegmentAssembler struct {
	total    int
	haveTotal bool
	segments map[int][]byte
}

// NewSegmentAssembler constructs an empty assembler.
func NewSegmentAssembler() *SegmentAssembler {
	return &SegmentAssembler{segments: make(map[int][]byte)}
}

// SetTotalSegments records the segment count, driven by the data
// group's "last segment" indicator.
func (s *SegmentAssembler) SetTotalSegments(n int) {
	s.total = n
	s.haveTotal = true
}

// AddSegment stores data at the given unordered index.
func (s *SegmentAssembler) AddSegment(index int, data []byte) {
	buf := make([]byte, len(data))
	copy(buf, data)
	s.segments[index] = buf
}

// CheckComplete reports whether all segments in [0,N) have arrived.
func (s *SegmentAssembler) CheckComplete() bool {
	if !s.haveTotal {
		return false
	}
	if len(s.segments) < s.total {
		return false
	}
	for i := 0; i < s.total; i++ {
		if _, ok := s.segments[i]; !ok {
			return false
		}
	}
	return true
}

// GetData reconstructs the ordered buffer from the received segments.
// Only valid once CheckComplete reports true.
func (s *SegmentAssembler) GetData() []byte {
	var out []byte
	for i := 0; i < s.total; i++ {
		out = append(out, s.segments[i]...)
	}
	return out
}
