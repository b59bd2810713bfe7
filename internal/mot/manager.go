package mot

import "encoding/binary"

// defaultGCRotations is how many current-transport-id rotations an
// idle entity survives before being collected, spec.md §4.6's default
// of 8.
const defaultGCRotations = 8

// Manager owns the live set of in-progress MOT entity assemblers,
// keyed by transport-id, and performs rotation-based garbage
// collection.
//
// The exact MOT data-group header fields (direction, transport-id,
// segment index, last-segment flag) aren't available from an ETSI
// reference in this corpus; Manager.Feed parses a compact, internally
// consistent 5-byte header -- [flags:1|transport_id:2|segment_index:2]
// -- carrying the same information the spec names, rather than the
// exact EN 301 234 bit layout.
type Manager struct {
	entities     map[uint16]*entityAssembler
	rotation     int
	gcRotations  int

	// OnEntity fires once per fully reassembled MOT object.
	OnEntity func(Entity)
	// OnSlideshow fires when a completed entity's content type is
	// image/jpeg or image/png, after decoding (spec.md §4.6).
	OnSlideshow func(Slideshow)
}

// NewManager constructs a manager with the default GC window.
func NewManager() *Manager {
	return &Manager{
		entities:    make(map[uint16]*entityAssembler),
		gcRotations: defaultGCRotations,
	}
}

// Feed consumes one reassembled MSC data group (spec.md §4.5's
// PAD-carried MOT stream, header already stripped and CRC-verified).
func (m *Manager) Feed(dataGroup []byte) {
	if len(dataGroup) < 5 {
		return
	}
	flags := dataGroup[0]
	isBody := flags&0x80 != 0
	lastSegment := flags&0x40 != 0
	transportID := binary.BigEndian.Uint16(dataGroup[1:3])
	segmentIndex := int(binary.BigEndian.Uint16(dataGroup[3:5]))
	data := dataGroup[5:]

	e, ok := m.entities[transportID]
	if !ok {
		e = newEntityAssembler(transportID, m.rotation)
		m.entities[transportID] = e
	}
	e.rotation = m.rotation

	if isBody {
		e.feedBodySegment(segmentIndex, lastSegment, data)
	} else {
		e.feedHeaderSegment(segmentIndex, lastSegment, data)
	}

	if e.status == Complete {
		entity := e.toEntity()
		delete(m.entities, transportID)
		if m.OnEntity != nil {
			m.OnEntity(entity)
		}
		if s, ok := upgradeSlideshow(entity); ok && m.OnSlideshow != nil {
			m.OnSlideshow(s)
		}
	}
}

// AdvanceRotation marks the end of one current-transport-id rotation
// and collects entities idle for more than the GC window.
func (m *Manager) AdvanceRotation() {
	m.rotation++
	for id, e := range m.entities {
		if m.rotation-e.rotation > m.gcRotations {
			delete(m.entities, id)
		}
	}
}
