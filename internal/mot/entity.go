package mot

// Status is the MOT entity assembly state, spec.md §4.6.
type Status int

const (
	WaitingHeader Status = iota
	WaitingBody
	Complete
)

// Entity is the result of a fully reassembled MOT object.
type Entity struct {
	TransportID uint16
	Header      Header
	Body        []byte
}

// entityAssembler owns one transport-id's header and body segment
// assemblers plus its completion state.
type entityAssembler struct {
	transportID uint16
	header      *SegmentAssembler
	body        *SegmentAssembler
	status      Status
	rotation    int // current-transport-id rotation count at last touch
}

func newEntityAssembler(transportID uint16, rotation int) *entityAssembler {
	return &entityAssembler{
		transportID: transportID,
		header:      NewSegmentAssembler(),
		body:        NewSegmentAssembler(),
		status:      WaitingHeader,
		rotation:    rotation,
	}
}

// feedHeaderSegment adds a header-direction segment and advances
// status once the header is complete.
func (e *entityAssembler) feedHeaderSegment(index int, lastSegment bool, data []byte) {
	if lastSegment {
		e.header.SetTotalSegments(index + 1)
	}
	e.header.AddSegment(index, data)
	if e.status == WaitingHeader && e.header.CheckComplete() {
		e.status = WaitingBody
	}
	if e.status == WaitingBody && e.body.CheckComplete() {
		e.status = Complete
	}
}

// feedBodySegment adds a body-direction segment and advances status
// to Complete once the body is fully received.
func (e *entityAssembler) feedBodySegment(index int, lastSegment bool, data []byte) {
	if lastSegment {
		e.body.SetTotalSegments(index + 1)
	}
	e.body.AddSegment(index, data)
	if e.status == WaitingBody && e.body.CheckComplete() {
		e.status = Complete
	}
}

func (e *entityAssembler) toEntity() Entity {
	return Entity{
		TransportID: e.transportID,
		Header:      ParseHeader(e.header.GetData()),
		Body:        e.body.GetData(),
	}
}
