package pad

// Processor extracts F-PAD/X-PAD from each access unit and routes its
// content-indicator sub-fields to the dynamic label and MOT data-group
// assemblers.
type Processor struct {
	Label *LabelAssembler
	MOT   *MOTXPADAssembler
}

// New constructs a PAD processor with fresh sub-assemblers.
func New() *Processor {
	return &Processor{
		Label: NewLabelAssembler(),
		MOT:   NewMOTXPADAssembler(),
	}
}

// ProcessAU extracts PAD from one access unit's trailing bytes. au is
// the full access unit payload; the F-PAD occupies its final 2 bytes,
// and when the F-PAD's indicator signals an X-PAD field, that field
// immediately precedes the F-PAD.
func (p *Processor) ProcessAU(au []byte) {
	if len(au) < 2 {
		return
	}
	fpadBytes := [2]byte{au[len(au)-2], au[len(au)-1]}
	fpad := ParseFPAD(fpadBytes)
	if fpad.XPADIndicator == xpadNone {
		return
	}

	// Short X-PAD always occupies the 4 bytes immediately ahead of
	// F-PAD. Variable-size X-PAD has no independently signaled length
	// in this implementation, so it's taken to span everything ahead
	// of F-PAD -- the X-PAD content-indicator header itself carries
	// the true sub-field boundaries, and splitXPAD stops consuming
	// once those run out.
	end := len(au) - 2
	start := 0
	if fpad.XPADIndicator == xpadShort && end-4 > 0 {
		start = end - 4
	}
	xpad := au[start:end]

	for appType, segment := range splitXPAD(fpad.XPADIndicator, xpad) {
		switch appType {
		case appTypeDynamicLabel:
			p.Label.Feed(segment)
		case appTypeMOTDataGroup:
			p.MOT.Feed(segment)
		}
	}
}
