package fic

import (
	"encoding/binary"

	"github.com/dabreceiver/dabplus/internal/charset"
	"github.com/dabreceiver/dabplus/internal/ensembledb"
)

// parseFIG1 parses FIG type 1 (short, 16-byte labels). The entity
// identifier's width and meaning depends on the field's own
// interpretation byte (charset high bit doubles as OE for ensemble
// labels vs. service labels), per spec.md §4.2.
func (p *Processor) parseFIG1(body []byte) {
	if len(body) < 18 {
		p.softError("FIG 1 too short")
		return
	}
	header := body[0]
	charsetID := header >> 4
	extension := header & 0x07

	labelBytes := body[len(body)-18 : len(body)-2]
	label, err := charset.DecodeLabel(labelBytes, charsetID)
	if err != nil {
		p.softError("label charset decode failed")
		return
	}

	idBytes := body[1 : len(body)-18]

	switch extension {
	case 0: // ensemble label
		if len(idBytes) < 2 {
			return
		}
		eid := binary.BigEndian.Uint16(idBytes[0:2])
		countryID := uint8(eid >> 12)
		ensembleRef := eid & 0x0FFF
		e, err := p.repo.GetEnsemble(countryID, ensembleRef)
		if err != nil {
			e = &ensembledb.Ensemble{CountryID: countryID, EnsembleReference: ensembleRef}
		}
		e.Label = label
		e.Charset = charsetID
		p.repo.UpsertEnsemble(e)
	case 1: // programme service label
		if len(idBytes) < 2 {
			return
		}
		sid := binary.BigEndian.Uint16(idBytes[0:2])
		countryID := uint8(sid >> 12)
		serviceRef := uint32(sid & 0x0FFF)
		s, err := p.repo.GetService(countryID, serviceRef)
		if err != nil {
			s = &ensembledb.Service{CountryID: countryID, ServiceReference: serviceRef}
		}
		s.Label = label
		s.Charset = charsetID
		p.repo.UpsertService(s)
	default:
		// Service component and data service labels (extensions 4/5)
		// are acknowledged but not separately modelled; the owning
		// service's label already covers the common UI case.
	}
}

// fig2LabelKey identifies one FIG 2 segmented label's owning entity.
type fig2LabelKey struct {
	extension uint8
	countryID uint8
	ref       uint32
}

// fig2LabelState accumulates FIG 2 segments for one entity until a new
// toggle's segment 0 arrives, at which point the previous toggle's
// buffer is taken as complete.
type fig2LabelState struct {
	haveToggle bool
	toggle     bool
	segments   map[uint8][]byte
}

// parseFIG2 parses FIG type 2 (segmented labels up to 32 characters).
// Its header is [toggle:1|segment_index:3|rfu:1|extension:3], distinct
// from FIG 1's [charset:4|rfu:1|extension:3] -- the two FIG types
// share extension numbering (0=ensemble label, 1=programme service
// label) but not header framing, and FIG 2 carries one label SEGMENT
// per occurrence rather than FIG 1's whole fixed 16-byte label.
//
// original_source's ProcessFIG_Type_2 only extracts these header
// fields and never reassembles segments (it has no downstream logic
// at all), so the segment reassembly below is this receiver's own
// design: segments accumulate per (extension, entity id), keyed
// additionally by toggle bit so a toggle flip starts a fresh label;
// a gap in segment indices drops the in-progress buffer rather than
// splicing mismatched segments together, the same policy
// internal/pad/label.go's LabelAssembler uses for dynamic labels.
func (p *Processor) parseFIG2(body []byte) {
	if len(body) < 1 {
		return
	}
	header := body[0]
	toggle := header&0x80 != 0
	segmentIndex := (header >> 4) & 0x07
	extension := header & 0x07
	rest := body[1:]

	var countryID uint8
	var ref uint32
	switch extension {
	case 0, 1: // ensemble label, programme service label
		if len(rest) < 2 {
			return
		}
		id := binary.BigEndian.Uint16(rest[0:2])
		countryID = uint8(id >> 12)
		ref = uint32(id & 0x0FFF)
		rest = rest[2:]
	default:
		// Service component, data service, and X-PAD app segmented
		// labels (extensions 3/4/6) aren't modelled; the owning entity's
		// label already covers the common UI case.
		return
	}

	key := fig2LabelKey{extension: extension, countryID: countryID, ref: ref}
	st := p.fig2Labels[key]
	if st == nil {
		st = &fig2LabelState{segments: make(map[uint8][]byte)}
		p.fig2Labels[key] = st
	}

	if st.haveToggle && toggle != st.toggle && segmentIndex == 0 {
		p.completeFIG2Label(extension, countryID, ref, st.segments)
		st.segments = make(map[uint8][]byte)
	}
	st.haveToggle = true
	st.toggle = toggle
	st.segments[segmentIndex] = append([]byte{}, rest...)
}

// completeFIG2Label concatenates segments 0..max in order and upserts
// the decoded label onto the owning ensemble or service. FIG 2's
// header carries no charset bits (unlike FIG 1's), so segments decode
// as EBU Latin (charset id 0) by default.
func (p *Processor) completeFIG2Label(extension, countryID uint8, ref uint32, segments map[uint8][]byte) {
	var maxIdx uint8
	for idx := range segments {
		if idx > maxIdx {
			maxIdx = idx
		}
	}
	var buf []byte
	for i := uint8(0); i <= maxIdx; i++ {
		seg, ok := segments[i]
		if !ok {
			return
		}
		buf = append(buf, seg...)
	}

	const defaultCharsetID = 0
	label, err := charset.DecodeLabel(buf, defaultCharsetID)
	if err != nil {
		return
	}

	switch extension {
	case 0:
		e, err := p.repo.GetEnsemble(countryID, uint16(ref))
		if err != nil {
			e = &ensembledb.Ensemble{CountryID: countryID, EnsembleReference: uint16(ref)}
		}
		e.Label = label
		p.repo.UpsertEnsemble(e)
	case 1:
		s, err := p.repo.GetService(countryID, ref)
		if err != nil {
			s = &ensembledb.Service{CountryID: countryID, ServiceReference: ref}
		}
		s.Label = label
		p.repo.UpsertService(s)
	}
}
