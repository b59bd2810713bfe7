package fic

import (
	"encoding/binary"

	"github.com/dabreceiver/dabplus/internal/ensembledb"
)

// parseFIG0 dispatches a FIG type 0 (MCI/SI) body by its 5-bit
// extension field, per spec.md §4.2. Extensions not in this list are
// silently skipped -- the caller already advanced past the full FIG
// body using its length field.
func (p *Processor) parseFIG0(body []byte) {
	if len(body) == 0 {
		return
	}
	header := body[0]
	oe := header&0x40 != 0 // other-ensemble flag
	pd := header&0x20 != 0 // programme/data flag
	extension := header & 0x1F
	rest := body[1:]

	switch extension {
	case 0:
		p.fig0Ext0Ensemble(rest)
	case 1:
		p.fig0Ext1BasicSubchannels(rest)
	case 2:
		p.fig0Ext2ServiceComponents(rest, pd)
	case 3:
		p.fig0Ext3PacketComponents(rest)
	case 4:
		p.fig0Ext4StreamWithCA(rest)
	case 6:
		// Service linking: acknowledged, not modelled in the schema.
	case 7:
		p.fig0Ext7ConfigInfo(rest)
	case 8:
		p.fig0Ext8ServiceComponentGlobalDef(rest, pd)
	case 9:
		p.fig0Ext9CountryLTO(rest)
	case 10:
		p.fig0Ext10DateTime(rest)
	case 13:
		p.fig0Ext13UserApplication(rest, pd)
	case 14:
		// FEC for packet mode subchannels: acknowledged, not modelled.
	case 17:
		p.fig0Ext17ProgrammeType(rest)
	case 21:
		p.fig0Ext21Frequencies(rest)
	case 24:
		p.fig0Ext24OtherEnsembleServices(rest)
	default:
		// Unimplemented extension; spec.md §4.2 says these are silently
		// skipped.
	}
	_ = oe
}

// fig0Ext0Ensemble parses FIG 0/0: EId (country_id:4, ensemble_ref:12),
// CIF count, alarm and change flags.
func (p *Processor) fig0Ext0Ensemble(body []byte) {
	if len(body) < 4 {
		p.softError("FIG 0/0 too short")
		return
	}
	eid := binary.BigEndian.Uint16(body[0:2])
	countryID := uint8(eid >> 12)
	ensembleRef := eid & 0x0FFF

	cifHi := body[2]
	change := cifHi >> 6
	alarm := cifHi&0x20 != 0
	// cif_upper is a mod-20 counter, cif_lower a mod-250 counter; kept
	// as the two separate fields fic_processor.cpp::ProcessFIG_Type_0_Ext_0
	// logs them as, rather than packed into one combined count.
	cifUpper := cifHi & 0x1F
	cifLower := body[3]

	e, err := p.repo.GetEnsemble(countryID, ensembleRef)
	if err != nil {
		e = &ensembledb.Ensemble{CountryID: countryID, EnsembleReference: ensembleRef}
	}
	e.CIFUpper = cifUpper
	e.CIFLower = cifLower
	_ = change
	_ = alarm
	if err := p.repo.UpsertEnsemble(e); err != nil {
		p.softError("ensemble upsert failed")
	}
}

// fig0Ext1BasicSubchannels parses FIG 0/1 repeated subchannel entries:
// subchannel_id:6, start_address:10, then a short-form (table index) or
// long-form (option/level/size) protection descriptor.
func (p *Processor) fig0Ext1BasicSubchannels(body []byte) {
	pos := 0
	for pos+3 <= len(body) {
		sid := body[pos] >> 2
		start := (uint16(body[pos]&0x03) << 8) | uint16(body[pos+1])
		protByte := body[pos+2]
		pos += 3

		sd := &ensembledb.SubchannelDescriptor{SubchannelID: sid, StartAddress: start}
		shortLong := protByte & 0x80
		if shortLong == 0 {
			sd.ProtShortForm = true
			sd.ProtTableIdx = protByte & 0x3F
			if pos >= len(body) {
				break
			}
			sd.Length = uint16(body[pos])
			pos++
		} else {
			sd.EEP = protByte&0x40 != 0
			sd.ProtOption = (protByte >> 3) & 0x07
			sd.ProtLevel = protByte & 0x03
			if pos+1 >= len(body) {
				break
			}
			size := (uint16(body[pos]) << 8) | uint16(body[pos+1])
			pos += 2
			sd.Length = size & 0x03FF
		}

		if _, err := p.repo.UpsertSubchannel(sd); err != nil {
			p.softError("subchannel upsert failed")
		}
	}
}

// fig0Ext2ServiceComponents parses FIG 0/2: SId (16-bit short form or
// 32-bit long form per pd), a component count, and per-component
// transport descriptors.
func (p *Processor) fig0Ext2ServiceComponents(body []byte, longForm bool) {
	pos := 0
	for pos < len(body) {
		var countryID uint8
		var serviceRef uint32
		if longForm {
			if pos+4 > len(body) {
				return
			}
			sid := binary.BigEndian.Uint32(body[pos : pos+4])
			countryID = uint8(sid >> 24 & 0xF)
			serviceRef = sid & 0x000FFFFF
			pos += 4
		} else {
			if pos+2 > len(body) {
				return
			}
			sid := binary.BigEndian.Uint16(body[pos : pos+2])
			countryID = uint8(sid >> 12)
			serviceRef = uint32(sid & 0x0FFF)
			pos += 2
		}
		if pos >= len(body) {
			return
		}
		numComponents := int(body[pos] & 0x0F)
		pos++

		for c := 0; c < numComponents && pos+1 < len(body); c++ {
			tmid := body[pos] >> 6
			comp := &ensembledb.ServiceComponent{
				ServiceCountryID: countryID,
				ServiceReference: serviceRef,
				SCIdS:            body[pos] & 0x0F,
				Primary:          body[pos+1]&0x02 != 0,
				CAFlag:           body[pos+1]&0x01 != 0,
			}
			switch tmid {
			case 0:
				comp.TransportMode = ensembledb.TransportStreamAudio
				comp.SubchannelID = body[pos+1] >> 2
			case 1:
				comp.TransportMode = ensembledb.TransportStreamData
				comp.SubchannelID = body[pos+1] >> 2
			default:
				comp.TransportMode = ensembledb.TransportPacketData
				comp.SCId = uint16(body[pos]&0x0F)<<8 | uint16(body[pos+1])
			}
			pos += 2
			if err := p.repo.UpsertServiceComponent(comp); err != nil {
				p.softError("service component upsert failed")
			}
		}
	}
}

// fig0Ext3PacketComponents parses FIG 0/3: packet-mode service
// component definitions keyed by SCId.
func (p *Processor) fig0Ext3PacketComponents(body []byte) {
	pos := 0
	for pos+5 <= len(body) {
		scid := binary.BigEndian.Uint16(body[pos:pos+2]) >> 4
		caFlag := body[pos+1]&0x08 != 0
		subchannelID := body[pos+2] >> 2
		pos += 5

		comp := &ensembledb.ServiceComponent{
			TransportMode: ensembledb.TransportPacketData,
			SCId:          scid,
			CAFlag:        caFlag,
			SubchannelID:  subchannelID,
		}
		if err := p.repo.UpsertServiceComponent(comp); err != nil {
			p.softError("packet component upsert failed")
		}
	}
}

// fig0Ext4StreamWithCA parses FIG 0/4, a stream-mode component variant
// that additionally carries a conditional-access identifier, which is
// recorded as the component's CAFlag.
func (p *Processor) fig0Ext4StreamWithCA(body []byte) {
	for pos := 0; pos+2 <= len(body); pos += 2 {
		comp := &ensembledb.ServiceComponent{
			SubchannelID: body[pos] & 0x3F,
			CAFlag:       true,
		}
		if err := p.repo.UpsertServiceComponent(comp); err != nil {
			p.softError("CA component upsert failed")
		}
	}
}

// fig0Ext7ConfigInfo parses FIG 0/7's configuration counter; a change
// in this counter means subchannel definitions may have been rewritten
// and dependent pipelines must be rebuilt (spec.md §4.2).
func (p *Processor) fig0Ext7ConfigInfo(body []byte) {
	if len(body) < 2 {
		return
	}
	count := int(body[0]&0x1F)<<8 | int(body[1])
	if !p.haveReconfig || count != p.reconfigCount {
		p.reconfigCount = count
		p.haveReconfig = true
		if p.OnReconfigure != nil {
			p.OnReconfigure(count)
		}
	}
}

// fig0Ext8ServiceComponentGlobalDef parses FIG 0/8's SId and SCIdS and
// makes sure a component row exists for that (service, SCIdS) pair, so
// FIG 0/13's MOT/slideshow user application lookup can find it. The
// global SCId / subchannel field that follows the SCIdS byte is not
// decoded.
func (p *Processor) fig0Ext8ServiceComponentGlobalDef(body []byte, longForm bool) {
	minLen := 3
	if longForm {
		minLen = 5
	}
	if len(body) < minLen {
		return
	}
	var countryID uint8
	var serviceRef uint32
	pos := 0
	if longForm {
		sid := binary.BigEndian.Uint32(body[0:4])
		countryID = uint8(sid >> 24 & 0xF)
		serviceRef = sid & 0x000FFFFF
		pos = 4
	} else {
		sid := binary.BigEndian.Uint16(body[0:2])
		countryID = uint8(sid >> 12)
		serviceRef = uint32(sid & 0x0FFF)
		pos = 2
	}
	if pos >= len(body) {
		return
	}
	scids := body[pos] & 0x0F

	comp, err := p.repo.ComponentBySCIdS(countryID, serviceRef, scids)
	if err != nil {
		comp = &ensembledb.ServiceComponent{ServiceCountryID: countryID, ServiceReference: serviceRef, SCIdS: scids}
	}
	if err := p.repo.UpsertServiceComponent(comp); err != nil {
		p.softError("component global def upsert failed")
	}
}

// fig0Ext9CountryLTO parses FIG 0/9: extended country code and local
// time offset, stored on the ensemble.
func (p *Processor) fig0Ext9CountryLTO(body []byte) {
	if len(body) < 3 {
		return
	}
	ltoByte := body[0]
	ensembleECC := body[1]
	lto := int8(ltoByte & 0x1F)
	if ltoByte&0x20 != 0 {
		lto = -lto
	}

	// FIG 0/9 doesn't repeat the EId; apply to every known ensemble row
	// (in practice there is exactly one per tuned frequency).
	snap, err := p.repo.TakeSnapshot()
	if err != nil || len(snap.Ensembles) == 0 {
		return
	}
	for i := range snap.Ensembles {
		e := snap.Ensembles[i]
		e.ECC = ensembleECC
		e.LocalTimeOffsetQH = lto
		p.repo.UpsertEnsemble(&e)
	}
}

// DateTime is the FIG 0/10 date/time payload: a 17-bit modified Julian
// date plus hours/minutes, with UTC seconds/milliseconds present only
// when UTC is set.
type DateTime struct {
	MJD          uint32
	LSI          bool
	UTC          bool
	Hours        uint8
	Minutes      uint8
	Seconds      uint8
	Milliseconds uint16
}

// fig0Ext10DateTime parses FIG 0/10: modified Julian date, hours,
// minutes, and (when the UTC flag is set) seconds/milliseconds.
//
// The MJD's low bits are read from the top two bits of body[2] without
// a down-shift, matching fic_processor.cpp::ProcessFIG_Type_0_Ext_10
// literally -- ported as the original decoder computes it, not as a
// from-scratch 17-bit bitstream reconstruction.
func (p *Processor) fig0Ext10DateTime(body []byte) {
	const nbMinBytes = 4
	if len(body) < nbMinBytes {
		p.softError("FIG 0/10 too short")
		return
	}

	mjd := uint32(body[0]&0x7F)<<10 | uint32(body[1])<<2 | uint32(body[2]&0xC0)
	lsi := body[2]&0x20 != 0
	utc := body[2]&0x08 != 0

	nbActualBytes := 4
	if utc {
		nbActualBytes = 6
	}
	if len(body) < nbActualBytes {
		p.softError("FIG 0/10 too short for UTC form")
		return
	}

	dt := DateTime{
		MJD:     mjd,
		LSI:     lsi,
		UTC:     utc,
		Hours:   (body[2]&0x07)<<2 | (body[3]&0xC0)>>6,
		Minutes: body[3] & 0x3F,
	}
	if utc {
		dt.Seconds = (body[4] & 0xFC) >> 2
		dt.Milliseconds = uint16(body[4]&0x03)<<8 | uint16(body[5])
	}

	if p.OnDateTime != nil {
		p.OnDateTime(dt)
	}
}

// fig0Ext13UserApplication parses FIG 0/13: one or more service-id
// blocks, each an SId followed by a [SCIdS:4|nb_user_apps:4]
// descriptor byte and exactly nb_user_apps application entries
// (2-byte header + variable XPAD/user-data tail) directly after it.
// MOT slideshow (application type 0x002) is the only application type
// this system acts on; other application data is acknowledged but
// skipped, matching fic_processor.cpp::ProcessFIG_Type_0_Ext_13's own
// "TODO: process this app data somehow".
func (p *Processor) fig0Ext13UserApplication(body []byte, longForm bool) {
	const motSlideshowAppType = 0x002
	const nbAppHeaderBytes = 2

	nbServiceIDBytes := 2
	if longForm {
		nbServiceIDBytes = 4
	}
	nbHeaderBytes := nbServiceIDBytes + 1

	curr := 0
	for curr < len(body) {
		remain := len(body) - curr
		if nbHeaderBytes > remain {
			return
		}
		entity := body[curr:]

		var countryID uint8
		var serviceRef uint32
		if longForm {
			sid := binary.BigEndian.Uint32(entity[0:4])
			countryID = uint8(sid >> 24 & 0xF)
			serviceRef = sid & 0x000FFFFF
		} else {
			sid := binary.BigEndian.Uint16(entity[0:2])
			countryID = uint8(sid >> 12)
			serviceRef = uint32(sid & 0x0FFF)
		}

		descriptor := entity[nbServiceIDBytes]
		scids := descriptor >> 4
		numApps := int(descriptor & 0x0F)

		apps := entity[nbHeaderBytes:]
		appsPos := 0

		for a := 0; a < numApps; a++ {
			appRemain := remain - appsPos
			if nbAppHeaderBytes > appRemain || appsPos+nbAppHeaderBytes > len(apps) {
				return
			}
			app := apps[appsPos:]
			appType := uint16(app[0])<<3 | uint16(app[1]&0xE0)>>5
			appDataLen := int(app[1] & 0x1F)
			appTotal := nbAppHeaderBytes + appDataLen
			if appTotal > appRemain || appsPos+appTotal > len(apps) {
				return
			}

			if appType == motSlideshowAppType {
				comp, err := p.repo.ComponentBySCIdS(countryID, serviceRef, scids)
				if err == nil {
					comp.IsMOTSlideshow = true
					if err := p.repo.UpsertServiceComponent(comp); err != nil {
						p.softError("MOT slideshow component upsert failed")
					}
				}
			}

			appsPos += appTotal
		}

		curr += nbHeaderBytes + appsPos
	}
}

// fig0Ext17ProgrammeType parses FIG 0/17: service programme type and,
// when the language flag (0x02 of the flags byte) is set, the language
// byte that precedes it. The caption flag is not examined, so a caption
// byte is neither read nor skipped.
func (p *Processor) fig0Ext17ProgrammeType(body []byte) {
	if len(body) < 4 {
		return
	}
	sid := binary.BigEndian.Uint16(body[0:2])
	countryID := uint8(sid >> 12)
	serviceRef := uint32(sid & 0x0FFF)
	flagsByte := body[2]
	hasLanguage := flagsByte&0x02 != 0
	pos := 3
	var language uint8
	if hasLanguage && pos < len(body) {
		language = body[pos]
		pos++
	}
	if pos >= len(body) {
		return
	}
	programmeType := body[pos] & 0x3F

	svc, err := p.repo.GetService(countryID, serviceRef)
	if err != nil {
		svc = &ensembledb.Service{CountryID: countryID, ServiceReference: serviceRef}
	}
	svc.ProgrammeType = programmeType
	svc.Language = language
	if err := p.repo.UpsertService(svc); err != nil {
		p.softError("service programme type upsert failed")
	}
}

// fig0Ext21Frequencies handles FIG 0/21: alternate frequency
// information for the ensemble (other transmission networks carrying
// the same ensemble, or related ensembles). It only checks that the
// body holds at least 3 bytes; the frequency information blocks (the
// RM-dependent formats 0/6/8/14) are not decoded, nothing is stored in
// ensembledb, and no observer is notified.
func (p *Processor) fig0Ext21Frequencies(body []byte) {
	if len(body) < 3 {
		return
	}
}

// fig0Ext24OtherEnsembleServices parses FIG 0/24: services carried on
// another ensemble, recorded so OE-linked services can be indexed
// alongside the primary ensemble's own service list.
func (p *Processor) fig0Ext24OtherEnsembleServices(body []byte) {
	pos := 0
	for pos+4 <= len(body) {
		sid := binary.BigEndian.Uint16(body[pos : pos+2])
		countryID := uint8(sid >> 12)
		serviceRef := uint32(sid & 0x0FFF)
		numEnsembles := int(body[pos+2] & 0x1F)
		pos += 3

		svc, err := p.repo.GetService(countryID, serviceRef)
		if err != nil {
			svc = &ensembledb.Service{CountryID: countryID, ServiceReference: serviceRef}
			p.repo.UpsertService(svc)
		}
		pos += numEnsembles * 2
	}
}
