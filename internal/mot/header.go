package mot

import (
	"encoding/binary"

	"github.com/dabreceiver/dabplus/internal/charset"
)

// Header is the parsed MOT header: content-type, content-subtype,
// name, and trigger-time, per spec.md §4.6. Exact MOT extension
// parameter IDs aren't available to build against (no ETSI TS 101 756
// reference in this corpus), so only ContentName and TriggerTime are
// extracted; any other extension parameter is skipped over using its
// own declared length.
type Header struct {
	BodySize       uint32
	ContentType    uint8
	ContentSubType uint16
	Name           string
	HasTriggerTime bool
	TriggerTime    uint32
}

const (
	paramContentName = 0x0C
	paramTriggerTime = 0x04
)

// ParseHeader decodes a MOT header's core 7-byte field plus its
// extension parameters.
//
// Core layout: BodySize(28 bits) | HeaderSize(13 bits) |
// ContentType(6 bits) | ContentSubType(9 bits), packed MSB-first.
func ParseHeader(raw []byte) Header {
	var h Header
	if len(raw) < 7 {
		return h
	}

	core := uint64(raw[0])<<48 | uint64(raw[1])<<40 | uint64(raw[2])<<32 |
		uint64(raw[3])<<24 | uint64(raw[4])<<16 | uint64(raw[5])<<8 | uint64(raw[6])

	h.BodySize = uint32((core >> 28) & 0x0FFFFFFF)
	headerSize := int((core >> 15) & 0x1FFF)
	h.ContentType = uint8((core >> 9) & 0x3F)
	h.ContentSubType = uint16(core & 0x1FF)

	if headerSize <= 7 || headerSize > len(raw) {
		return h
	}
	parseExtensionParams(raw[7:headerSize], &h)
	return h
}

func parseExtensionParams(b []byte, h *Header) {
	pos := 0
	for pos < len(b) {
		ind := b[pos]
		pos++
		pli := (ind >> 6) & 0x03
		paramID := ind & 0x3F

		var dataLen int
		switch pli {
		case 0:
			dataLen = 0
		case 1:
			dataLen = 1
		case 2:
			dataLen = 2
		default: // 3: variable-length, next byte(s) give the length
			if pos >= len(b) {
				return
			}
			lenIndicator := b[pos]
			pos++
			dataLen = int(lenIndicator & 0x7F)
			if lenIndicator&0x80 != 0 {
				if pos >= len(b) {
					return
				}
				dataLen = (dataLen << 8) | int(b[pos])
				pos++
			}
		}
		if pos+dataLen > len(b) {
			return
		}
		data := b[pos : pos+dataLen]
		pos += dataLen

		switch paramID {
		case paramContentName:
			h.Name = decodeContentName(data)
		case paramTriggerTime:
			if len(data) >= 4 {
				h.HasTriggerTime = true
				h.TriggerTime = binary.BigEndian.Uint32(data)
			}
		}
	}
}

// decodeContentName strips the leading charset-indicator byte MOT
// content names carry (same 4-bit charset encoding as DAB labels).
func decodeContentName(data []byte) string {
	if len(data) < 1 {
		return ""
	}
	name, err := charset.DecodeLabel(data[1:], data[0]&0x0F)
	if err != nil {
		return ""
	}
	return name
}
