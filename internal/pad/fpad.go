// Package pad extracts Programme-Associated Data carried in each AAC
// access unit's trailing F-PAD/X-PAD bytes (spec.md §4.5): dynamic
// label segments and MOT data-group carrier segments.
//
// The reassembly shape -- frame-indexed offsets accumulating into a
// running buffer until a completion marker arrives, then dispatching
// by content type -- is grounded on internal/wiresx/wiresx.go's
// WiresX.Process, generalized from YSF's fixed fn/ft frame counters to
// X-PAD's toggle-bit/segment-index/last-segment framing.
package pad

// FPAD is the 2-byte fixed trailer every AU carries.
type FPAD struct {
	XPADIndicator   uint8 // 0=none, 1=short X-PAD, 2=variable-size X-PAD
	ContentPresent  bool
}

// ParseFPAD decodes the 2 trailing F-PAD bytes of an access unit.
func ParseFPAD(b [2]byte) FPAD {
	return FPAD{
		XPADIndicator:  b[0] & 0x03,
		ContentPresent: b[1]&0x02 != 0,
	}
}

const (
	xpadNone     = 0
	xpadShort    = 1
	xpadVariable = 2
)

// xpadHeader is one content-indicator entry from the X-PAD header,
// pointing at a contiguous run of bytes in the X-PAD field.
type xpadHeader struct {
	appType byte
	length  int
}

// splitXPAD walks the short/variable-size X-PAD header's content
// indicators and slices the X-PAD payload into per-application-type
// byte ranges, in the order they appear (spec.md §4.5: "sub-fields
// announced by the content indicators").
func splitXPAD(indicator uint8, xpad []byte) map[byte][]byte {
	if indicator == xpadNone || len(xpad) == 0 {
		return nil
	}

	var headers []xpadHeader
	var headerBytes int
	if indicator == xpadShort {
		// Short X-PAD: a single fixed 4-byte application-type-0 field.
		headers = []xpadHeader{{appType: 0, length: 4}}
	} else {
		// Variable-size X-PAD: one content-indicator byte per
		// sub-field, [app_type:5|length:3] where length is in 4-byte
		// steps, terminated by app_type 0 (end marker) or running out
		// of header bytes.
		for i := 0; i < len(xpad); i++ {
			ind := xpad[i]
			appType := (ind >> 3) & 0x1F
			lenSteps := int(ind & 0x07)
			headerBytes = i + 1
			if appType == 0 {
				break
			}
			headers = append(headers, xpadHeader{appType: appType, length: (lenSteps + 1) * 4})
		}
	}

	out := make(map[byte][]byte, len(headers))
	offset := headerBytes
	for _, h := range headers {
		if offset+h.length > len(xpad) {
			break
		}
		out[h.appType] = xpad[offset : offset+h.length]
		offset += h.length
	}
	return out
}
