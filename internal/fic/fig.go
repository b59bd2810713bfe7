package fic

// parseFIB scans a 30-byte FIB payload as a stream of FIG headers
// [type:3 | length:5] until a 0xFF delimiter or length exhaustion, per
// spec.md §4.2. Any length overrun aborts the current FIG and the
// remainder of the FIB is skipped, matching the spec's "failure
// behaviour" paragraph.
func (p *Processor) parseFIB(fib []byte) {
	pos := 0
	for pos < len(fib) {
		header := fib[pos]
		if header == 0xFF {
			return // end-of-FIB delimiter
		}
		figType := header >> 5
		length := int(header & 0x1F)
		pos++

		if pos+length > len(fib) {
			p.softError("FIG length overrun")
			return
		}
		body := fib[pos : pos+length]
		pos += length

		switch figType {
		case 0:
			p.parseFIG0(body)
		case 1:
			p.parseFIG1(body)
		case 2:
			p.parseFIG2(body)
		case 6:
			// Conditional access: parsed structurally by no-op here;
			// spec.md §4.2 says type 6 "is parsed but not acted on."
		case 7:
			// End-of-FIG marker within the FIB; nothing else to do.
			return
		default:
			// Unhandled FIG type: skip silently (already consumed by
			// the length field above).
		}
	}
}
