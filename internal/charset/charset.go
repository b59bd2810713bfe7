// Package charset converts DAB text fields (service labels, dynamic
// labels, MOT parameters) from their transmitted character set into
// UTF-8. Two charsets appear on air: EBU Latin-1 (a profile of
// ISO-8859-1 with a handful of substitutions in the control and
// upper-Latin ranges) and plain UTF-8, selected per spec.md §4.1 by the
// charset indicator of the FIG carrying the labelled field.
//
// The Transformer shape -- implementing transform.Transformer and
// wrapping it behind an encoding.Encoding -- is grounded on
// pd0mz-go-dmr/data_encoding.go's binaryEncoding/binaryCoder pair,
// generalized here from an identity pass-through to the byte-for-rune
// EBU table lookup DAB labels need.
package charset

import (
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// ebuTable maps each EBU Latin-1 byte value to its Unicode rune. The
// 0x20-0x7E range is plain ASCII; 0xA0-0xFF mostly follows ISO-8859-1
// with the EBU-specific substitutions from ETSI TS 101 756 Annex C
// (a few typographic marks, the Euro sign) applied over the identity
// mapping.
var ebuTable = buildEBUTable()

func buildEBUTable() [256]rune {
	var t [256]rune
	for i := 0; i < 256; i++ {
		t[i] = rune(i)
	}
	// EBU Annex C control-range substitutions over plain Latin-1.
	t[0x00] = 0x0000
	t[0x0A] = '\n'
	t[0x0B] = 0x000B
	t[0x0D] = '\n'
	t[0x1F] = ' '
	// Upper range deviations from ISO-8859-1: Euro sign and a handful
	// of typographic marks EBU Annex C assigns differently from Latin-1.
	t[0x80] = 'á'
	t[0xA6] = '―' // horizontal bar
	t[0xA9] = '©'
	t[0xAC] = '‘' // left single quote
	t[0xAD] = '’' // right single quote
	t[0xAF] = '…' // horizontal ellipsis
	t[0xBC] = '€' // euro sign
	return t
}

type ebuCoder struct{ transform.NopResetter }

// Transform decodes EBU Latin-1 bytes from src into UTF-8 bytes in dst.
func (ebuCoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for _, b := range src {
		r := ebuTable[b]
		encoded := make([]byte, 0, 4)
		encoded = appendRune(encoded, r)
		if len(dst)-nDst < len(encoded) {
			err = transform.ErrShortDst
			return
		}
		nDst += copy(dst[nDst:], encoded)
		nSrc++
	}
	return
}

func appendRune(buf []byte, r rune) []byte {
	if r < 0x80 {
		return append(buf, byte(r))
	}
	if r < 0x800 {
		return append(buf, byte(0xC0|r>>6), byte(0x80|r&0x3F))
	}
	if r < 0x10000 {
		return append(buf, byte(0xE0|r>>12), byte(0x80|(r>>6)&0x3F), byte(0x80|r&0x3F))
	}
	return append(buf, byte(0xF0|r>>18), byte(0x80|(r>>12)&0x3F), byte(0x80|(r>>6)&0x3F), byte(0x80|r&0x3F))
}

// EBULatin1 is the encoding.Encoding for EBU Latin-1 text fields.
var EBULatin1 encoding.Encoding = ebuEncoding{}

type ebuEncoding struct{}

func (ebuEncoding) NewDecoder() *encoding.Decoder {
	return &encoding.Decoder{Transformer: ebuCoder{}}
}

func (ebuEncoding) NewEncoder() *encoding.Encoder {
	panic("charset: EBU Latin-1 encoding is receive-only")
}

// Decode converts an EBU Latin-1 byte slice to a UTF-8 string.
func Decode(b []byte) (string, error) {
	out, err := EBULatin1.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// DAB label charset indicator values (EN 300 401 clause 5.2.2.1); FIG
// type 1/2 labels and dynamic label segments all carry one of these in
// their header, forwarded verbatim to OnLabelUpdate/OnDynamicLabel
// alongside the decoded text (spec.md §4.1/§5).
const (
	CharsetEBULatin1 = 0x0
	CharsetUTF8      = 0xF
)

// DecodeLabel decodes a label's raw bytes according to its charset
// indicator. Unrecognized indicators fall back to EBU Latin-1, the
// charset every DAB receiver must support.
func DecodeLabel(b []byte, charsetID byte) (string, error) {
	if charsetID == CharsetUTF8 {
		return string(b), nil
	}
	return Decode(b)
}
