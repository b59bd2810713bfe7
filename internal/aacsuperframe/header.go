package aacsuperframe

// headerLength is the fixed byte width of the superframe header block
// the fire code protects.
const headerLength = 5

// Header is the DAB+ superframe header, spec.md §3/§4.4.
type Header struct {
	DACRate             bool // true = 48 kHz, false = 32 kHz
	SBRFlag             bool
	AACChannelMode      bool // true = stereo
	PSFlag              bool
	MPEGSurroundConfig  uint8
	NumAUs              int
}

var numAUsTable = [4]int{2, 3, 4, 6}

// parseHeader decodes the 5-byte superframe header.
func parseHeader(b []byte) Header {
	first := b[0]
	return Header{
		DACRate:            first&0x80 != 0,
		SBRFlag:            first&0x40 != 0,
		AACChannelMode:     first&0x20 != 0,
		PSFlag:             first&0x10 != 0,
		MPEGSurroundConfig: (first >> 1) & 0x07,
		NumAUs:             numAUsTable[b[1]&0x03],
	}
}

// Equal reports whether two headers describe the same audio
// configuration, used to detect the "on any change" republish
// condition of spec.md §4.4.
func (h Header) Equal(o Header) bool {
	return h == o
}
