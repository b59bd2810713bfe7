// Package dabparams holds the immutable per-transmission-mode constants
// (spec.md §3: "DAB parameters ... Immutable once a transmission mode is
// chosen"). Layout mirrors the plain const-block style of the teacher's
// internal/protocol/dmr_defines.go and ysf_defines.go.
package dabparams

// Mode identifies one of the four ETSI DAB transmission modes.
type Mode uint8

const (
	ModeI Mode = iota + 1
	ModeII
	ModeIII
	ModeIV
)

func (m Mode) String() string {
	switch m {
	case ModeI:
		return "I"
	case ModeII:
		return "II"
	case ModeIII:
		return "III"
	case ModeIV:
		return "IV"
	default:
		return "unknown"
	}
}

// Parameters holds the mode-derived constants the rest of the decoder
// pipeline is built against.
type Parameters struct {
	Mode Mode

	// NumSymbols is the number of OFDM symbols per transmission frame (L).
	NumSymbols int
	// NumCarriers is the number of active carriers (K).
	NumCarriers int
	// NbCifs is the number of CIFs per transmission frame.
	NbCifs int
	// NbCifBits is the number of bits per CIF.
	NbCifBits int
	// NbMscBits is the total MSC bit count per transmission frame.
	NbMscBits int
	// NbFicBits is the total FIC bit count per transmission frame.
	NbFicBits int
	// NbFibsPerFrame is the number of 32-byte FIBs per transmission frame.
	NbFibsPerFrame int
	// FrameDurationMs is the nominal transmission frame duration.
	FrameDurationMs int
}

// For derives the fixed parameter set for the given transmission mode.
// Values follow ETSI EN 300 401 Table 1/2.
func For(mode Mode) (Parameters, bool) {
	switch mode {
	case ModeI:
		return Parameters{
			Mode: mode, NumSymbols: 76, NumCarriers: 1536,
			NbCifs: 4, NbCifBits: 55296, NbMscBits: 4 * 55296,
			NbFicBits: 3 * 2304, NbFibsPerFrame: 12, FrameDurationMs: 96,
		}, true
	case ModeII:
		return Parameters{
			Mode: mode, NumSymbols: 76, NumCarriers: 384,
			NbCifs: 1, NbCifBits: 55296, NbMscBits: 1 * 55296,
			NbFicBits: 3 * 2304, NbFibsPerFrame: 3, FrameDurationMs: 24,
		}, true
	case ModeIII:
		return Parameters{
			Mode: mode, NumSymbols: 153, NumCarriers: 192,
			NbCifs: 1, NbCifBits: 55296, NbMscBits: 1 * 55296,
			NbFicBits: 4 * 2304, NbFibsPerFrame: 4, FrameDurationMs: 24,
		}, true
	case ModeIV:
		return Parameters{
			Mode: mode, NumSymbols: 76, NumCarriers: 768,
			NbCifs: 2, NbCifBits: 55296, NbMscBits: 2 * 55296,
			NbFicBits: 3 * 2304, NbFibsPerFrame: 6, FrameDurationMs: 48,
		}, true
	default:
		return Parameters{}, false
	}
}

// CifCapacityUnits is the number of 64-bit capacity units in one CIF,
// used by subchannel descriptors to express start_address and length.
const CifCapacityUnits = 864

// FIBLength is the fixed size, in bytes, of one Fast Information Block.
const FIBLength = 32

// FIBPayloadLength is the FIB length minus its trailing 16-bit CRC.
const FIBPayloadLength = FIBLength - 2
