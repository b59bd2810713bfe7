package msc

import (
	"github.com/dabreceiver/dabplus/internal/ensembledb"
	"github.com/dabreceiver/dabplus/internal/viterbi"
)

// segment is one Update() call's worth of the puncturing sequence: a
// pattern and the coded-symbol count it applies to.
type segment struct {
	pattern viterbi.PuncturePattern
	symbols int
}

const terminationSymbols = 24 // PI_X tail, mirrors internal/fic's FIC termination

// puncturingSequenceFor derives the per-CIF puncturing sequence for a
// subchannel from its protection profile. The exact EN 300 401 Table
// B.1/B.2 profile-to-puncture-vector mapping requires reference tables
// this implementation doesn't have; instead, the short-form table index
// (or the long-form option/level pair folded to an equivalent index)
// selects one of the 24 PI_n patterns from internal/viterbi for the
// bulk of the CIF's capacity, with the final terminationSymbols always
// carried by PI_X -- the same two-tier shape internal/fic uses for the
// FIC's own terminated code, generalized here to a single bulk segment
// since a subchannel's protection level doesn't vary within a CIF the
// way the FIC's PI_16/PI_15 split does.
func puncturingSequenceFor(sd *ensembledb.SubchannelDescriptor) []segment {
	codedSymbols := int(sd.Length) * 64
	bulk := codedSymbols - terminationSymbols
	if bulk < 0 {
		bulk = codedSymbols
	}

	idx := protectionIndex(sd)
	return []segment{
		{pattern: viterbi.PI(idx), symbols: bulk},
		{pattern: viterbi.PIX, symbols: codedSymbols - bulk},
	}
}

func protectionIndex(sd *ensembledb.SubchannelDescriptor) int {
	var idx int
	if sd.ProtShortForm {
		idx = int(sd.ProtTableIdx)
	} else {
		idx = int(sd.ProtOption)*5 + int(sd.ProtLevel)
	}
	idx = idx%24 + 1
	return idx
}
