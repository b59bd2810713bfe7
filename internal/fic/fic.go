// Package fic implements the Fast Information Channel decode pipeline
// and FIG parser described in spec.md §4.1/§4.2: Viterbi decoding of the
// FIC's terminated convolutional code, energy-dispersal descrambling,
// per-FIB CRC validation, and dispatch of each FIG into ensembledb
// mutations.
//
// The three-stage Viterbi composition (PI_16 over the bulk of the FIC,
// PI_15 over its tail, PI_X over the 24-symbol trellis termination) is
// grounded on spec.md §4.1's description of the reference decoder's call
// sequence; the FIG header scan loop is grounded on the length-prefixed
// field scanning style of other_examples/dbehnke-dmr-nexus__fich.go and
// internal/protocol/dmr_data.go's explicit bit-masking accessors,
// generalized from those fixed-width frame formats to FIC's
// variable-length, self-delimited FIG stream.
package fic

import (
	"log"

	"github.com/dabreceiver/dabplus/internal/bitio"
	"github.com/dabreceiver/dabplus/internal/crc16"
	"github.com/dabreceiver/dabplus/internal/ensembledb"
	"github.com/dabreceiver/dabplus/internal/scramble"
	"github.com/dabreceiver/dabplus/internal/viterbi"
)

const (
	fibLength        = 32 // bytes, including the 2-byte CRC
	fibPayloadLength = 30
	fibsPerFICFrame  = 3
	bulkBits         = 21 * 128
	tailBits         = 3 * 128
	terminationSyms  = 24
	payloadBits      = fibsPerFICFrame * fibLength * 8 // 768
	totalDecodedBits = payloadBits + 6                 // + 6 flush bits
)

// Processor owns the FIC Viterbi decoder and dispatches parsed FIGs into
// an ensembledb.Repository.
type Processor struct {
	dec  *viterbi.Decoder
	repo *ensembledb.Repository
	log  *log.Logger

	// reconfigCount is the last-seen FIG 0/7 configuration counter;
	// spec.md §4.2: "re-parsing the FIC after a reconfiguration-count
	// change ... must re-seed any pipelines whose subchannel
	// definitions changed."
	reconfigCount int
	haveReconfig  bool

	// fig2Labels holds in-progress FIG type 2 segmented-label
	// reassembly state, keyed per entity; see parseFIG2.
	fig2Labels map[fig2LabelKey]*fig2LabelState

	OnReconfigure func(count int)
	OnSoftError   func(reason string)
	OnDateTime    func(DateTime)
}

// New builds a FIC processor writing into repo.
func New(repo *ensembledb.Repository, l *log.Logger) *Processor {
	return &Processor{
		dec:        viterbi.NewDecoder(totalDecodedBits),
		repo:       repo,
		log:        l,
		fig2Labels: make(map[fig2LabelKey]*fig2LabelState),
	}
}

// ProcessFrame decodes one FIC frame's punctured soft symbols (the
// slice taken from the demodulated frame at the FIC's bit range) into
// FIBs and dispatches their FIGs.
func (p *Processor) ProcessFrame(punctured []int8) {
	p.dec.Reset(0)

	remaining := punctured
	consumed := p.dec.Update(remaining, viterbi.PI(16), bulkBits)
	remaining = remaining[consumed:]
	consumed = p.dec.Update(remaining, viterbi.PI(15), tailBits)
	remaining = remaining[consumed:]
	p.dec.Update(remaining, viterbi.PIX, terminationSyms)

	out := make([]byte, (totalDecodedBits+7)/8)
	p.dec.Chainback(out, totalDecodedBits, 0)

	payload := make([]byte, payloadBits/8)
	for i := 0; i < payloadBits; i++ {
		bitio.WriteBit(payload, uint(i), bitio.ReadBit(out, uint(i)))
	}

	gen := scramble.NewGenerator()
	descrambled := gen.Apply(payload)

	for i := 0; i < fibsPerFICFrame; i++ {
		fib := descrambled[i*fibLength : (i+1)*fibLength]
		if !crc16.Check(fib) {
			p.softError("FIB CRC mismatch")
			continue
		}
		p.parseFIB(fib[:fibPayloadLength])
	}
}

func (p *Processor) softError(reason string) {
	if p.OnSoftError != nil {
		p.OnSoftError(reason)
	}
}
