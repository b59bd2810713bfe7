// Package msc implements the per-subchannel decode pipeline of
// spec.md §4.3: CIF slicing, Viterbi decoding, energy-dispersal
// descrambling, 16-branch time deinterleaving, and RS(204,188) outer
// correction, driving a byte stream into the AAC superframe processor.
//
// The Idle/Active lifecycle and byte-stream hand-off are grounded on
// the teacher's internal/network client pattern (timer-driven state,
// ring-buffered byte accumulation between protocol layers) --
// internal/network/timer.go's explicit running/stopped state and
// internal/network/ring_buffer.go's byte-at-a-time accumulator, adapted
// here from a UDP client's connect/idle states to a subchannel's
// Idle/Active states driven by Controls instead of network activity.
package msc

import (
	"log"

	"github.com/dabreceiver/dabplus/internal/deinterleave"
	"github.com/dabreceiver/dabplus/internal/ensembledb"
	"github.com/dabreceiver/dabplus/internal/reedsolomon"
	"github.com/dabreceiver/dabplus/internal/scramble"
	"github.com/dabreceiver/dabplus/internal/viterbi"
)

// State is a subchannel pipeline's lifecycle state.
type State int

const (
	Idle State = iota
	Active
)

// Pipeline decodes one subchannel's CIF slices into a subchannel byte
// stream.
type Pipeline struct {
	SubchannelID uint8
	Controls     Controls

	state       State
	descriptor  ensembledb.SubchannelDescriptor
	sequence    []segment
	dec         *viterbi.Decoder
	deinter     *deinterleave.Deinterleaver
	rs          *reedsolomon.Codec
	rsEnabled   bool
	decodedBits int

	log *log.Logger

	// OnBytes receives each RS-corrected 188-byte block (or, when RS is
	// disabled by the protection profile, the raw deinterleaved block)
	// in transmission order.
	OnBytes func(data []byte, rsError bool)
}

// NewPipeline builds a pipeline for the given subchannel descriptor.
func NewPipeline(sd ensembledb.SubchannelDescriptor, l *log.Logger) *Pipeline {
	p := &Pipeline{
		SubchannelID: sd.SubchannelID,
		descriptor:   sd,
		log:          l,
	}
	p.rebuild()
	return p
}

func (p *Pipeline) rebuild() {
	p.sequence = puncturingSequenceFor(&p.descriptor)
	p.decodedBits = int(p.descriptor.Length) * 64 / viterbi.Rate
	p.dec = viterbi.NewDecoder(p.decodedBits)

	frameLen := p.decodedBits / 8
	p.deinter = deinterleave.New(frameLen)

	// RS(204,188) applies to whole 204-byte blocks; a subchannel whose
	// per-CIF byte count isn't a clean multiple of 204 either doesn't
	// carry the outer code (EEP without RS) or spans multiple CIFs per
	// RS block -- this implementation applies RS per 204-byte block
	// within whatever the deinterleaver emits, skipping any short
	// trailing remainder.
	p.rsEnabled = frameLen >= 204
	if p.rsEnabled {
		p.rs = reedsolomon.NewMSCOuterCode()
	}
}

// Reconfigure replaces the subchannel descriptor, tearing down and
// rebuilding the pipeline per spec.md §4.3 ("on any subchannel
// descriptor mutation the pipeline is torn down and rebuilt").
func (p *Pipeline) Reconfigure(sd ensembledb.SubchannelDescriptor) {
	p.descriptor = sd
	p.rebuild()
}

// UpdateState transitions Idle<->Active based on the current controls,
// per spec.md §4.3: "Idle -> Active on any control bit set."
func (p *Pipeline) UpdateState() State {
	if p.Controls.AnySet() {
		p.state = Active
	} else {
		p.state = Idle
	}
	return p.state
}

// ProcessCIF runs one CIF's worth of punctured soft symbols for this
// subchannel through the full decode chain and forwards each completed
// 204-byte RS block (or raw block, if RS is not applicable) via
// OnBytes.
func (p *Pipeline) ProcessCIF(punctured []int8) {
	if p.state != Active {
		return
	}

	p.dec.Reset(0)
	remaining := punctured
	for _, seg := range p.sequence {
		if seg.symbols <= 0 {
			continue
		}
		consumed := p.dec.Update(remaining, seg.pattern, seg.symbols)
		remaining = remaining[consumed:]
	}

	decoded := make([]byte, (p.decodedBits+7)/8)
	p.dec.Chainback(decoded, p.decodedBits, 0)

	gen := scramble.NewGenerator()
	descrambled := gen.Apply(decoded)

	frame, ok := p.deinter.PushFrame(descrambled)
	if !ok {
		return // delay line still priming (spec.md §4.3: first 15 CIFs)
	}

	if !p.rsEnabled {
		if p.OnBytes != nil {
			p.OnBytes(frame, false)
		}
		return
	}

	for off := 0; off+204 <= len(frame); off += 204 {
		block := frame[off : off+204]
		message, _, ok := p.rs.Decode(block)
		rsError := !ok
		if rsError {
			// spec.md §4.3: "failure sets rs_error but the frame is
			// still forwarded" -- forward the uncorrected payload.
			message = block[:p.rs.K]
		}
		if p.OnBytes != nil {
			p.OnBytes(message, rsError)
		}
	}
}
