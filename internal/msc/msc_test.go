package msc

import (
	"testing"

	"github.com/dabreceiver/dabplus/internal/ensembledb"
)

func TestControlsInvariants(t *testing.T) {
	var c Controls

	c.SetPlayAudio(true)
	if !c.DecodeAudio {
		t.Fatalf("expected play_audio to force decode_audio on")
	}

	c.SetDecodeAudio(false)
	if c.PlayAudio {
		t.Fatalf("expected disabling decode_audio to force play_audio off")
	}
}

func TestControlsAnySet(t *testing.T) {
	var c Controls
	if c.AnySet() {
		t.Fatalf("expected zero-value controls to report AnySet=false")
	}
	c.SetDecodeData(true)
	if !c.AnySet() {
		t.Fatalf("expected AnySet=true after enabling decode_data")
	}
}

func TestPuncturingSequenceCoversFullLength(t *testing.T) {
	sd := &ensembledb.SubchannelDescriptor{SubchannelID: 1, Length: 72, ProtShortForm: true, ProtTableIdx: 5}
	seq := puncturingSequenceFor(sd)

	total := 0
	for _, seg := range seq {
		total += seg.symbols
	}
	if total != int(sd.Length)*64 {
		t.Fatalf("expected sequence to cover %d symbols, got %d", int(sd.Length)*64, total)
	}
}

func TestPipelineIdleUntilControlsSet(t *testing.T) {
	sd := ensembledb.SubchannelDescriptor{SubchannelID: 1, Length: 4}
	p := NewPipeline(sd, nil)

	if got := p.UpdateState(); got != Idle {
		t.Fatalf("expected Idle with no controls set, got %v", got)
	}

	p.Controls.SetDecodeData(true)
	if got := p.UpdateState(); got != Active {
		t.Fatalf("expected Active once a control is set, got %v", got)
	}
}

func TestPipelineProcessCIFWhenIdleIsNoop(t *testing.T) {
	sd := ensembledb.SubchannelDescriptor{SubchannelID: 1, Length: 4}
	p := NewPipeline(sd, nil)

	called := false
	p.OnBytes = func([]byte, bool) { called = true }

	p.ProcessCIF(make([]int8, int(sd.Length)*64))
	if called {
		t.Fatalf("expected no output while pipeline is Idle")
	}
}
