package aacdecoder

import (
	"testing"

	"github.com/dabreceiver/dabplus/internal/aacsuperframe"
)

func TestBuildASCEncodesLCObjectTypeAndRate(t *testing.T) {
	hdr := aacsuperframe.Header{DACRate: true, AACChannelMode: true}
	asc := buildASC(hdr)
	if len(asc) != 2 {
		t.Fatalf("expected a 2-byte ASC, got %d bytes", len(asc))
	}

	value := uint16(asc[0])<<8 | uint16(asc[1])
	objectType := (value >> 11) & 0x1F
	sfIndex := (value >> 7) & 0x0F
	chanConfig := (value >> 3) & 0x0F

	if objectType != 2 {
		t.Fatalf("expected AAC-LC object type 2, got %d", objectType)
	}
	if sfIndex != 3 {
		t.Fatalf("expected sfIndex 3 (48kHz) for DACRate=true, got %d", sfIndex)
	}
	if chanConfig != 2 {
		t.Fatalf("expected stereo channel config 2, got %d", chanConfig)
	}
}

func TestBuildASCMonoLowRate(t *testing.T) {
	hdr := aacsuperframe.Header{DACRate: false, AACChannelMode: false}
	asc := buildASC(hdr)
	value := uint16(asc[0])<<8 | uint16(asc[1])
	sfIndex := (value >> 7) & 0x0F
	chanConfig := (value >> 3) & 0x0F

	if sfIndex != 5 {
		t.Fatalf("expected sfIndex 5 (32kHz) for DACRate=false, got %d", sfIndex)
	}
	if chanConfig != 1 {
		t.Fatalf("expected mono channel config 1, got %d", chanConfig)
	}
}

func TestNewConstructsDecoderForLCConfig(t *testing.T) {
	hdr := aacsuperframe.Header{DACRate: true, AACChannelMode: true}
	dec, err := New(hdr)
	if err != nil {
		t.Fatalf("unexpected error constructing decoder: %v", err)
	}
	defer dec.Close()

	params := dec.Params()
	if params.SampleRate != 48000 {
		t.Fatalf("expected 48000 Hz, got %d", params.SampleRate)
	}
	if params.Channels != 2 {
		t.Fatalf("expected 2 channels, got %d", params.Channels)
	}
	if params.BytesPerSample != 2 {
		t.Fatalf("expected 16-bit PCM, got %d bytes per sample", params.BytesPerSample)
	}
}

func TestDecodeFrameReportsErrorOnEmptyInput(t *testing.T) {
	hdr := aacsuperframe.Header{DACRate: true, AACChannelMode: true}
	dec, err := New(hdr)
	if err != nil {
		t.Fatalf("unexpected error constructing decoder: %v", err)
	}
	defer dec.Close()

	result := dec.DecodeFrame(nil)
	if !result.IsError {
		t.Fatalf("expected an error result for an empty access unit")
	}
}
