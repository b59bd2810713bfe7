// Package aacdecoder adapts github.com/llehouerou/go-aac to spec.md §6's
// external AAC decoder boundary: new(params), decode_frame(bytes) ->
// {is_error, error_code, pcm_bytes}, params().
//
// DAB+ access units are raw AAC payloads with out-of-band configuration
// (the superframe header's dac_rate/sbr/channel-mode/ps fields), the same
// shape as an MP4 sample plus its AudioSpecificConfig -- not an
// ADTS/ADIF stream. go-aac's Init2/SimpleInit2 is the entry point built
// for exactly that case, so this adapter synthesizes a minimal ASC from
// the superframe header and feeds raw AUs straight to Decode.
//
// go-aac's ASC parser (parseAudioSpecificConfig) only reads
// audioObjectType/samplingFrequencyIndex/channelConfiguration and skips
// GASpecificConfig entirely, and its canDecodeOT table has no entry for
// ObjectTypeHEAAC. The SBR/PS extension header that real HE-AACv2 ASCs
// carry would be silently ignored by this library regardless, so this
// adapter always declares the AAC-LC core object type and leaves SBR/PS
// upsampling to the decoder's own (currently absent) capability -- it
// is not something this adapter can work around from the outside.
package aacdecoder

import (
	"encoding/binary"
	"fmt"

	"github.com/llehouerou/go-aac"

	"github.com/dabreceiver/dabplus/internal/aacsuperframe"
)

// Params describes the decoded stream's PCM shape, the params() half of
// spec.md §6's decoder contract.
type Params struct {
	SampleRate     int
	Channels       int
	BytesPerSample int
}

// Result is the decode_frame(bytes) return shape from spec.md §6.
type Result struct {
	IsError   bool
	ErrorCode int
	PCMBytes  []byte
}

// Decoder wraps one go-aac decoder instance, scoped to a single
// subchannel's audio configuration.
type Decoder struct {
	dec    *aac.Decoder
	params Params
}

// New constructs a decoder for the audio configuration named in hdr.
// Construction failure is the spec.md §7 "resource error" that forces
// decode_audio off for the owning subchannel; callers propagate it as
// an event rather than retrying.
func New(hdr aacsuperframe.Header) (*Decoder, error) {
	dec := aac.NewDecoder()

	asc := buildASC(hdr)
	sampleRate, channels, err := dec.SimpleInit2(asc)
	if err != nil {
		dec.Close()
		return nil, fmt.Errorf("aacdecoder: init: %w", err)
	}

	return &Decoder{
		dec: dec,
		params: Params{
			SampleRate:     int(sampleRate),
			Channels:       int(channels),
			BytesPerSample: 2,
		},
	}, nil
}

// Params returns the stream's PCM parameters.
func (d *Decoder) Params() Params { return d.params }

// DecodeFrame decodes one access unit into PCM bytes.
func (d *Decoder) DecodeFrame(data []byte) Result {
	samples, info, err := d.dec.Decode(data)
	if err != nil {
		return Result{IsError: true, ErrorCode: errorCode(err)}
	}
	if info != nil && info.Error != aac.ErrNone {
		return Result{IsError: true, ErrorCode: int(info.Error)}
	}

	pcm, _ := samples.([]int16)
	out := make([]byte, len(pcm)*2)
	for i, s := range pcm {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
	return Result{PCMBytes: out}
}

// Close releases the underlying decoder.
func (d *Decoder) Close() {
	if d.dec != nil {
		d.dec.Close()
	}
}

func errorCode(err error) int {
	if aacErr, ok := err.(aac.Error); ok {
		return int(aacErr)
	}
	return -1
}

// mpeg4SampleRates indexes the MPEG-4 samplingFrequencyIndex table for
// the two rates DAB+ uses (spec.md §4.4's dac_rate bit).
var mpeg4SampleRates = map[int]uint8{
	48000: 3,
	32000: 5,
}

// buildASC synthesizes a minimal 2-byte MP4 AudioSpecificConfig
// (audioObjectType:5, samplingFrequencyIndex:4, channelConfiguration:4,
// frameLengthFlag/dependsOnCoreCoder/extensionFlag: 1 each, all zero)
// matching what go-aac's parseAudioSpecificConfig actually reads.
func buildASC(hdr aacsuperframe.Header) []byte {
	const objectTypeLC = 2

	rate := 32000
	if hdr.DACRate {
		rate = 48000
	}
	sfIndex := mpeg4SampleRates[rate]

	chanConfig := uint8(1)
	if hdr.AACChannelMode {
		chanConfig = 2
	}

	value := uint16(objectTypeLC)<<11 | uint16(sfIndex)<<7 | uint16(chanConfig)<<3
	return []byte{byte(value >> 8), byte(value)}
}
