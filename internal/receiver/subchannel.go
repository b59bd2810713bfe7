package receiver

import (
	"fmt"

	"github.com/dabreceiver/dabplus/internal/aacdecoder"
	"github.com/dabreceiver/dabplus/internal/aacsuperframe"
	"github.com/dabreceiver/dabplus/internal/ensembledb"
	"github.com/dabreceiver/dabplus/internal/mot"
	"github.com/dabreceiver/dabplus/internal/msc"
	"github.com/dabreceiver/dabplus/internal/pad"
)

// superframeBytesPerCU is the byte accumulation window per subchannel
// capacity unit: a DAB+ superframe spans a fixed 120ms (5 x 24ms audio
// frames), so its byte size scales directly with the subchannel's bit
// rate. The exact bits-per-CU-to-kbps table (EN 300 401 Table 7) isn't
// available in this corpus, so this uses the same capacity-unit-count
// proportionality internal/msc/puncture.go already assumes for coded
// bits (Length*64), scaled down to the audio bitstream's byte rate.
const superframeBytesPerCU = 15

// subchannelState owns the per-subchannel decode chain downstream of
// the MSC pipeline's byte output: superframe reassembly, AAC decode,
// and PAD/MOT extraction.
type subchannelState struct {
	subchannelID uint8

	buf           []byte
	superframeLen int
	sf            *aacsuperframe.Processor
	dec           *aacdecoder.Decoder
	haveDecoder   bool
	pad           *pad.Processor
	motMgr        *mot.Manager
}

func newSubchannelState(subchannelID uint8, sd ensembledb.SubchannelDescriptor) *subchannelState {
	s := &subchannelState{
		subchannelID:  subchannelID,
		superframeLen: int(sd.Length) * superframeBytesPerCU,
		sf:            aacsuperframe.New(),
		pad:           pad.New(),
		motMgr:        mot.NewManager(),
	}
	return s
}

// wireSubchannel connects a subchannel's decode chain into the Receiver's
// observables.
func (r *Receiver) wireSubchannel(s *subchannelState) {
	s.sf.OnHeader = func(hdr aacsuperframe.Header) {
		dec, err := aacdecoder.New(hdr)
		if s.dec != nil {
			s.dec.Close()
		}
		if err != nil {
			s.haveDecoder = false
			r.OnError.Publish(ErrorEvent{
				Kind:         ErrorAACResource,
				SubchannelID: s.subchannelID,
				Detail:       err.Error(),
			})
			return
		}
		s.dec = dec
		s.haveDecoder = true
	}

	s.sf.OnFirecodeError = func() {
		r.OnError.Publish(ErrorEvent{Kind: ErrorFirecode, SubchannelID: s.subchannelID})
	}

	s.sf.OnAccessUnit = func(_, _ int, data []byte) {
		if s.sf.AUCRCError {
			r.OnError.Publish(ErrorEvent{Kind: ErrorAUCRC, SubchannelID: s.subchannelID})
		}
		if s.sf.RSError {
			r.OnError.Publish(ErrorEvent{Kind: ErrorRS, SubchannelID: s.subchannelID})
		}

		controls := r.msc.Controls(s.subchannelID)
		if controls == nil || controls.DecodeData {
			s.pad.ProcessAU(data)
		}

		if !s.haveDecoder || (controls != nil && !controls.DecodeAudio) {
			return
		}
		result := s.dec.DecodeFrame(data)
		if result.IsError {
			r.OnError.Publish(ErrorEvent{
				Kind:         ErrorAACResource,
				SubchannelID: s.subchannelID,
				Detail:       fmt.Sprintf("aac decode error %d", result.ErrorCode),
			})
			return
		}
		params := s.dec.Params()
		r.OnAudio.Publish(AudioEvent{
			SubchannelID:   s.subchannelID,
			SampleRate:     params.SampleRate,
			Channels:       params.Channels,
			BytesPerSample: params.BytesPerSample,
			PCM:            result.PCMBytes,
		})
	}

	s.pad.Label.OnLabelUpdate = func(text string, charsetID byte) {
		r.OnDynamicLabel.Publish(LabelEvent{SubchannelID: s.subchannelID, Text: text, CharsetID: charsetID})
	}
	s.pad.MOT.OnDataGroup = func(data []byte) {
		s.motMgr.Feed(data)
	}
	s.motMgr.OnEntity = func(e mot.Entity) {
		r.OnMOTEntity.Publish(e)
	}
	s.motMgr.OnSlideshow = func(sh mot.Slideshow) {
		r.OnSlideshow.Publish(sh)
	}
}

// onSubchannelBytes accumulates RS-corrected MSC bytes into
// superframe-sized chunks and drives the superframe processor.
func (s *subchannelState) onSubchannelBytes(data []byte, rsError bool) {
	s.buf = append(s.buf, data...)
	for s.superframeLen > 0 && len(s.buf) >= s.superframeLen {
		frame := s.buf[:s.superframeLen]
		s.sf.ProcessSuperframe(frame)
		s.buf = s.buf[s.superframeLen:]
	}
}

// SelectSubchannel starts (or reconfigures) decoding for a
// subchannel, honoring its Controls (spec.md §4.3/§4.7).
func (r *Receiver) SelectSubchannel(sd ensembledb.SubchannelDescriptor, controls msc.Controls) {
	r.mu.Lock()
	s, exists := r.subchannels[sd.SubchannelID]
	if !exists {
		s = newSubchannelState(sd.SubchannelID, sd)
		r.wireSubchannel(s)
		r.subchannels[sd.SubchannelID] = s
	}
	r.mu.Unlock()

	pipeline := r.msc.Select(r.ctx, sd, func(_ uint8, data []byte, rsError bool) {
		s.onSubchannelBytes(data, rsError)
	})
	pipeline.Controls = controls
}

// DeselectSubchannel stops decoding for a subchannel and releases its
// resources.
func (r *Receiver) DeselectSubchannel(subchannelID uint8) {
	r.msc.Deselect(subchannelID)

	r.mu.Lock()
	s, ok := r.subchannels[subchannelID]
	delete(r.subchannels, subchannelID)
	r.mu.Unlock()

	if ok && s.dec != nil {
		s.dec.Close()
	}
}
