package msc

// Controls holds the per-subchannel bit flags of spec.md §3: enabling
// PlayAudio forces DecodeAudio on; disabling DecodeAudio forces
// PlayAudio off. DecodeData is independent of the audio flags.
type Controls struct {
	DecodeAudio bool
	DecodeData  bool
	PlayAudio   bool
}

// SetDecodeAudio applies the decode_audio flag and its invariant on
// play_audio.
func (c *Controls) SetDecodeAudio(on bool) {
	c.DecodeAudio = on
	if !on {
		c.PlayAudio = false
	}
}

// SetPlayAudio applies the play_audio flag and its invariant on
// decode_audio.
func (c *Controls) SetPlayAudio(on bool) {
	c.PlayAudio = on
	if on {
		c.DecodeAudio = true
	}
}

// SetDecodeData applies the decode_data flag.
func (c *Controls) SetDecodeData(on bool) {
	c.DecodeData = on
}

// AnySet reports whether any control flag is on, the Idle->Active
// transition condition of spec.md §4.3.
func (c Controls) AnySet() bool {
	return c.DecodeAudio || c.DecodeData || c.PlayAudio
}
