package reedsolomon

// NewMSCOuterCode returns the RS(204,188) outer code codec applied to each
// CIF after deinterleaving, per spec.md §4.3 -- 16 parity bytes appended to
// each 188-byte MSC payload, correcting up to 8 byte errors per codeword.
func NewMSCOuterCode() *Codec {
	return New(204, 188)
}

// NewSuperframeCode returns the RS(120,110) code protecting each AAC
// superframe, per spec.md §4.4 -- 10 parity bytes per 110-byte row,
// correcting up to 5 byte errors per row.
func NewSuperframeCode() *Codec {
	return New(120, 110)
}
