package viterbi

import "github.com/dabreceiver/dabplus/internal/bitio"

const maxMetric = ^uint32(0) / 2

// Decoder is a reusable rate-1/4, K=7 soft-decision Viterbi decoder. One
// instance decodes one tail-biting or zero-terminated run at a time;
// Reset starts a fresh run, repeated Update calls feed soft symbols, and
// Chainback recovers the hard bits (spec.md §4.1).
type Decoder struct {
	kernel     KernelID
	oldMetrics [NumStates]uint32
	newMetrics [NumStates]uint32
	decisions  []uint64 // one uint64 per step; bit i = which predecessor won for state i
	dp         int
}

// NewDecoder creates a decoder sized to hold up to maxSteps trellis steps
// before a Chainback. The ISA kernel is auto-detected (spec.md §9).
func NewDecoder(maxSteps int) *Decoder {
	if maxSteps < 1 {
		maxSteps = 1
	}
	return &Decoder{
		kernel:    DetectKernel(),
		decisions: make([]uint64, maxSteps),
	}
}

// Kernel reports which branch-metric kernel this decoder would use.
func (d *Decoder) Kernel() KernelID { return d.kernel }

// Reset clears path metrics, anchoring the trellis at startingState.
// max_error, the renormalization threshold, is (SoftHigh-SoftLow)*R
// (spec.md §4.1); metrics are renormalized whenever the best metric
// exceeds it so uint32 accumulators never overflow across a long run.
func (d *Decoder) Reset(startingState uint8) {
	for i := range d.oldMetrics {
		d.oldMetrics[i] = maxMetric
	}
	d.oldMetrics[startingState&(NumStates-1)] = 0
	d.dp = 0
}

func maxError() uint32 {
	return uint32(int32(SoftHigh)-int32(SoftLow)) * R
}

// Update ingests punctured soft symbols, reinserting neutral values per
// puncture for every punctured position, and runs requestedOutputSymbols/R
// trellis steps through the branch-metric core. It returns how many
// entries of punctured were actually consumed. requestedOutputSymbols
// must be a multiple of Rate.
func (d *Decoder) Update(punctured []int8, pattern PuncturePattern, requestedOutputSymbols int) int {
	if requestedOutputSymbols%Rate != 0 {
		requestedOutputSymbols -= requestedOutputSymbols % Rate
	}
	symbols, consumed := PuncturedSymbols(punctured, pattern, requestedOutputSymbols)
	steps := requestedOutputSymbols / Rate

	for s := 0; s < steps; s++ {
		d.step(symbols[s*Rate : s*Rate+Rate])
	}
	return consumed
}

// step runs one trellis stage: for every new state, it evaluates both
// candidate predecessors (their state indices differ only in the top
// memory bit, the classic convolutional-code butterfly) and keeps the
// cheaper path.
func (d *Decoder) step(branchSoft []int32) {
	if d.dp >= len(d.decisions) {
		return
	}

	var decision uint64
	for newState := 0; newState < NumStates; newState++ {
		input := byte(newState & 1)
		predA := newState >> 1
		predB := predA + NumStates/2

		costA := d.oldMetrics[predA] + branchMetric(trans[predA][input].outputs, branchSoft)
		costB := d.oldMetrics[predB] + branchMetric(trans[predB][input].outputs, branchSoft)

		if costA <= costB {
			d.newMetrics[newState] = costA
		} else {
			d.newMetrics[newState] = costB
			decision |= 1 << uint(newState)
		}
	}

	d.decisions[d.dp] = decision
	d.dp++
	d.oldMetrics, d.newMetrics = d.newMetrics, d.oldMetrics

	d.renormalize()
}

func branchMetric(outputs [Rate]byte, soft []int32) uint32 {
	var cost uint32
	for i, bit := range outputs {
		cost += uint32(abs32(soft[i] - expectedSoft(bit)))
	}
	return cost
}

// renormalize subtracts the minimum metric from all metrics once the best
// path exceeds max_error, keeping the accumulators bounded without
// changing which path is cheapest.
func (d *Decoder) renormalize() {
	min := d.oldMetrics[0]
	for _, m := range d.oldMetrics {
		if m < min {
			min = m
		}
	}
	if min < maxError() {
		return
	}
	for i := range d.oldMetrics {
		d.oldMetrics[i] -= min
	}
}

// Chainback traces the surviving path backward from endState, emitting
// nBits hard bits MSB-first into out, and returns the accumulated path
// error of the winning path at the moment Chainback was called. The
// input bit consumed at each step is the LSB of the state being departed
// (newState's LSB equals the input bit by construction, see trellis.go),
// so it is read off before stepping to the chosen predecessor.
func (d *Decoder) Chainback(out []byte, nBits int, endState uint8) uint32 {
	state := uint32(endState) & (NumStates - 1)
	pathErr := d.oldMetrics[state]

	for i := nBits - 1; i >= 0; i-- {
		d.dp--
		if d.dp < 0 {
			break
		}
		bitio.WriteBit(out, uint(i), state&1 != 0)

		decision := (d.decisions[d.dp] >> state) & 1
		predA := state >> 1
		predB := predA + NumStates/2
		if decision == 1 {
			state = predB
		} else {
			state = predA
		}
	}
	return pathErr
}
