package jitterz

import (
	"fmt"

	"github.com/templexxx/cpu"
)

// TSCSupported reports whether the TSC can back a run.
//
// Only an invariant TSC ticks at a constant rate whatever the core's
// P-state is; anything else can't be calibrated.
func TSCSupported() bool {
	return cpu.X86.HasInvariantTSC
}

// CPUSignature returns <cpu.X86.Signature>_<cpu.X86.SteppingID>,
// the key of FreqTbl.
func CPUSignature() string {
	return fmt.Sprintf("%s_%d", cpu.X86.Signature, cpu.X86.SteppingID)
}

// CounterFrequency returns the TSC frequency (Hz) known for this CPU,
// 0 if unknown.
//
// FreqTbl wins over CPUID leaf 0x15, which many parts leave empty.
func CounterFrequency() uint64 {
	if f, ok := FreqTbl[CPUSignature()]; ok {
		return uint64(f)
	}
	return uint64(cpu.X86.TSCFrequency)
}

// GetInOrder gets tsc value in strictly order.
// LFENCE keeps RDTSC from being executed ahead of earlier instructions.
//
//go:noescape
func GetInOrder() uint64

// CounterFromCPUClock reports true: an invariant TSC ticks at about the
// nominal core frequency, so cpufreq is a fair first estimate.
func CounterFromCPUClock() bool {
	return true
}
