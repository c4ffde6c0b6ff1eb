//go:build amd64
// +build amd64

package jitterz

import (
	"testing"

	"github.com/templexxx/cpu"
)

func TestCounterFrequencyFreqTbl(t *testing.T) {
	sig := CPUSignature()
	old, had := FreqTbl[sig]
	defer func() {
		if had {
			FreqTbl[sig] = old
		} else {
			delete(FreqTbl, sig)
		}
	}()

	FreqTbl[sig] = 2999998888.73
	if got := CounterFrequency(); got != 2999998888 {
		t.Fatalf("frequency mismatch, exp: 2999998888, got: %d", got)
	}

	delete(FreqTbl, sig)
	if got := CounterFrequency(); got != uint64(cpu.X86.TSCFrequency) {
		t.Fatalf("without a table entry exp CPUID frequency %d, got: %d", uint64(cpu.X86.TSCFrequency), got)
	}
}

func TestTSCSupported(t *testing.T) {
	if TSCSupported() != cpu.X86.HasInvariantTSC {
		t.Fatal("TSC support must follow invariant TSC")
	}
}
