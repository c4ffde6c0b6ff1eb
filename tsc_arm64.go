package jitterz

// TSCSupported reports whether the generic timer can back a run.
// CNTVCT_EL0 is architecturally required on arm64.
func TSCSupported() bool {
	return true
}

// CPUSignature returns "", FreqTbl only knows x86 parts.
func CPUSignature() string {
	return ""
}

// CounterFrequency returns CNTFRQ_EL0, the rate firmware programmed
// for the generic timer.
func CounterFrequency() uint64 {
	return cntfrq()
}

// GetInOrder reads CNTVCT_EL0 behind an ISB so the read can't be
// speculated ahead of earlier instructions.
//
//go:noescape
func GetInOrder() uint64

//go:noescape
func cntfrq() uint64

// CounterFromCPUClock reports false: the generic timer has its own
// clock, unrelated to what cpufreq says about the cores.
func CounterFromCPUClock() bool {
	return false
}
