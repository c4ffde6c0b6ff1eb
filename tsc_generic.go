//go:build !amd64 && !arm64

package jitterz

// TSCSupported reports false: there is no counter read for this
// architecture, use an OSClock.
func TSCSupported() bool {
	return false
}

// CPUSignature returns "".
func CPUSignature() string {
	return ""
}

// CounterFrequency returns 0.
func CounterFrequency() uint64 {
	return 0
}

// GetInOrder returns 0.
func GetInOrder() uint64 {
	return 0
}

// CounterFromCPUClock reports false.
func CounterFromCPUClock() bool {
	return false
}
