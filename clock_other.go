//go:build !linux

package jitterz

import "time"

var rawEpoch = time.Now()

// rawNano falls back to the runtime monotonic clock.
func rawNano() uint64 {
	return uint64(time.Since(rawEpoch))
}

// RawClock is the WallClock used for calibration.
type RawClock struct{}

// Now implements WallClock.
func (RawClock) Now() time.Duration {
	return time.Since(rawEpoch)
}
