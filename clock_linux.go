//go:build linux

package jitterz

import (
	"time"

	"golang.org/x/sys/unix"
)

// rawNano reads CLOCK_MONOTONIC_RAW and folds seconds and nanoseconds
// into one tick count.
func rawNano() uint64 {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC_RAW, &ts); err != nil {
		return 0
	}
	return uint64(ts.Sec)*uint64(time.Second) + uint64(ts.Nsec)
}

// RawClock is the WallClock used for calibration.
// CLOCK_MONOTONIC_RAW is not slewed by NTP, so a rate measured against it
// doesn't move while the daemon corrects the system clock.
type RawClock struct{}

// Now implements WallClock.
func (RawClock) Now() time.Duration {
	return time.Duration(rawNano())
}
