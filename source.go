// Package jitterz measures scheduling jitter on a single pinned core.
//
// A Sampler busy-polls a Source and feeds every gap it observes into a
// Histogram. A Calibrator repeats the sampling until the rate of the Source,
// measured against an independent WallClock, agrees with the rate the
// Sampler assumed when it laid out its one-second segments.
//
// Nothing in this package pins threads or changes scheduling; see
// internal/sched for that.
package jitterz

import (
	"errors"
	"time"
)

// Source returns the current tick of a timestamp counter.
//
// Read is called in a busy loop, so implementations must not allocate
// or lock.
type Source interface {
	Read() uint64
}

// OS clock ids accepted by NewOSClock.
const (
	ClockMonotonic    = 0
	ClockRealtime     = 1
	ClockMonotonicRaw = 2
)

// NanoRate is the tick rate of every OSClock.
const NanoRate uint64 = 1e9

// ErrNoTSC is returned by NewSource when the hardware counter can't be used.
var ErrNoTSC = errors.New("jitterz: hardware counter unsupported")

// TSC is the hardware cycle counter Source.
// Every read is serialized, see GetInOrder.
type TSC struct{}

// Read implements Source.
func (TSC) Read() uint64 {
	return GetInOrder()
}

// OSClock reads an operating system clock and returns nanoseconds.
//
// ClockMonotonic and ClockRealtime go through the runtime's vDSO path.
// ClockMonotonicRaw needs a clock_gettime syscall on every read.
type OSClock struct {
	id    int
	epoch time.Time
	read  func() uint64
}

// NewOSClock returns the OS clock with the given id.
// Unknown ids fall back to ClockMonotonic.
func NewOSClock(id int) *OSClock {
	c := &OSClock{id: id, epoch: time.Now()}
	switch id {
	case ClockRealtime:
		c.read = func() uint64 { return uint64(time.Now().UnixNano()) }
	case ClockMonotonicRaw:
		c.read = rawNano
	default:
		c.id = ClockMonotonic
		c.read = func() uint64 { return uint64(time.Since(c.epoch)) }
	}
	return c
}

// ID returns the effective clock id.
func (c *OSClock) ID() int {
	return c.id
}

// Read implements Source.
func (c *OSClock) Read() uint64 {
	return c.read()
}

// NewSource returns the hardware counter when hardware is true,
// otherwise the OS clock with the given id.
func NewSource(hardware bool, clockID int) (Source, error) {
	if !hardware {
		return NewOSClock(clockID), nil
	}
	if !TSCSupported() {
		return nil, ErrNoTSC
	}
	return TSC{}, nil
}

// ClockName names a clock id for reports.
func ClockName(id int) string {
	switch id {
	case ClockRealtime:
		return "CLOCK_REALTIME"
	case ClockMonotonicRaw:
		return "CLOCK_MONOTONIC_RAW"
	default:
		return "CLOCK_MONOTONIC"
	}
}

// WallClock measures real elapsed time independently of the Source
// being calibrated. Now returns the time since an arbitrary fixed point.
type WallClock interface {
	Now() time.Duration
}
