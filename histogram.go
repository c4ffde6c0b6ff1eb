package jitterz

import (
	"math"
	"math/bits"
	"time"
)

// NumBuckets is the number of histogram buckets.
// Each boundary doubles the previous one, so 16 buckets cover
// min_stall .. min_stall<<15.
const NumBuckets = 16

// Bucket counts stalls of at least TickBoundary ticks
// (and shorter than the next bucket's boundary).
type Bucket struct {
	TickBoundary uint64
	TimeBoundary uint64 // TickBoundary in nanoseconds at the rate it was built for.
	Count        uint64
}

// Histogram classifies stalls into NumBuckets exponentially scaled buckets.
//
// Storage is a fixed array, Update never allocates.
// A Histogram is owned by a single goroutine.
type Histogram struct {
	Buckets   [NumBuckets]Bucket
	MinStall  uint64 // Deltas below MinStall are ordinary read latency.
	LostTicks uint64 // Sum of every delta that counted as a stall.
}

// Reset rebuilds the boundaries starting at minStall ticks and zeroes
// every counter. rate (ticks/s) is only used for TimeBoundary.
// Boundaries that would pass 64 bits stay at math.MaxUint64.
func (h *Histogram) Reset(minStall, rate uint64) {
	h.MinStall = minStall
	h.LostTicks = 0
	b := minStall
	for i := range h.Buckets {
		h.Buckets[i] = Bucket{TickBoundary: b, TimeBoundary: ticksToNanos(b, rate)}
		if b > math.MaxUint64>>1 {
			b = math.MaxUint64
		} else {
			b <<= 1
		}
	}
}

// Update records one delta between two consecutive reads.
// A stall lands in exactly one bucket: the largest boundary <= delta.
func (h *Histogram) Update(delta uint64) {
	if delta < h.MinStall {
		return
	}
	h.LostTicks += delta
	for i := NumBuckets - 1; i >= 0; i-- {
		if delta >= h.Buckets[i].TickBoundary {
			h.Buckets[i].Count++
			return
		}
	}
}

// Stalls returns the number of stalls recorded.
func (h *Histogram) Stalls() uint64 {
	var n uint64
	for i := range h.Buckets {
		n += h.Buckets[i].Count
	}
	return n
}

// ticksToNanos converts ticks at rate ticks/s to nanoseconds, saturating.
func ticksToNanos(ticks, rate uint64) uint64 {
	if rate == 0 {
		return 0
	}
	hi, lo := bits.Mul64(ticks, uint64(time.Second))
	if hi >= rate {
		return math.MaxUint64
	}
	ns, _ := bits.Div64(hi, lo, rate)
	return ns
}

// stallTicks converts the stall threshold to ticks at rate ticks/s.
// The result is at least 1: a zero boundary would make every read a stall.
func stallTicks(threshold time.Duration, rate uint64) uint64 {
	if threshold <= 0 {
		return 1
	}
	hi, lo := bits.Mul64(uint64(threshold), rate)
	if hi >= uint64(time.Second) {
		return math.MaxUint64
	}
	t, _ := bits.Div64(hi, lo, uint64(time.Second))
	if t == 0 {
		return 1
	}
	return t
}
