package jitterz

import "errors"

// ErrOverflow is returned by Sampler.Run when a segment's end tick
// (or the one after it) would wrap the 64-bit counter.
var ErrOverflow = errors.New("jitterz: tick counter overflow")

// Sampler is the busy-poll loop.
//
// Run spins on the Source for a number of one-second segments and hands
// every advance of the counter to the Histogram. It never sleeps, yields,
// allocates or locks: any gap larger than the usual read-to-read latency
// means the thread lost the CPU.
type Sampler struct {
	src  Source
	hist *Histogram
}

// NewSampler returns a Sampler feeding hist from src.
func NewSampler(src Source, hist *Histogram) *Sampler {
	return &Sampler{src: src, hist: hist}
}

// Run polls seconds segments of rate ticks each.
//
// Before a segment starts, Run checks that both its end and the end of a
// following segment fit in 64 bits; the inner loop then needs no
// wraparound check. ErrOverflow aborts the whole run.
func (s *Sampler) Run(rate uint64, seconds int) error {
	for i := 0; i < seconds; i++ {
		start := s.src.Read()
		end := start + rate
		if end < start || end+rate < start {
			return ErrOverflow
		}
		s.poll(start, end)
	}
	return nil
}

func (s *Sampler) poll(prev, end uint64) {
	src, h := s.src, s.hist
	for {
		cur := src.Read()
		if cur == prev {
			continue // Below counter resolution.
		}
		if cur > prev {
			h.Update(cur - prev)
		}
		if cur >= end {
			return
		}
		prev = cur
	}
}
