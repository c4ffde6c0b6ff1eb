package jitterz

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrNotConverged is returned by Calibrator.Run when MaxIterations
// attempts didn't produce a rate within Tolerance.
var ErrNotConverged = errors.New("jitterz: failed to calibrate")

// State is the calibration state.
type State int

const (
	Uncalibrated State = iota
	Running
	Retry
	Converged
	Failed
)

func (s State) String() string {
	switch s {
	case Uncalibrated:
		return "uncalibrated"
	case Running:
		return "running"
	case Retry:
		return "retry"
	case Converged:
		return "converged"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Default calibration options.
const (
	DefaultDuration       = 60
	DefaultStallThreshold = 1500 * time.Nanosecond
	DefaultTolerance      = 0.01
	DefaultMaxIterations  = 64
	DefaultStampSamples   = 16
)

// Options configures a Calibrator. Zero fields take the defaults above,
// except MaxIterations where 0 means no limit.
type Options struct {
	Duration       int           // Seconds sampled per iteration.
	StallThreshold time.Duration // Shortest gap counted as a stall.
	Tolerance      float64       // Accepted relative rate deviation.
	MaxIterations  int
	StampSamples   int // Brackets tried per tick/wall pair.

	// OnIteration, if set, is called after every iteration, outside the
	// sampling loop.
	OnIteration func(Iteration)
}

func (o *Options) fill() {
	if o.Duration <= 0 {
		o.Duration = DefaultDuration
	}
	if o.StallThreshold <= 0 {
		o.StallThreshold = DefaultStallThreshold
	}
	if o.Tolerance <= 0 {
		o.Tolerance = DefaultTolerance
	}
	if o.MaxIterations < 0 {
		o.MaxIterations = 0
	}
	if o.StampSamples <= 0 {
		o.StampSamples = DefaultStampSamples
	}
}

// Iteration describes one finished calibration attempt.
type Iteration struct {
	N         int
	State     State  // Converged or Retry.
	Rate      uint64 // Estimate the sampler ran with.
	MinStall  uint64
	Achieved  uint64 // Measured rate, 0 if the attempt was discarded.
	Deviation float64
	Overflow  bool // Discarded: counter overflow or counter went backwards.
	Elapsed   time.Duration
	Stalls    uint64
}

// Result is the outcome of a converged calibration.
type Result struct {
	Histogram  Histogram
	Rate       uint64 // Estimate the accepted iteration ran with.
	Achieved   uint64
	Ticks      uint64 // Ticks measured across the accepted iteration.
	Elapsed    time.Duration
	Duration   int // Configured seconds.
	Iterations int
	Overflows  int
}

// LostFraction returns stall ticks as a fraction of measured ticks.
func (r *Result) LostFraction() float64 {
	if r.Ticks == 0 {
		return 0
	}
	return float64(r.Histogram.LostTicks) / float64(r.Ticks)
}

// LostTime returns the stall ticks converted to time.
func (r *Result) LostTime() time.Duration {
	return time.Duration(ticksToNanos(r.Histogram.LostTicks, r.Rate))
}

// Reported returns the buckets whose time boundary lies within the run.
// Larger buckets can't have been hit.
func (r *Result) Reported() []Bucket {
	limit := uint64(r.Duration) * uint64(time.Second)
	bs := make([]Bucket, 0, NumBuckets)
	for _, b := range r.Histogram.Buckets {
		if b.TimeBoundary < limit {
			bs = append(bs, b)
		}
	}
	return bs
}

// Calibrator finds the true tick rate of a Source while measuring jitter.
//
// Every iteration samples for Duration seconds using the current rate
// estimate, then compares the ticks elapsed against the WallClock. When the
// estimate was off by more than Tolerance the histogram is meaningless
// (its boundaries were computed from the wrong rate), so it is thrown
// away and the iteration runs again with the measured rate.
type Calibrator struct {
	src  Source
	wall WallClock
	opts Options

	state   State
	rate    uint64
	hist    Histogram
	sampler Sampler
}

// NewCalibrator returns a Calibrator for src timed against wall.
func NewCalibrator(src Source, wall WallClock, opts Options) *Calibrator {
	opts.fill()
	c := &Calibrator{src: src, wall: wall, opts: opts}
	c.sampler = Sampler{src: src, hist: &c.hist}
	return c
}

// State returns the current state.
func (c *Calibrator) State() State {
	return c.state
}

// Rate returns the current estimate (ticks/s).
func (c *Calibrator) Rate() uint64 {
	return c.rate
}

// Run calibrates starting from the nominal rate and returns the
// histogram of the first iteration whose rate held.
func (c *Calibrator) Run(nominal uint64) (*Result, error) {
	if nominal == 0 {
		return nil, errors.New("jitterz: nominal rate must be positive")
	}
	c.rate = nominal
	c.state = Uncalibrated

	var overflows int
	var last Iteration
	for n := 1; ; n++ {
		if c.opts.MaxIterations > 0 && n > c.opts.MaxIterations {
			c.state = Failed
			return nil, fmt.Errorf("%w: %d iterations, last deviation %.4f at %d ticks/s",
				ErrNotConverged, c.opts.MaxIterations, last.Deviation, last.Rate)
		}

		c.state = Running
		it, r := c.iterate(n)
		c.state = it.State
		if it.Overflow {
			overflows++
		}
		if c.opts.OnIteration != nil {
			c.opts.OnIteration(it)
		}
		if r != nil {
			r.Iterations = n
			r.Overflows = overflows
			return r, nil
		}
		last = it
	}
}

// iterate runs one attempt. A nil Result means retry.
func (c *Calibrator) iterate(n int) (Iteration, *Result) {
	rate := c.rate
	minStall := stallTicks(c.opts.StallThreshold, rate)
	c.hist.Reset(minStall, rate)

	it := Iteration{N: n, State: Retry, Rate: rate, MinStall: minStall}

	t0, w0 := c.stamp()
	err := c.sampler.Run(rate, c.opts.Duration)
	t1, w1 := c.stamp()

	it.Elapsed = w1 - w0
	it.Stalls = c.hist.Stalls()
	if err != nil || t1 <= t0 {
		// Transient: same estimate, fresh histogram next time.
		it.Overflow = true
		return it, nil
	}
	if it.Elapsed <= 0 {
		return it, nil
	}

	ticks := t1 - t0
	achieved := float64(ticks) / it.Elapsed.Seconds()
	it.Achieved = uint64(math.Round(achieved))
	it.Deviation = math.Abs(achieved-float64(rate)) / float64(rate)

	if it.Deviation > c.opts.Tolerance {
		if it.Achieved > 0 {
			c.rate = it.Achieved
		}
		return it, nil
	}

	it.State = Converged
	return it, &Result{
		Histogram: c.hist,
		Rate:      rate,
		Achieved:  it.Achieved,
		Ticks:     ticks,
		Elapsed:   it.Elapsed,
		Duration:  c.opts.Duration,
	}
}

func (c *Calibrator) stamp() (uint64, time.Duration) {
	return Stamp(c.src, c.wall, c.opts.StampSamples)
}

// Stamp pairs a tick of src with a reading of wall.
//
// A wall clock read isn't instantaneous, so it is bracketed between two
// tick reads; of samples brackets the tightest one wins and its midpoint
// is taken as the tick at which the wall clock was read.
func Stamp(src Source, wall WallClock, samples int) (tick uint64, at time.Duration) {
	if samples < 1 {
		samples = 1
	}
	best := uint64(math.MaxUint64)
	prev := src.Read()
	for i := 0; i < samples; i++ {
		w := wall.Now()
		next := src.Read()
		if d := next - prev; d < best {
			best = d
			tick = prev + d/2
			at = w
		}
		prev = next
	}
	return tick, at
}
