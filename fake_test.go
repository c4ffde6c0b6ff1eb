package jitterz

import "time"

// fakeSource advances by step ticks on every read.
type fakeSource struct {
	now    uint64 // Ticks advanced so far, offset excluded.
	step   uint64
	offset uint64 // Added to every reading.
	reads  int

	jumpAt int // Read index that gets an extra jump ticks (a stall).
	jump   uint64
}

func (f *fakeSource) Read() uint64 {
	f.reads++
	f.now += f.step
	if f.jumpAt > 0 && f.reads == f.jumpAt {
		f.now += f.jump
	}
	return f.now + f.offset
}

// fakeWall derives wall time from the ticks fakeSource advanced,
// so the source runs at exactly rate ticks/s (times scale).
type fakeWall struct {
	src   *fakeSource
	rate  uint64
	scale float64
}

func (w *fakeWall) Now() time.Duration {
	scale := w.scale
	if scale == 0 {
		scale = 1
	}
	return time.Duration(float64(w.src.now) * float64(time.Second) / float64(w.rate) * scale)
}

// scriptSource returns vals in order, then keeps advancing by step.
type scriptSource struct {
	vals []uint64
	step uint64
	i    int
	last uint64
}

func (s *scriptSource) Read() uint64 {
	if s.i < len(s.vals) {
		s.last = s.vals[s.i]
		s.i++
		return s.last
	}
	s.last += s.step
	return s.last
}

// stepWall advances by step on every read.
type stepWall struct {
	now, step time.Duration
}

func (w *stepWall) Now() time.Duration {
	w.now += w.step
	return w.now
}
