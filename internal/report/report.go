// Package report renders a converged calibration result.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/cpuid/v2"

	"github.com/templexxx/jitterz"
)

// Run describes the run a Result came from.
type Run struct {
	ID        uuid.UUID
	CPU       int
	Clock     string // "TSC" or an OS clock name.
	Policy    string
	Priority  int
	Threshold time.Duration
}

// NewRun returns a Run with a fresh id.
func NewRun(cpu int, clock, policy string, priority int, threshold time.Duration) Run {
	return Run{
		ID:        uuid.New(),
		CPU:       cpu,
		Clock:     clock,
		Policy:    policy,
		Priority:  priority,
		Threshold: threshold,
	}
}

// WriteText writes the report read by people:
// one "<boundary us> : <count>" line per reported bucket and a summary.
func WriteText(w io.Writer, r *jitterz.Result) error {
	if _, err := fmt.Fprintln(w, " Min Stall (us) : Count"); err != nil {
		return err
	}
	for _, b := range r.Reported() {
		if _, err := fmt.Fprintf(w, "%15d : %d\n", b.TimeBoundary/uint64(time.Microsecond), b.Count); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Lost time %.6f (%.6fs of %ds)\n",
		r.LostFraction(), r.LostTime().Seconds(), r.Duration)
	return err
}

// Document is the JSON report.
type Document struct {
	RunID       string   `json:"run_id"`
	CPU         int      `json:"cpu"`
	CPUBrand    string   `json:"cpu_brand,omitempty"`
	Clock       string   `json:"clock"`
	Policy      string   `json:"policy"`
	Priority    int      `json:"priority"`
	DurationSec int      `json:"duration_sec"`
	ThresholdNs int64    `json:"threshold_ns"`
	Rate        uint64   `json:"rate_hz"`
	Achieved    uint64   `json:"achieved_hz"`
	Iterations  int      `json:"iterations"`
	Overflows   int      `json:"overflows"`
	MinStall    uint64   `json:"min_stall_ticks"`
	Buckets     []Bucket `json:"buckets"`
	Stalls      uint64   `json:"stalls"`
	LostTicks   uint64   `json:"lost_ticks"`
	Ticks       uint64   `json:"ticks"`
	LostRatio   float64  `json:"lost_ratio"`
	LostSec     float64  `json:"lost_sec"`
}

// Bucket is one reported histogram bucket.
type Bucket struct {
	BoundaryUs    uint64 `json:"boundary_us"`
	BoundaryTicks uint64 `json:"boundary_ticks"`
	Count         uint64 `json:"count"`
}

// NewDocument builds the JSON report of r.
func NewDocument(run Run, r *jitterz.Result) Document {
	d := Document{
		RunID:       run.ID.String(),
		CPU:         run.CPU,
		CPUBrand:    cpuid.CPU.BrandName,
		Clock:       run.Clock,
		Policy:      run.Policy,
		Priority:    run.Priority,
		DurationSec: r.Duration,
		ThresholdNs: run.Threshold.Nanoseconds(),
		Rate:        r.Rate,
		Achieved:    r.Achieved,
		Iterations:  r.Iterations,
		Overflows:   r.Overflows,
		MinStall:    r.Histogram.MinStall,
		Stalls:      r.Histogram.Stalls(),
		LostTicks:   r.Histogram.LostTicks,
		Ticks:       r.Ticks,
		LostRatio:   r.LostFraction(),
		LostSec:     r.LostTime().Seconds(),
	}
	for _, b := range r.Reported() {
		d.Buckets = append(d.Buckets, Bucket{
			BoundaryUs:    b.TimeBoundary / uint64(time.Microsecond),
			BoundaryTicks: b.TickBoundary,
			Count:         b.Count,
		})
	}
	return d
}

// WriteJSON writes the JSON report of r.
func WriteJSON(w io.Writer, run Run, r *jitterz.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewDocument(run, r))
}
