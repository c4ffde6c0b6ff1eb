// getfreq measures the rate of the counter jitterz samples and prints it
// next to every nominal value jitterz could start calibrating from.
//
// A measured value can be passed to jitterz --freq (or added to FreqTbl)
// to skip calibration retries.
package main

import (
	"flag"
	"fmt"
	"runtime"
	"slices"
	"sort"
	"time"

	"github.com/klauspost/cpuid/v2"

	"github.com/templexxx/jitterz"
	"github.com/templexxx/jitterz/internal/cpufreq"
	"github.com/templexxx/jitterz/internal/sched"
)

var (
	round   = flag.Int("round", 16, "measurements, one per interval")
	ivl     = flag.Duration("interval", 250*time.Millisecond, "time between the two stamps of a measurement")
	samples = flag.Int("samples", 256, "brackets tried per stamp")
	cpuID   = flag.Int("cpu", -1, "CPU to pin to (default: last CPU)")
	rdtsc   = flag.Bool("rdtsc", true, "measure the hardware counter, otherwise CLOCK_MONOTONIC")
)

func main() {
	flag.Parse()

	cpu := *cpuID
	if allowed := sched.AllowedCPUs(); !slices.Contains(allowed, cpu) {
		cpu = slices.Max(allowed)
	}
	runtime.LockOSThread()
	if err := sched.Pin(cpu); err != nil {
		fmt.Printf("pin failed, measuring unpinned: %v\n", err)
	}

	src, err := jitterz.NewSource(*rdtsc, jitterz.ClockMonotonic)
	if err != nil {
		fmt.Println(err)
		return
	}

	cnt := *round
	if cnt < 3 {
		cnt = 3
	}

	start := time.Now()
	wall := jitterz.RawClock{}
	freqs := make([]float64, cnt)
	for i := range freqs {
		t0, w0 := jitterz.Stamp(src, wall, *samples)
		time.Sleep(*ivl)
		t1, w1 := jitterz.Stamp(src, wall, *samples)
		freqs[i] = float64(t1-t0) * 1e9 / float64(w1-w0)
	}

	// Drop the extremes: a preempted stamp skews its measurement.
	sort.Float64s(freqs)
	freqs = freqs[1 : len(freqs)-1]
	total := float64(0)
	for _, f := range freqs {
		total += f
	}
	measured := total / float64(len(freqs))

	fmt.Printf("cpu: %s (%s) core: %d\n", jitterz.CPUSignature(), cpuid.CPU.BrandName, cpu)
	fmt.Printf("measured: %.0f Hz, spread: %.0f Hz, cost: %.2fs\n",
		measured, freqs[len(freqs)-1]-freqs[0], time.Since(start).Seconds())
	if !*rdtsc {
		return
	}
	fmt.Printf("cpuid/tbl: %d Hz\n", jitterz.CounterFrequency())
	if hz, path, err := (cpufreq.Reader{}).Read(cpu); err == nil {
		fmt.Printf("cpufreq: %d Hz (%s)\n", hz, path)
	} else {
		fmt.Printf("cpufreq: %v\n", err)
	}
}
