package cli

import (
	"os"
	"strconv"

	"github.com/templexxx/jitterz"
	"github.com/templexxx/jitterz/internal/config"
	"github.com/templexxx/jitterz/internal/cpufreq"
)

// FreqEnv overrides the nominal tick rate (Hz), e.g. JITTERZ_FREQ=2.9e9.
const FreqEnv = "JITTERZ_FREQ"

// Frequency sources, as logged.
const (
	OptionSource = "option"
	EnvSource    = "env"
	ClockSource  = "clock"
	CPUIDSource  = "cpuid"
)

// resolveFrequency returns the rate the first calibration iteration starts
// from, and where it came from.
//
// OS clocks tick in nanoseconds. The hardware counter is seeded from sysfs
// when it follows the core clock, and from what the CPU reports about the
// counter otherwise (or when sysfs has nothing).
func resolveFrequency(cfg *config.Config, r cpufreq.Reader) (uint64, string, error) {
	if cfg.FrequencyHz > 0 {
		return cfg.FrequencyHz, OptionSource, nil
	}
	if f := fpFromEnv(FreqEnv); f >= 1 {
		return uint64(f), EnvSource, nil
	}
	if !cfg.RDTSC {
		return jitterz.NanoRate, ClockSource, nil
	}

	if !jitterz.CounterFromCPUClock() {
		if f := jitterz.CounterFrequency(); f > 0 {
			return f, CPUIDSource, nil
		}
	}
	hz, path, err := r.Read(cfg.CPU)
	if err == nil {
		return hz, path, nil
	}
	if f := jitterz.CounterFrequency(); f > 0 {
		return f, CPUIDSource, nil
	}
	return 0, "", err
}

func fpFromEnv(name string) float64 {
	s := os.Getenv(name)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
