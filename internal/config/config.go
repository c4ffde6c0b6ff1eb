// Package config holds the resolved configuration of a run.
package config

import (
	"fmt"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/templexxx/jitterz"
	"github.com/templexxx/jitterz/internal/sched"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config is the execution configuration. Normalize it before use;
// after that it is not modified.
type Config struct {
	CPU      int    `yaml:"cpu"` // Negative: last CPU available.
	Clock    int    `yaml:"clock"`
	Policy   string `yaml:"policy"`
	Priority int    `yaml:"priority"`
	Duration int    `yaml:"duration"` // Seconds.
	RDTSC    bool   `yaml:"rdtsc"`

	ThresholdNs   int64   `yaml:"threshold_ns"`
	FrequencyHz   uint64  `yaml:"frequency_hz"` // Nominal rate override, 0 to detect.
	MaxIterations int     `yaml:"max_iterations"`
	Tolerance     float64 `yaml:"tolerance"`

	Format string `yaml:"format"`
	Plot   string `yaml:"plot"` // PNG path, empty for none.
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		CPU:           -1,
		Clock:         jitterz.ClockMonotonic,
		Policy:        sched.FIFO.String(),
		Priority:      5,
		Duration:      jitterz.DefaultDuration,
		ThresholdNs:   int64(jitterz.DefaultStallThreshold),
		MaxIterations: jitterz.DefaultMaxIterations,
		Tolerance:     jitterz.DefaultTolerance,
		Format:        FormatText,
	}
}

// Load reads a YAML config; fields it doesn't set keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	c := Default()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return c, nil
}

// ForcePriority sets an explicitly requested priority. A priority only
// means something to a real-time policy, so anything else becomes fifo.
func (c *Config) ForcePriority(p int) {
	c.Priority = p
	if !sched.ParsePolicy(c.Policy).RealTime() {
		c.Policy = sched.FIFO.String()
	}
}

// Real-time priority range accepted by sched_setattr.
const (
	MinRTPriority = 1
	MaxRTPriority = 99
)

// Normalize replaces out-of-range values with defaults.
// cpus are the CPUs the process may run on; a CPU outside them becomes
// the highest of them.
func (c *Config) Normalize(cpus []int) {
	if !slices.Contains(cpus, c.CPU) {
		c.CPU = 0
		if len(cpus) > 0 {
			c.CPU = slices.Max(cpus)
		}
	}
	switch c.Clock {
	case jitterz.ClockMonotonic, jitterz.ClockRealtime, jitterz.ClockMonotonicRaw:
	default:
		c.Clock = jitterz.ClockMonotonic
	}

	p := sched.ParsePolicy(c.Policy)
	c.Policy = p.String()
	switch {
	case !p.RealTime():
		c.Priority = 0
	case c.Priority < MinRTPriority:
		c.Priority = MinRTPriority
	case c.Priority > MaxRTPriority:
		c.Priority = MaxRTPriority
	}

	if c.Duration <= 0 {
		c.Duration = jitterz.DefaultDuration
	}
	if c.ThresholdNs <= 0 {
		c.ThresholdNs = int64(jitterz.DefaultStallThreshold)
	}
	if c.MaxIterations < 0 {
		c.MaxIterations = 0
	}
	if c.Tolerance <= 0 {
		c.Tolerance = jitterz.DefaultTolerance
	}
	if c.Format != FormatJSON {
		c.Format = FormatText
	}
}

// SchedPolicy returns the parsed policy.
func (c *Config) SchedPolicy() sched.Policy {
	return sched.ParsePolicy(c.Policy)
}

// Threshold returns the stall threshold.
func (c *Config) Threshold() time.Duration {
	return time.Duration(c.ThresholdNs)
}

// Context returns the execution setup for the run.
func (c *Config) Context() sched.Context {
	return sched.Context{CPU: c.CPU, Policy: c.SchedPolicy(), Priority: c.Priority}
}

// Options returns the calibration options for the run.
func (c *Config) Options() jitterz.Options {
	return jitterz.Options{
		Duration:       c.Duration,
		StallThreshold: c.Threshold(),
		Tolerance:      c.Tolerance,
		MaxIterations:  c.MaxIterations,
	}
}
