// Package cli implements the jitterz command.
package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/templexxx/jitterz/internal/config"
	"github.com/templexxx/jitterz/internal/cpufreq"
	"github.com/templexxx/jitterz/internal/sched"
)

// RootOptions holds the flags of the command.
type RootOptions struct {
	Config  string
	Verbose bool

	flags *config.Config // Flag targets; only changed flags are applied.

	// Setup overrides the execution setup (for testing).
	// If nil, sched.Context.Setup is used.
	Setup func(sched.Context) error
	// Freq overrides where nominal frequencies are read (for testing).
	Freq cpufreq.Reader
}

// NewRootCommand creates the jitterz command.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	opts.flags = config.Default()

	cmd := &cobra.Command{
		Use:   "jitterz",
		Short: "Measure scheduling jitter on one core",
		Long: `jitterz pins itself to one CPU, switches to a real-time policy and
busy-polls a timestamp counter, recording every gap between two reads
that is longer than the stall threshold.

The counter rate is calibrated against CLOCK_MONOTONIC_RAW while sampling:
when the rate assumed by a run turns out to be off, the histogram is
discarded and the run repeated with the measured rate.

Example:
  jitterz --cpu 3 --duration 60
  jitterz --rdtsc --priority 90 --format json
  jitterz --config run.yaml --plot stalls.png`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts, cmd)
		},
	}

	f, fs := opts.flags, cmd.Flags()
	fs.IntVarP(&f.CPU, "cpu", "c", f.CPU, "CPU to measure on (default: last CPU)")
	fs.IntVar(&f.Clock, "clock", f.Clock, "OS clock: 0 monotonic, 1 realtime, 2 monotonic raw")
	fs.StringVar(&f.Policy, "policy", f.Policy, "scheduling policy (other|fifo|rr|batch|idle)")
	fs.IntVarP(&f.Priority, "priority", "p", f.Priority, "real-time priority; implies fifo for non real-time policies")
	fs.IntVarP(&f.Duration, "duration", "d", f.Duration, "seconds sampled per calibration iteration")
	fs.BoolVar(&f.RDTSC, "rdtsc", f.RDTSC, "sample the hardware counter instead of an OS clock")
	fs.Int64Var(&f.ThresholdNs, "threshold", f.ThresholdNs, "shortest gap counted as a stall (ns)")
	fs.Uint64Var(&f.FrequencyHz, "freq", f.FrequencyHz, "nominal counter rate in Hz (default: detect, or $"+FreqEnv+")")
	fs.IntVar(&f.MaxIterations, "max-iterations", f.MaxIterations, "calibration attempts before giving up, 0 for no limit")
	fs.Float64Var(&f.Tolerance, "tolerance", f.Tolerance, "accepted relative rate deviation")
	fs.StringVar(&f.Format, "format", f.Format, "report format (text|json)")
	fs.StringVar(&f.Plot, "plot", f.Plot, "also render the histogram to this image file")
	fs.StringVar(&opts.Config, "config", "", "YAML config file; flags override it")
	fs.BoolVarP(&opts.Verbose, "verbose", "v", false, "log every calibration iteration")

	return cmd
}

// resolveConfig starts from the config file (or the defaults) and applies
// the flags the user set.
func resolveConfig(opts *RootOptions, fs *pflag.FlagSet) (*config.Config, error) {
	cfg := config.Default()
	if opts.Config != "" {
		var err error
		if cfg, err = config.Load(opts.Config); err != nil {
			return nil, err
		}
	}

	src := opts.flags
	fs.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "cpu":
			cfg.CPU = src.CPU
		case "clock":
			cfg.Clock = src.Clock
		case "policy":
			cfg.Policy = src.Policy
		case "duration":
			cfg.Duration = src.Duration
		case "rdtsc":
			cfg.RDTSC = src.RDTSC
		case "threshold":
			cfg.ThresholdNs = src.ThresholdNs
		case "freq":
			cfg.FrequencyHz = src.FrequencyHz
		case "max-iterations":
			cfg.MaxIterations = src.MaxIterations
		case "tolerance":
			cfg.Tolerance = src.Tolerance
		case "format":
			cfg.Format = src.Format
		case "plot":
			cfg.Plot = src.Plot
		}
	})
	// After policy: an explicit priority may override it.
	if fs.Changed("priority") {
		cfg.ForcePriority(src.Priority)
	}
	return cfg, nil
}
