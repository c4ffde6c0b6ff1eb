package cli

import (
	"log/slog"
	"runtime"
	"runtime/debug"

	"github.com/klauspost/cpuid/v2"
	"github.com/spf13/cobra"

	"github.com/templexxx/jitterz"
	"github.com/templexxx/jitterz/internal/config"
	"github.com/templexxx/jitterz/internal/report"
	"github.com/templexxx/jitterz/internal/sched"
)

func run(opts *RootOptions, cmd *cobra.Command) error {
	log := newLogger(cmd.ErrOrStderr(), opts.Verbose)

	cfg, err := resolveConfig(opts, cmd.Flags())
	if err != nil {
		return WrapExitError(ExitFailure, "failed to load config", err)
	}
	cfg.Normalize(sched.AllowedCPUs())

	src, err := jitterz.NewSource(cfg.RDTSC, cfg.Clock)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to open counter", err)
	}
	clock := "TSC"
	if !cfg.RDTSC {
		clock = jitterz.ClockName(cfg.Clock)
		if cfg.Clock == jitterz.ClockMonotonicRaw {
			log.Warn("clock is read through a syscall; expect read latency in the histogram", "clock", clock)
		}
	}

	nominal, from, err := resolveFrequency(cfg, opts.Freq)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to get nominal frequency", err)
	}

	log.Info("starting",
		"cpu", cfg.CPU,
		"brand", cpuid.CPU.BrandName,
		"policy", cfg.Policy,
		"priority", cfg.Priority,
		"clock", clock,
		"nominal_hz", nominal,
		"nominal_from", from,
		"duration", cfg.Duration,
		"threshold", cfg.Threshold())

	setup := opts.Setup
	if setup == nil {
		setup = sched.Context.Setup
	}
	if err := setup(cfg.Context()); err != nil {
		return WrapExitError(ExitFailure, "failed to set up execution", err)
	}

	res, err := calibrate(log, cfg, src, nominal)
	if err != nil {
		return WrapExitError(ExitFailure, "calibration failed", err)
	}
	log.Info("converged",
		"rate_hz", res.Rate,
		"achieved_hz", res.Achieved,
		"iterations", res.Iterations,
		"overflows", res.Overflows)

	rn := report.NewRun(cfg.CPU, clock, cfg.Policy, cfg.Priority, cfg.Threshold())
	out := cmd.OutOrStdout()
	if cfg.Format == config.FormatJSON {
		err = report.WriteJSON(out, rn, res)
	} else {
		err = report.WriteText(out, res)
	}
	if err != nil {
		return WrapExitError(ExitFailure, "failed to write report", err)
	}

	if cfg.Plot != "" {
		if err := report.SavePlot(cfg.Plot, rn, res); err != nil {
			log.Error("failed to save plot", "path", cfg.Plot, "error", err)
		} else {
			log.Info("plot saved", "path", cfg.Plot)
		}
	}
	return nil
}

// calibrate runs the Calibrator with the collector off.
// A GC cycle would otherwise show up as a stall.
func calibrate(log *slog.Logger, cfg *config.Config, src jitterz.Source, nominal uint64) (*jitterz.Result, error) {
	runtime.GC()
	defer debug.SetGCPercent(debug.SetGCPercent(-1))

	o := cfg.Options()
	o.OnIteration = func(it jitterz.Iteration) {
		log.Debug("iteration",
			"n", it.N,
			"state", it.State,
			"rate_hz", it.Rate,
			"achieved_hz", it.Achieved,
			"deviation", it.Deviation,
			"overflow", it.Overflow,
			"stalls", it.Stalls,
			"elapsed", it.Elapsed)
	}
	return jitterz.NewCalibrator(src, jitterz.RawClock{}, o).Run(nominal)
}
