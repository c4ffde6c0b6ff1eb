package cli

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templexxx/jitterz"
	"github.com/templexxx/jitterz/internal/config"
	"github.com/templexxx/jitterz/internal/cpufreq"
)

func writeFreq(t *testing.T, root string, cpu int, name, khz string) {
	t.Helper()
	dir := filepath.Join(root, "cpu"+strconv.Itoa(cpu), "cpufreq")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(khz+"\n"), 0644))
}

func TestResolveFrequencyOption(t *testing.T) {
	t.Setenv(FreqEnv, "3e9")
	cfg := config.Default()
	cfg.FrequencyHz = 2_000_000_000

	f, from, err := resolveFrequency(cfg, cpufreq.Reader{Root: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, uint64(2_000_000_000), f)
	assert.Equal(t, OptionSource, from)
}

func TestResolveFrequencyEnv(t *testing.T) {
	t.Setenv(FreqEnv, "2.9e9")
	cfg := config.Default()
	cfg.RDTSC = true

	f, from, err := resolveFrequency(cfg, cpufreq.Reader{Root: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, uint64(2_900_000_000), f)
	assert.Equal(t, EnvSource, from)
}

func TestResolveFrequencyOSClock(t *testing.T) {
	t.Setenv(FreqEnv, "")
	cfg := config.Default()

	f, from, err := resolveFrequency(cfg, cpufreq.Reader{Root: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, jitterz.NanoRate, f)
	assert.Equal(t, ClockSource, from)
}

func TestResolveFrequencySysfs(t *testing.T) {
	if !jitterz.CounterFromCPUClock() {
		t.Skip("counter rate doesn't come from cpufreq here")
	}
	t.Setenv(FreqEnv, "")
	root := t.TempDir()
	writeFreq(t, root, 1, "base_frequency", "2400000")

	cfg := config.Default()
	cfg.RDTSC = true
	cfg.CPU = 1

	f, from, err := resolveFrequency(cfg, cpufreq.Reader{Root: root})
	require.NoError(t, err)
	assert.Equal(t, uint64(2_400_000_000), f)
	assert.Equal(t, filepath.Join(root, "cpu1", "cpufreq", "base_frequency"), from)
}

func TestResolveFrequencyNone(t *testing.T) {
	if jitterz.CounterFrequency() != 0 {
		t.Skip("CPU reports its counter frequency")
	}
	t.Setenv(FreqEnv, "")
	cfg := config.Default()
	cfg.RDTSC = true

	_, _, err := resolveFrequency(cfg, cpufreq.Reader{Root: t.TempDir()})
	assert.ErrorIs(t, err, cpufreq.ErrNoFrequency)
}
