// Package cpufreq reads the nominal frequency of a core from sysfs.
package cpufreq

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultRoot is where Linux exposes per-core cpufreq directories.
const DefaultRoot = "/sys/devices/system/cpu"

// Files are tried in order; the first readable, non-zero value wins.
// All of them hold kHz.
var Files = []string{
	"cpuinfo_cur_freq",
	"scaling_cur_freq",
	"base_frequency",
	"cpuinfo_max_freq",
}

// ErrNoFrequency is returned when none of Files could be read.
var ErrNoFrequency = errors.New("cpufreq: no frequency source")

// Reader reads frequency files below Root.
type Reader struct {
	Root string // DefaultRoot if empty.
}

// Read returns the frequency of cpu in Hz and the file it came from.
func (r Reader) Read(cpu int) (hz uint64, path string, err error) {
	root := r.Root
	if root == "" {
		root = DefaultRoot
	}
	dir := filepath.Join(root, fmt.Sprintf("cpu%d", cpu), "cpufreq")

	var errs []error
	for _, name := range Files {
		path = filepath.Join(dir, name)
		khz, err := readKHz(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		return khz * 1000, path, nil
	}
	return 0, "", fmt.Errorf("%w for cpu %d: %w", ErrNoFrequency, cpu, errors.Join(errs...))
}

func readKHz(path string) (uint64, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(strings.TrimSpace(string(b)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", path, err)
	}
	if v == 0 {
		return 0, fmt.Errorf("%s: zero frequency", path)
	}
	return v, nil
}
