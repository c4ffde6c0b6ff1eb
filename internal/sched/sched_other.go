//go:build !linux

package sched

func pin(int) error { return ErrUnsupported }

func setSchedule(Policy, int) error { return ErrUnsupported }

func lockMemory() error { return ErrUnsupported }

// Affinity returns ErrUnsupported.
func Affinity() ([]int, error) { return nil, ErrUnsupported }
