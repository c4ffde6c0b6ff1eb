package sched

import (
	"fmt"
	"runtime"
)

// Context is the one-time execution setup of a run.
type Context struct {
	CPU      int
	Policy   Policy
	Priority int
}

// Setup locks the calling goroutine to its OS thread, then pins the
// thread, applies the scheduling policy and locks memory, in that order.
//
// Any failure is fatal for a run; nothing is retried. The thread stays
// locked: the caller must do the measurement on the same goroutine.
func (c Context) Setup() error {
	runtime.LockOSThread()

	if err := Pin(c.CPU); err != nil {
		return err
	}
	if err := SetSchedule(c.Policy, c.Priority); err != nil {
		return err
	}
	return LockMemory()
}

// Pin binds the calling thread to exactly one CPU.
func Pin(cpu int) error {
	if err := pin(cpu); err != nil {
		return fmt.Errorf("sched: pin to cpu %d: %w", cpu, err)
	}
	return nil
}

// SetSchedule applies policy and priority to the calling thread.
func SetSchedule(p Policy, priority int) error {
	if err := setSchedule(p, priority); err != nil {
		return fmt.Errorf("sched: set policy %s priority %d: %w", p, priority, err)
	}
	return nil
}

// LockMemory locks every current and future page of the process,
// so no page fault lands in the measurement.
func LockMemory() error {
	if err := lockMemory(); err != nil {
		return fmt.Errorf("sched: lock memory: %w", err)
	}
	return nil
}

// AllowedCPUs returns the CPUs the calling thread may run on, falling
// back to 0..runtime.NumCPU()-1 when the affinity mask can't be read.
func AllowedCPUs() []int {
	if cpus, err := Affinity(); err == nil && len(cpus) > 0 {
		return cpus
	}
	cpus := make([]int, runtime.NumCPU())
	for i := range cpus {
		cpus[i] = i
	}
	return cpus
}
