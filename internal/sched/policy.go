// Package sched prepares the calling OS thread for a measurement run:
// CPU affinity, scheduling policy and priority, and locked memory.
package sched

import (
	"errors"
	"strings"
)

// ErrUnsupported is returned on platforms without the needed syscalls.
var ErrUnsupported = errors.New("sched: unsupported on this platform")

// Policy is a Linux scheduling policy (the value passed to sched_setattr).
type Policy uint32

const (
	Other Policy = 0
	FIFO  Policy = 1
	RR    Policy = 2
	Batch Policy = 3
	Idle  Policy = 5
)

var policyNames = []struct {
	name string
	p    Policy
}{
	{"other", Other},
	{"fifo", FIFO},
	{"rr", RR},
	{"batch", Batch},
	{"idle", Idle},
}

// ParsePolicy maps a policy name to a Policy.
// Matching is case-insensitive on a prefix of the name ("FI" is fifo);
// anything unrecognized is Other.
func ParsePolicy(s string) Policy {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Other
	}
	for _, pn := range policyNames {
		if strings.HasPrefix(pn.name, s) {
			return pn.p
		}
	}
	return Other
}

// RealTime reports whether p takes a static priority.
func (p Policy) RealTime() bool {
	return p == FIFO || p == RR
}

func (p Policy) String() string {
	for _, pn := range policyNames {
		if pn.p == p {
			return pn.name
		}
	}
	return "unknown"
}
