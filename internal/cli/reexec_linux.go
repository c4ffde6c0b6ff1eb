//go:build linux

package cli

import (
	"os"

	"golang.org/x/sys/unix"
)

// Reexec replaces the process with itself running with async preemption
// off, unless it already is.
//
// sysmon preempts any goroutine running for more than 10ms by signalling
// its thread; in a busy loop every one of those signals would be recorded
// as a stall. GODEBUG is only read at startup, hence the exec.
// It returns only on failure.
func Reexec() error {
	env, ok := preemptOffEnv(os.Environ())
	if !ok {
		return nil
	}
	exe, err := os.Executable()
	if err != nil {
		return err
	}
	return unix.Exec(exe, os.Args, env)
}
