package cli

import "strings"

const noAsyncPreempt = "asyncpreemptoff=1"

// preemptOffEnv returns environ with asyncpreemptoff=1 added to GODEBUG.
// It returns false when the setting is already there.
func preemptOffEnv(environ []string) ([]string, bool) {
	var godebug string
	env := make([]string, 0, len(environ)+1)
	for _, kv := range environ {
		if v, ok := strings.CutPrefix(kv, "GODEBUG="); ok {
			godebug = v
			continue
		}
		env = append(env, kv)
	}
	for _, s := range strings.Split(godebug, ",") {
		if s == noAsyncPreempt {
			return environ, false
		}
	}
	if godebug != "" {
		godebug += ","
	}
	return append(env, "GODEBUG="+godebug+noAsyncPreempt), true
}
