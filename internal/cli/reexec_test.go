package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreemptOffEnv(t *testing.T) {
	for _, tc := range []struct {
		name    string
		environ []string
		exp     []string
		exec    bool
	}{
		{
			name:    "no godebug",
			environ: []string{"HOME=/root", "PATH=/bin"},
			exp:     []string{"HOME=/root", "PATH=/bin", "GODEBUG=asyncpreemptoff=1"},
			exec:    true,
		},
		{
			name:    "appends to godebug",
			environ: []string{"GODEBUG=gctrace=1", "PATH=/bin"},
			exp:     []string{"PATH=/bin", "GODEBUG=gctrace=1,asyncpreemptoff=1"},
			exec:    true,
		},
		{
			name:    "empty godebug",
			environ: []string{"GODEBUG="},
			exp:     []string{"GODEBUG=asyncpreemptoff=1"},
			exec:    true,
		},
		{
			name:    "already set",
			environ: []string{"PATH=/bin", "GODEBUG=madvdontneed=1,asyncpreemptoff=1"},
			exp:     []string{"PATH=/bin", "GODEBUG=madvdontneed=1,asyncpreemptoff=1"},
			exec:    false,
		},
		{
			name:    "other value of the setting",
			environ: []string{"GODEBUG=asyncpreemptoff=0"},
			exp:     []string{"GODEBUG=asyncpreemptoff=0,asyncpreemptoff=1"},
			exec:    true,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			env, exec := preemptOffEnv(tc.environ)
			assert.Equal(t, tc.exec, exec)
			assert.Equal(t, tc.exp, env)
		})
	}
}
