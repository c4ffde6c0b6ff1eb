package sched

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in   string
		want Policy
	}{
		{"other", Other},
		{"fifo", FIFO},
		{"FIFO", FIFO},
		{"fi", FIFO},
		{"f", FIFO},
		{"rr", RR},
		{"R", RR},
		{"batch", Batch},
		{"b", Batch},
		{"idle", Idle},
		{"Id", Idle},
		{"o", Other},
		{"", Other},
		{"deadline", Other},
		{"fifoo", Other},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParsePolicy(tt.in))
		})
	}
}

func TestPolicyRealTime(t *testing.T) {
	assert.True(t, FIFO.RealTime())
	assert.True(t, RR.RealTime())
	assert.False(t, Other.RealTime())
	assert.False(t, Batch.RealTime())
	assert.False(t, Idle.RealTime())
}

func TestPolicyString(t *testing.T) {
	for _, name := range []string{"other", "fifo", "rr", "batch", "idle"} {
		assert.Equal(t, name, ParsePolicy(name).String())
	}
	assert.Equal(t, "unknown", Policy(42).String())
}
