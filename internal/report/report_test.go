package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templexxx/jitterz"
)

// nsResult is a one second run of a nanosecond clock with the default threshold.
func nsResult() *jitterz.Result {
	r := &jitterz.Result{Rate: 1e9, Achieved: 1e9, Ticks: 1e9, Duration: 1, Iterations: 2, Overflows: 1}
	r.Histogram.Reset(1500, 1e9)
	r.Histogram.Buckets[0].Count = 120
	r.Histogram.Buckets[1].Count = 31
	r.Histogram.Buckets[2].Count = 7
	r.Histogram.Buckets[5].Count = 1
	r.Histogram.LostTicks = 1234567
	return r
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, nsResult()))

	g := goldie.New(t)
	g.Assert(t, "text_ns", buf.Bytes())
}

func TestWriteTextFiltersLongBuckets(t *testing.T) {
	r := &jitterz.Result{Rate: 1e6, Ticks: 1e6, Duration: 1}
	r.Histogram.Reset(100000, 1e6) // 100ms.
	r.Histogram.Buckets[0].Count = 2
	r.Histogram.Buckets[1].Count = 1
	r.Histogram.LostTicks = 250000

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, r))

	g := goldie.New(t)
	g.Assert(t, "text_filtered", buf.Bytes())
}

func TestWriteJSON(t *testing.T) {
	run := NewRun(7, "TSC", "fifo", 5, 1500*time.Nanosecond)
	run.ID = uuid.MustParse("6f1c1e4a-5b7e-4d5f-9a8e-1c2b3d4e5f60")

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, run, nsResult()))

	var d Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &d))
	assert.Equal(t, "6f1c1e4a-5b7e-4d5f-9a8e-1c2b3d4e5f60", d.RunID)
	assert.Equal(t, 7, d.CPU)
	assert.Equal(t, "TSC", d.Clock)
	assert.Equal(t, int64(1500), d.ThresholdNs)
	assert.Equal(t, 2, d.Iterations)
	assert.Equal(t, 1, d.Overflows)
	assert.Equal(t, uint64(159), d.Stalls)
	assert.Equal(t, uint64(1500), d.MinStall)
	require.Len(t, d.Buckets, jitterz.NumBuckets)
	assert.Equal(t, Bucket{BoundaryUs: 6, BoundaryTicks: 6000, Count: 7}, d.Buckets[2])
	assert.InDelta(t, 0.001234567, d.LostRatio, 1e-12)
}

func TestNewRunIDs(t *testing.T) {
	a := NewRun(0, "x", "other", 0, 0)
	b := NewRun(0, "x", "other", 0, 0)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestSavePlot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stalls.png")
	require.NoError(t, SavePlot(path, NewRun(1, "CLOCK_MONOTONIC", "fifo", 5, 0), nsResult()))

	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, fi.Size(), int64(0))
}

func TestSavePlotEmpty(t *testing.T) {
	r := &jitterz.Result{Rate: 1e6, Duration: 1}
	r.Histogram.Reset(1e9, 1e6) // First bucket is already 1000s.
	assert.Error(t, SavePlot(filepath.Join(t.TempDir(), "x.png"), Run{}, r))
}
