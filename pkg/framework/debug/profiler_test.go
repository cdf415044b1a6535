package debug

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestProfilerStart(t *testing.T) {
	p := NewProfiler(10)
	stop := p.Start("compute")
	time.Sleep(2 * time.Millisecond)
	stop()

	tm, ok := p.Timing("compute")
	require.True(t, ok)
	assert.Equal(t, uint64(1), tm.Count)
	assert.GreaterOrEqual(t, tm.Total, 2*time.Millisecond)
	assert.Equal(t, tm.Total, tm.Mean())
}

func TestProfilerDisabled(t *testing.T) {
	p := NewProfiler(10)
	p.SetEnabled(false)
	p.Start("off")()

	_, ok := p.Timing("off")
	assert.False(t, ok)
}

func TestProfilerStats(t *testing.T) {
	p := NewProfiler(4)
	for _, d := range []time.Duration{5, 1, 9, 3, 7} {
		p.record("s", d)
	}

	tm, ok := p.Timing("s")
	require.True(t, ok)
	assert.Equal(t, uint64(5), tm.Count)
	assert.Equal(t, time.Duration(1), tm.Min)
	assert.Equal(t, time.Duration(9), tm.Max)
	assert.Equal(t, time.Duration(5), tm.Mean())
	// the ring holds 7, 1, 9, 3
	assert.Equal(t, time.Duration(1), tm.Percentile(0))
	assert.Equal(t, time.Duration(9), tm.Percentile(100))
}

func TestProfilerSectionsAndReset(t *testing.T) {
	p := NewProfiler(1)
	p.record("b", 1)
	p.record("a", 1)
	assert.Equal(t, []string{"a", "b"}, p.Sections())

	p.Reset()
	assert.Empty(t, p.Sections())
}

func TestBlockProfiler(t *testing.T) {
	b := NewBlockProfiler(48000, 480)
	assert.Equal(t, 10*time.Millisecond, b.Budget())
	assert.Zero(t, b.Load())

	b.record(BlockSection, 5*time.Millisecond)
	assert.InDelta(t, 50, b.Load(), 0.01)

	var buf bytes.Buffer
	b.Log(NewWriterLogger(&buf, zapcore.InfoLevel))
	assert.Contains(t, buf.String(), "block timing")
	assert.Contains(t, buf.String(), "load_percent")
}
