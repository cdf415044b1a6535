package debug

import (
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Profiler times named sections. It keeps running totals and a ring of the
// most recent durations of each section for percentiles.
type Profiler struct {
	mu       sync.Mutex
	sections map[string]*section
	window   int
	disabled atomic.Bool
}

type section struct {
	count    uint64
	total    time.Duration
	min, max time.Duration
	ring     []time.Duration
	next     int
}

// Timing is a snapshot of one section.
type Timing struct {
	Section string
	Count   uint64
	Total   time.Duration
	Min     time.Duration
	Max     time.Duration
	recent  []time.Duration
}

// NewProfiler returns a profiler that keeps the last window durations of
// each section.
func NewProfiler(window int) *Profiler {
	return &Profiler{
		sections: make(map[string]*section),
		window:   max(window, 1),
	}
}

// SetEnabled turns recording on or off. A new profiler records.
func (p *Profiler) SetEnabled(enabled bool) { p.disabled.Store(!enabled) }

// Start begins timing name. The returned function stops it.
func (p *Profiler) Start(name string) func() {
	if p.disabled.Load() {
		return func() {}
	}
	start := time.Now()
	return func() { p.record(name, time.Since(start)) }
}

func (p *Profiler) record(name string, d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := p.sections[name]
	if s == nil {
		s = &section{min: d, max: d, ring: make([]time.Duration, 0, p.window)}
		p.sections[name] = s
	}
	s.count++
	s.total += d
	s.min = min(s.min, d)
	s.max = max(s.max, d)
	if len(s.ring) < p.window {
		s.ring = append(s.ring, d)
	} else {
		s.ring[s.next] = d
	}
	s.next = (s.next + 1) % p.window
}

// Timing returns a snapshot of name, or false if it never ran.
func (p *Profiler) Timing(name string) (Timing, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := p.sections[name]
	if s == nil {
		return Timing{}, false
	}
	return Timing{
		Section: name,
		Count:   s.count,
		Total:   s.total,
		Min:     s.min,
		Max:     s.max,
		recent:  slices.Clone(s.ring),
	}, true
}

// Sections returns the names of all recorded sections, sorted.
func (p *Profiler) Sections() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	names := make([]string, 0, len(p.sections))
	for name := range p.sections {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Reset drops all sections.
func (p *Profiler) Reset() {
	p.mu.Lock()
	clear(p.sections)
	p.mu.Unlock()
}

// Mean is the average duration over all runs.
func (t Timing) Mean() time.Duration {
	if t.Count == 0 {
		return 0
	}
	return t.Total / time.Duration(t.Count)
}

// Percentile returns the q-th percentile (0-100) of the recent durations.
func (t Timing) Percentile(q float64) time.Duration {
	if len(t.recent) == 0 {
		return 0
	}
	sorted := slices.Clone(t.recent)
	slices.Sort(sorted)
	i := int(float64(len(sorted)-1) * q / 100)
	return sorted[min(max(i, 0), len(sorted)-1)]
}

// Fields renders t as structured log fields.
func (t Timing) Fields() []zap.Field {
	return []zap.Field{
		zap.String("section", t.Section),
		zap.Uint64("count", t.Count),
		zap.Duration("mean", t.Mean()),
		zap.Duration("min", t.Min),
		zap.Duration("max", t.Max),
		zap.Duration("p99", t.Percentile(99)),
	}
}

// BlockSection is the section BlockProfiler records under.
const BlockSection = "process"

// BlockProfiler times audio blocks against the real time they represent.
type BlockProfiler struct {
	*Profiler
	budget time.Duration
}

// NewBlockProfiler times blocks of blockSize frames at sampleRate.
func NewBlockProfiler(sampleRate float64, blockSize int) *BlockProfiler {
	b := &BlockProfiler{Profiler: NewProfiler(1000)}
	if sampleRate > 0 {
		b.budget = time.Duration(float64(blockSize) / sampleRate * float64(time.Second))
	}
	return b
}

// Block starts timing one block.
func (b *BlockProfiler) Block() func() { return b.Start(BlockSection) }

// Budget is the real time duration of one block.
func (b *BlockProfiler) Budget() time.Duration { return b.budget }

// Load is the mean block time as a percentage of the budget.
func (b *BlockProfiler) Load() float64 {
	t, ok := b.Timing(BlockSection)
	if !ok || b.budget == 0 {
		return 0
	}
	return float64(t.Mean()) / float64(b.budget) * 100
}

// Log writes the block timing to logger at info level.
func (b *BlockProfiler) Log(logger *zap.Logger) {
	t, ok := b.Timing(BlockSection)
	if !ok {
		return
	}
	logger.Info("block timing", append(t.Fields(),
		zap.Duration("budget", b.budget),
		zap.Float64("load_percent", b.Load()),
	)...)
}
