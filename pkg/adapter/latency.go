package adapter

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

const (
	metaLatencySamples = "latency_samples"
	metaLatencySec     = "latency_sec"
)

// LatencyFromMeta reads the latency an engine declares in its metadata
// document. Every entry of the "meta" list may declare latency_samples, or
// failing that latency_sec, given as a number or a numeric string; the last
// declaring entry wins. Entries that are not objects are skipped. Latencies
// are truncated and clamped to 0..MaxInt32. A document that does not parse
// yields 0 and the parse error.
func LatencyFromMeta(meta string, sampleRate float64) (int, error) {
	var doc struct {
		Meta []json.RawMessage `json:"meta"`
	}
	if err := json.Unmarshal([]byte(meta), &doc); err != nil {
		return 0, fmt.Errorf("parse engine metadata: %w", err)
	}

	latency := 0
	for _, raw := range doc.Meta {
		var entry map[string]json.RawMessage
		if json.Unmarshal(raw, &entry) != nil {
			continue
		}
		if v, ok := metaNumber(entry, metaLatencySamples); ok {
			latency = toSamples(v)
		} else if v, ok := metaNumber(entry, metaLatencySec); ok {
			latency = toSamples(v * sampleRate)
		}
	}
	return latency, nil
}

func toSamples(v float64) int {
	return int(min(max(math.Trunc(v), 0), math.MaxInt32))
}

func metaNumber(entry map[string]json.RawMessage, key string) (float64, bool) {
	raw, ok := entry[key]
	if !ok {
		return 0, false
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, !math.IsNaN(f) && !math.IsInf(f, 0)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// GetLatencySamples returns the latency last reported to the host.
func (a *Adapter) GetLatencySamples() int32 {
	return a.latency.Load()
}

// OnLatencyChange registers fn to be called whenever the reported latency
// changes, so the host can be asked to re-read it.
func (a *Adapter) OnLatencyChange(fn func(samples int32)) {
	a.mu.Lock()
	a.onLatency = fn
	a.mu.Unlock()
}

func (a *Adapter) setLatency(samples int) {
	if samples > math.MaxInt32 {
		samples = math.MaxInt32
	}
	n := int32(samples)
	if old := a.latency.Swap(n); old == n {
		return
	}

	a.logger.Info("latency changed", zap.Int32("samples", n))
	a.mu.Lock()
	fn := a.onLatency
	a.mu.Unlock()
	if fn != nil {
		fn(n)
	}
}
