// Package param holds host-facing parameters: their ranges, their current
// value and the listener that forwards edits to the DSP engine.
package param

import (
	"fmt"
	"math"
	"strconv"
	"sync"
	"sync/atomic"
)

// Flags mirror the VST3 parameter flags bit for bit.
const (
	CanAutomate uint32 = 1 << 0
	IsReadOnly  uint32 = 1 << 1
	IsList      uint32 = 1 << 3
	IsHidden    uint32 = 1 << 4
)

// Parameter is one host parameter. The current value is kept in the
// parameter's own (plain) range and may be read and written from any thread.
type Parameter struct {
	ID        uint32
	Name      string
	ShortName string
	Unit      string
	Min       float64
	Max       float64
	StepCount int32
	Flags     uint32
	UnitID    int32

	DefaultPlain float64
	DefaultValue float64 // normalized

	value atomic.Uint64 // float64 bits of the plain value
	mu    sync.Mutex   // orders writes with their notifications

	onChange func(plain float64)
	format   func(plain float64) string
	parse    func(s string) (float64, error)
}

// GetPlainValue returns the current value in the parameter's own range.
func (p *Parameter) GetPlainValue() float64 {
	return math.Float64frombits(p.value.Load())
}

// SetPlainValue stores plain as given, without range validation. The change
// listener sees the value once, and only if it differs from the stored one.
// Concurrent writers notify in the order they stored, so the listener's last
// value is the stored one. The listener must not write the same parameter.
func (p *Parameter) SetPlainValue(plain float64) {
	bits := math.Float64bits(plain)
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.value.Swap(bits) == bits {
		return
	}
	if p.onChange != nil {
		p.onChange(plain)
	}
}

// GetValue returns the current value normalized to 0..1.
func (p *Parameter) GetValue() float64 {
	return p.Normalize(p.GetPlainValue())
}

// SetValue sets the value from a normalized one, clamped to 0..1.
func (p *Parameter) SetValue(normalized float64) {
	p.SetPlainValue(p.Denormalize(min(max(normalized, 0), 1)))
}

// Reset restores the default value without notifying the listener.
func (p *Parameter) Reset() {
	p.value.Store(math.Float64bits(p.DefaultPlain))
}

// OnChange replaces the change listener. It must be set before the
// parameter is shared between threads.
func (p *Parameter) OnChange(fn func(plain float64)) {
	p.onChange = fn
}

// SetFormatter replaces the text conversion of plain values. Nil functions
// select the default number formatting.
func (p *Parameter) SetFormatter(format func(float64) string, parse func(string) (float64, error)) {
	p.format = format
	p.parse = parse
}

// Normalize maps plain onto 0..1. Values outside the range are clamped and
// an empty range maps everything to 0.
func (p *Parameter) Normalize(plain float64) float64 {
	span := p.Max - p.Min
	if span <= 0 {
		return 0
	}
	return min(max((plain-p.Min)/span, 0), 1)
}

// Denormalize maps 0..1 onto the plain range. Stepped parameters snap to
// the nearest step.
func (p *Parameter) Denormalize(normalized float64) float64 {
	if p.StepCount > 0 {
		steps := float64(p.StepCount)
		normalized = math.Round(normalized*steps) / steps
	}
	return p.Min + normalized*(p.Max-p.Min)
}

// FormatValue renders a normalized value as text in the parameter's unit.
func (p *Parameter) FormatValue(normalized float64) string {
	plain := p.Denormalize(normalized)
	switch {
	case p.format != nil:
		return p.format(plain)
	case p.StepCount > 0:
		return strconv.FormatFloat(plain, 'f', 0, 64)
	default:
		return strconv.FormatFloat(plain, 'f', 2, 64)
	}
}

// ParseValue reads text typed by the user and returns it normalized.
func (p *Parameter) ParseValue(s string) (float64, error) {
	var (
		plain float64
		err   error
	)
	if p.parse != nil {
		plain, err = p.parse(s)
	} else {
		plain, err = parseScaled(s, nil)
	}
	if err != nil {
		return 0, fmt.Errorf("parse %q for %s: %w", s, p.Name, err)
	}
	return p.Normalize(plain), nil
}
