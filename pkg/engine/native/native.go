// Package native provides a pure-Go engine with the same call surface as a
// faust2api-generated DspFaust. It runs a fixed program (resonant lowpass, an
// optional lookahead delay and an output gain) and is used when no generated
// engine is linked in, by the offline renderer, and in tests.
package native

import (
	"encoding/json"
	"math"
	"strconv"
	"sync/atomic"

	"github.com/justyntemme/faustvst3/pkg/engine"
)

// Parameter indices of the native program.
const (
	ParamCutoff = iota
	ParamResonance
	ParamGain
	numParams
)

// control is one UI element of the program. Values are stored as float32 bits
// so the audio path can read them without locking.
type control struct {
	label string
	min   float32
	max   float32
	init  float32
	unit  string
	ctrl  int // MIDI CC bound to the control, -1 for none
	value atomic.Uint32
}

func (c *control) load() float32   { return math.Float32frombits(c.value.Load()) }
func (c *control) store(v float32) { c.value.Store(math.Float32bits(v)) }

// Engine is the native program. It is not safe to call Compute concurrently
// with itself; parameter setters may be called from any goroutine.
type Engine struct {
	cfg       engine.Config
	controls  [numParams]*control
	addresses [numParams]string
	byAddress map[string]int

	sampleRate atomic.Uint64
	running    atomic.Bool
	started    atomic.Bool

	filters []svf
	delays  []*lookahead
	meta    string
}

var (
	_ engine.Engine         = (*Engine)(nil)
	_ engine.BlockProcessor = (*Engine)(nil)
	_ engine.IndexedSetter  = (*Engine)(nil)
	_ engine.RateAware      = (*Engine)(nil)
)

// New builds the native program. Zero fields of cfg fall back to
// engine.DefaultConfig.
func New(cfg engine.Config) *Engine {
	def := engine.DefaultConfig()
	if cfg.Name == "" {
		cfg.Name = def.Name
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = def.SampleRate
	}
	if cfg.BlockSize <= 0 {
		cfg.BlockSize = def.BlockSize
	}
	if cfg.Channels <= 0 {
		cfg.Channels = def.Channels
	}
	if cfg.LatencySamples < 0 {
		cfg.LatencySamples = 0
	}

	e := &Engine{
		cfg:       cfg,
		byAddress: make(map[string]int, numParams),
		filters:   make([]svf, cfg.Channels),
		delays:    make([]*lookahead, cfg.Channels),
	}
	e.controls[ParamCutoff] = &control{label: "cutoff", min: 20, max: 20000, init: 20000, unit: "Hz", ctrl: 74}
	e.controls[ParamResonance] = &control{label: "resonance", min: 0.5, max: 10, init: 0.707, ctrl: 71}
	e.controls[ParamGain] = &control{label: "gain", min: -60, max: 12, init: 0, unit: "dB", ctrl: 7}

	for i, c := range e.controls {
		c.store(c.init)
		e.addresses[i] = "/" + cfg.Name + "/" + c.label
		e.byAddress[e.addresses[i]] = i
	}
	for ch := range e.delays {
		e.delays[ch] = newLookahead(cfg.LatencySamples)
	}
	e.sampleRate.Store(math.Float64bits(cfg.SampleRate))
	e.meta = e.buildMeta()
	return e
}

// Start marks the program as running. Only the first call succeeds.
func (e *Engine) Start() bool {
	if !e.started.CompareAndSwap(false, true) {
		return false
	}
	e.running.Store(true)
	return true
}

// Stop halts processing; Compute writes silence afterwards.
func (e *Engine) Stop() {
	e.running.Store(false)
}

// Running reports whether Start has been called and Stop has not.
func (e *Engine) Running() bool {
	return e.running.Load()
}

func (e *Engine) ParamsCount() int { return numParams }

func (e *Engine) ParamAddress(index int) string {
	if index < 0 || index >= numParams {
		return ""
	}
	return e.addresses[index]
}

func (e *Engine) ParamMin(index int) float32 {
	if c := e.control(index); c != nil {
		return c.min
	}
	return 0
}

func (e *Engine) ParamMax(index int) float32 {
	if c := e.control(index); c != nil {
		return c.max
	}
	return 0
}

func (e *Engine) ParamInit(index int) float32 {
	if c := e.control(index); c != nil {
		return c.init
	}
	return 0
}

func (e *Engine) control(index int) *control {
	if index < 0 || index >= numParams {
		return nil
	}
	return e.controls[index]
}

// SetParamValue sets a control by address. Unknown addresses are ignored and
// values are not clamped, matching generated engines.
func (e *Engine) SetParamValue(address string, value float32) {
	if i, ok := e.byAddress[address]; ok {
		e.controls[i].store(value)
	}
}

func (e *Engine) SetParamValueByIndex(index int, value float32) {
	if c := e.control(index); c != nil {
		c.store(value)
	}
}

func (e *Engine) ParamValue(address string) float32 {
	if i, ok := e.byAddress[address]; ok {
		return e.controls[i].load()
	}
	return 0
}

func (e *Engine) JSONMeta() string { return e.meta }

// PropagateMidi applies control change messages to the controls bound to that
// controller number, scaling 0..127 onto the control range. Other messages
// are accepted and ignored.
func (e *Engine) PropagateMidi(count int, time float64, status, channel, data1, data2 int) {
	if status != 0xB0 || count < 3 || data1 < 0 || data2 < 0 {
		return
	}
	for _, c := range e.controls {
		if c.ctrl != data1 {
			continue
		}
		c.store(c.min + float32(data2)/127*(c.max-c.min))
	}
}

func (e *Engine) SetSampleRate(rate float64) {
	if rate > 0 {
		e.sampleRate.Store(math.Float64bits(rate))
	}
}

// SampleRate returns the rate the filter coefficients are computed for.
func (e *Engine) SampleRate() float64 {
	return math.Float64frombits(e.sampleRate.Load())
}

func (e *Engine) NumInputs() int  { return e.cfg.Channels }
func (e *Engine) NumOutputs() int { return e.cfg.Channels }

// Compute runs the program over count frames. Outputs are silent while the
// engine is not running.
func (e *Engine) Compute(count int, inputs, outputs [][]float32) {
	if !e.running.Load() {
		for _, out := range outputs {
			clear(out[:count])
		}
		return
	}

	cutoff := float64(e.controls[ParamCutoff].load())
	q := float64(e.controls[ParamResonance].load())
	level := dbToLinear(e.controls[ParamGain].load())
	rate := e.SampleRate()

	for ch, out := range outputs {
		out = out[:count]
		if ch < len(inputs) {
			copy(out, inputs[ch][:count])
		} else {
			clear(out)
		}
		if ch >= len(e.filters) {
			continue
		}
		f := &e.filters[ch]
		f.tune(rate, cutoff, q)
		f.lowpass(out)
		e.delays[ch].process(out)
		for i := range out {
			out[i] *= level
		}
	}
}

func dbToLinear(db float32) float32 {
	if db <= -120 {
		return 0
	}
	return float32(math.Pow(10, float64(db)/20))
}

// uiItem is one widget of the faust "ui" tree.
type uiItem struct {
	Type    string              `json:"type"`
	Label   string              `json:"label"`
	Address string              `json:"address,omitempty"`
	Meta    []map[string]string `json:"meta,omitempty"`
	Init    *float32            `json:"init,omitempty"`
	Min     *float32            `json:"min,omitempty"`
	Max     *float32            `json:"max,omitempty"`
	Items   []uiItem            `json:"items,omitempty"`
}

// buildMeta renders the metadata document in the shape faust emits: one
// single-key object per declaration, values as strings, and a ui tree holding
// one slider per control.
func (e *Engine) buildMeta() string {
	cfg := e.cfg
	entries := []map[string]string{
		{"name": cfg.Name},
		{"filename": cfg.Name + ".dsp"},
	}
	if cfg.LatencySamples > 0 {
		entries = append(entries, map[string]string{
			"latency_samples": strconv.Itoa(cfg.LatencySamples),
		})
	}

	group := uiItem{Type: "vgroup", Label: cfg.Name}
	for i, c := range e.controls {
		item := uiItem{
			Type:    "hslider",
			Label:   c.label,
			Address: e.addresses[i],
			Init:    &c.init,
			Min:     &c.min,
			Max:     &c.max,
		}
		if c.ctrl >= 0 {
			item.Meta = append(item.Meta, map[string]string{"midi": "ctrl " + strconv.Itoa(c.ctrl)})
		}
		if c.unit != "" {
			item.Meta = append(item.Meta, map[string]string{"unit": c.unit})
		}
		group.Items = append(group.Items, item)
	}

	doc := struct {
		Name    string              `json:"name"`
		Inputs  int                 `json:"inputs"`
		Outputs int                 `json:"outputs"`
		Meta    []map[string]string `json:"meta"`
		UI      []uiItem            `json:"ui"`
	}{cfg.Name, cfg.Channels, cfg.Channels, entries, []uiItem{group}}

	b, err := json.Marshal(doc)
	if err != nil {
		return "{}"
	}
	return string(b)
}
