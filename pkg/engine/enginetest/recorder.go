// Package enginetest provides an engine double that records every call made
// to it, for testing code that drives an engine.Engine.
package enginetest

import (
	"fmt"
	"sync"

	"github.com/justyntemme/faustvst3/pkg/engine"
)

// Op names a recorded engine call.
type Op string

const (
	OpStart       Op = "start"
	OpStop        Op = "stop"
	OpRelease     Op = "release"
	OpSetParam    Op = "setParam"
	OpSetParamIdx Op = "setParamByIndex"
	OpMidi        Op = "midi"
	OpCompute     Op = "compute"
	OpSampleRate  Op = "sampleRate"
)

// Call is one recorded engine call.
type Call struct {
	Op      Op
	Address string
	Index   int
	Value   float32
	Midi    MidiCall
	Frames  int
	Rate    float64
}

// MidiCall holds the arguments of one PropagateMidi call.
type MidiCall struct {
	Count   int
	Time    float64
	Status  int
	Channel int
	Data1   int
	Data2   int
}

func (c Call) String() string {
	switch c.Op {
	case OpSetParam:
		return fmt.Sprintf("%s(%s, %g)", c.Op, c.Address, c.Value)
	case OpSetParamIdx:
		return fmt.Sprintf("%s(%d, %g)", c.Op, c.Index, c.Value)
	case OpMidi:
		return fmt.Sprintf("%s%+v", c.Op, c.Midi)
	case OpCompute:
		return fmt.Sprintf("%s(%d)", c.Op, c.Frames)
	default:
		return string(c.Op)
	}
}

// Recorder is an engine.Engine that records calls and keeps parameter values.
// It is safe for concurrent use.
type Recorder struct {
	Params []engine.ParamDescriptor
	Meta   string

	mu     sync.Mutex
	calls  []Call
	values map[string]float32
}

var _ engine.Engine = (*Recorder)(nil)

// NewRecorder creates a recorder exposing params and the given JSON metadata.
func NewRecorder(meta string, params ...engine.ParamDescriptor) *Recorder {
	r := &Recorder{
		Params: params,
		Meta:   meta,
		values: make(map[string]float32, len(params)),
	}
	for i := range r.Params {
		r.Params[i].Index = i
		r.values[r.Params[i].Address] = r.Params[i].Init
	}
	return r
}

// Param is a shorthand for building a descriptor.
func Param(address string, min, max, init float32) engine.ParamDescriptor {
	return engine.ParamDescriptor{Address: address, Min: min, Max: max, Init: init}
}

// Record appends c to the call log. Test engines that embed a Recorder use
// it for the calls they implement themselves.
func (r *Recorder) Record(c Call) {
	r.mu.Lock()
	r.calls = append(r.calls, c)
	r.mu.Unlock()
}

// Calls returns a copy of all recorded calls in order.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// CallsOf returns the recorded calls with the given op.
func (r *Recorder) CallsOf(op Op) []Call {
	var out []Call
	for _, c := range r.Calls() {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Reset forgets recorded calls but keeps parameter values.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.calls = nil
	r.mu.Unlock()
}

func (r *Recorder) Start() bool {
	r.Record(Call{Op: OpStart})
	return true
}

func (r *Recorder) Stop() {
	r.Record(Call{Op: OpStop})
}

func (r *Recorder) Close() error {
	r.Record(Call{Op: OpRelease})
	return nil
}

func (r *Recorder) ParamsCount() int              { return len(r.Params) }
func (r *Recorder) ParamAddress(index int) string { return r.Params[index].Address }
func (r *Recorder) ParamMin(index int) float32    { return r.Params[index].Min }
func (r *Recorder) ParamMax(index int) float32    { return r.Params[index].Max }
func (r *Recorder) ParamInit(index int) float32   { return r.Params[index].Init }

func (r *Recorder) SetParamValue(address string, value float32) {
	r.mu.Lock()
	r.values[address] = value
	r.calls = append(r.calls, Call{Op: OpSetParam, Address: address, Value: value})
	r.mu.Unlock()
}

func (r *Recorder) ParamValue(address string) float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.values[address]
}

func (r *Recorder) JSONMeta() string { return r.Meta }

func (r *Recorder) PropagateMidi(count int, time float64, status, channel, data1, data2 int) {
	r.Record(Call{Op: OpMidi, Midi: MidiCall{
		Count:   count,
		Time:    time,
		Status:  status,
		Channel: channel,
		Data1:   data1,
		Data2:   data2,
	}})
}

// Processor wraps a Recorder with the engine.BlockProcessor capability. Compute
// copies each input channel to the matching output channel.
type Processor struct {
	*Recorder
	Inputs  int
	Outputs int
}

var _ engine.BlockProcessor = (*Processor)(nil)

func (p *Processor) NumInputs() int  { return p.Inputs }
func (p *Processor) NumOutputs() int { return p.Outputs }

func (p *Processor) Compute(count int, inputs, outputs [][]float32) {
	p.Record(Call{Op: OpCompute, Frames: count})
	for ch, out := range outputs {
		if ch < len(inputs) {
			copy(out[:count], inputs[ch][:count])
			continue
		}
		for i := range out[:count] {
			out[i] = 0
		}
	}
}

func (p *Processor) SetSampleRate(rate float64) {
	p.Record(Call{Op: OpSampleRate, Rate: rate})
}

// Indexed wraps a Recorder with the engine.IndexedSetter capability.
type Indexed struct {
	*Recorder
}

var _ engine.IndexedSetter = Indexed{}

func (x Indexed) SetParamValueByIndex(index int, value float32) {
	x.mu.Lock()
	x.values[x.Params[index].Address] = value
	x.calls = append(x.calls, Call{Op: OpSetParamIdx, Index: index, Address: x.Params[index].Address, Value: value})
	x.mu.Unlock()
}
