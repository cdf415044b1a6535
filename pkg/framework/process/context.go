// Package process carries one audio block from the host to a processor.
package process

import (
	"github.com/justyntemme/faustvst3/pkg/framework/param"
	"github.com/justyntemme/faustvst3/pkg/midi"
)

// Context is reused across blocks; nothing in it allocates after NewContext.
type Context struct {
	Input      [][]float32
	Output     [][]float32
	SampleRate float64

	frames int

	midi   *midi.Buffer
	params *param.Registry
}

// NewContext holds up to maxEvents MIDI messages per block.
func NewContext(maxEvents int, params *param.Registry) *Context {
	return &Context{
		midi:   midi.NewBuffer(maxEvents),
		params: params,
	}
}

// Param returns the normalized value of a parameter, 0 if unknown.
func (c *Context) Param(id uint32) float64 {
	if p := c.params.Get(id); p != nil {
		return p.GetValue()
	}
	return 0
}

// ParamPlain returns the plain value of a parameter, 0 if unknown.
func (c *Context) ParamPlain(id uint32) float64 {
	if p := c.params.Get(id); p != nil {
		return p.GetPlainValue()
	}
	return 0
}

// SetNumSamples fixes the block length. Hosts may process blocks without
// any audio buses (MIDI effects), so the length cannot always be read from
// the buffers. Zero reverts to deriving it from the buffers.
func (c *Context) SetNumSamples(n int) {
	c.frames = n
}

// NumSamples is the block length.
func (c *Context) NumSamples() int {
	if c.frames > 0 {
		return c.frames
	}
	if len(c.Input) > 0 && len(c.Input[0]) > 0 {
		return len(c.Input[0])
	}
	if len(c.Output) > 0 && len(c.Output[0]) > 0 {
		return len(c.Output[0])
	}
	return 0
}

func (c *Context) NumInputChannels() int {
	return len(c.Input)
}

func (c *Context) NumOutputChannels() int {
	return len(c.Output)
}

// PassThrough copies each input channel to the output channel of the same
// index.
func (c *Context) PassThrough() {
	for ch := range min(len(c.Input), len(c.Output)) {
		copy(c.Output[ch], c.Input[ch])
	}
}

// Clear silences the outputs.
func (c *Context) Clear() {
	for ch := range c.Output {
		clear(c.Output[ch])
	}
}

// SetParameterAtOffset applies a normalized host parameter change that the
// host scheduled at sampleOffset. The change takes effect for the whole
// block.
func (c *Context) SetParameterAtOffset(paramID uint32, value float64, sampleOffset int) {
	// TODO: split the block at sampleOffset once engines expose a
	// sub-block compute call.
	if p := c.params.Get(paramID); p != nil {
		p.SetValue(value)
	}
}

// AddMIDI appends a raw message to the block's MIDI.
func (c *Context) AddMIDI(m midi.Message) {
	c.midi.Add(m)
}

// MIDI returns the block's messages in arrival order.
func (c *Context) MIDI() []midi.Message {
	return c.midi.Messages()
}

// ClearMIDI drops the block's messages.
func (c *Context) ClearMIDI() {
	c.midi.Clear()
}
