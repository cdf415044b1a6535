package adapter

import (
	"go.uber.org/zap"

	"github.com/justyntemme/faustvst3/pkg/framework/process"
	"github.com/justyntemme/faustvst3/pkg/midi"
)

// ProcessAudio relays one host block: first the block's MIDI, in host order,
// then the audio. The Skeleton variant, and engines without a block entry
// point, leave the outputs silent.
func (a *Adapter) ProcessAudio(ctx *process.Context) {
	if a.State() == StateDestroyed {
		ctx.Clear()
		return
	}
	a.state.CompareAndSwap(int32(StatePrepared), int32(StateProcessing))

	a.relayMIDI(ctx.MIDI())

	if a.block == nil {
		ctx.Clear()
		return
	}
	a.compute(ctx)
}

func (a *Adapter) relayMIDI(messages []midi.Message) {
	for _, m := range messages {
		u := midi.Decode(m)
		if u.Count == 0 {
			continue
		}
		if a.cfg.LogMIDI {
			if ce := a.logger.Check(zap.DebugLevel, "midi"); ce != nil {
				ce.Write(zap.String("message", m.Describe()))
			}
		}
		a.eng.PropagateMidi(u.Count, u.Timestamp, u.Type, u.Channel, u.Data1, u.Data2)
	}
}

// compute maps the host's buses onto the engine's channels. Engine inputs
// without a host channel read silence, engine outputs without a host channel
// are discarded and host outputs the engine does not fill are cleared.
func (a *Adapter) compute(ctx *process.Context) {
	n := ctx.NumSamples()
	if n <= 0 {
		return
	}
	if n > a.scratch.frames || len(a.scratch.in) != a.block.NumInputs() || len(a.scratch.out) != a.block.NumOutputs() {
		a.scratch.resize(a.block.NumInputs(), a.block.NumOutputs(), max(n, a.maxBlock))
	}

	s := &a.scratch
	for i := range s.in {
		if i < len(ctx.Input) && len(ctx.Input[i]) >= n {
			s.in[i] = ctx.Input[i][:n]
		} else {
			s.in[i] = s.silence[:n]
		}
	}
	for i := range s.out {
		if i < len(ctx.Output) && len(ctx.Output[i]) >= n {
			s.out[i] = ctx.Output[i][:n]
		} else {
			s.out[i] = s.sink[i][:n]
		}
	}

	a.block.Compute(n, s.in, s.out)

	for ch := len(s.out); ch < len(ctx.Output); ch++ {
		clear(ctx.Output[ch])
	}
}

// scratch holds the channel tables handed to the engine, so a block does not
// allocate.
type scratch struct {
	frames  int
	in      [][]float32
	out     [][]float32
	silence []float32
	sink    [][]float32
}

func (s *scratch) resize(inputs, outputs, frames int) {
	if frames < 1 {
		frames = 1
	}
	s.frames = frames
	s.in = make([][]float32, inputs)
	s.out = make([][]float32, outputs)
	s.silence = make([]float32, frames)
	s.sink = make([][]float32, outputs)
	for i := range s.sink {
		s.sink[i] = make([]float32, frames)
	}
}
