package main

import (
	"github.com/justyntemme/faustvst3/pkg/adapter"
	"github.com/justyntemme/faustvst3/pkg/framework/bus"
	"github.com/justyntemme/faustvst3/pkg/framework/process"
	"github.com/justyntemme/faustvst3/pkg/midi"
	"github.com/justyntemme/faustvst3/pkg/render"
)

const maxBlockEvents = 1024

// player feeds an adapter one block at a time, from a file or from the
// interleaved live input, and interleaves its output for the stream.
type player struct {
	a      *adapter.Adapter
	pc     *process.Context
	src    *render.Buffer // nil reads in
	events []render.Event
	loop   bool
	block  int

	pos  int
	next int

	liveChannels int
	in           []float32
	out          []float32

	inBlock  [][]float32
	outBlock [][]float32
}

func newPlayer(a *adapter.Adapter, src *render.Buffer, liveChannels, block int, sampleRate float64) *player {
	buses := a.GetBuses()
	inCh := int(buses.MainChannels(bus.DirectionInput))
	outCh := int(buses.MainChannels(bus.DirectionOutput))

	p := &player{
		a:            a,
		pc:           process.NewContext(maxBlockEvents, a.GetParameters()),
		src:          src,
		block:        block,
		liveChannels: liveChannels,
		in:           make([]float32, block*liveChannels),
		out:          make([]float32, block*outCh),
		inBlock:      make([][]float32, inCh),
		outBlock:     make([][]float32, outCh),
	}
	for c := range p.inBlock {
		p.inBlock[c] = make([]float32, block)
	}
	for c := range p.outBlock {
		p.outBlock[c] = make([]float32, block)
	}
	p.pc.SampleRate = sampleRate
	p.pc.Input = p.inBlock
	p.pc.Output = p.outBlock
	return p
}

// step processes one block into p.out. It reports false once a file source
// has been played through and looping is off.
func (p *player) step() bool {
	n := p.block
	if p.src != nil {
		if p.pos >= p.src.Frames() {
			if !p.loop {
				return false
			}
			p.pos, p.next = 0, 0
		}
		p.readFile(n)
	} else {
		p.readLive(n)
	}

	p.pc.ClearMIDI()
	for ; p.next < len(p.events) && p.events[p.next].Frame < p.pos+n; p.next++ {
		ev := p.events[p.next]
		p.pc.AddMIDI(midi.NewMessage(float64(max(ev.Frame-p.pos, 0)), ev.Data...))
	}
	p.pc.SetNumSamples(n)
	p.a.ProcessAudio(p.pc)

	outCh := len(p.outBlock)
	for c, ch := range p.outBlock {
		for i, v := range ch[:n] {
			p.out[i*outCh+c] = v
		}
	}
	p.pos += n
	return true
}

func (p *player) readFile(n int) {
	frames := p.src.Frames()
	for c, dst := range p.inBlock {
		clear(dst)
		if len(p.src.Channels) == 0 {
			continue
		}
		copy(dst[:n], p.src.Channels[c%len(p.src.Channels)][p.pos:min(p.pos+n, frames)])
	}
}

func (p *player) readLive(n int) {
	for c, dst := range p.inBlock {
		if p.liveChannels == 0 {
			clear(dst)
			continue
		}
		src := c % p.liveChannels
		for i := range dst[:n] {
			dst[i] = p.in[i*p.liveChannels+src]
		}
	}
}
