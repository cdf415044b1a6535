// Package render drives an adapter offline the way a host would: audio from a
// WAV file in fixed size blocks, MIDI from a Standard MIDI File, output to a
// WAV file.
package render

import (
	"math"

	"pipelined.dev/signal"
)

// Buffer is planar audio: Channels[channel][frame].
type Buffer struct {
	SampleRate int
	BitDepth   int
	Channels   [][]float32
}

// NewBuffer allocates a silent buffer.
func NewBuffer(sampleRate, bitDepth, channels, frames int) *Buffer {
	b := &Buffer{SampleRate: sampleRate, BitDepth: bitDepth, Channels: make([][]float32, channels)}
	for c := range b.Channels {
		b.Channels[c] = make([]float32, frames)
	}
	return b
}

// Frames returns the length of the buffer.
func (b *Buffer) Frames() int {
	if len(b.Channels) == 0 {
		return 0
	}
	return len(b.Channels[0])
}

// fullScale is the magnitude of the most negative sample at bitDepth.
func fullScale(bitDepth int) float64 {
	return float64(int64(1) << (bitDepth - 1))
}

// deinterleave converts interleaved PCM integers into planar samples in
// [-1, 1).
func deinterleave(data []int, channels, bitDepth int) [][]float32 {
	frames := len(data) / channels
	sig := signal.Allocator{Channels: channels, Length: frames, Capacity: frames}.Float32()
	scale := fullScale(bitDepth)
	for i, v := range data[:frames*channels] {
		sig.SetSample(sig.BufferIndex(i%channels, i/channels), float64(v)/scale)
	}

	out := make([][]float32, channels)
	for c := range out {
		out[c] = make([]float32, frames)
		for f := range out[c] {
			out[c][f] = float32(sig.Sample(sig.BufferIndex(c, f)))
		}
	}
	return out
}

// interleave converts planar samples into interleaved PCM integers, clipping
// to the range of bitDepth.
func interleave(channels [][]float32, bitDepth int) []int {
	if len(channels) == 0 {
		return nil
	}
	frames := len(channels[0])
	sig := signal.Allocator{Channels: len(channels), Length: frames, Capacity: frames}.Float32()
	for c, ch := range channels {
		for f, v := range ch[:frames] {
			sig.SetSample(sig.BufferIndex(c, f), float64(v))
		}
	}

	scale := fullScale(bitDepth)
	out := make([]int, frames*len(channels))
	for f := 0; f < frames; f++ {
		for c := range channels {
			v := math.Round(sig.Sample(sig.BufferIndex(c, f)) * scale)
			out[f*len(channels)+c] = int(min(max(v, -scale), scale-1))
		}
	}
	return out
}
