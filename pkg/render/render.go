package render

import (
	"context"
	"fmt"
	"runtime"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/justyntemme/faustvst3/pkg/adapter"
	"github.com/justyntemme/faustvst3/pkg/framework/bus"
	"github.com/justyntemme/faustvst3/pkg/framework/debug"
	"github.com/justyntemme/faustvst3/pkg/framework/process"
	"github.com/justyntemme/faustvst3/pkg/midi"
)

const (
	defaultBlockSize = 512
	maxBlockEvents   = 1024
)

// Options controls a render.
type Options struct {
	// BlockSize is the number of frames per processing call.
	BlockSize int
	// CompensateLatency shifts the output back by the latency the adapter
	// reports, so that it lines up with the input.
	CompensateLatency bool
	// BitDepth of written files; 0 keeps the input's.
	BitDepth int
	// Parallel bounds concurrent jobs in RenderAll; 0 uses GOMAXPROCS.
	Parallel int
	// Profile logs block timing at the end of each render.
	Profile bool
	Logger  *zap.Logger
}

func (o Options) blockSize() int {
	if o.BlockSize <= 0 {
		return defaultBlockSize
	}
	return o.BlockSize
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return debug.Default()
	}
	return o.Logger
}

// Result describes a finished render.
type Result struct {
	Output  *Buffer
	Latency int
	Blocks  int
}

// Process runs in through a through blocks of opts.BlockSize frames and
// returns the output, as long as the input. Events are delivered in the
// block containing their frame, stamped with their offset inside it. The
// adapter is prepared at the input's sample rate and released afterwards.
func Process(ctx context.Context, a *adapter.Adapter, in *Buffer, events []Event, opts Options) (res *Result, err error) {
	block := opts.blockSize()
	logger := opts.logger().With(zap.String("plugin", a.Name()), zap.Stringer("instance", a.ID()))

	if err := a.PrepareToPlay(float64(in.SampleRate), block); err != nil {
		return nil, fmt.Errorf("prepare: %w", err)
	}
	defer multierr.AppendInvoke(&err, multierr.Invoke(a.ReleaseResources))

	latency := 0
	if opts.CompensateLatency {
		latency = int(a.GetLatencySamples())
	}

	buses := a.GetBuses()
	inCh := int(buses.MainChannels(bus.DirectionInput))
	outCh := int(buses.MainChannels(bus.DirectionOutput))
	frames := in.Frames()
	total := frames + latency

	out := NewBuffer(in.SampleRate, in.BitDepth, outCh, frames)
	inBlock := NewBuffer(in.SampleRate, in.BitDepth, inCh, block).Channels
	outBlock := NewBuffer(in.SampleRate, in.BitDepth, outCh, block).Channels

	pc := process.NewContext(maxBlockEvents, a.GetParameters())
	pc.SampleRate = float64(in.SampleRate)
	pc.Input = make([][]float32, inCh)
	pc.Output = make([][]float32, outCh)

	var profiler *debug.BlockProfiler
	if opts.Profile {
		profiler = debug.NewBlockProfiler(float64(in.SampleRate), block)
	}

	res = &Result{Output: out, Latency: latency}
	next := 0
	for pos := 0; pos < total; pos += block {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n := min(block, total-pos)

		for c := range inBlock {
			dst := inBlock[c][:n]
			clear(dst)
			if len(in.Channels) > 0 && pos < frames {
				copy(dst, in.Channels[c%len(in.Channels)][pos:min(pos+n, frames)])
			}
			pc.Input[c] = dst
		}
		for c := range outBlock {
			pc.Output[c] = outBlock[c][:n]
		}

		pc.ClearMIDI()
		for ; next < len(events) && events[next].Frame < pos+n; next++ {
			pc.AddMIDI(midi.NewMessage(float64(max(events[next].Frame-pos, 0)), events[next].Data...))
		}
		pc.SetNumSamples(n)

		if profiler != nil {
			stop := profiler.Block()
			a.ProcessAudio(pc)
			stop()
		} else {
			a.ProcessAudio(pc)
		}
		res.Blocks++

		for c := range outBlock {
			for i, v := range outBlock[c][:n] {
				if f := pos + i - latency; f >= 0 && f < frames {
					out.Channels[c][f] = v
				}
			}
		}
	}

	for c, ch := range out.Channels {
		debug.LogBufferStats(logger, ch, fmt.Sprintf("output %d", c))
	}
	if profiler != nil {
		profiler.Log(logger)
	}
	logger.Info("rendered",
		zap.Int("frames", frames),
		zap.Int("blocks", res.Blocks),
		zap.Int("latency", latency),
	)
	return res, nil
}

// Job is one file to render.
type Job struct {
	Input  string
	Output string
	// MIDI is an optional Standard MIDI File played alongside the input.
	MIDI string
}

// RenderFile renders one job through a.
func RenderFile(ctx context.Context, a *adapter.Adapter, job Job, opts Options) (*Result, error) {
	in, err := ReadWAVFile(job.Input)
	if err != nil {
		return nil, err
	}

	var events []Event
	if job.MIDI != "" {
		if events, err = ReadSMFFile(job.MIDI, in.SampleRate); err != nil {
			return nil, err
		}
	}

	res, err := Process(ctx, a, in, events, opts)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", job.Input, err)
	}
	if opts.BitDepth > 0 {
		res.Output.BitDepth = opts.BitDepth
	}
	if err := WriteWAVFile(job.Output, res.Output); err != nil {
		return nil, err
	}
	return res, nil
}

// NewAdapterFunc creates a fresh adapter, with its own engine, for one job.
type NewAdapterFunc func() (*adapter.Adapter, error)

// RenderAll renders jobs concurrently, each through its own adapter. The
// first failure cancels the remaining jobs.
func RenderAll(ctx context.Context, newAdapter NewAdapterFunc, jobs []Job, opts Options) error {
	g, ctx := errgroup.WithContext(ctx)
	parallel := opts.Parallel
	if parallel <= 0 {
		parallel = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(parallel)

	for _, job := range jobs {
		g.Go(func() (err error) {
			a, err := newAdapter()
			if err != nil {
				return fmt.Errorf("%s: %w", job.Input, err)
			}
			defer multierr.AppendInvoke(&err, multierr.Close(a))

			_, err = RenderFile(ctx, a, job, opts)
			return err
		})
	}
	return g.Wait()
}
