// Command faustplay runs the linked engine in real time on the default audio
// device, either over a WAV file or over the live input.
//
//	faustplay -loop -param /faustvst3/cutoff=800 drums.wav
//	faustplay -rate 48000 -block 128
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gordonklaus/portaudio"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/justyntemme/faustvst3/internal/cli"
	"github.com/justyntemme/faustvst3/pkg/framework/bus"
	"github.com/justyntemme/faustvst3/pkg/render"
)

func main() {
	var (
		common   cli.Flags
		midiPath string
		rate     float64
		loop     bool
	)
	common.Register(flag.CommandLine)
	flag.StringVar(&midiPath, "midi", "", "standard MIDI file played from the start")
	flag.Float64Var(&rate, "rate", 48000, "sample rate of the live stream")
	flag.BoolVar(&loop, "loop", false, "repeat the input file until interrupted")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] [input.wav]\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() > 1 {
		flag.Usage()
		os.Exit(2)
	}

	logger, err := common.Logger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, &common, flag.Arg(0), midiPath, rate, loop, logger); err != nil {
		logger.Error("playback failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, common *cli.Flags, input, midiPath string, rate float64, loop bool, logger *zap.Logger) (err error) {
	newAdapter, err := common.NewAdapterFunc("faustplay", logger)
	if err != nil {
		return err
	}

	var src *render.Buffer
	if input != "" {
		if src, err = render.ReadWAVFile(input); err != nil {
			return err
		}
		rate = float64(src.SampleRate)
	}
	var events []render.Event
	if midiPath != "" {
		if events, err = render.ReadSMFFile(midiPath, int(rate)); err != nil {
			return err
		}
	}

	a, err := newAdapter()
	if err != nil {
		return err
	}
	defer multierr.AppendInvoke(&err, multierr.Close(a))

	if err := a.PrepareToPlay(rate, common.BlockSize); err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer multierr.AppendInvoke(&err, multierr.Invoke(a.ReleaseResources))

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("portaudio: %w", err)
	}
	defer multierr.AppendInvoke(&err, multierr.Invoke(portaudio.Terminate))

	live := 0
	if src == nil {
		live = int(a.GetBuses().MainChannels(bus.DirectionInput))
	}
	p := newPlayer(a, src, live, common.BlockSize, rate)
	p.events = events
	p.loop = loop

	stream, err := openStream(p, rate)
	if err != nil {
		return err
	}
	defer multierr.AppendInvoke(&err, multierr.Close(stream))

	if err := stream.Start(); err != nil {
		return fmt.Errorf("start stream: %w", err)
	}
	defer multierr.AppendInvoke(&err, multierr.Invoke(stream.Stop))

	logger.Info("playing",
		zap.String("input", input),
		zap.Float64("rate", rate),
		zap.Int("block", common.BlockSize),
		zap.Int32("latency", a.GetLatencySamples()),
		zap.Stringer("variant", a.Variant()),
	)
	return pump(ctx, p, stream, logger)
}

func openStream(p *player, rate float64) (*portaudio.Stream, error) {
	var (
		s   *portaudio.Stream
		err error
	)
	outCh := len(p.outBlock)
	if p.liveChannels > 0 {
		s, err = portaudio.OpenDefaultStream(p.liveChannels, outCh, rate, p.block, p.in, p.out)
	} else {
		s, err = portaudio.OpenDefaultStream(0, outCh, rate, p.block, p.out)
	}
	if err != nil {
		return nil, fmt.Errorf("open stream: %w", err)
	}
	return s, nil
}

// pump moves blocks between the stream and the player until the source ends
// or ctx is cancelled. Over- and underflows are logged and skipped.
func pump(ctx context.Context, p *player, s *portaudio.Stream, logger *zap.Logger) error {
	for ctx.Err() == nil {
		if p.liveChannels > 0 {
			if err := s.Read(); err != nil {
				if !errors.Is(err, portaudio.InputOverflowed) {
					return fmt.Errorf("read: %w", err)
				}
				logger.Debug("input overflowed")
			}
		}
		if !p.step() {
			return nil
		}
		if err := s.Write(); err != nil {
			if !errors.Is(err, portaudio.OutputUnderflowed) {
				return fmt.Errorf("write: %w", err)
			}
			logger.Debug("output underflowed")
		}
	}
	return nil
}
