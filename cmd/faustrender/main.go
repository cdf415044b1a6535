// Command faustrender renders WAV files offline through the linked engine,
// driven by the same adapter a VST3 host would load.
//
//	faustrender -outdir out -midi song.mid -param /faustvst3/cutoff=800 in.wav
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/justyntemme/faustvst3/internal/cli"
	"github.com/justyntemme/faustvst3/pkg/engine/builtin"
	"github.com/justyntemme/faustvst3/pkg/render"
)

func main() {
	var (
		common     cli.Flags
		output     string
		outDir     string
		midiPath   string
		compensate bool
		bits       int
		parallel   int
		profile    bool
	)
	common.Register(flag.CommandLine)
	flag.StringVar(&output, "o", "", "output file, only with a single input")
	flag.StringVar(&outDir, "outdir", ".", "directory for rendered files")
	flag.StringVar(&midiPath, "midi", "", "standard MIDI file played with every input")
	flag.BoolVar(&compensate, "compensate", true, "align output with input by the reported latency")
	flag.IntVar(&bits, "bits", 0, "output bit depth (16, 24 or 32); 0 keeps the input's")
	flag.IntVar(&parallel, "parallel", 0, "concurrent renders; 0 uses all CPUs")
	flag.BoolVar(&profile, "profile", false, "log block timing")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] input.wav...\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 || (output != "" && flag.NArg() > 1) {
		flag.Usage()
		os.Exit(2)
	}

	logger, err := common.Logger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	newAdapter, err := common.NewAdapterFunc("faustrender", logger)
	if err != nil {
		logger.Fatal("bad flags", zap.Error(err))
	}

	jobs := make([]render.Job, 0, flag.NArg())
	for _, in := range flag.Args() {
		out := output
		if out == "" {
			base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
			out = filepath.Join(outDir, base+"-rendered.wav")
		}
		jobs = append(jobs, render.Job{Input: in, Output: out, MIDI: midiPath})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("rendering",
		zap.String("engine", builtin.Name()),
		zap.String("variant", common.Variant),
		zap.Int("jobs", len(jobs)),
	)
	err = render.RenderAll(ctx, newAdapter, jobs, render.Options{
		BlockSize:         common.BlockSize,
		CompensateLatency: compensate,
		BitDepth:          bits,
		Parallel:          parallel,
		Profile:           profile,
		Logger:            logger,
	})
	if err != nil {
		logger.Error("render failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}
