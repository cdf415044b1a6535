package adapter

import (
	"errors"
	"io"

	"go.uber.org/zap"

	"github.com/justyntemme/faustvst3/pkg/engine"
)

// ErrClosed is returned by lifecycle calls made after Close.
var ErrClosed = errors.New("adapter closed")

// State is the adapter's lifecycle position.
type State int32

const (
	StateConstructed State = iota
	StatePrepared
	StateProcessing
	StateReleased
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateConstructed:
		return "constructed"
	case StatePrepared:
		return "prepared"
	case StateProcessing:
		return "processing"
	case StateReleased:
		return "released"
	case StateDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// State returns the current lifecycle state.
func (a *Adapter) State() State {
	return State(a.state.Load())
}

// PrepareToPlay is called by the host before processing starts and whenever
// the stream format changes. It reads the engine's latency declaration and
// sizes the block buffers. The engine's own state is left untouched.
func (a *Adapter) PrepareToPlay(sampleRate float64, maxBlock int) error {
	if a.State() == StateDestroyed {
		return ErrClosed
	}

	if ra, ok := a.eng.(engine.RateAware); ok && sampleRate > 0 {
		ra.SetSampleRate(sampleRate)
	}

	latency := 0
	if a.cfg.Variant == Full {
		n, err := LatencyFromMeta(a.eng.JSONMeta(), sampleRate)
		if err != nil {
			a.logger.Debug("engine metadata not parsed", zap.Error(err))
		}
		latency = n
	}
	a.setLatency(latency)

	if maxBlock > a.maxBlock {
		a.maxBlock = maxBlock
	}
	if a.block != nil {
		a.scratch.resize(a.block.NumInputs(), a.block.NumOutputs(), a.maxBlock)
	}

	a.state.Store(int32(StatePrepared))
	a.logger.Debug("prepared",
		zap.Float64("sample_rate", sampleRate),
		zap.Int("max_block", maxBlock),
		zap.Int32("latency", a.GetLatencySamples()),
	)
	return nil
}

// ReleaseResources is called by the host when playback stops. The engine
// keeps running; a later PrepareToPlay resumes processing.
func (a *Adapter) ReleaseResources() error {
	for {
		s := a.State()
		if s == StateDestroyed {
			return ErrClosed
		}
		if a.state.CompareAndSwap(int32(s), int32(StateReleased)) {
			return nil
		}
	}
}

// Close stops and releases the engine. It is safe to call more than once;
// only the first call reaches the engine.
func (a *Adapter) Close() error {
	a.closeOnce.Do(func() {
		a.state.Store(int32(StateDestroyed))
		a.eng.Stop()
		a.closeErr = engine.Release(a.eng)
		a.logger.Debug("adapter closed")
	})
	return a.closeErr
}

// LoadState restores parameter values written by SaveState and forwards the
// changed ones to the engine.
func (a *Adapter) LoadState(r io.Reader) error {
	if a.State() == StateDestroyed {
		return ErrClosed
	}
	return a.BaseProcessor.LoadState(r)
}

func (a *Adapter) initialize(sampleRate float64, maxBlock int32) error {
	if a.State() == StateDestroyed {
		return ErrClosed
	}
	if int(maxBlock) > a.maxBlock {
		a.maxBlock = int(maxBlock)
	}
	return nil
}

func (a *Adapter) setActive(active bool) error {
	if active {
		return a.PrepareToPlay(a.SampleRate(), a.maxBlock)
	}
	return a.ReleaseResources()
}
