package debug

import (
	"math"

	"go.uber.org/zap"
)

const (
	clipLevel    = 0.99
	silenceLevel = 1e-4
)

// Stats summarizes one channel of audio. NaN and infinite samples are
// counted and left out of the other figures.
type Stats struct {
	Samples       int
	Peak          float32
	RMS           float32
	DC            float32
	Clipped       int
	NaN           int
	Inf           int
	ZeroCrossings int
}

// Finite reports whether every sample was a finite number.
func (s Stats) Finite() bool { return s.NaN == 0 && s.Inf == 0 }

// Silent reports whether the RMS is below -80 dBFS.
func (s Stats) Silent() bool { return s.RMS < silenceLevel }

// Analyze computes the statistics of buf.
func Analyze(buf []float32) Stats {
	st := Stats{Samples: len(buf)}
	if len(buf) == 0 {
		return st
	}

	var sum, squares float64
	prev, seen := float32(0), false
	for _, v := range buf {
		f := float64(v)
		switch {
		case math.IsNaN(f):
			st.NaN++
			continue
		case math.IsInf(f, 0):
			st.Inf++
			continue
		}

		a := float32(math.Abs(f))
		st.Peak = max(st.Peak, a)
		if a >= clipLevel {
			st.Clipped++
		}
		if seen && (prev < 0) != (v < 0) {
			st.ZeroCrossings++
		}
		prev, seen = v, true
		sum += f
		squares += f * f
	}

	n := float64(len(buf))
	st.RMS = float32(math.Sqrt(squares / n))
	st.DC = float32(sum / n)
	return st
}

// LogBufferStats logs the statistics of buf at debug level, or at warn level
// when it holds non-finite samples.
func LogBufferStats(logger *zap.Logger, buf []float32, name string) Stats {
	st := Analyze(buf)
	fields := []zap.Field{
		zap.String("buffer", name),
		zap.Int("samples", st.Samples),
		zap.Float32("peak", st.Peak),
		zap.Float32("rms", st.RMS),
		zap.Float32("dc", st.DC),
		zap.Int("clipped", st.Clipped),
		zap.Bool("silent", st.Silent()),
	}
	if !st.Finite() {
		logger.Warn("non-finite samples", append(fields, zap.Int("nan", st.NaN), zap.Int("inf", st.Inf))...)
		return st
	}
	logger.Debug("buffer stats", fields...)
	return st
}
