package vst3

import (
	"errors"
	"fmt"
	"testing"
)

func TestResultOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Result
	}{
		{"Nil", nil, ResultOK},
		{"False", ErrFalse, ResultFalse},
		{"NotImplemented", ErrNotImplemented, ResultNotImplemented},
		{"Wrapped", fmt.Errorf("bus 3: %w", ErrInvalidArgument), ResultInvalidArgument},
		{"NotInitialized", ErrNotInitialized, ResultNotInitialized},
		{"Other", errors.New("boom"), ResultInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResultOf(tt.err); got != tt.want {
				t.Errorf("ResultOf(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestSpeakerArrangements(t *testing.T) {
	if ArrangementStereo != 3 {
		t.Errorf("Expected stereo arrangement 3, got %d", ArrangementStereo)
	}
	if ArrangementMono != 1<<19 {
		t.Errorf("Expected mono arrangement 1<<19, got %d", ArrangementMono)
	}
}

func TestInterfaceIDsDistinct(t *testing.T) {
	ids := map[[16]byte]string{}
	for name, iid := range map[string][16]byte{
		"FUnknown":        IIDFUnknown,
		"IPluginFactory":  IIDIPluginFactory,
		"IComponent":      IIDIComponent,
		"IAudioProcessor": IIDIAudioProcessor,
		"IEditController": IIDIEditController,
	} {
		if other, ok := ids[iid]; ok {
			t.Errorf("%s and %s share an interface ID", name, other)
		}
		ids[iid] = name
	}
}

func TestRestartLatencyFlag(t *testing.T) {
	if RestartLatencyChanged != 8 {
		t.Errorf("Expected latency restart flag 8, got %d", RestartLatencyChanged)
	}
}

func TestResultErr(t *testing.T) {
	for _, r := range []Result{ResultOK, ResultFalse, ResultInvalidArgument, ResultNotImplemented, ResultNotInitialized} {
		if got := ResultOf(r.Err()); got != r {
			t.Errorf("ResultOf(%d.Err()) = %d", r, got)
		}
	}
	if err := ResultOutOfMemory.Err(); err == nil || ResultOf(err) != ResultInternalError {
		t.Errorf("ResultOutOfMemory.Err() = %v", err)
	}
}
