// Package vst3 mirrors the parts of the VST3 API the plugin uses, as plain Go
// values. The cgo bridge converts between these and the C API.
package vst3

import (
	"errors"
	"fmt"
)

// Result is a VST3 tresult.
type Result int32

// Result codes as defined for non-COM platforms.
const (
	ResultNoInterface     Result = -1
	ResultOK              Result = 0
	ResultTrue            Result = ResultOK
	ResultFalse           Result = 1
	ResultInvalidArgument Result = 2
	ResultNotImplemented  Result = 3
	ResultInternalError   Result = 4
	ResultNotInitialized  Result = 5
	ResultOutOfMemory     Result = 6
)

// Error is an error that maps to a specific result code.
type Error int

const (
	ErrFalse           Error = -1
	ErrNotImplemented  Error = -2
	ErrInvalidArgument Error = -3
	ErrNotInitialized  Error = -4
)

func (e Error) Error() string {
	switch e {
	case ErrFalse:
		return "rejected"
	case ErrNotImplemented:
		return "not implemented"
	case ErrInvalidArgument:
		return "invalid argument"
	case ErrNotInitialized:
		return "not initialized"
	default:
		return "unknown error"
	}
}

// ResultOf maps an error returned by a component method to the code handed
// back to the host. Wrapped Error values keep their code; any other error is
// an internal error.
func ResultOf(err error) Result {
	if err == nil {
		return ResultOK
	}
	var e Error
	if errors.As(err, &e) {
		switch e {
		case ErrFalse:
			return ResultFalse
		case ErrNotImplemented:
			return ResultNotImplemented
		case ErrInvalidArgument:
			return ResultInvalidArgument
		case ErrNotInitialized:
			return ResultNotInitialized
		}
	}
	return ResultInternalError
}

// Err converts a result returned by the host into an error. OK is nil.
func (r Result) Err() error {
	switch r {
	case ResultOK:
		return nil
	case ResultFalse:
		return ErrFalse
	case ResultInvalidArgument:
		return ErrInvalidArgument
	case ResultNotImplemented:
		return ErrNotImplemented
	case ResultNotInitialized:
		return ErrNotInitialized
	default:
		return fmt.Errorf("host result %d", int32(r))
	}
}

// Interface IDs
var (
	IIDFUnknown = [16]byte{
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0xC0, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x46,
	}
	IIDIPluginFactory = [16]byte{
		0x7A, 0x4D, 0x81, 0x1C, 0x52, 0x11, 0x4A, 0x1F,
		0xAE, 0xD9, 0xD2, 0xEE, 0x0B, 0x43, 0xBF, 0x9F,
	}
	IIDIComponent = [16]byte{
		0xE8, 0x31, 0xFF, 0x31, 0xF2, 0xD5, 0x43, 0x01,
		0x92, 0x8E, 0xBB, 0xEE, 0x25, 0x69, 0x78, 0x02,
	}
	IIDIAudioProcessor = [16]byte{
		0x42, 0x04, 0x3F, 0x99, 0xB7, 0xDA, 0x45, 0x3C,
		0xA5, 0x69, 0xE7, 0x9D, 0x9A, 0xAE, 0xC3, 0x3D,
	}
	IIDIEditController = [16]byte{
		0xDC, 0xD7, 0xBB, 0xE3, 0x77, 0x42, 0x44, 0x8D,
		0xA8, 0x74, 0xAA, 0xCC, 0x97, 0x9C, 0x75, 0x9E,
	}
)

// Class categories
const (
	CategoryAudioEffect = "Audio Module Class"
)

// Sub categories reported in the class info.
const (
	SubCategoryFx         = "Fx"
	SubCategoryInstrument = "Instrument|Synth"
	SubCategoryMIDIEffect = "Fx|Tools"
)

// Class cardinality
const ManyInstances int32 = 0x7FFFFFFF

// Factory flags
const FactoryFlagUnicode int32 = 1 << 4

// MediaType selects audio or event buses.
type MediaType = int32

const (
	MediaTypeAudio MediaType = 0
	MediaTypeEvent MediaType = 1
)

// BusDirection selects input or output buses.
type BusDirection = int32

const (
	BusDirectionInput  BusDirection = 0
	BusDirectionOutput BusDirection = 1
)

// BusType distinguishes main from auxiliary buses.
type BusType = int32

const (
	BusTypeMain BusType = 0
	BusTypeAux  BusType = 1
)

// Bus flags
const (
	BusDefaultActive uint32 = 1 << 0
)

// Parameter flags
const (
	ParameterCanAutomate     int32 = 1 << 0
	ParameterIsReadOnly      int32 = 1 << 1
	ParameterIsWrapAround    int32 = 1 << 2
	ParameterIsList          int32 = 1 << 3
	ParameterIsHidden        int32 = 1 << 4
	ParameterIsProgramChange int32 = 1 << 15
	ParameterIsBypass        int32 = 1 << 16
)

// Restart flags passed to IComponentHandler.restartComponent.
const (
	RestartReloadComponent    int32 = 1 << 0
	RestartIOChanged          int32 = 1 << 1
	RestartParamValuesChanged int32 = 1 << 2
	RestartLatencyChanged     int32 = 1 << 3
	RestartParamTitlesChanged int32 = 1 << 4
)

// Symbolic sample sizes
const (
	Sample32 int32 = 0
	Sample64 int32 = 1
)

// Process modes
const (
	ProcessModeRealtime int32 = 0
	ProcessModePrefetch int32 = 1
	ProcessModeOffline  int32 = 2
)

// SpeakerArrangement is a bitset of speakers.
type SpeakerArrangement = uint64

const (
	SpeakerL SpeakerArrangement = 1 << 0
	SpeakerR SpeakerArrangement = 1 << 1
	SpeakerM SpeakerArrangement = 1 << 19

	ArrangementEmpty  SpeakerArrangement = 0
	ArrangementMono   SpeakerArrangement = SpeakerM
	ArrangementStereo SpeakerArrangement = SpeakerL | SpeakerR
)

// EventType identifies the payload of an Event.
type EventType uint16

const (
	EventNoteOn          EventType = 0
	EventNoteOff         EventType = 1
	EventData            EventType = 2
	EventPolyPressure    EventType = 3
	EventLegacyMIDICCOut EventType = 65535
)

// Controller numbers beyond the 128 MIDI CCs, used by legacy CC events.
const (
	ControllerAfterTouch    uint8 = 128
	ControllerPitchBend     uint8 = 129
	ControllerProgramChange uint8 = 130
	ControllerPolyPressure  uint8 = 131
)

// Data event types
const (
	DataTypeMIDISysEx uint32 = 0
)
