package vst3

// ProcessSetup contains audio processing configuration
type ProcessSetup struct {
	ProcessMode        int32
	SymbolicSampleSize int32
	MaxSamplesPerBlock int32
	SampleRate         float64
}

// ParameterInfo describes a parameter
type ParameterInfo struct {
	ID           uint32
	Title        string
	ShortTitle   string
	Units        string
	StepCount    int32
	DefaultValue float64 // normalized
	UnitID       int32
	Flags        int32
}

// BusInfo describes an audio or event bus
type BusInfo struct {
	MediaType    MediaType
	Direction    BusDirection
	ChannelCount int32
	Name         string
	BusType      BusType
	Flags        uint32
}

// Event is one entry of a host event list. Only the fields of the event's
// Type are meaningful.
type Event struct {
	BusIndex     int32
	SampleOffset int32
	PPQPosition  float64
	Flags        uint16
	Type         EventType

	// Note on, note off and poly pressure
	Channel  int16
	Pitch    int16
	Velocity float32 // 0..1
	NoteID   int32
	Pressure float32 // 0..1

	// Legacy MIDI CC
	ControlNumber uint8
	Value         int8
	Value2        int8

	// Data
	DataType uint32
	Data     []byte
}

// ParamValueChange is one point of a host parameter queue.
type ParamValueChange struct {
	ID           uint32
	SampleOffset int32
	Value        float64 // normalized
}

// ProcessContext carries the host transport state.
type ProcessContext struct {
	State            uint32
	SampleRate       float64
	ProjectTimeMusic float64
	BarPositionMusic float64
	Tempo            float64
}

// ProcessData is one processing call with its buffers already mapped to Go
// slices: Inputs[bus][channel][sample].
type ProcessData struct {
	ProcessMode        int32
	SymbolicSampleSize int32
	NumSamples         int32

	Inputs  [][][]float32
	Outputs [][][]float32

	InputEvents  []Event
	ParamChanges []ParamValueChange

	// OutputEvents is filled by the plugin for hosts that accept them.
	OutputEvents []Event

	Context *ProcessContext
}
