package vst3

// ComponentHandler is the host's IComponentHandler: the controller reports
// parameter edits and asks for restarts through it.
type ComponentHandler interface {
	BeginEdit(id uint32) error
	PerformEdit(id uint32, normalized float64) error
	EndEdit(id uint32) error
	RestartComponent(flags int32) error
}

// Component is the Go side of IComponent, IPluginBase included. State is
// exchanged as whole chunks; the bridge reads and writes the host stream.
type Component interface {
	Initialize(host any) error
	Terminate() error

	GetControllerClassID() [16]byte
	SetIOMode(mode int32) error
	GetBusCount(mediaType MediaType, direction BusDirection) int32
	GetBusInfo(mediaType MediaType, direction BusDirection, index int32) (*BusInfo, error)
	ActivateBus(mediaType MediaType, direction BusDirection, index int32, state bool) error
	SetActive(state bool) error
	SetState(state []byte) error
	GetState() ([]byte, error)
}

// AudioProcessor is the Go side of IAudioProcessor.
type AudioProcessor interface {
	SetBusArrangements(inputs, outputs []SpeakerArrangement) error
	GetBusArrangement(direction BusDirection, index int32) (SpeakerArrangement, error)
	CanProcessSampleSize(symbolicSampleSize int32) error
	GetLatencySamples() uint32
	SetupProcessing(setup *ProcessSetup) error
	SetProcessing(state bool) error
	Process(data *ProcessData) error
	GetTailSamples() uint32
}

// EditController is the Go side of IEditController. The component is its
// own controller, so SetComponentState has nothing to sync.
type EditController interface {
	SetComponentState(state []byte) error
	GetParameterCount() int32
	GetParameterInfo(index int32) (*ParameterInfo, error)
	GetParamStringByValue(id uint32, normalized float64) (string, error)
	GetParamValueByString(id uint32, s string) (float64, error)
	NormalizedParamToPlain(id uint32, normalized float64) float64
	PlainParamToNormalized(id uint32, plain float64) float64
	GetParamNormalized(id uint32) float64
	SetParamNormalized(id uint32, normalized float64) error
	SetComponentHandler(handler ComponentHandler) error
}
