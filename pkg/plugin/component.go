package plugin

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/justyntemme/faustvst3/pkg/framework/bus"
	"github.com/justyntemme/faustvst3/pkg/framework/plugin"
	"github.com/justyntemme/faustvst3/pkg/framework/process"
	"github.com/justyntemme/faustvst3/pkg/vst3"
)

// maxBlockEvents sizes the per block MIDI buffer so typical blocks do not
// allocate.
const maxBlockEvents = 512

// Component drives a Processor on behalf of the host. It is both the audio
// processor and the edit controller of the plugin.
type Component struct {
	info      plugin.Info
	processor Processor
	ctx       *process.Context
	logger    *zap.Logger

	setup      vst3.ProcessSetup
	active     bool
	processing bool

	handlerMu sync.RWMutex
	handler   vst3.ComponentHandler

	terminateOnce sync.Once
}

var (
	_ vst3.Component      = (*Component)(nil)
	_ vst3.AudioProcessor = (*Component)(nil)
	_ vst3.EditController = (*Component)(nil)
)

// NewComponent wraps p. A nil logger selects a no-op logger.
func NewComponent(info plugin.Info, p Processor, logger *zap.Logger) *Component {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Component{
		info:      info,
		processor: p,
		ctx:       process.NewContext(maxBlockEvents, p.GetParameters()),
		logger:    logger.Named("component").With(zap.String("plugin", info.Name)),
		setup: vst3.ProcessSetup{
			SymbolicSampleSize: vst3.Sample32,
			MaxSamplesPerBlock: 512,
			SampleRate:         44100,
		},
	}
	if lr, ok := p.(LatencyReporter); ok {
		lr.OnLatencyChange(func(int32) { c.restart(vst3.RestartLatencyChanged) })
	}
	return c
}

// Processor returns the wrapped processor.
func (c *Component) Processor() Processor { return c.processor }

// IPluginBase methods

func (c *Component) Initialize(host any) error {
	c.logger.Debug("initialize")
	return nil
}

// Terminate deactivates the processor if needed and closes it. Later calls
// do nothing.
func (c *Component) Terminate() error {
	var err error
	c.terminateOnce.Do(func() {
		if c.active {
			err = multierr.Append(err, c.processor.SetActive(false))
			c.active = false
		}
		if closer, ok := c.processor.(io.Closer); ok {
			err = multierr.Append(err, closer.Close())
		}
		c.setHandler(nil)
		c.logger.Debug("terminated", zap.Error(err))
	})
	return err
}

// IComponent methods

// GetControllerClassID returns the zero ID: the component is its own
// controller.
func (c *Component) GetControllerClassID() [16]byte {
	return [16]byte{}
}

func (c *Component) SetIOMode(mode int32) error {
	return nil
}

func (c *Component) GetBusCount(mediaType vst3.MediaType, direction vst3.BusDirection) int32 {
	return c.processor.GetBuses().GetBusCount(bus.MediaType(mediaType), bus.Direction(direction))
}

func (c *Component) GetBusInfo(mediaType vst3.MediaType, direction vst3.BusDirection, index int32) (*vst3.BusInfo, error) {
	info := c.processor.GetBuses().GetBusInfo(bus.MediaType(mediaType), bus.Direction(direction), index)
	if info == nil {
		return nil, fmt.Errorf("bus %d: %w", index, vst3.ErrInvalidArgument)
	}

	out := &vst3.BusInfo{
		MediaType:    vst3.MediaType(info.MediaType),
		Direction:    vst3.BusDirection(info.Direction),
		ChannelCount: info.ChannelCount,
		Name:         info.Name,
		BusType:      vst3.BusType(info.BusType),
		Flags:        vst3.BusDefaultActive,
	}
	return out, nil
}

func (c *Component) ActivateBus(mediaType vst3.MediaType, direction vst3.BusDirection, index int32, state bool) error {
	if !c.processor.GetBuses().SetActive(bus.MediaType(mediaType), bus.Direction(direction), index, state) {
		return vst3.ErrInvalidArgument
	}
	return nil
}

// SetActive prepares the processor for the current setup or releases it.
func (c *Component) SetActive(state bool) error {
	if state == c.active {
		return nil
	}
	if state {
		if err := c.processor.Initialize(c.setup.SampleRate, c.setup.MaxSamplesPerBlock); err != nil {
			return fmt.Errorf("initialize processor: %w", err)
		}
	}
	if err := c.processor.SetActive(state); err != nil {
		return fmt.Errorf("set active %t: %w", state, err)
	}
	c.active = state
	return nil
}

func (c *Component) SetState(state []byte) error {
	sp, ok := c.processor.(StatefulProcessor)
	if !ok {
		return vst3.ErrNotImplemented
	}
	if err := sp.LoadState(bytes.NewReader(state)); err != nil {
		c.logger.Warn("state rejected", zap.Error(err), zap.Int("bytes", len(state)))
		return fmt.Errorf("load state: %w", err)
	}
	return nil
}

func (c *Component) GetState() ([]byte, error) {
	sp, ok := c.processor.(StatefulProcessor)
	if !ok {
		return nil, vst3.ErrNotImplemented
	}
	var buf bytes.Buffer
	if err := sp.SaveState(&buf); err != nil {
		return nil, fmt.Errorf("save state: %w", err)
	}
	return buf.Bytes(), nil
}

// IAudioProcessor methods

// SetBusArrangements accepts the host's proposal when the processor supports
// it. Processors that do not negotiate keep their configured layout.
func (c *Component) SetBusArrangements(inputs, outputs []vst3.SpeakerArrangement) error {
	layout := bus.LayoutFrom(channelSets(inputs), channelSets(outputs))

	if ln, ok := c.processor.(LayoutNegotiator); ok {
		if !ln.ApplyLayout(layout) {
			c.logger.Debug("layout rejected",
				zap.Int32("inputs", layout.MainInput.Channels()),
				zap.Int32("outputs", layout.MainOutput.Channels()),
			)
			return vst3.ErrFalse
		}
		return nil
	}

	buses := c.processor.GetBuses()
	if layout.MainInput.Channels() != buses.MainChannels(bus.DirectionInput) ||
		layout.MainOutput.Channels() != buses.MainChannels(bus.DirectionOutput) {
		return vst3.ErrFalse
	}
	return nil
}

func channelSets(arr []vst3.SpeakerArrangement) []bus.ChannelSet {
	out := make([]bus.ChannelSet, len(arr))
	for i, a := range arr {
		out[i] = bus.ChannelSet(a)
	}
	return out
}

func (c *Component) GetBusArrangement(direction vst3.BusDirection, index int32) (vst3.SpeakerArrangement, error) {
	info := c.processor.GetBuses().GetBusInfo(bus.MediaTypeAudio, bus.Direction(direction), index)
	if info == nil {
		return vst3.ArrangementEmpty, vst3.ErrInvalidArgument
	}
	return vst3.SpeakerArrangement(bus.ChannelSetFor(info.ChannelCount)), nil
}

func (c *Component) CanProcessSampleSize(symbolicSampleSize int32) error {
	if symbolicSampleSize == vst3.Sample32 {
		return nil
	}
	return vst3.ErrFalse
}

func (c *Component) GetLatencySamples() uint32 {
	return clampUint32(c.processor.GetLatencySamples())
}

func (c *Component) SetupProcessing(setup *vst3.ProcessSetup) error {
	if setup == nil {
		return vst3.ErrInvalidArgument
	}
	if setup.SymbolicSampleSize != vst3.Sample32 {
		return vst3.ErrFalse
	}
	c.setup = *setup
	c.ctx.SampleRate = setup.SampleRate
	c.logger.Debug("setup processing",
		zap.Float64("sample_rate", setup.SampleRate),
		zap.Int32("max_block", setup.MaxSamplesPerBlock),
		zap.Int32("mode", setup.ProcessMode),
	)
	return c.processor.Initialize(setup.SampleRate, setup.MaxSamplesPerBlock)
}

func (c *Component) SetProcessing(state bool) error {
	c.processing = state
	return nil
}

// Process applies the block's parameter changes, collects its MIDI and runs
// the processor on the main buses. Blocks without samples flush parameters
// and hand any MIDI to the processor without audio.
func (c *Component) Process(data *vst3.ProcessData) error {
	if data == nil {
		return vst3.ErrInvalidArgument
	}
	if data.SymbolicSampleSize != vst3.Sample32 {
		return vst3.ErrFalse
	}

	for _, ch := range data.ParamChanges {
		c.ctx.SetParameterAtOffset(ch.ID, ch.Value, int(ch.SampleOffset))
	}

	c.ctx.ClearMIDI()
	for _, ev := range data.InputEvents {
		if m, ok := toMIDI(ev); ok {
			c.ctx.AddMIDI(m)
		}
	}

	c.ctx.Input = nil
	c.ctx.Output = nil
	if data.NumSamples <= 0 {
		if len(c.ctx.MIDI()) > 0 {
			c.ctx.SetNumSamples(0)
			c.processor.ProcessAudio(c.ctx)
			c.ctx.ClearMIDI()
		}
		return nil
	}

	c.ctx.SetNumSamples(int(data.NumSamples))
	if len(data.Inputs) > 0 {
		c.ctx.Input = data.Inputs[0]
	}
	if len(data.Outputs) > 0 {
		c.ctx.Output = data.Outputs[0]
	}

	c.processor.ProcessAudio(c.ctx)

	for _, aux := range data.Outputs[min(1, len(data.Outputs)):] {
		for _, ch := range aux {
			clear(ch)
		}
	}
	c.ctx.ClearMIDI()
	return nil
}

func (c *Component) GetTailSamples() uint32 {
	return clampUint32(c.processor.GetTailSamples())
}

func clampUint32(v int32) uint32 {
	if v < 0 {
		return 0
	}
	return uint32(v)
}

// IEditController methods

func (c *Component) SetComponentState(state []byte) error {
	// Parameters are shared with the processor, so the state was already
	// applied by SetState.
	return nil
}

func (c *Component) GetParameterCount() int32 {
	return c.processor.GetParameters().Count()
}

func (c *Component) GetParameterInfo(index int32) (*vst3.ParameterInfo, error) {
	p := c.processor.GetParameters().GetByIndex(index)
	if p == nil {
		return nil, fmt.Errorf("parameter index %d: %w", index, vst3.ErrInvalidArgument)
	}
	return &vst3.ParameterInfo{
		ID:           p.ID,
		Title:        p.Name,
		ShortTitle:   p.ShortName,
		Units:        p.Unit,
		StepCount:    p.StepCount,
		DefaultValue: p.DefaultValue,
		UnitID:       p.UnitID,
		Flags:        int32(p.Flags),
	}, nil
}

func (c *Component) GetParamStringByValue(id uint32, normalized float64) (string, error) {
	p := c.processor.GetParameters().Get(id)
	if p == nil {
		return "", vst3.ErrInvalidArgument
	}
	return p.FormatValue(normalized), nil
}

func (c *Component) GetParamValueByString(id uint32, str string) (float64, error) {
	p := c.processor.GetParameters().Get(id)
	if p == nil {
		return 0, vst3.ErrInvalidArgument
	}
	v, err := p.ParseValue(str)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", vst3.ErrFalse, err)
	}
	return v, nil
}

func (c *Component) NormalizedParamToPlain(id uint32, normalized float64) float64 {
	if p := c.processor.GetParameters().Get(id); p != nil {
		return p.Denormalize(normalized)
	}
	return normalized
}

func (c *Component) PlainParamToNormalized(id uint32, plain float64) float64 {
	if p := c.processor.GetParameters().Get(id); p != nil {
		return p.Normalize(plain)
	}
	return plain
}

func (c *Component) GetParamNormalized(id uint32) float64 {
	if p := c.processor.GetParameters().Get(id); p != nil {
		return p.GetValue()
	}
	return 0
}

func (c *Component) SetParamNormalized(id uint32, value float64) error {
	p := c.processor.GetParameters().Get(id)
	if p == nil {
		return vst3.ErrInvalidArgument
	}
	p.SetValue(value)
	return nil
}

func (c *Component) SetComponentHandler(handler vst3.ComponentHandler) error {
	c.setHandler(handler)
	return nil
}

func (c *Component) setHandler(h vst3.ComponentHandler) {
	c.handlerMu.Lock()
	c.handler = h
	c.handlerMu.Unlock()
}

func (c *Component) restart(flags int32) {
	c.handlerMu.RLock()
	h := c.handler
	c.handlerMu.RUnlock()

	if h == nil {
		return
	}
	if err := h.RestartComponent(flags); err != nil {
		c.logger.Warn("restart request failed", zap.Int32("flags", flags), zap.Error(err))
	}
}
