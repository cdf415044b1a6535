package cbridge

// #cgo CFLAGS: -I../../../include
// #include <string.h>
// #include "../../../include/vst3/vst3_c_api.h"
//
// static inline Steinberg_Vst_Sample32** bus_channels32(struct Steinberg_Vst_AudioBusBuffers* b) {
//     return b->Steinberg_Vst_AudioBusBuffers_channelBuffers32;
// }
//
// static inline Steinberg_int32 changes_count(struct Steinberg_Vst_IParameterChanges* c) {
//     return c->lpVtbl->getParameterCount(c);
// }
//
// static inline struct Steinberg_Vst_IParamValueQueue* changes_queue(struct Steinberg_Vst_IParameterChanges* c, Steinberg_int32 i) {
//     return c->lpVtbl->getParameterData(c, i);
// }
//
// static inline Steinberg_Vst_ParamID queue_id(struct Steinberg_Vst_IParamValueQueue* q) {
//     return q->lpVtbl->getParameterId(q);
// }
//
// static inline Steinberg_int32 queue_points(struct Steinberg_Vst_IParamValueQueue* q) {
//     return q->lpVtbl->getPointCount(q);
// }
//
// static inline Steinberg_tresult queue_point(struct Steinberg_Vst_IParamValueQueue* q, Steinberg_int32 i, Steinberg_int32* offset, Steinberg_Vst_ParamValue* value) {
//     return q->lpVtbl->getPoint(q, i, offset, value);
// }
//
// static inline Steinberg_int32 events_count(struct Steinberg_Vst_IEventList* l) {
//     return l->lpVtbl->getEventCount(l);
// }
//
// // flat_event is a Steinberg_Vst_Event with its union spread out.
// typedef struct {
//     Steinberg_int32 busIndex;
//     Steinberg_int32 sampleOffset;
//     double ppqPosition;
//     Steinberg_uint16 flags;
//     Steinberg_uint16 type;
//     Steinberg_int16 channel;
//     Steinberg_int16 pitch;
//     float velocity;
//     Steinberg_int32 noteId;
//     float pressure;
//     Steinberg_uint8 controlNumber;
//     Steinberg_int8 value;
//     Steinberg_int8 value2;
//     Steinberg_uint32 dataType;
//     Steinberg_uint32 dataSize;
//     const Steinberg_uint8* data;
// } flat_event;
//
// static inline Steinberg_tresult events_get(struct Steinberg_Vst_IEventList* l, Steinberg_int32 i, flat_event* out) {
//     struct Steinberg_Vst_Event e;
//     memset(&e, 0, sizeof(e));
//     Steinberg_tresult r = l->lpVtbl->getEvent(l, i, &e);
//     if (r != Steinberg_kResultOk) return r;
//
//     memset(out, 0, sizeof(*out));
//     out->busIndex = e.busIndex;
//     out->sampleOffset = e.sampleOffset;
//     out->ppqPosition = e.ppqPosition;
//     out->flags = e.flags;
//     out->type = e.type;
//     switch (e.type) {
//     case 0: // note on
//         out->channel = e.Steinberg_Vst_Event_noteOn.channel;
//         out->pitch = e.Steinberg_Vst_Event_noteOn.pitch;
//         out->velocity = e.Steinberg_Vst_Event_noteOn.velocity;
//         out->noteId = e.Steinberg_Vst_Event_noteOn.noteId;
//         break;
//     case 1: // note off
//         out->channel = e.Steinberg_Vst_Event_noteOff.channel;
//         out->pitch = e.Steinberg_Vst_Event_noteOff.pitch;
//         out->velocity = e.Steinberg_Vst_Event_noteOff.velocity;
//         out->noteId = e.Steinberg_Vst_Event_noteOff.noteId;
//         break;
//     case 2: // data
//         out->dataType = e.Steinberg_Vst_Event_data.type;
//         out->dataSize = e.Steinberg_Vst_Event_data.size;
//         out->data = e.Steinberg_Vst_Event_data.bytes;
//         break;
//     case 3: // poly pressure
//         out->channel = e.Steinberg_Vst_Event_polyPressure.channel;
//         out->pitch = e.Steinberg_Vst_Event_polyPressure.pitch;
//         out->pressure = e.Steinberg_Vst_Event_polyPressure.pressure;
//         out->noteId = e.Steinberg_Vst_Event_polyPressure.noteId;
//         break;
//     case 65535: // legacy MIDI CC
//         out->channel = e.Steinberg_Vst_Event_midiCCOut.channel;
//         out->controlNumber = e.Steinberg_Vst_Event_midiCCOut.controlNumber;
//         out->value = e.Steinberg_Vst_Event_midiCCOut.value;
//         out->value2 = e.Steinberg_Vst_Event_midiCCOut.value2;
//         break;
//     }
//     return r;
// }
import "C"

import (
	"unsafe"

	"github.com/justyntemme/faustvst3/pkg/vst3"
)

// processScratch maps one host process call onto a vst3.ProcessData. Its
// slices are reused from call to call so steady state processing does not
// allocate.
type processScratch struct {
	data    vst3.ProcessData
	ctx     vst3.ProcessContext
	inputs  [][][]float32
	outputs [][][]float32
	events  []vst3.Event
	changes []vst3.ParamValueChange
}

// reserve sizes the event and parameter buffers before processing starts.
func (s *processScratch) reserve(maxBlock int) {
	if n := max(maxBlock, 64); cap(s.events) < n {
		s.events = make([]vst3.Event, 0, n)
	}
	if cap(s.changes) < 64 {
		s.changes = make([]vst3.ParamValueChange, 0, 64)
	}
}

func (s *processScratch) fill(d *C.struct_Steinberg_Vst_ProcessData) *vst3.ProcessData {
	n := int(d.numSamples)
	s.data = vst3.ProcessData{
		ProcessMode:        int32(d.processMode),
		SymbolicSampleSize: int32(d.symbolicSampleSize),
		NumSamples:         int32(d.numSamples),
	}

	if s.data.SymbolicSampleSize == vst3.Sample32 && n > 0 {
		s.inputs = mapBuses(s.inputs, d.inputs, d.numInputs, n)
		s.outputs = mapBuses(s.outputs, d.outputs, d.numOutputs, n)
		s.data.Inputs = s.inputs
		s.data.Outputs = s.outputs
	}

	s.changes = s.changes[:0]
	if pc := d.inputParameterChanges; pc != nil {
		count := C.changes_count(pc)
		for i := C.Steinberg_int32(0); i < count; i++ {
			q := C.changes_queue(pc, i)
			if q == nil {
				continue
			}
			id := uint32(C.queue_id(q))
			points := C.queue_points(q)
			for j := C.Steinberg_int32(0); j < points; j++ {
				var offset C.Steinberg_int32
				var value C.Steinberg_Vst_ParamValue
				if C.queue_point(q, j, &offset, &value) != C.Steinberg_kResultOk {
					continue
				}
				s.changes = append(s.changes, vst3.ParamValueChange{
					ID:           id,
					SampleOffset: int32(offset),
					Value:        float64(value),
				})
			}
		}
	}
	s.data.ParamChanges = s.changes

	s.events = s.events[:0]
	if el := d.inputEvents; el != nil {
		var e C.flat_event
		count := C.events_count(el)
		for i := C.Steinberg_int32(0); i < count; i++ {
			if C.events_get(el, i, &e) != C.Steinberg_kResultOk {
				continue
			}
			s.events = append(s.events, toEvent(&e))
		}
	}
	s.data.InputEvents = s.events

	if pc := d.processContext; pc != nil {
		s.ctx = vst3.ProcessContext{
			State:            uint32(pc.state),
			SampleRate:       float64(pc.sampleRate),
			ProjectTimeMusic: float64(pc.projectTimeMusic),
			BarPositionMusic: float64(pc.barPositionMusic),
			Tempo:            float64(pc.tempo),
		}
		s.data.Context = &s.ctx
	}
	return &s.data
}

func toEvent(e *C.flat_event) vst3.Event {
	ev := vst3.Event{
		BusIndex:      int32(e.busIndex),
		SampleOffset:  int32(e.sampleOffset),
		PPQPosition:   float64(e.ppqPosition),
		Flags:         uint16(e.flags),
		Type:          vst3.EventType(e._type),
		Channel:       int16(e.channel),
		Pitch:         int16(e.pitch),
		Velocity:      float32(e.velocity),
		NoteID:        int32(e.noteId),
		Pressure:      float32(e.pressure),
		ControlNumber: uint8(e.controlNumber),
		Value:         int8(e.value),
		Value2:        int8(e.value2),
		DataType:      uint32(e.dataType),
	}
	if e.data != nil && e.dataSize > 0 {
		// valid for the duration of the process call only
		ev.Data = unsafe.Slice((*byte)(unsafe.Pointer(e.data)), int(e.dataSize))
	}
	return ev
}

// mapBuses points dst at the host's 32 bit channel buffers without copying.
func mapBuses(dst [][][]float32, buses *C.struct_Steinberg_Vst_AudioBusBuffers, count C.Steinberg_int32, n int) [][][]float32 {
	dst = dst[:0]
	if buses == nil || count <= 0 {
		return dst
	}
	host := unsafe.Slice(buses, int(count))
	for i := range host {
		b := &host[i]
		var channels [][]float32
		if i < cap(dst) {
			channels = dst[:i+1][i][:0]
		}
		ptrs := C.bus_channels32(b)
		if ptrs != nil && b.numChannels > 0 {
			for _, p := range unsafe.Slice(ptrs, int(b.numChannels)) {
				if p == nil {
					channels = append(channels, nil)
					continue
				}
				channels = append(channels, unsafe.Slice((*float32)(unsafe.Pointer(p)), n))
			}
		}
		dst = append(dst, channels)
	}
	return dst
}
