package cbridge

// #cgo CFLAGS: -I../../../include
// #include "../../../include/vst3/vst3_c_api.h"
import "C"

import (
	"unsafe"

	"github.com/justyntemme/faustvst3/pkg/vst3"
)

// IAudioProcessor callbacks

//export GoAudioSetBusArrangements
func GoAudioSetBusArrangements(componentPtr unsafe.Pointer, inputs unsafe.Pointer, numIns C.int32_t, outputs unsafe.Pointer, numOuts C.int32_t) (res C.Steinberg_tresult) {
	defer guard("GoAudioSetBusArrangements", &res)

	c := component(componentPtr)
	if c == nil {
		return code(vst3.ResultInvalidArgument)
	}
	return result("set bus arrangements", c.SetBusArrangements(
		arrangements(inputs, numIns),
		arrangements(outputs, numOuts),
	))
}

func arrangements(p unsafe.Pointer, n C.int32_t) []vst3.SpeakerArrangement {
	if p == nil || n <= 0 {
		return nil
	}
	src := unsafe.Slice((*C.Steinberg_Vst_SpeakerArrangement)(p), int(n))
	out := make([]vst3.SpeakerArrangement, len(src))
	for i, a := range src {
		out[i] = vst3.SpeakerArrangement(a)
	}
	return out
}

//export GoAudioGetBusArrangement
func GoAudioGetBusArrangement(componentPtr unsafe.Pointer, dir, index C.int32_t, arr unsafe.Pointer) C.Steinberg_tresult {
	c := component(componentPtr)
	if c == nil || arr == nil {
		return code(vst3.ResultInvalidArgument)
	}
	arrangement, err := c.GetBusArrangement(vst3.BusDirection(dir), int32(index))
	if err != nil {
		return result("bus arrangement", err)
	}
	*(*C.Steinberg_Vst_SpeakerArrangement)(arr) = C.Steinberg_Vst_SpeakerArrangement(arrangement)
	return code(vst3.ResultOK)
}

//export GoAudioCanProcessSampleSize
func GoAudioCanProcessSampleSize(componentPtr unsafe.Pointer, symbolicSampleSize C.int32_t) C.Steinberg_tresult {
	c := component(componentPtr)
	if c == nil {
		return code(vst3.ResultInvalidArgument)
	}
	return result("sample size", c.CanProcessSampleSize(int32(symbolicSampleSize)))
}

//export GoAudioGetLatencySamples
func GoAudioGetLatencySamples(componentPtr unsafe.Pointer) C.uint32_t {
	c := component(componentPtr)
	if c == nil {
		return 0
	}
	return C.uint32_t(c.GetLatencySamples())
}

//export GoAudioSetupProcessing
func GoAudioSetupProcessing(componentPtr unsafe.Pointer, setup unsafe.Pointer) (res C.Steinberg_tresult) {
	defer guard("GoAudioSetupProcessing", &res)

	c, in := lookup(componentPtr)
	if c == nil || setup == nil {
		return code(vst3.ResultInvalidArgument)
	}

	cSetup := (*C.struct_Steinberg_Vst_ProcessSetup)(setup)
	goSetup := &vst3.ProcessSetup{
		ProcessMode:        int32(cSetup.processMode),
		SymbolicSampleSize: int32(cSetup.symbolicSampleSize),
		MaxSamplesPerBlock: int32(cSetup.maxSamplesPerBlock),
		SampleRate:         float64(cSetup.sampleRate),
	}
	if in != nil {
		in.scratch.reserve(int(goSetup.MaxSamplesPerBlock))
	}
	return result("setup processing", c.SetupProcessing(goSetup))
}

//export GoAudioSetProcessing
func GoAudioSetProcessing(componentPtr unsafe.Pointer, state C.int32_t) C.Steinberg_tresult {
	c := component(componentPtr)
	if c == nil {
		return code(vst3.ResultInvalidArgument)
	}
	return result("set processing", c.SetProcessing(state != 0))
}

//export GoAudioProcess
func GoAudioProcess(componentPtr unsafe.Pointer, data unsafe.Pointer) (res C.Steinberg_tresult) {
	defer guard("GoAudioProcess", &res)

	c, in := lookup(componentPtr)
	if c == nil || in == nil || data == nil {
		return code(vst3.ResultInvalidArgument)
	}
	pd := in.scratch.fill((*C.struct_Steinberg_Vst_ProcessData)(data))
	return result("process", c.Process(pd))
}

//export GoAudioGetTailSamples
func GoAudioGetTailSamples(componentPtr unsafe.Pointer) C.uint32_t {
	c := component(componentPtr)
	if c == nil {
		return 0
	}
	return C.uint32_t(c.GetTailSamples())
}
