package cbridge

// #cgo CFLAGS: -I../../../include
// #include "../../../include/vst3/vst3_c_api.h"
import "C"

import (
	"unsafe"

	"github.com/justyntemme/faustvst3/pkg/vst3"
)

// IEditController callbacks

//export GoEditControllerSetComponentState
func GoEditControllerSetComponentState(componentPtr unsafe.Pointer, state unsafe.Pointer) (res C.Steinberg_tresult) {
	defer guard("GoEditControllerSetComponentState", &res)

	c := component(componentPtr)
	if c == nil {
		return code(vst3.ResultInvalidArgument)
	}
	data, err := readStream(state)
	if err != nil {
		return result("read component state", err)
	}
	return result("set component state", c.SetComponentState(data))
}

// The controller keeps no state of its own.

//export GoEditControllerSetState
func GoEditControllerSetState(componentPtr unsafe.Pointer, state unsafe.Pointer) C.Steinberg_tresult {
	return code(vst3.ResultOK)
}

//export GoEditControllerGetState
func GoEditControllerGetState(componentPtr unsafe.Pointer, state unsafe.Pointer) C.Steinberg_tresult {
	return code(vst3.ResultOK)
}

//export GoEditControllerGetParameterCount
func GoEditControllerGetParameterCount(componentPtr unsafe.Pointer) C.int32_t {
	c := component(componentPtr)
	if c == nil {
		return 0
	}
	return C.int32_t(c.GetParameterCount())
}

//export GoEditControllerGetParameterInfo
func GoEditControllerGetParameterInfo(componentPtr unsafe.Pointer, paramIndex C.int32_t, info *C.struct_Steinberg_Vst_ParameterInfo) (res C.Steinberg_tresult) {
	defer guard("GoEditControllerGetParameterInfo", &res)

	c := component(componentPtr)
	if c == nil || info == nil {
		return code(vst3.ResultInvalidArgument)
	}
	p, err := c.GetParameterInfo(int32(paramIndex))
	if err != nil {
		return result("parameter info", err)
	}

	info.id = C.Steinberg_Vst_ParamID(p.ID)
	copyString16(unsafe.Pointer(&info.title[0]), p.Title)
	copyString16(unsafe.Pointer(&info.shortTitle[0]), p.ShortTitle)
	copyString16(unsafe.Pointer(&info.units[0]), p.Units)
	info.stepCount = C.Steinberg_int32(p.StepCount)
	info.defaultNormalizedValue = C.Steinberg_Vst_ParamValue(p.DefaultValue)
	info.unitId = C.Steinberg_Vst_UnitID(p.UnitID)
	info.flags = C.Steinberg_int32(p.Flags)
	return code(vst3.ResultOK)
}

//export GoEditControllerGetParamStringByValue
func GoEditControllerGetParamStringByValue(componentPtr unsafe.Pointer, id C.Steinberg_Vst_ParamID, valueNormalized C.Steinberg_Vst_ParamValue, str *C.Steinberg_Vst_TChar) (res C.Steinberg_tresult) {
	defer guard("GoEditControllerGetParamStringByValue", &res)

	c := component(componentPtr)
	if c == nil || str == nil {
		return code(vst3.ResultInvalidArgument)
	}
	s, err := c.GetParamStringByValue(uint32(id), float64(valueNormalized))
	if err != nil {
		return result("format parameter", err)
	}
	copyString16(unsafe.Pointer(str), s)
	return code(vst3.ResultOK)
}

//export GoEditControllerGetParamValueByString
func GoEditControllerGetParamValueByString(componentPtr unsafe.Pointer, id C.Steinberg_Vst_ParamID, str *C.Steinberg_Vst_TChar, valueNormalized *C.Steinberg_Vst_ParamValue) (res C.Steinberg_tresult) {
	defer guard("GoEditControllerGetParamValueByString", &res)

	c := component(componentPtr)
	if c == nil || str == nil || valueNormalized == nil {
		return code(vst3.ResultInvalidArgument)
	}
	v, err := c.GetParamValueByString(uint32(id), readString16(unsafe.Pointer(str)))
	if err != nil {
		return result("parse parameter", err)
	}
	*valueNormalized = C.Steinberg_Vst_ParamValue(v)
	return code(vst3.ResultOK)
}

//export GoEditControllerNormalizedParamToPlain
func GoEditControllerNormalizedParamToPlain(componentPtr unsafe.Pointer, id C.Steinberg_Vst_ParamID, valueNormalized C.Steinberg_Vst_ParamValue) C.Steinberg_Vst_ParamValue {
	c := component(componentPtr)
	if c == nil {
		return valueNormalized
	}
	return C.Steinberg_Vst_ParamValue(c.NormalizedParamToPlain(uint32(id), float64(valueNormalized)))
}

//export GoEditControllerPlainParamToNormalized
func GoEditControllerPlainParamToNormalized(componentPtr unsafe.Pointer, id C.Steinberg_Vst_ParamID, plainValue C.Steinberg_Vst_ParamValue) C.Steinberg_Vst_ParamValue {
	c := component(componentPtr)
	if c == nil {
		return plainValue
	}
	return C.Steinberg_Vst_ParamValue(c.PlainParamToNormalized(uint32(id), float64(plainValue)))
}

//export GoEditControllerGetParamNormalized
func GoEditControllerGetParamNormalized(componentPtr unsafe.Pointer, id C.Steinberg_Vst_ParamID) C.Steinberg_Vst_ParamValue {
	c := component(componentPtr)
	if c == nil {
		return 0
	}
	return C.Steinberg_Vst_ParamValue(c.GetParamNormalized(uint32(id)))
}

//export GoEditControllerSetParamNormalized
func GoEditControllerSetParamNormalized(componentPtr unsafe.Pointer, id C.Steinberg_Vst_ParamID, value C.Steinberg_Vst_ParamValue) (res C.Steinberg_tresult) {
	defer guard("GoEditControllerSetParamNormalized", &res)

	c := component(componentPtr)
	if c == nil {
		return code(vst3.ResultInvalidArgument)
	}
	return result("set parameter", c.SetParamNormalized(uint32(id), float64(value)))
}

//export GoEditControllerSetComponentHandler
func GoEditControllerSetComponentHandler(componentPtr unsafe.Pointer, handler unsafe.Pointer) (res C.Steinberg_tresult) {
	defer guard("GoEditControllerSetComponentHandler", &res)

	c, in := lookup(componentPtr)
	if c == nil || in == nil {
		return code(vst3.ResultInvalidArgument)
	}

	h := newHostHandler(handler)
	var err error
	if h == nil {
		err = c.SetComponentHandler(nil)
	} else {
		err = c.SetComponentHandler(h)
	}
	in.setHandler(h)
	return result("set component handler", err)
}

// GoEditControllerCreateView returns no view: the plugin has no editor.
//
//export GoEditControllerCreateView
func GoEditControllerCreateView(componentPtr unsafe.Pointer, name *C.char) unsafe.Pointer {
	return nil
}
