package cbridge

// #cgo CFLAGS: -I../../../include
// #include "../../../include/vst3/vst3_c_api.h"
import "C"

import (
	"unsafe"

	"go.uber.org/zap"

	"github.com/justyntemme/faustvst3/pkg/plugin"
	"github.com/justyntemme/faustvst3/pkg/vst3"
)

// IComponent callbacks

//export GoComponentInitialize
func GoComponentInitialize(componentPtr unsafe.Pointer, context unsafe.Pointer) (res C.Steinberg_tresult) {
	defer guard("GoComponentInitialize", &res)

	c := component(componentPtr)
	if c == nil {
		return code(vst3.ResultFalse)
	}
	return result("initialize", c.Initialize(context))
}

//export GoComponentTerminate
func GoComponentTerminate(componentPtr unsafe.Pointer) (res C.Steinberg_tresult) {
	defer guard("GoComponentTerminate", &res)

	c := component(componentPtr)
	if c == nil {
		return code(vst3.ResultFalse)
	}
	return result("terminate", c.Terminate())
}

//export GoComponentGetControllerClassId
func GoComponentGetControllerClassId(componentPtr unsafe.Pointer, classID *C.char) {
	c := component(componentPtr)
	if c == nil {
		return
	}
	copyUID(unsafe.Pointer(classID), c.GetControllerClassID())
}

//export GoComponentSetIoMode
func GoComponentSetIoMode(componentPtr unsafe.Pointer, mode C.int32_t) C.Steinberg_tresult {
	c := component(componentPtr)
	if c == nil {
		return code(vst3.ResultFalse)
	}
	return result("set io mode", c.SetIOMode(int32(mode)))
}

//export GoComponentGetBusCount
func GoComponentGetBusCount(componentPtr unsafe.Pointer, mediaType, dir C.int32_t) C.int32_t {
	c := component(componentPtr)
	if c == nil {
		return 0
	}
	return C.int32_t(c.GetBusCount(vst3.MediaType(mediaType), vst3.BusDirection(dir)))
}

//export GoComponentGetBusInfo
func GoComponentGetBusInfo(componentPtr unsafe.Pointer, mediaType, dir, index C.int32_t, bus unsafe.Pointer) (res C.Steinberg_tresult) {
	defer guard("GoComponentGetBusInfo", &res)

	c := component(componentPtr)
	if c == nil || bus == nil {
		return code(vst3.ResultInvalidArgument)
	}
	info, err := c.GetBusInfo(vst3.MediaType(mediaType), vst3.BusDirection(dir), int32(index))
	if err != nil {
		return result("bus info", err)
	}

	cBus := (*C.struct_Steinberg_Vst_BusInfo)(bus)
	cBus.mediaType = C.Steinberg_Vst_MediaType(info.MediaType)
	cBus.direction = C.Steinberg_Vst_BusDirection(info.Direction)
	cBus.channelCount = C.Steinberg_int32(info.ChannelCount)
	copyString16(unsafe.Pointer(&cBus.name[0]), info.Name)
	cBus.busType = C.Steinberg_Vst_BusType(info.BusType)
	cBus.flags = C.Steinberg_uint32(info.Flags)
	return code(vst3.ResultOK)
}

//export GoComponentActivateBus
func GoComponentActivateBus(componentPtr unsafe.Pointer, mediaType, dir, index, state C.int32_t) C.Steinberg_tresult {
	c := component(componentPtr)
	if c == nil {
		return code(vst3.ResultFalse)
	}
	return result("activate bus", c.ActivateBus(vst3.MediaType(mediaType), vst3.BusDirection(dir), int32(index), state != 0))
}

//export GoComponentSetActive
func GoComponentSetActive(componentPtr unsafe.Pointer, state C.int32_t) (res C.Steinberg_tresult) {
	defer guard("GoComponentSetActive", &res)

	c := component(componentPtr)
	if c == nil {
		return code(vst3.ResultFalse)
	}
	return result("set active", c.SetActive(state != 0))
}

//export GoComponentSetState
func GoComponentSetState(componentPtr unsafe.Pointer, state unsafe.Pointer) (res C.Steinberg_tresult) {
	defer guard("GoComponentSetState", &res)

	c := component(componentPtr)
	if c == nil {
		return code(vst3.ResultFalse)
	}
	data, err := readStream(state)
	if err != nil {
		return result("read state", err)
	}
	if err := c.SetState(data); err != nil {
		// a state this plugin did not write is rejected, not fatal
		plugin.Logger().Debug("set state", zap.Error(err))
		return code(vst3.ResultFalse)
	}
	return code(vst3.ResultOK)
}

//export GoComponentGetState
func GoComponentGetState(componentPtr unsafe.Pointer, state unsafe.Pointer) (res C.Steinberg_tresult) {
	defer guard("GoComponentGetState", &res)

	c := component(componentPtr)
	if c == nil {
		return code(vst3.ResultFalse)
	}
	data, err := c.GetState()
	if err != nil {
		return result("get state", err)
	}
	return result("write state", writeStream(state, data))
}
