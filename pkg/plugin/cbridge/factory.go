package cbridge

// #cgo CFLAGS: -I../../../include
// #include "../../../include/vst3/vst3_c_api.h"
// #include "../../../bridge/component.h"
import "C"

import (
	"unsafe"

	"go.uber.org/zap"

	"github.com/justyntemme/faustvst3/pkg/plugin"
	"github.com/justyntemme/faustvst3/pkg/vst3"
)

//export GoGetFactoryInfo
func GoGetFactoryInfo(vendor, url, email *C.char, flags *C.int32_t) {
	defer guard("GoGetFactoryInfo", nil)

	info := plugin.GetFactoryInfo()
	copyString(unsafe.Pointer(vendor), nameSize, info.Vendor)
	copyString(unsafe.Pointer(url), urlSize, info.URL)
	copyString(unsafe.Pointer(email), emailSize, info.Email)
	if flags != nil {
		*flags = C.int32_t(vst3.FactoryFlagUnicode)
	}
}

//export GoCountClasses
func GoCountClasses() C.int32_t {
	return C.int32_t(plugin.CountClasses())
}

//export GoGetClassInfo
func GoGetClassInfo(index C.int32_t, cid *C.char, cardinality *C.int32_t, category, name *C.char) {
	defer guard("GoGetClassInfo", nil)

	ci, err := plugin.GetClassInfo(int32(index))
	if err != nil {
		plugin.Logger().Debug("class info", zap.Int32("index", int32(index)), zap.Error(err))
		return
	}
	copyUID(unsafe.Pointer(cid), ci.CID)
	if cardinality != nil {
		*cardinality = C.int32_t(ci.Cardinality)
	}
	copyString(unsafe.Pointer(category), categorySize, ci.Category)
	copyString(unsafe.Pointer(name), nameSize, ci.Name)
}

//export GoCreateInstance
func GoCreateInstance(cid *C.char, iid *C.char) unsafe.Pointer {
	defer guard("GoCreateInstance", nil)

	if cid == nil {
		return nil
	}
	var requested [16]byte
	copy(requested[:], unsafe.Slice((*byte)(unsafe.Pointer(cid)), 16))

	comp, err := plugin.CreateComponent(requested)
	if err != nil {
		plugin.Logger().Warn("create instance", zap.Binary("cid", requested[:]), zap.Error(err))
		return nil
	}

	h := plugin.Attach(comp)
	instances.Store(h, &instance{})

	cComponent := C.createComponent(unsafe.Pointer(h))
	if cComponent == nil {
		release(h)
		return nil
	}
	return cComponent
}

//export GoReleaseComponent
func GoReleaseComponent(componentPtr unsafe.Pointer) {
	defer guard("GoReleaseComponent", nil)

	if h := uintptr(componentPtr); h != 0 {
		release(h)
	}
}

func release(h uintptr) {
	if err := plugin.Detach(h); err != nil {
		plugin.Logger().Warn("release component", zap.Error(err))
	}
	if v, ok := instances.LoadAndDelete(h); ok {
		v.(*instance).setHandler(nil)
	}
}
