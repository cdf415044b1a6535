package cbridge

// #cgo CFLAGS: -I../../../include
// #include "../../../include/vst3/vst3_c_api.h"
//
// static inline void handler_addRef(struct Steinberg_Vst_IComponentHandler* h) {
//     if (h && h->lpVtbl && h->lpVtbl->addRef) h->lpVtbl->addRef(h);
// }
//
// static inline void handler_release(struct Steinberg_Vst_IComponentHandler* h) {
//     if (h && h->lpVtbl && h->lpVtbl->release) h->lpVtbl->release(h);
// }
//
// static inline Steinberg_tresult handler_beginEdit(struct Steinberg_Vst_IComponentHandler* h, Steinberg_Vst_ParamID id) {
//     if (h && h->lpVtbl && h->lpVtbl->beginEdit) return h->lpVtbl->beginEdit(h, id);
//     return Steinberg_kResultFalse;
// }
//
// static inline Steinberg_tresult handler_performEdit(struct Steinberg_Vst_IComponentHandler* h, Steinberg_Vst_ParamID id, Steinberg_Vst_ParamValue v) {
//     if (h && h->lpVtbl && h->lpVtbl->performEdit) return h->lpVtbl->performEdit(h, id, v);
//     return Steinberg_kResultFalse;
// }
//
// static inline Steinberg_tresult handler_endEdit(struct Steinberg_Vst_IComponentHandler* h, Steinberg_Vst_ParamID id) {
//     if (h && h->lpVtbl && h->lpVtbl->endEdit) return h->lpVtbl->endEdit(h, id);
//     return Steinberg_kResultFalse;
// }
//
// static inline Steinberg_tresult handler_restartComponent(struct Steinberg_Vst_IComponentHandler* h, Steinberg_int32 flags) {
//     if (h && h->lpVtbl && h->lpVtbl->restartComponent) return h->lpVtbl->restartComponent(h, flags);
//     return Steinberg_kResultFalse;
// }
import "C"

import (
	"unsafe"

	"github.com/justyntemme/faustvst3/pkg/vst3"
)

// hostHandler is the host's IComponentHandler. It holds a reference for as
// long as the component may call it.
type hostHandler struct {
	ptr *C.struct_Steinberg_Vst_IComponentHandler
}

var _ vst3.ComponentHandler = (*hostHandler)(nil)

func newHostHandler(p unsafe.Pointer) *hostHandler {
	if p == nil {
		return nil
	}
	h := &hostHandler{ptr: (*C.struct_Steinberg_Vst_IComponentHandler)(p)}
	C.handler_addRef(h.ptr)
	return h
}

func (h *hostHandler) release() {
	C.handler_release(h.ptr)
}

func (h *hostHandler) BeginEdit(id uint32) error {
	return vst3.Result(C.handler_beginEdit(h.ptr, C.Steinberg_Vst_ParamID(id))).Err()
}

func (h *hostHandler) PerformEdit(id uint32, normalized float64) error {
	return vst3.Result(C.handler_performEdit(h.ptr, C.Steinberg_Vst_ParamID(id), C.Steinberg_Vst_ParamValue(normalized))).Err()
}

func (h *hostHandler) EndEdit(id uint32) error {
	return vst3.Result(C.handler_endEdit(h.ptr, C.Steinberg_Vst_ParamID(id))).Err()
}

func (h *hostHandler) RestartComponent(flags int32) error {
	return vst3.Result(C.handler_restartComponent(h.ptr, C.Steinberg_int32(flags))).Err()
}

// setHandler replaces the instance's handler and drops the reference to the
// previous one.
func (in *instance) setHandler(h *hostHandler) {
	in.mu.Lock()
	old := in.handler
	in.handler = h
	in.mu.Unlock()

	if old != nil {
		old.release()
	}
}
