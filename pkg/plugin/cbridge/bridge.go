// Package cbridge links the VST3 C API shim into a plugin binary and exports
// the Go callbacks the shim calls. A plugin's main package imports it for its
// side effects:
//
//	import _ "github.com/justyntemme/faustvst3/pkg/plugin/cbridge"
//
// The shim sources and the VST3 C API header live in bridge/ and include/ at
// the module root.
//
// Components cross into C as opaque handles from plugin.Attach. No Go pointer
// is ever stored on the C side.
package cbridge

// #cgo CFLAGS: -I../../../include
// #include "../../../bridge/bridge.c"
// #include "../../../bridge/component.c"
import "C"

import (
	"sync"
	"unicode/utf8"
	"unsafe"

	"go.uber.org/zap"

	"github.com/justyntemme/faustvst3/pkg/plugin"
	"github.com/justyntemme/faustvst3/pkg/vst3"
)

// Sizes of the fixed char8 fields of the factory structs.
const (
	nameSize     = 64
	urlSize      = 256
	emailSize    = 128
	categorySize = 32
)

// instance holds what the bridge keeps per component besides the component
// itself.
type instance struct {
	scratch processScratch

	mu      sync.Mutex
	handler *hostHandler
}

var instances sync.Map // uintptr -> *instance

func lookup(ptr unsafe.Pointer) (*plugin.Component, *instance) {
	h := uintptr(ptr)
	c := plugin.Lookup(h)
	if c == nil {
		return nil, nil
	}
	v, ok := instances.Load(h)
	if !ok {
		return c, nil
	}
	return c, v.(*instance)
}

func component(ptr unsafe.Pointer) *plugin.Component {
	return plugin.Lookup(uintptr(ptr))
}

// guard recovers a panic raised while serving the host so it never unwinds
// into C. res, when given, is set to an internal error.
func guard(op string, res *C.Steinberg_tresult) {
	if r := recover(); r != nil {
		plugin.Logger().Error("panic in host callback",
			zap.String("op", op),
			zap.Any("panic", r),
			zap.Stack("stack"),
		)
		if res != nil {
			*res = C.Steinberg_tresult(vst3.ResultInternalError)
		}
	}
}

// result maps err to a result code, logging failures other than plain
// rejections.
func result(op string, err error) C.Steinberg_tresult {
	r := vst3.ResultOf(err)
	if r == vst3.ResultInternalError {
		plugin.Logger().Warn("host callback failed", zap.String("op", op), zap.Error(err))
	}
	return C.Steinberg_tresult(r)
}

func code(r vst3.Result) C.Steinberg_tresult {
	return C.Steinberg_tresult(r)
}

// copyString writes s into a NUL terminated char8 field of size bytes,
// cutting at a character boundary.
func copyString(dst unsafe.Pointer, size int, s string) {
	if dst == nil || size <= 0 {
		return
	}
	buf := unsafe.Slice((*byte)(dst), size)
	n := min(len(s), size-1)
	for n > 0 && n < len(s) && !utf8.RuneStart(s[n]) {
		n--
	}
	copy(buf, s[:n])
	buf[n] = 0
}

// copyString16 writes s into a NUL terminated String128 field.
func copyString16(dst unsafe.Pointer, s string) {
	if dst == nil {
		return
	}
	vst3.EncodeString(unsafe.Slice((*uint16)(dst), vst3.String128Len), s)
}

func readString16(src unsafe.Pointer) string {
	if src == nil {
		return ""
	}
	return vst3.DecodeString(unsafe.Slice((*uint16)(src), vst3.String128Len))
}

func copyUID(dst unsafe.Pointer, uid [16]byte) {
	if dst == nil {
		return
	}
	copy(unsafe.Slice((*byte)(dst), 16), uid[:])
}
