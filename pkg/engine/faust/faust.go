//go:build faust

// Package faust binds a faust2api generated DspFaust engine through a small C
// shim. Build with -tags faust and point CGO_CPPFLAGS at the directory holding
// the generated DspFaust.h/DspFaust.cpp:
//
//	faust2api -jack program.dsp
//	CGO_CPPFLAGS=-I$PWD/dsp-faust go build -tags faust ./...
//
// Audio runs on the DspFaust driver started by Start, so Engine does not
// implement engine.BlockProcessor.
package faust

// #cgo CXXFLAGS: -std=c++11
// #cgo LDFLAGS: -lstdc++
// #include <stdlib.h>
// #include "dspfaust_c.h"
import "C"

import (
	"io"
	"sync"
	"unsafe"

	"github.com/justyntemme/faustvst3/pkg/engine"
)

// Engine owns one DspFaust instance.
type Engine struct {
	h *C.faust_engine

	// addresses are cached C strings so parameter edits do not allocate.
	mu        sync.RWMutex
	addresses map[string]*C.char
	stopOnce  sync.Once
	closeOnce sync.Once
}

var (
	_ engine.Engine        = (*Engine)(nil)
	_ engine.IndexedSetter = (*Engine)(nil)
	_ io.Closer            = (*Engine)(nil)
)

// New instantiates the generated engine.
func New(cfg engine.Config) *Engine {
	def := engine.DefaultConfig()
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = def.SampleRate
	}
	if cfg.BlockSize <= 0 {
		cfg.BlockSize = def.BlockSize
	}
	e := &Engine{
		h:         C.faust_new(C.int(cfg.SampleRate), C.int(cfg.BlockSize)),
		addresses: make(map[string]*C.char),
	}
	return e
}

func (e *Engine) Start() bool { return C.faust_start(e.h) != 0 }

// Stop stops the audio driver.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() { C.faust_stop(e.h) })
}

// Close releases the DspFaust instance. The engine must not be used
// afterwards.
func (e *Engine) Close() error {
	e.closeOnce.Do(func() {
		C.faust_delete(e.h)
		e.mu.Lock()
		for _, p := range e.addresses {
			C.free(unsafe.Pointer(p))
		}
		e.addresses = nil
		e.mu.Unlock()
	})
	return nil
}

func (e *Engine) ParamsCount() int { return int(C.faust_params_count(e.h)) }

func (e *Engine) ParamAddress(index int) string {
	return C.GoString(C.faust_param_address(e.h, C.int(index)))
}

func (e *Engine) ParamMin(index int) float32  { return float32(C.faust_param_min(e.h, C.int(index))) }
func (e *Engine) ParamMax(index int) float32  { return float32(C.faust_param_max(e.h, C.int(index))) }
func (e *Engine) ParamInit(index int) float32 { return float32(C.faust_param_init(e.h, C.int(index))) }

func (e *Engine) cstring(address string) *C.char {
	e.mu.RLock()
	p, ok := e.addresses[address]
	e.mu.RUnlock()
	if ok {
		return p
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if p, ok = e.addresses[address]; ok {
		return p
	}
	p = C.CString(address)
	e.addresses[address] = p
	return p
}

func (e *Engine) SetParamValue(address string, value float32) {
	C.faust_set_param_value(e.h, e.cstring(address), C.float(value))
}

func (e *Engine) SetParamValueByIndex(index int, value float32) {
	C.faust_set_param_value_by_index(e.h, C.int(index), C.float(value))
}

func (e *Engine) ParamValue(address string) float32 {
	return float32(C.faust_param_value(e.h, e.cstring(address)))
}

func (e *Engine) JSONMeta() string { return C.GoString(C.faust_json_meta(e.h)) }

func (e *Engine) PropagateMidi(count int, time float64, status, channel, data1, data2 int) {
	C.faust_propagate_midi(e.h, C.int(count), C.double(time), C.int(status), C.int(channel), C.int(data1), C.int(data2))
}
