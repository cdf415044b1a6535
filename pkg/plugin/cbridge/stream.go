package cbridge

// #cgo CFLAGS: -I../../../include
// #include "../../../include/vst3/vst3_c_api.h"
//
// static inline Steinberg_tresult stream_read(struct Steinberg_IBStream* s, void* buf, Steinberg_int32 n, Steinberg_int32* read) {
//     return s->lpVtbl->read(s, buf, n, read);
// }
//
// static inline Steinberg_tresult stream_write(struct Steinberg_IBStream* s, void* buf, Steinberg_int32 n, Steinberg_int32* written) {
//     return s->lpVtbl->write(s, buf, n, written);
// }
import "C"

import (
	"fmt"
	"io"
	"math"
	"unsafe"

	"github.com/justyntemme/faustvst3/pkg/vst3"
)

// maxStateSize bounds what is read from a host stream.
const maxStateSize = 16 << 20

// stream adapts a host IBStream to io.Reader and io.Writer.
type stream struct {
	ptr *C.struct_Steinberg_IBStream
}

func newStream(p unsafe.Pointer) (stream, error) {
	if p == nil {
		return stream{}, vst3.ErrInvalidArgument
	}
	return stream{ptr: (*C.struct_Steinberg_IBStream)(p)}, nil
}

func (s stream) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	n := min(len(p), math.MaxInt32)
	var read C.Steinberg_int32
	if r := C.stream_read(s.ptr, unsafe.Pointer(&p[0]), C.Steinberg_int32(n), &read); r != 0 {
		return 0, fmt.Errorf("stream read: %w", vst3.Result(r).Err())
	}
	if read <= 0 {
		return 0, io.EOF
	}
	return int(read), nil
}

func (s stream) Write(p []byte) (int, error) {
	total := 0
	for total < len(p) {
		chunk := p[total:]
		n := min(len(chunk), math.MaxInt32)
		var written C.Steinberg_int32
		if r := C.stream_write(s.ptr, unsafe.Pointer(&chunk[0]), C.Steinberg_int32(n), &written); r != 0 {
			return total, fmt.Errorf("stream write: %w", vst3.Result(r).Err())
		}
		if written <= 0 {
			return total, io.ErrShortWrite
		}
		total += int(written)
	}
	return total, nil
}

func readStream(p unsafe.Pointer) ([]byte, error) {
	s, err := newStream(p)
	if err != nil {
		return nil, err
	}
	return io.ReadAll(io.LimitReader(s, maxStateSize))
}

func writeStream(p unsafe.Pointer, data []byte) error {
	s, err := newStream(p)
	if err != nil {
		return err
	}
	_, err = s.Write(data)
	return err
}
