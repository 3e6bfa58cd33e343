package animation

/*
#cgo LDFLAGS: -lwebpmux -lwebpdemux -lwebp
#include <stdlib.h>
#include <webp/mux_types.h>
*/
import "C"

import (
	"unsafe"
)

// WebPData owns a webp byte buffer allocated by libwebp's assembly step.
// The underlying allocation is released exactly once by Close, regardless
// of how many Bytes views were taken beforehand.
type WebPData struct {
	raw      *C.WebPData
	isClosed bool
}

func newWebPData() *WebPData {
	raw := (*C.WebPData)(C.calloc(1, C.sizeof_WebPData))
	C.WebPDataInit(raw)
	return &WebPData{raw: raw}
}

// Bytes returns a read-only view over the native buffer. The view is only
// valid until Close is called; callers wanting to retain the contents past
// that point must copy them first.
func (d *WebPData) Bytes() []byte {
	if d.isClosed || d.raw.size == 0 {
		return nil
	}
	return (*[1 << 30]byte)(unsafe.Pointer(d.raw.bytes))[:d.raw.size:d.raw.size]
}

// Len returns the size of the native buffer in bytes.
func (d *WebPData) Len() int {
	if d.isClosed {
		return 0
	}
	return int(d.raw.size)
}

// Close releases the native buffer. Safe to call multiple times.
func (d *WebPData) Close() {
	if d.isClosed {
		return
	}
	C.WebPDataClear(d.raw)
	C.free(unsafe.Pointer(d.raw))
	d.raw = nil
	d.isClosed = true
}
