package animation

/*
#cgo LDFLAGS: -lwebpmux -lwebpdemux -lwebp
#include <stdlib.h>
#include <webp/decode.h>
#include <webp/demux.h>
*/
import "C"

import (
	"fmt"
	"unsafe"

	"github.com/google/uuid"
	"github.com/tauraamui/webpanim/pkg/log"
)

// DecoderOptions configure a Decoder.
type DecoderOptions struct {
	// UseThreads enables libwebp's internal multi-threaded decoding.
	UseThreads bool

	// ColorMode is the output pixel layout of decoded frames.
	ColorMode ColorMode
}

// DefaultDecoderOptions enable threaded decoding with RGBA output.
func DefaultDecoderOptions() DecoderOptions {
	return DecoderOptions{
		UseThreads: true,
		ColorMode:  RGBA,
	}
}

// Decoder pulls frames out of an animated webp byte stream.
//
// The input bytes are copied into native memory at construction, because
// libwebp retains a raw view into them for the whole life of the decoder
// handle; a Go slice cannot be lent out that way. The copy, the native
// options block and the decoder handle are all owned by the Decoder and
// released together by Close.
type Decoder struct {
	id       string
	opts     DecoderOptions
	dec      *C.WebPAnimDecoder
	data     *C.WebPData
	decOpts  *C.WebPAnimDecoderOptions
	info     C.WebPAnimInfo
	bufLen   int
	iter     *FrameIterator
	isClosed bool
}

// NewDecoder constructs a decoder for the given webp bytes with
// DefaultDecoderOptions.
func NewDecoder(buffer []byte) (*Decoder, error) {
	return NewDecoderWithOptions(buffer, DefaultDecoderOptions())
}

// NewDecoderWithOptions constructs a decoder for the given webp bytes.
// The stream metadata is parsed up front, so a returned Decoder is always
// queryable; malformed input surfaces here, not at iteration time.
func NewDecoderWithOptions(buffer []byte, options DecoderOptions) (*Decoder, error) {
	if len(buffer) == 0 {
		return nil, ErrZeroSizeBuffer
	}

	decOpts := (*C.WebPAnimDecoderOptions)(C.calloc(1, C.sizeof_WebPAnimDecoderOptions))
	if C.WebPAnimDecoderOptionsInit(decOpts) != 1 {
		C.free(unsafe.Pointer(decOpts))
		return nil, ErrOptionsInitFailed
	}

	decOpts.color_mode = options.ColorMode.cspMode()
	decOpts.use_threads = cbool(options.UseThreads)

	// libwebp stores the WebPData pointer inside the decoder handle, so
	// both the struct and the bytes it points at must stay put until the
	// handle is deleted. Both live on the C heap for exactly that reason.
	data := (*C.WebPData)(C.calloc(1, C.sizeof_WebPData))
	data.bytes = (*C.uint8_t)(C.CBytes(buffer))
	data.size = C.size_t(len(buffer))

	d := Decoder{
		id:      uuid.NewString(),
		opts:    options,
		data:    data,
		decOpts: decOpts,
		bufLen:  len(buffer),
	}

	d.dec = C.WebPAnimDecoderNew(data, decOpts)
	if d.dec == nil {
		d.release()
		return nil, ErrDecodeFailed
	}

	if C.WebPAnimDecoderGetInfo(d.dec, &d.info) != 1 {
		d.release()
		return nil, ErrDecoderGetInfoFailed
	}

	w, h := uint32(d.info.canvas_width), uint32(d.info.canvas_height)
	if uint64(w)*uint64(h) > maxCanvasPixels {
		d.release()
		return nil, errTooLargeCanvas(w, h)
	}

	log.Debug("decoder %s initialised: %s", d.id, d.String())

	return &d, nil
}

// Dimensions returns the canvas dimensions shared by all frames.
func (d *Decoder) Dimensions() Dimensions {
	return Dimensions{W: int(d.info.canvas_width), H: int(d.info.canvas_height)}
}

// LoopCount returns the number of times the animation is declared to loop,
// 0 meaning forever.
func (d *Decoder) LoopCount() int {
	return int(d.info.loop_count)
}

// BackgroundColor returns the canvas background color as ARGB.
func (d *Decoder) BackgroundColor() uint32 {
	return uint32(d.info.bgcolor)
}

// FrameCount returns the number of frames declared in the stream.
func (d *Decoder) FrameCount() int {
	return int(d.info.frame_count)
}

// Frames returns the decoder's frame iterator. The iteration is single
// pass and forward only; calling Frames again returns the same iterator,
// it does not restart the stream.
func (d *Decoder) Frames() *FrameIterator {
	if d.iter == nil {
		d.iter = &FrameIterator{dec: d}
	}
	return d.iter
}

// Close releases the native decoder handle, the pinned options block and
// the native copy of the input buffer. Safe to call multiple times.
func (d *Decoder) Close() {
	if d.isClosed {
		return
	}
	d.release()
	d.isClosed = true
}

func (d *Decoder) release() {
	if d.dec != nil {
		C.WebPAnimDecoderDelete(d.dec)
		d.dec = nil
	}
	if d.data != nil {
		C.free(unsafe.Pointer(d.data.bytes))
		C.free(unsafe.Pointer(d.data))
		d.data = nil
	}
	if d.decOpts != nil {
		C.free(unsafe.Pointer(d.decOpts))
		d.decOpts = nil
	}
}

func (d *Decoder) String() string {
	return fmt.Sprintf(
		"Decoder{ buffer: %db, w: %d, h: %d, loop_count: %d, bgcolor: 0x%x, frame_count: %d }",
		d.bufLen, d.info.canvas_width, d.info.canvas_height,
		d.info.loop_count, d.info.bgcolor, d.info.frame_count,
	)
}

func (d *Decoder) hasMoreFrames() bool {
	if d.isClosed {
		return false
	}
	return C.WebPAnimDecoderHasMoreFrames(d.dec) > 0
}

// FrameIterator produces decoded frames one at a time. A decode failure
// partway through the stream ends the iteration the same way a clean end
// of stream does; libwebp cannot distinguish the two in-band, so the
// anomaly is logged rather than surfaced as an error.
type FrameIterator struct {
	dec *Decoder
}

// Next decodes and returns the next frame, or (nil, false) once the
// stream is exhausted.
func (it *FrameIterator) Next() (*Frame, bool) {
	if !it.dec.hasMoreFrames() {
		return nil, false
	}

	var out *C.uint8_t
	var timestamp C.int

	if C.WebPAnimDecoderGetNext(it.dec.dec, &out, &timestamp) != 1 {
		log.Warn("decoder %s: next frame did not decode, parsing or decoding error mid-stream", it.dec.id)
		return nil, false
	}

	if out == nil {
		log.Error("decoder %s: frame decode returned a null output buffer", it.dec.id)
		return nil, false
	}

	dims := it.dec.Dimensions()
	size := dims.PixelCount() * it.dec.opts.ColorMode.PixelBytes()

	// the native output buffer is reused by the next decode call, so the
	// pixel data must be copied out before the frame is handed over
	data := C.GoBytes(unsafe.Pointer(out), C.int(size))

	log.Debug("decoder %s: decoded frame at %dms, %d bytes", it.dec.id, int(timestamp), size)

	return &Frame{
		timestamp: int(timestamp),
		data:      data,
		colorMode: it.dec.opts.ColorMode,
		dims:      dims,
	}, true
}

func (m ColorMode) cspMode() C.WEBP_CSP_MODE {
	switch m {
	case BGRA:
		return C.MODE_BGRA
	case RGB:
		return C.MODE_RGB
	case BGR:
		return C.MODE_BGR
	default:
		return C.MODE_RGBA
	}
}
