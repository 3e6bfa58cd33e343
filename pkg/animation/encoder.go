package animation

/*
#cgo LDFLAGS: -lwebpmux -lwebpdemux -lwebp
#include <stdlib.h>
#include <webp/encode.h>
#include <webp/mux.h>
*/
import "C"

import (
	"unsafe"

	"github.com/google/uuid"
	"github.com/tauraamui/webpanim/pkg/log"
)

// noPreviousTimestamp marks an encoder no frame has been added to yet.
// Distinct from every valid timestamp because the first frame must land
// at 0ms or later.
const noPreviousTimestamp = -1

// EncoderOptions configure an Encoder.
type EncoderOptions struct {
	// LoopCount is the number of times to repeat the animation,
	// 0 = infinite.
	LoopCount int

	// MinimizeSize minimizes the output size (slow). Implicitly disables
	// key-frame insertion.
	MinimizeSize bool

	// Kmin and Kmax bound the distance between consecutive key frames in
	// the output. These conditions should hold: Kmax > Kmin and
	// Kmin >= Kmax / 2 + 1. If Kmax <= 0 key-frame insertion is disabled,
	// and if Kmax == 1 every frame is a key frame.
	Kmin, Kmax int

	// AllowMixed lets the encoder choose between lossy and lossless
	// per frame.
	AllowMixed bool

	// Verbose makes libwebp print info and warning messages to stderr.
	Verbose bool

	// ColorMode is the pixel layout frame data is supplied in.
	ColorMode ColorMode

	// EncodingConfig, when non-nil, becomes the default per-frame config.
	// It is validated at encoder construction.
	EncodingConfig *EncodingConfig
}

// Encoder accumulates frames at strictly increasing timestamps and
// assembles them into an animated webp byte stream.
//
// One native picture buffer is allocated up front and re-staged for every
// incoming frame. The encoder handle, the pinned options block, the
// picture and any cached default config are all released by Close, which
// Finalize arranges on every exit path.
type Encoder struct {
	id       string
	opts     EncoderOptions
	enc      *C.WebPAnimEncoder
	encOpts  *C.WebPAnimEncoderOptions
	pic      *C.WebPPicture
	defCfg   *nativeConfig
	dims     Dimensions
	previous int
	isClosed bool
}

// NewEncoder constructs an encoder for the given canvas dimensions with
// zero-value options (infinite loop, RGBA input, lossless defaults).
func NewEncoder(width, height int) (*Encoder, error) {
	return NewEncoderWithOptions(width, height, EncoderOptions{})
}

// NewEncoderWithOptions constructs an encoder for the given canvas
// dimensions.
func NewEncoderWithOptions(width, height int, options EncoderOptions) (*Encoder, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrDimensionsMustBePositive
	}

	encOpts := (*C.WebPAnimEncoderOptions)(C.calloc(1, C.sizeof_WebPAnimEncoderOptions))
	if C.WebPAnimEncoderOptionsInit(encOpts) != 1 {
		C.free(unsafe.Pointer(encOpts))
		return nil, ErrOptionsInitFailed
	}

	encOpts.anim_params.loop_count = C.int(options.LoopCount)
	encOpts.minimize_size = cbool(options.MinimizeSize)
	encOpts.kmin = C.int(options.Kmin)
	encOpts.kmax = C.int(options.Kmax)
	encOpts.allow_mixed = cbool(options.AllowMixed)
	encOpts.verbose = cbool(options.Verbose)

	e := Encoder{
		id:       uuid.NewString(),
		opts:     options,
		encOpts:  encOpts,
		dims:     Dimensions{W: width, H: height},
		previous: noPreviousTimestamp,
	}

	e.enc = C.WebPAnimEncoderNew(C.int(width), C.int(height), encOpts)
	if e.enc == nil {
		e.release()
		return nil, ErrEncoderCreateFailed
	}

	e.pic = (*C.WebPPicture)(C.calloc(1, C.sizeof_WebPPicture))
	if C.WebPPictureInit(e.pic) == 0 {
		e.release()
		return nil, ErrOptionsInitFailed
	}

	e.pic.width = C.int(width)
	e.pic.height = C.int(height)
	e.pic.use_argb = 1

	if options.EncodingConfig != nil {
		if err := e.SetDefaultEncodingConfig(*options.EncodingConfig); err != nil {
			e.release()
			return nil, err
		}
	}

	log.Debug("encoder %s initialised for %dx%d canvas", e.id, width, height)

	return &e, nil
}

// AddFrame stages and submits a frame at the given millisecond timestamp.
// data must hold width * height * ColorMode.PixelBytes() bytes in the
// encoder's configured ColorMode. The timestamp must be strictly higher
// than the previous frame's; a frame's duration is the gap to the next
// frame's timestamp.
func (e *Encoder) AddFrame(data []byte, timestampMS int) error {
	return e.addFrame(data, timestampMS, nil)
}

// AddFrameWithConfig behaves as AddFrame with a one-shot per-frame
// EncodingConfig. The config is validated on every call and never touches
// the encoder's cached default.
func (e *Encoder) AddFrameWithConfig(data []byte, timestampMS int, config *EncodingConfig) error {
	return e.addFrame(data, timestampMS, config)
}

func (e *Encoder) addFrame(data []byte, timestamp int, config *EncodingConfig) error {
	if timestamp <= e.previous {
		return errTimestampTooLow(timestamp, e.previous)
	}

	if err := e.stagePicture(data); err != nil {
		return err
	}

	// explicit per-frame config if given, else the cached default, else
	// let libwebp run with its own defaults
	cfgPtr := (*C.WebPConfig)(nil)
	if config != nil {
		native, err := config.toNative()
		if err != nil {
			return err
		}
		defer native.free()
		cfgPtr = native.ptr
	} else if e.defCfg != nil {
		cfgPtr = e.defCfg.ptr
	}

	if C.WebPAnimEncoderAdd(e.enc, e.pic, C.int(timestamp), cfgPtr) == 0 {
		return ErrEncoderAddFailed
	}

	e.previous = timestamp

	log.Debug("encoder %s: added frame at %dms, %d bytes", e.id, timestamp, len(data))

	return nil
}

func (e *Encoder) stagePicture(data []byte) error {
	pixelBytes := e.opts.ColorMode.PixelBytes()
	expected := e.dims.PixelCount() * pixelBytes
	if len(data) != expected {
		return errBufferSize(expected, len(data))
	}

	stride := C.int(e.dims.W * pixelBytes)
	ptr := (*C.uint8_t)(unsafe.Pointer(&data[0]))

	var imported C.int
	switch e.opts.ColorMode {
	case BGRA:
		imported = C.WebPPictureImportBGRA(e.pic, ptr, stride)
	case RGB:
		imported = C.WebPPictureImportRGB(e.pic, ptr, stride)
	case BGR:
		imported = C.WebPPictureImportBGR(e.pic, ptr, stride)
	default:
		imported = C.WebPPictureImportRGBA(e.pic, ptr, stride)
	}

	if imported == 0 {
		return ErrPictureImportFailed
	}

	return nil
}

// SetDefaultEncodingConfig validates config and caches it as the default
// for frames added without an explicit one. A failed validation leaves
// any previously set default untouched.
func (e *Encoder) SetDefaultEncodingConfig(config EncodingConfig) error {
	native, err := config.toNative()
	if err != nil {
		return err
	}

	if e.defCfg != nil {
		e.defCfg.free()
	}
	e.defCfg = native
	e.opts.EncodingConfig = &config

	return nil
}

// Finalize closes out the last frame's duration at the given timestamp,
// assembles the stream and returns the owned output bytes. The encoder is
// consumed: its native resources are released whether assembly succeeds
// or not, and the returned WebPData must be Closed by the caller.
func (e *Encoder) Finalize(timestampMS int) (*WebPData, error) {
	defer e.Close()

	if e.previous == noPreviousTimestamp {
		return nil, ErrNoFramesAdded
	}

	if timestampMS < e.previous {
		return nil, errFinalTimestampTooLow(timestampMS, e.previous)
	}

	// a null picture marks end of stream and fixes the last frame's
	// duration
	if C.WebPAnimEncoderAdd(e.enc, nil, C.int(timestampMS), nil) == 0 {
		return nil, ErrEncoderAddFailed
	}

	data := newWebPData()
	if C.WebPAnimEncoderAssemble(e.enc, data.raw) == 0 {
		data.Close()
		return nil, ErrEncoderAssembleFailed
	}

	log.Debug("encoder %s: finalised at %dms, output %d bytes", e.id, timestampMS, data.Len())

	return data, nil
}

// Close releases every native resource owned by the encoder. Safe to call
// multiple times; Finalize calls it implicitly.
func (e *Encoder) Close() {
	if e.isClosed {
		return
	}
	e.release()
	e.isClosed = true
}

func (e *Encoder) release() {
	if e.pic != nil {
		C.WebPPictureFree(e.pic)
		C.free(unsafe.Pointer(e.pic))
		e.pic = nil
	}
	if e.enc != nil {
		C.WebPAnimEncoderDelete(e.enc)
		e.enc = nil
	}
	if e.encOpts != nil {
		C.free(unsafe.Pointer(e.encOpts))
		e.encOpts = nil
	}
	if e.defCfg != nil {
		e.defCfg.free()
		e.defCfg = nil
	}
}
