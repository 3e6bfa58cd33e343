// Package animation decodes and encodes animated WebP images. Format
// processing is delegated to the C libwebp library; this package owns the
// native handles involved and keeps their lifetimes tied to the Go wrapper
// values which created them. Every wrapper releases its native resources
// through Close, which is safe to call more than once.
package animation

// maxCanvasPixels bounds the canvas area a Decoder will accept, to stop
// corrupt or hostile input from requesting multi-gigabyte allocations
// before a single frame has been decoded. Currently 4K (3840x2160).
const maxCanvasPixels = 3840 * 2160

// ColorMode is the pixel byte layout used for decoded frame output and
// encoder frame input. Fixed for the lifetime of a Decoder or Encoder.
type ColorMode int

const (
	RGBA ColorMode = iota
	BGRA
	RGB
	BGR
)

// PixelBytes returns the number of bytes one pixel occupies in this mode.
func (m ColorMode) PixelBytes() int {
	switch m {
	case RGB, BGR:
		return 3
	default:
		return 4
	}
}

func (m ColorMode) String() string {
	switch m {
	case RGBA:
		return "RGBA"
	case BGRA:
		return "BGRA"
	case RGB:
		return "RGB"
	case BGR:
		return "BGR"
	}
	return "UNKNOWN"
}

// Dimensions holds the canvas size shared by every frame of an animation.
type Dimensions struct {
	W, H int
}

// PixelCount returns W * H.
func (d Dimensions) PixelCount() int {
	return d.W * d.H
}
