package animation

import (
	"fmt"
	"image"
)

// Frame is a single decoded animation frame plus its metadata. Frames are
// produced by a Decoder's FrameIterator; the pixel data is copied out of
// the native decode buffer so the value is owned by the caller outright.
type Frame struct {
	timestamp int
	data      []byte
	colorMode ColorMode
	dims      Dimensions
}

// Timestamp returns the frame's presentation timestamp in milliseconds.
func (f *Frame) Timestamp() int {
	return f.timestamp
}

// Data returns the raw pixel bytes, length W * H * ColorMode.PixelBytes().
func (f *Frame) Data() []byte {
	return f.data
}

// ColorMode returns the pixel layout of Data, consistent across all frames
// produced by the same Decoder.
func (f *Frame) ColorMode() ColorMode {
	return f.colorMode
}

// Dimensions returns the canvas dimensions of the frame.
func (f *Frame) Dimensions() Dimensions {
	return f.dims
}

// ToImage converts the frame into an image.NRGBA without copying the pixel
// data. The frame must have been decoded in RGBA mode (the default),
// otherwise ErrWrongColorMode is returned.
func (f *Frame) ToImage() (*image.NRGBA, error) {
	if f.colorMode != RGBA {
		return nil, errWrongColorMode(f.colorMode, RGBA)
	}

	return &image.NRGBA{
		Pix:    f.data,
		Stride: f.dims.W * f.colorMode.PixelBytes(),
		Rect:   image.Rect(0, 0, f.dims.W, f.dims.H),
	}, nil
}

func (f *Frame) String() string {
	return fmt.Sprintf(
		"Frame{ timestamp: %dms, data: %db, mode: %s, dims: %dx%d }",
		f.timestamp, len(f.data), f.colorMode, f.dims.W, f.dims.H,
	)
}
