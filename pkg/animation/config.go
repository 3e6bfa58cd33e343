package animation

/*
#cgo LDFLAGS: -lwebpmux -lwebpdemux -lwebp
#include <stdlib.h>
#include <webp/encode.h>
*/
import "C"

import (
	"unsafe"
)

// EncodingConfig selects between lossless and lossy frame compression.
// Set once for a whole Encoder through EncoderOptions, later via
// SetDefaultEncodingConfig, or per frame through AddFrameWithConfig.
type EncodingConfig struct {
	// Lossy, when non-nil, switches the frame to lossy compression using
	// the given tuning parameters. Nil means lossless.
	Lossy *LossyEncodingConfig

	// Quality is between 0 and 100. For lossy, 0 gives the smallest size
	// and 100 the largest. For lossless, this is the amount of effort put
	// into compression: 0 is fastest, 100 slowest but best.
	Quality float32

	// Method is the quality/speed trade-off (0=fast, 6=slower-better).
	Method int
}

// DefaultEncodingConfig mirrors libwebp's own defaults (lossless,
// quality 1, method 4). Note this is not a maximum compression setting;
// callers wanting high-quality lossy output must opt in explicitly.
func DefaultEncodingConfig() EncodingConfig {
	return EncodingConfig{
		Quality: 1,
		Method:  4,
	}
}

// NewLossyEncodingConfig returns a lossy config with default tuning
// parameters and the given quality.
func NewLossyEncodingConfig(quality float32) EncodingConfig {
	lossy := DefaultLossyConfig()
	return EncodingConfig{
		Lossy:   &lossy,
		Quality: quality,
		Method:  4,
	}
}

// LossyEncodingConfig carries the tuning knobs which only apply to lossy
// compression. Field ranges are enforced by libwebp's config validation,
// not re-derived here; out of range values surface as
// ErrInvalidEncodingConfig when the config is used.
type LossyEncodingConfig struct {
	// TargetSize, if non-zero, sets the desired target size in bytes.
	// Takes precedence over the quality parameter.
	TargetSize int

	// TargetPSNR, if non-zero, specifies the minimal distortion to try to
	// achieve. Takes precedence over TargetSize.
	TargetPSNR float32

	// Segments is the maximum number of segments to use, in [1..4].
	Segments int

	// SnsStrength is Spatial Noise Shaping, 0=off, 100=maximum.
	SnsStrength int

	// FilterStrength ranges [0 = off .. 100 = strongest].
	FilterStrength int

	// FilterSharpness ranges [0 = off .. 7 = least sharp].
	FilterSharpness int

	// FilterType: 0 = simple, 1 = strong (only used if FilterStrength > 0
	// or Autofilter is set).
	FilterType int

	// Autofilter auto-adjusts the filter's strength.
	Autofilter bool

	// AlphaCompression compresses the alpha plane with WebP lossless.
	// Default true.
	AlphaCompression bool

	// AlphaFiltering is the predictive filtering method for the alpha
	// plane. 0: none, 1: fast, 2: best. Default 1.
	AlphaFiltering int

	// AlphaQuality is between 0 (smallest size) and 100 (lossless).
	// Default 100.
	AlphaQuality int

	// Pass is the number of entropy-analysis passes, in [1..10].
	Pass int

	// ShowCompressed exports the compressed picture back; in-loop
	// filtering is not applied.
	ShowCompressed bool

	// Preprocessing enables the segment-smooth preprocessing filter.
	Preprocessing bool

	// Partitions is log2(number of token partitions) in [0..3]. Default 0
	// for easier progressive decoding.
	Partitions int

	// PartitionLimit is the quality degradation allowed to fit the 512k
	// limit on prediction modes coding (0: none, 100: maximum possible).
	PartitionLimit int

	// UseSharpYUV uses the sharp (and slow) RGB->YUV conversion.
	UseSharpYUV bool
}

// DefaultLossyConfig matches the defaults in libwebp's config_enc.c.
func DefaultLossyConfig() LossyEncodingConfig {
	return LossyEncodingConfig{
		Segments:         1,
		SnsStrength:      50,
		FilterStrength:   60,
		FilterSharpness:  0,
		FilterType:       1,
		Pass:             1,
		AlphaCompression: true,
		AlphaFiltering:   1,
		AlphaQuality:     100,
	}
}

// PicturePresetLossyConfig tunes for digital pictures, like portraits and
// inner shots.
func PicturePresetLossyConfig() LossyEncodingConfig {
	c := DefaultLossyConfig()
	c.SnsStrength = 80
	c.FilterSharpness = 4
	c.FilterStrength = 35
	return c
}

// PhotoPresetLossyConfig tunes for outdoor photographs with natural
// lighting.
func PhotoPresetLossyConfig() LossyEncodingConfig {
	c := DefaultLossyConfig()
	c.SnsStrength = 80
	c.FilterSharpness = 3
	c.FilterStrength = 30
	return c
}

// DrawingPresetLossyConfig tunes for hand or line drawings with
// high-contrast details.
func DrawingPresetLossyConfig() LossyEncodingConfig {
	c := DefaultLossyConfig()
	c.SnsStrength = 25
	c.FilterSharpness = 6
	c.FilterStrength = 10
	return c
}

// IconPresetLossyConfig tunes for small colorful images.
func IconPresetLossyConfig() LossyEncodingConfig {
	c := DefaultLossyConfig()
	c.SnsStrength = 0
	c.FilterStrength = 0
	return c
}

// TextPresetLossyConfig tunes for text-like images.
func TextPresetLossyConfig() LossyEncodingConfig {
	c := DefaultLossyConfig()
	c.SnsStrength = 0
	c.FilterStrength = 0
	c.Segments = 2
	return c
}

// nativeConfig owns a validated C-heap WebPConfig. libwebp keeps no
// reference to it past the call it is given to, but per-frame configs
// still live until the corresponding WebPAnimEncoderAdd returns.
type nativeConfig struct {
	ptr *C.WebPConfig
}

func (c *EncodingConfig) toNative() (*nativeConfig, error) {
	ptr := (*C.WebPConfig)(C.calloc(1, C.sizeof_WebPConfig))
	C.WebPConfigInit(ptr)

	c.applyTo(ptr)

	if C.WebPValidateConfig(ptr) == 0 {
		C.free(unsafe.Pointer(ptr))
		return nil, ErrInvalidEncodingConfig
	}

	return &nativeConfig{ptr: ptr}, nil
}

// applyTo maps every field verbatim onto the zero-initialised native
// config, no clamping. Validation afterwards is libwebp's job.
func (c *EncodingConfig) applyTo(ptr *C.WebPConfig) {
	if c.Lossy != nil {
		ptr.lossless = 0
		c.Lossy.applyTo(ptr)
	} else {
		ptr.lossless = 1
	}
	ptr.quality = C.float(c.Quality)
	ptr.method = C.int(c.Method)
}

func (lc *LossyEncodingConfig) applyTo(ptr *C.WebPConfig) {
	ptr.target_size = C.int(lc.TargetSize)
	ptr.target_PSNR = C.float(lc.TargetPSNR)
	ptr.segments = C.int(lc.Segments)
	ptr.sns_strength = C.int(lc.SnsStrength)
	ptr.filter_strength = C.int(lc.FilterStrength)
	ptr.filter_sharpness = C.int(lc.FilterSharpness)
	ptr.filter_type = C.int(lc.FilterType)
	ptr.autofilter = cbool(lc.Autofilter)
	ptr.alpha_compression = cbool(lc.AlphaCompression)
	ptr.alpha_filtering = C.int(lc.AlphaFiltering)
	ptr.alpha_quality = C.int(lc.AlphaQuality)
	ptr.pass = C.int(lc.Pass)
	ptr.show_compressed = cbool(lc.ShowCompressed)
	ptr.preprocessing = cbool(lc.Preprocessing)
	ptr.partitions = C.int(lc.Partitions)
	ptr.partition_limit = C.int(lc.PartitionLimit)
	ptr.use_sharp_yuv = cbool(lc.UseSharpYUV)
}

func (c *nativeConfig) free() {
	if c.ptr == nil {
		return
	}
	C.free(unsafe.Pointer(c.ptr))
	c.ptr = nil
}

func cbool(b bool) C.int {
	if b {
		return 1
	}
	return 0
}
