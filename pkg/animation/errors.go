package animation

import (
	"errors"
	"fmt"
)

// The closed set of failures this package produces. Parameterised failures
// wrap their sentinel with fmt.Errorf("%w: ..."), so callers always match
// with errors.Is against the values below.
var (
	// ErrZeroSizeBuffer is returned when a decoder is given an empty buffer.
	ErrZeroSizeBuffer = errors.New("buffer contains no data")

	// ErrOptionsInitFailed signals that libwebp could not initialise one of
	// its options structs, which points at an internal library failure.
	ErrOptionsInitFailed = errors.New("initialising webp options failed")

	// ErrDecodeFailed signals that the decoder handle could not be created
	// from the given bytes, usually malformed or truncated input.
	ErrDecodeFailed = errors.New("could not decode input bytes")

	// ErrDecoderGetInfoFailed signals that the stream metadata could not be
	// read from an otherwise created decoder.
	ErrDecoderGetInfoFailed = errors.New("could not read webp stream metadata")

	// ErrTooLargeCanvas rejects streams whose declared canvas exceeds the
	// supported pixel limit.
	ErrTooLargeCanvas = errors.New("webp stream canvas too large")

	// ErrEncoderCreateFailed signals that the native encoder handle could
	// not be created.
	ErrEncoderCreateFailed = errors.New("could not create webp encoder")

	// ErrBufferSizeFailed rejects frame data whose length does not match
	// width * height * pixel bytes for the encoder's color mode.
	ErrBufferSizeFailed = errors.New("frame buffer size mismatch")

	// ErrPictureImportFailed signals libwebp failed to convert raw pixel
	// data into its internal picture format.
	ErrPictureImportFailed = errors.New("could not import picture data")

	// ErrEncoderAddFailed signals libwebp rejected a staged frame.
	ErrEncoderAddFailed = errors.New("could not add frame to webp stream")

	// ErrEncoderAssembleFailed signals the final webp assembly step failed.
	ErrEncoderAssembleFailed = errors.New("webp stream assembly failed")

	// ErrWrongColorMode is returned when converting a frame into a format
	// which expects a different color mode than the frame holds.
	ErrWrongColorMode = errors.New("frame is in a different color mode")

	// ErrTimestampMustBeHigherThanPrevious enforces strictly increasing
	// frame timestamps.
	ErrTimestampMustBeHigherThanPrevious = errors.New("timestamp must be higher than previous frame's")

	// ErrTimestampMustBeEqualOrHigherThanPrevious enforces that the final
	// timestamp does not shrink the last frame's duration negative.
	ErrTimestampMustBeEqualOrHigherThanPrevious = errors.New("timestamp must be equal or higher than previous frame's")

	// ErrDimensionsMustBePositive rejects zero width or height canvases.
	ErrDimensionsMustBePositive = errors.New("given dimensions must be positive")

	// ErrNoFramesAdded is returned by Finalize when no frame was ever added.
	ErrNoFramesAdded = errors.New("no frames have been added yet")

	// ErrInvalidEncodingConfig is returned when libwebp's config validation
	// rejects an encoding configuration.
	ErrInvalidEncodingConfig = errors.New("encoding configuration validation failed")
)

func errTooLargeCanvas(width, height uint32) error {
	return fmt.Errorf(
		"%w: %dx%d = %d pixels, limit is %d pixels",
		ErrTooLargeCanvas, width, height, uint64(width)*uint64(height), maxCanvasPixels,
	)
}

func errBufferSize(expected, received int) error {
	return fmt.Errorf(
		"%w: expected %d bytes, got %d bytes", ErrBufferSizeFailed, expected, received,
	)
}

func errTimestampTooLow(given, previous int) error {
	return fmt.Errorf(
		"%w: got %dms, previous %dms", ErrTimestampMustBeHigherThanPrevious, given, previous,
	)
}

func errFinalTimestampTooLow(given, previous int) error {
	return fmt.Errorf(
		"%w: got %dms, previous %dms", ErrTimestampMustBeEqualOrHigherThanPrevious, given, previous,
	)
}

func errWrongColorMode(have, want ColorMode) error {
	return fmt.Errorf("%w: frame holds %s, requested %s", ErrWrongColorMode, have, want)
}
