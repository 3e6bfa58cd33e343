package animation_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tauraamui/webpanim/pkg/animation"
)

// gradientFrame renders a deterministic, fully opaque RGBA gradient so
// lossless round trips can assert byte equality.
func gradientFrame(dims animation.Dimensions, seed int) []byte {
	data := make([]byte, dims.PixelCount()*4)
	for y := 0; y < dims.H; y++ {
		for x := 0; x < dims.W; x++ {
			i := (y*dims.W + x) * 4
			data[i] = byte(x + seed)
			data[i+1] = byte(y + seed*3)
			data[i+2] = byte(x + y + seed*7)
			data[i+3] = 0xff
		}
	}
	return data
}

// encodeTestAnimation builds a decodable fixture in memory: frameCount
// gradient frames at timestamps 40, 80, ... finalised 40ms after the
// last frame. Returns the webp bytes copied out of the encoder's output
// handle.
func encodeTestAnimation(t *testing.T, dims animation.Dimensions, frameCount int) []byte {
	t.Helper()

	enc, err := animation.NewEncoder(dims.W, dims.H)
	require.NoError(t, err)

	for i := 1; i <= frameCount; i++ {
		require.NoError(t, enc.AddFrame(gradientFrame(dims, i), i*40))
	}

	out, err := enc.Finalize((frameCount + 1) * 40)
	require.NoError(t, err)
	defer out.Close()

	buf := make([]byte, out.Len())
	copy(buf, out.Bytes())
	return buf
}

func collectFrames(t *testing.T, dec *animation.Decoder) []*animation.Frame {
	t.Helper()

	frames := []*animation.Frame{}
	iter := dec.Frames()
	for {
		frame, ok := iter.Next()
		if !ok {
			break
		}
		frames = append(frames, frame)
	}
	return frames
}
