package animation

var NewEmptyWebPData = newWebPData

func NewDecoderFrame(timestamp int, data []byte, mode ColorMode, dims Dimensions) *Frame {
	return &Frame{
		timestamp: timestamp,
		data:      data,
		colorMode: mode,
		dims:      dims,
	}
}
