package config

import (
	"gopkg.in/dealancer/validate.v2"
)

// Values are the webpanim CLI settings, loaded from the user's JSON
// config file. Field bounds follow what the underlying encoder accepts;
// anything outside them is rejected before a single frame is touched.
type Values struct {
	LogLevel string         `json:"log_level"`
	Encode   EncodeSettings `json:"encode"`
}

// EncodeSettings drive the encode subcommand.
type EncodeSettings struct {
	// LoopCount is the number of times the animation repeats, 0 = forever.
	LoopCount int `json:"loop_count" validate:"gte=0"`

	// FrameDurationMS is the display duration given to every input frame.
	FrameDurationMS int `json:"frame_duration_ms" validate:"gte=1 & lte=60000"`

	// Lossless selects lossless compression; Quality then acts as effort.
	Lossless bool `json:"lossless"`

	Quality float32 `json:"quality" validate:"gte=0 & lte=100"`

	// Method is the encoder quality/speed trade-off, 0 fastest, 6 best.
	Method int `json:"method" validate:"gte=0 & lte=6"`

	// Kmin and Kmax bound key-frame distance, 0 disables insertion.
	Kmin int `json:"kmin" validate:"gte=0"`
	Kmax int `json:"kmax" validate:"gte=0"`

	MinimizeSize bool `json:"minimize_size"`
}

func DefaultValues() Values {
	return Values{
		LogLevel: "warn",
		Encode: EncodeSettings{
			FrameDurationMS: 100,
			Lossless:        true,
			Quality:         1,
			Method:          4,
		},
	}
}

func (v Values) RunValidate() error {
	return validate.Validate(&v)
}
