package animation_test

import (
	"errors"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/require"
	"github.com/tauraamui/webpanim/pkg/animation"
)

// addLossyFrame runs a single lossy-configured frame through a tiny
// encoder so the config passes through native validation.
func addLossyFrame(t *testing.T, lossy animation.LossyEncodingConfig) error {
	t.Helper()

	enc, err := animation.NewEncoder(4, 4)
	require.NoError(t, err)
	defer enc.Close()

	return enc.AddFrameWithConfig(make([]byte, 4*4*4), 0, &animation.EncodingConfig{
		Lossy:   &lossy,
		Quality: 75,
	})
}

func TestLossyConfigRejectsOutOfRangeSegments(t *testing.T) {
	is := is.New(t)

	lossy := animation.DefaultLossyConfig()
	lossy.Segments = 9999

	is.True(errors.Is(addLossyFrame(t, lossy), animation.ErrInvalidEncodingConfig))
}

func TestLossyConfigRejectsOutOfRangePass(t *testing.T) {
	is := is.New(t)

	lossy := animation.DefaultLossyConfig()
	lossy.Pass = 11

	is.True(errors.Is(addLossyFrame(t, lossy), animation.ErrInvalidEncodingConfig))
}

func TestLossyConfigFilterSharpnessBoundary(t *testing.T) {
	is := is.New(t)

	lossy := animation.DefaultLossyConfig()
	lossy.FilterSharpness = 8
	is.True(errors.Is(addLossyFrame(t, lossy), animation.ErrInvalidEncodingConfig))

	lossy.FilterSharpness = 7
	is.NoErr(addLossyFrame(t, lossy))
}

func TestLossyPresetsPassNativeValidation(t *testing.T) {
	is := is.New(t)

	presets := []animation.LossyEncodingConfig{
		animation.DefaultLossyConfig(),
		animation.PicturePresetLossyConfig(),
		animation.PhotoPresetLossyConfig(),
		animation.DrawingPresetLossyConfig(),
		animation.IconPresetLossyConfig(),
		animation.TextPresetLossyConfig(),
	}

	for _, preset := range presets {
		is.NoErr(addLossyFrame(t, preset))
	}
}

func TestDefaultEncodingConfigIsLosslessLowEffort(t *testing.T) {
	is := is.New(t)

	cfg := animation.DefaultEncodingConfig()
	is.True(cfg.Lossy == nil)
	is.Equal(cfg.Quality, float32(1))
	is.Equal(cfg.Method, 4)
}

func TestNewLossyEncodingConfigCarriesDefaults(t *testing.T) {
	is := is.New(t)

	cfg := animation.NewLossyEncodingConfig(80)
	require.NotNil(t, cfg.Lossy)
	is.Equal(cfg.Quality, float32(80))
	is.Equal(cfg.Lossy.Segments, 1)
	is.Equal(cfg.Lossy.Pass, 1)
	is.Equal(cfg.Lossy.AlphaQuality, 100)
	is.True(cfg.Lossy.AlphaCompression)
}
