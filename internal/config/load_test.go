package config

import (
	"os"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type LoadSettingsTestSuite struct {
	suite.Suite
	fs                 afero.Fs
	resetUserConfigDir func()
	path               string
}

func (suite *LoadSettingsTestSuite) SetupTest() {
	suite.fs = afero.NewMemMapFs()

	// use in memory FS in implementation for tests
	fs = suite.fs

	userConfigDirRef := userConfigDir
	userConfigDir = func() (string, error) { return "/testcfg", nil }
	suite.resetUserConfigDir = func() { userConfigDir = userConfigDirRef }

	path, err := resolveConfigPath()
	require.NoError(suite.T(), err)
	suite.path = path
}

func (suite *LoadSettingsTestSuite) TearDownTest() {
	suite.resetUserConfigDir()
	fs = afero.NewOsFs()
}

func (suite *LoadSettingsTestSuite) writeTestConfig(config string) {
	require.NoError(
		suite.T(), afero.WriteFile(suite.fs, suite.path, []byte(config), os.ModePerm),
	)
}

func (suite *LoadSettingsTestSuite) TestLoadReturnsDefaultsWhenFileMissing() {
	values, err := Load()
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), DefaultValues(), values)
}

func (suite *LoadSettingsTestSuite) TestLoadReadsGivenSettings() {
	suite.writeTestConfig(`{
		"log_level": "debug",
		"encode": {
			"loop_count": 2,
			"frame_duration_ms": 40,
			"lossless": false,
			"quality": 75,
			"method": 6,
			"kmin": 3,
			"kmax": 5
		}
	}`)

	values, err := Load()
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), "debug", values.LogLevel)
	assert.Equal(suite.T(), 2, values.Encode.LoopCount)
	assert.Equal(suite.T(), 40, values.Encode.FrameDurationMS)
	assert.False(suite.T(), values.Encode.Lossless)
	assert.EqualValues(suite.T(), 75, values.Encode.Quality)
	assert.Equal(suite.T(), 6, values.Encode.Method)
	assert.Equal(suite.T(), 3, values.Encode.Kmin)
	assert.Equal(suite.T(), 5, values.Encode.Kmax)
}

func (suite *LoadSettingsTestSuite) TestLoadFailsOnMalformedJSON() {
	suite.writeTestConfig(`{"encode": {`)

	_, err := Load()
	require.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "parsing configuration error")
}

func (suite *LoadSettingsTestSuite) TestLoadFailsValidationOnOutOfBoundsQuality() {
	suite.writeTestConfig(`{
		"encode": {"frame_duration_ms": 40, "quality": 101}
	}`)

	_, err := Load()
	require.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "Quality")
}

func (suite *LoadSettingsTestSuite) TestLoadFailsValidationOnOutOfBoundsMethod() {
	suite.writeTestConfig(`{
		"encode": {"frame_duration_ms": 40, "method": 7}
	}`)

	_, err := Load()
	require.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "Method")
}

func (suite *LoadSettingsTestSuite) TestLoadHonoursEnvVarPathOverride() {
	os.Setenv("WEBPANIM_CONFIG", "/elsewhere/webpanim.json")
	defer os.Unsetenv("WEBPANIM_CONFIG")

	require.NoError(suite.T(), afero.WriteFile(
		suite.fs, "/elsewhere/webpanim.json",
		[]byte(`{"log_level": "info", "encode": {"frame_duration_ms": 25}}`),
		os.ModePerm,
	))

	values, err := Load()
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "info", values.LogLevel)
	assert.Equal(suite.T(), 25, values.Encode.FrameDurationMS)
}

func TestLoadSettingsTestSuite(t *testing.T) {
	suite.Run(t, &LoadSettingsTestSuite{})
}
