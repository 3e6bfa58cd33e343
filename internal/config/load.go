package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/tauraamui/webpanim/pkg/log"
)

const (
	vendorName     = "tacusci"
	appName        = "webpanim"
	configFileName = "config.json"
)

var fs afero.Fs = afero.NewOsFs()

// Load reads, parses and validates the CLI settings file. A missing file
// is not an error; the defaults are returned instead.
func Load() (Values, error) {
	values := DefaultValues()

	configPath, err := resolveConfigPath()
	if err != nil {
		return values, err
	}

	log.Debug("resolved config file location: %s", configPath)

	file, err := readConfigFile(configPath)
	if err != nil {
		if os.IsNotExist(errors.Cause(err)) {
			return values, nil
		}
		return values, err
	}

	if err := unmarshal(file, &values); err != nil {
		return values, err
	}

	if err := values.RunValidate(); err != nil {
		return values, err
	}

	return values, nil
}

var readConfigFile = func(path string) ([]byte, error) {
	return afero.ReadFile(fs, path)
}

func unmarshal(content []byte, values *Values) error {
	if err := json.Unmarshal(content, values); err != nil {
		return errors.Errorf("parsing configuration error: %v", err)
	}
	return nil
}

func resolveConfigPath() (string, error) {
	configPath := os.Getenv("WEBPANIM_CONFIG")
	if len(configPath) > 0 {
		return configPath, nil
	}

	configParentDir, err := userConfigDir()
	if err != nil {
		return "", fmt.Errorf("unable to resolve %s config file location: %w", configFileName, err)
	}

	return filepath.Join(
		configParentDir,
		vendorName,
		appName,
		configFileName), nil
}

var userConfigDir = func() (string, error) {
	return os.UserConfigDir()
}
