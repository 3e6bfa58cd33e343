package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/tauraamui/xerror"
)

var ErrConfigAlreadyExists = xerror.New("config file already exists")

// Create writes the default settings file to the resolved config path,
// creating parent directories as needed. Refuses to overwrite.
func Create() error {
	path, err := resolveConfigPath()
	if err != nil {
		return err
	}

	exists, err := afero.Exists(fs, path)
	if err != nil {
		return err
	}
	if exists {
		return ErrConfigAlreadyExists
	}

	data, err := json.MarshalIndent(DefaultValues(), "", "	")
	if err != nil {
		return xerror.Errorf("unable to marshal default config: %w", err)
	}

	if err := fs.MkdirAll(filepath.Dir(path), os.ModeDir|os.ModePerm); err != nil {
		return err
	}

	return afero.WriteFile(fs, path, data, os.ModePerm)
}
