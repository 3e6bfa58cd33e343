package config

import (
	"testing"

	"github.com/matryer/is"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func overloadUserConfigDir(t *testing.T) {
	userConfigDirRef := userConfigDir
	userConfigDir = func() (string, error) { return "/testcfg", nil }
	t.Cleanup(func() { userConfigDir = userConfigDirRef })
}

func overloadFs(t *testing.T) afero.Fs {
	fsRef := fs
	fs = afero.NewMemMapFs()
	t.Cleanup(func() { fs = fsRef })
	return fs
}

func TestCreateWritesDefaultConfig(t *testing.T) {
	is := is.New(t)
	memfs := overloadFs(t)
	overloadUserConfigDir(t)

	is.NoErr(Create())

	exists, err := afero.Exists(memfs, "/testcfg/tacusci/webpanim/config.json")
	require.NoError(t, err)
	is.True(exists)

	values, err := Load()
	require.NoError(t, err)
	is.Equal(values, DefaultValues())
}

func TestCreateRefusesToOverwriteExistingConfig(t *testing.T) {
	is := is.New(t)
	overloadFs(t)
	overloadUserConfigDir(t)

	is.NoErr(Create())
	is.Equal(Create(), ErrConfigAlreadyExists)
}
