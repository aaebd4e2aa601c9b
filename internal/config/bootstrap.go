package config

import (
	"errors"
	"os"
	"path/filepath"
)

const FileName = "config.yml"

// EnsureUserConfig returns the config path under home, writing the defaults
// there first if the file does not exist yet.
func EnsureUserConfig(home string) (path string, created bool, err error) {
	userPath := filepath.Join(home, FileName)

	_, err = os.Stat(userPath)
	if err == nil {
		return userPath, false, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", false, err
	}

	if err := SaveAtomic(userPath, Default()); err != nil {
		return "", false, err
	}
	return userPath, true, nil
}
