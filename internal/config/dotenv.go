package config

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
)

// LoadDotenv copies .env (or filenames) into the environment without
// overriding variables that are already set. A missing file is not an error.
func LoadDotenv(filenames ...string) error {
	err := godotenv.Load(filenames...)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
