package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/subosito/gotenv"
)

const DEFAULT_ENV_DIR = "config/envs"

// LoadEnv loads <dir>/.env.<env> into the process environment, where dir is
// ENV_DIR or config/envs. Variables already set in the OS environment win.
// It reports whether a file was loaded.
func LoadEnv(env string) bool {
	dir := os.Getenv("ENV_DIR")
	if dir == "" {
		dir = DEFAULT_ENV_DIR
	}
	envFile := filepath.Join(dir, ".env."+env)

	if err := gotenv.Load(envFile); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Warn("[Config] No .env file found, using OS environment",
				slog.String("file", envFile))
		} else {
			slog.Warn("[Config] Failed to load .env file, using OS environment",
				slog.String("file", envFile),
				slog.String("error", err.Error()))
		}
		return false
	}
	return true
}
