package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// DotenvFile is the dotfile read from the working directory.
const DotenvFile = ".env"

// ReadDotenv parses a .env file without exporting anything into the process
// environment. A missing file yields an empty map.
func ReadDotenv(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	return values, nil
}

// Environ snapshots the process environment as a map.
func Environ() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env
}

// Load resolves the effective configuration for this process: the real
// environment, ./.env, the optional conf file at confPath and ./bitcoin.conf.
func Load(overrides Overrides, confPath string) (EffectiveConfig, error) {
	dotfile, err := ReadDotenv(DotenvFile)
	if err != nil {
		// An unreadable dotfile is treated like a missing one.
		zap.L().Warn("Ignoring unreadable dotfile", zap.String("file", DotenvFile), zap.Error(err))
		dotfile = map[string]string{}
	}

	cfg, err := Resolve(Inputs{
		Overrides:       overrides,
		Env:             Environ(),
		Dotfile:         dotfile,
		ConfPath:        confPath,
		DefaultConfPath: DefaultConfFile,
		ReadFile:        os.ReadFile,
	})
	if err != nil {
		return EffectiveConfig{}, err
	}

	zap.L().Debug("Resolved RPC configuration",
		zap.String("host", cfg.Host),
		zap.String("host_source", cfg.Sources.Host.String()),
		zap.Int("port", cfg.Port),
		zap.String("port_source", cfg.Sources.Port.String()),
		zap.String("user_source", cfg.Sources.User.String()),
		zap.String("password_source", cfg.Sources.Password.String()),
		zap.Duration("timeout", cfg.Timeout))

	return cfg, nil
}
