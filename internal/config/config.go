// Package config resolves the node connection settings used for every RPC call
// in one process run.
//
// Values can come from five places. Each field is resolved on its own, taking
// the value from the highest-precedence source that provides one:
//
//	1. explicit overrides (command-line flags)
//	2. environment (process env, then a .env dotfile)
//	3. a bitcoin.conf-style file at an explicit path
//	4. bitcoin.conf in the working directory
//	5. hardcoded defaults (host, port, timeout only)
//
// Resolve is a pure function of its Inputs. Load is the thin wrapper that
// snapshots the real process environment and file system.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"
)

// Hardcoded defaults. Credentials deliberately have none.
const (
	DefaultHost     = "localhost"
	DefaultPort     = 8332
	DefaultTimeout  = 300 * time.Second
	DefaultConfFile = "bitcoin.conf"
)

// Environment variable names read by the environment source.
const (
	EnvHost     = "BITCOIN_RPC_HOST"
	EnvPort     = "BITCOIN_RPC_PORT"
	EnvUser     = "BITCOIN_RPC_USER"
	EnvPassword = "BITCOIN_RPC_PASSWORD"
	EnvTimeout  = "BITCOIN_RPC_TIMEOUT"
)

// Conf file keys. Host is never read from a conf file.
const (
	keyUser     = "rpcuser"
	keyPassword = "rpcpassword"
	keyPort     = "rpcport"
)

// Source identifies where a resolved value came from. Lower values win.
type Source int

const (
	SourceOverride Source = iota + 1
	SourceEnvironment
	SourceConfFile
	SourceDefaultConfFile
	SourceDefault
)

func (s Source) String() string {
	switch s {
	case SourceOverride:
		return "override"
	case SourceEnvironment:
		return "environment"
	case SourceConfFile:
		return "conf file"
	case SourceDefaultConfFile:
		return "default conf file"
	case SourceDefault:
		return "default"
	default:
		return "unknown"
	}
}

// Provenance records the source chosen for each field of an EffectiveConfig.
type Provenance struct {
	Host     Source
	Port     Source
	User     Source
	Password Source
	Timeout  Source
}

// EffectiveConfig is the single resolved set of connection parameters.
// It is returned by value and never modified after resolution.
type EffectiveConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Timeout  time.Duration

	Sources Provenance
}

// Address returns host:port.
func (c EffectiveConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// URL returns the RPC endpoint. Credentials are not embedded; the client
// sends them as basic auth.
func (c EffectiveConfig) URL() string {
	return "http://" + c.Address() + "/"
}

// ConfigError reports a field that could not be resolved to a usable value.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

// Overrides holds caller-supplied values. A nil field means "not provided";
// so does a blank string.
type Overrides struct {
	Host     *string
	Port     *int
	User     *string
	Password *string
	Timeout  *time.Duration
}

// Inputs is everything Resolve looks at.
type Inputs struct {
	Overrides Overrides

	// Env is a snapshot of the process environment.
	Env map[string]string
	// Dotfile holds variables parsed from a .env file. Consulted after Env.
	Dotfile map[string]string

	// ConfPath is an explicitly requested conf file. It must exist when set.
	ConfPath string
	// DefaultConfPath is the conventional conf file; a missing file is ignored.
	DefaultConfPath string

	// ReadFile reads conf files. Required when either path is set.
	ReadFile func(path string) ([]byte, error)
}

// Resolve merges all sources into one EffectiveConfig following strict
// per-field precedence. It performs no I/O other than through in.ReadFile.
func Resolve(in Inputs) (EffectiveConfig, error) {
	var explicit, conventional map[string]string

	if in.ConfPath != "" {
		data, err := in.ReadFile(in.ConfPath)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return EffectiveConfig{}, &ConfigError{Field: "conf", Reason: fmt.Sprintf("file %s does not exist", in.ConfPath)}
			}
			return EffectiveConfig{}, &ConfigError{Field: "conf", Reason: err.Error()}
		}
		explicit = ParseConfFile(data)
	}

	if in.DefaultConfPath != "" && in.DefaultConfPath != in.ConfPath {
		data, err := in.ReadFile(in.DefaultConfPath)
		switch {
		case err == nil:
			conventional = ParseConfFile(data)
		case errors.Is(err, fs.ErrNotExist):
		default:
			return EffectiveConfig{}, &ConfigError{Field: "conf", Reason: err.Error()}
		}
	}

	env := func(key string) (string, bool) {
		if v := strings.TrimSpace(in.Env[key]); v != "" {
			return v, true
		}
		if v := strings.TrimSpace(in.Dotfile[key]); v != "" {
			return v, true
		}
		return "", false
	}
	file := func(key string) (string, Source, bool) {
		if v, ok := explicit[key]; ok {
			return v, SourceConfFile, true
		}
		if v, ok := conventional[key]; ok {
			return v, SourceDefaultConfFile, true
		}
		return "", 0, false
	}

	var cfg EffectiveConfig
	var err error

	// host: override > env > default
	if v, ok := given(in.Overrides.Host); ok {
		cfg.Host, cfg.Sources.Host = strings.TrimSpace(v), SourceOverride
	} else if v, ok := env(EnvHost); ok {
		cfg.Host, cfg.Sources.Host = v, SourceEnvironment
	} else {
		cfg.Host, cfg.Sources.Host = DefaultHost, SourceDefault
	}

	// port: override > env > conf > default conf > default
	if in.Overrides.Port != nil {
		cfg.Port, cfg.Sources.Port = *in.Overrides.Port, SourceOverride
	} else if v, ok := env(EnvPort); ok {
		if cfg.Port, err = parsePort(v, SourceEnvironment); err != nil {
			return EffectiveConfig{}, err
		}
		cfg.Sources.Port = SourceEnvironment
	} else if v, src, ok := file(keyPort); ok {
		if cfg.Port, err = parsePort(v, src); err != nil {
			return EffectiveConfig{}, err
		}
		cfg.Sources.Port = src
	} else {
		cfg.Port, cfg.Sources.Port = DefaultPort, SourceDefault
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return EffectiveConfig{}, &ConfigError{Field: "port", Reason: fmt.Sprintf("%d out of range 1-65535", cfg.Port)}
	}

	if cfg.User, cfg.Sources.User, err = resolveCredential("user", in.Overrides.User, EnvUser, keyUser, env, file); err != nil {
		return EffectiveConfig{}, err
	}
	if cfg.Password, cfg.Sources.Password, err = resolveCredential("password", in.Overrides.Password, EnvPassword, keyPassword, env, file); err != nil {
		return EffectiveConfig{}, err
	}

	// timeout: override > env > default
	if in.Overrides.Timeout != nil {
		cfg.Timeout, cfg.Sources.Timeout = *in.Overrides.Timeout, SourceOverride
	} else if v, ok := env(EnvTimeout); ok {
		if cfg.Timeout, err = parseTimeout(v); err != nil {
			return EffectiveConfig{}, err
		}
		cfg.Sources.Timeout = SourceEnvironment
	} else {
		cfg.Timeout, cfg.Sources.Timeout = DefaultTimeout, SourceDefault
	}
	if cfg.Timeout <= 0 {
		return EffectiveConfig{}, &ConfigError{Field: "timeout", Reason: "must be greater than zero"}
	}

	return cfg, nil
}

func resolveCredential(
	field string,
	override *string,
	envKey, fileKey string,
	env func(string) (string, bool),
	file func(string) (string, Source, bool),
) (string, Source, error) {
	if v, ok := given(override); ok {
		return v, SourceOverride, nil
	}
	if v, ok := env(envKey); ok {
		return v, SourceEnvironment, nil
	}
	if v, src, ok := file(fileKey); ok && strings.TrimSpace(v) != "" {
		return v, src, nil
	}
	return "", 0, &ConfigError{
		Field:  field,
		Reason: fmt.Sprintf("no value provided (set --%s, %s, or %s in bitcoin.conf)", field, envKey, fileKey),
	}
}

// given reports whether a string override was provided. Blank counts as
// absent for every source, so the next one in line is consulted.
func given(p *string) (string, bool) {
	if p == nil || strings.TrimSpace(*p) == "" {
		return "", false
	}
	return *p, true
}

func parsePort(v string, src Source) (int, error) {
	port, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, &ConfigError{Field: "port", Reason: fmt.Sprintf("invalid value %q from %s", v, src)}
	}
	return port, nil
}

// parseTimeout accepts whole seconds ("300") or a Go duration ("5m").
func parseTimeout(v string) (time.Duration, error) {
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, &ConfigError{Field: "timeout", Reason: fmt.Sprintf("invalid value %q from environment", v)}
	}
	return d, nil
}
