// Package config loads keyreducer settings from a YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/rcliao/keyreducer/internal/reducer"
)

// Config holds user settings. Flags override every field.
type Config struct {
	DBPath    string  `yaml:"db_path"`
	Tolerance float64 `yaml:"tolerance"`
	PreBake   bool    `yaml:"pre_bake"`
}

// Default returns the built-in settings.
func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		DBPath:    filepath.Join(home, ".keyreducer", "curves.db"),
		Tolerance: reducer.DefaultTolerance,
	}
}

// Path returns the config file to read: explicit, else $KEYREDUCER_CONFIG,
// else ~/.keyreducer/config.yaml.
func Path(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv("KEYREDUCER_CONFIG"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".keyreducer", "config.yaml")
}

// Load reads the file at Path(explicit) over the defaults, then applies env
// overrides. A missing file is only an error when it was named explicitly.
func Load(explicit string) (Config, error) {
	cfg := Default()
	path := Path(explicit)

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err) && explicit == "":
	default:
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if env := os.Getenv("KEYREDUCER_DB"); env != "" {
		cfg.DBPath = env
	}
	if env := os.Getenv("KEYREDUCER_TOLERANCE"); env != "" {
		v, err := strconv.ParseFloat(env, 64)
		if err != nil {
			return cfg, fmt.Errorf("KEYREDUCER_TOLERANCE: %w", err)
		}
		cfg.Tolerance = v
	}
	return cfg, nil
}

// Write saves cfg as YAML, creating the directory if needed.
func Write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ErrExists is returned by Init when the config file is already present.
var ErrExists = errors.New("config file already exists")

// Init writes the built-in settings to Path(explicit) and returns the path.
// An existing file is only replaced when force is set.
func Init(explicit string, force bool) (string, error) {
	path := Path(explicit)
	if !force {
		if _, err := os.Stat(path); err == nil {
			return path, fmt.Errorf("%w: %s", ErrExists, path)
		}
	}
	if err := Write(path, Default()); err != nil {
		return path, err
	}
	return path, nil
}
