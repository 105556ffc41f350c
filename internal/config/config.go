// Package config loads the optional TOML file holding the tools' defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// EnvPath names the environment variable that overrides the config file location.
const EnvPath = "DIRTOOLS_CONFIG"

// Config is the config file schema.
type Config struct {
	Sizer  Sizer  `toml:"sizer"`
	Fim    Fim    `toml:"fim"`
	Source string `toml:"-"`
}

// Sizer holds the defaults of the sizer tool.
type Sizer struct {
	// Depth is the default depth limit.
	Depth int `toml:"depth"`
	// Results is the default number of directories to report.
	Results int `toml:"results"`
	// Output is the default output format.
	Output string `toml:"output"`
}

// Fim holds the defaults of the fim tool.
type Fim struct {
	// Exclude contains glob patterns of paths to leave out of the results.
	Exclude []string `toml:"exclude"`
	// Color enables match highlighting on terminals.
	Color bool `toml:"color"`
	// Output is the default output format.
	Output string `toml:"output"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		Sizer: Sizer{
			Depth:   5,
			Results: 10,
			Output:  "table",
		},
		Fim: Fim{
			Exclude: []string{},
			Color:   true,
			Output:  "text",
		},
	}
}

// DefaultPath returns the config file location used when none is given.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}

	return filepath.Join(dir, "dirtools", "config.toml")
}

// Load reads the config file at path.
//
// An empty path falls back to $DIRTOOLS_CONFIG and then to DefaultPath.
// A missing file at the default location yields the defaults; a missing file
// that was named explicitly is an error. Keys absent from the file keep their
// default values.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = strings.TrimSpace(os.Getenv(EnvPath))
		explicit = path != ""
	}

	if !explicit {
		path = DefaultPath()
	}

	if path == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return cfg, nil
		}

		return cfg, fmt.Errorf("reading config %q: %w", path, err)
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %q: %w", path, err)
	}

	cfg.Source = path

	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("config %q: %w", path, err)
	}

	return cfg, nil
}

func (c Config) validate() error {
	if c.Sizer.Depth < 0 {
		return errors.New("sizer.depth cannot be negative")
	}

	if c.Sizer.Results < 0 {
		return errors.New("sizer.results cannot be negative")
	}

	return nil
}
