package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// defaultConfigFile is read when --config is not given. It may be absent.
const defaultConfigFile = ".triggerlint.yaml"

var allowedFormats = map[string]bool{
	"text": true,
	"json": true,
	"yaml": true,
}

// Config is the optional .triggerlint.yaml file.
type Config struct {
	// Types are extra type names to check even if no Declare call names them.
	// Either "Type" (any package) or "pkg.Type".
	Types []string `yaml:"types"`

	// Ignore lists type names never to check, same syntax as Types.
	Ignore []string `yaml:"ignore"`

	// SkipDirs are directory base names skipped during recursive scans.
	SkipDirs []string `yaml:"skip_dirs"`

	// IncludeTests also scans _test.go files.
	IncludeTests bool `yaml:"include_tests"`

	// Format is text, json or yaml.
	Format string `yaml:"format"`
}

func defaultConfig() Config {
	return Config{
		SkipDirs: []string{"vendor", "testdata", "_examples"},
		Format:   "text",
	}
}

// loadConfig reads path on top of the defaults. A missing file is only an
// error when the caller asked for it explicitly.
func loadConfig(path string, explicit bool) (Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse YAML in %s: %w", path, err)
	}

	if err := validateConfig(&cfg); err != nil {
		return cfg, fmt.Errorf("validation error in %s: %w", path, err)
	}
	return cfg, nil
}

func validateConfig(cfg *Config) error {
	cfg.Format = strings.ToLower(strings.TrimSpace(cfg.Format))
	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if !allowedFormats[cfg.Format] {
		return fmt.Errorf("unknown format %q (want text, json or yaml)", cfg.Format)
	}
	for _, name := range append(append([]string{}, cfg.Types...), cfg.Ignore...) {
		if strings.TrimSpace(name) == "" || strings.Count(name, ".") > 1 {
			return fmt.Errorf("invalid type name %q", name)
		}
	}
	return nil
}

// matchesType reports whether name ("Type" or "pkg.Type") refers to typ in pkg.
func matchesType(name, pkg, typ string) bool {
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return name[:i] == pkg && name[i+1:] == typ
	}
	return name == typ
}

func anyMatches(names []string, pkg, typ string) bool {
	for _, n := range names {
		if matchesType(n, pkg, typ) {
			return true
		}
	}
	return false
}

func (c Config) skipDir(base string) bool {
	for _, d := range c.SkipDirs {
		if d == base {
			return true
		}
	}
	return false
}
