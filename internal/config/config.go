package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

//go:embed sample_config.toml
var sampleConfig string

// Resize holds the initial toggle values of a session.
type Resize struct {
	LockRatio     bool `toml:"lock_ratio" yaml:"lock_ratio"`
	ReduceQuality bool `toml:"reduce_quality" yaml:"reduce_quality"`
}

// Export configures rasterization, encoding and where results are saved.
type Export struct {
	OutputDir       string  `toml:"output_dir" yaml:"output_dir"`
	Filter          string  `toml:"filter" yaml:"filter"`
	FullQuality     float64 `toml:"full_quality" yaml:"full_quality"`
	ReducedQuality  float64 `toml:"reduced_quality" yaml:"reduced_quality"`
	ProgressDelayMs int     `toml:"progress_delay_ms" yaml:"progress_delay_ms"`
	MaxSide         int     `toml:"max_side" yaml:"max_side"`
	MaxPixels       int     `toml:"max_pixels" yaml:"max_pixels"`
}

type UI struct {
	ShowHidden   bool `toml:"show_hidden" yaml:"show_hidden"`
	PickerHeight int  `toml:"picker_height" yaml:"picker_height"`
}

type Logging struct {
	Format string `toml:"format" yaml:"format"`
	Level  string `toml:"level" yaml:"level"`
	File   string `toml:"file" yaml:"file"`
}

// Config encapsulates all configuration values for resizer.
type Config struct {
	Resize  Resize  `toml:"resize" yaml:"resize"`
	Export  Export  `toml:"export" yaml:"export"`
	UI      UI      `toml:"ui" yaml:"ui"`
	Logging Logging `toml:"logging" yaml:"logging"`
}

func (e Export) ProgressDelay() time.Duration {
	return time.Duration(e.ProgressDelayMs) * time.Millisecond
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. A missing file is
// not an error; the defaults are returned with exists set to false.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		if err := decode(resolvedPath, file, &cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func decode(path string, r io.Reader, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.NewDecoder(r).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		return nil
	case ".toml", "":
		return toml.NewDecoder(r).Decode(cfg)
	default:
		return fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		path = defaultConfigPath
	}
	expanded, err := expandPath(path)
	if err != nil {
		return "", false, err
	}
	info, err := os.Stat(expanded)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return expanded, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	if info.IsDir() {
		return "", false, fmt.Errorf("config path %s is a directory", expanded)
	}
	return expanded, true, nil
}

// EnsureOutputDir creates the export directory when missing.
func (c *Config) EnsureOutputDir() error {
	if err := os.MkdirAll(c.Export.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory %q: %w", c.Export.OutputDir, err)
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
