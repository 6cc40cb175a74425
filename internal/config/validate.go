package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

func (c *Config) normalize() error {
	var err error
	if strings.TrimSpace(c.Export.OutputDir) == "" {
		c.Export.OutputDir = defaultOutputDir
	}
	if c.Export.OutputDir, err = expandPath(c.Export.OutputDir); err != nil {
		return fmt.Errorf("export.output_dir: %w", err)
	}
	c.Export.Filter = strings.ToLower(strings.TrimSpace(c.Export.Filter))
	if c.Export.Filter == "" {
		c.Export.Filter = defaultFilter
	}
	if c.UI.PickerHeight <= 0 {
		c.UI.PickerHeight = defaultPickerHeight
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if strings.TrimSpace(c.Logging.File) != "" {
		if c.Logging.File, err = expandPath(c.Logging.File); err != nil {
			return fmt.Errorf("logging.file: %w", err)
		}
	}
	return nil
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateExport(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateExport() error {
	if !slices.Contains(Filters, c.Export.Filter) {
		return fmt.Errorf("export.filter %q must be one of %s", c.Export.Filter, strings.Join(Filters, ", "))
	}
	if c.Export.FullQuality <= 0 || c.Export.FullQuality > 1 {
		return errors.New("export.full_quality must be in (0, 1]")
	}
	if c.Export.ReducedQuality <= 0 || c.Export.ReducedQuality > 1 {
		return errors.New("export.reduced_quality must be in (0, 1]")
	}
	if c.Export.ProgressDelayMs < 0 {
		return errors.New("export.progress_delay_ms must be >= 0")
	}
	if c.Export.MaxSide <= 0 {
		return errors.New("export.max_side must be positive")
	}
	if c.Export.MaxPixels <= 0 {
		return errors.New("export.max_pixels must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format %q must be text or json", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q is not supported", c.Logging.Level)
	}
	return nil
}
