package config

const (
	defaultConfigPath      = "~/.config/resizer/config.toml"
	defaultOutputDir       = "."
	defaultFilter          = "approx-bilinear"
	defaultFullQuality     = 1.0
	defaultReducedQuality  = 0.6
	defaultProgressDelayMs = 1000
	defaultMaxSide         = 32767
	defaultMaxPixels       = 268435456
	defaultPickerHeight    = 12
	defaultLogFormat       = "json"
	defaultLogLevel        = "info"
)

// Filters lists the interpolators accepted by export.filter.
var Filters = []string{"nearest", "approx-bilinear", "bilinear", "catmull-rom", "lanczos3"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Resize: Resize{
			LockRatio: true,
		},
		Export: Export{
			OutputDir:       defaultOutputDir,
			Filter:          defaultFilter,
			FullQuality:     defaultFullQuality,
			ReducedQuality:  defaultReducedQuality,
			ProgressDelayMs: defaultProgressDelayMs,
			MaxSide:         defaultMaxSide,
			MaxPixels:       defaultMaxPixels,
		},
		UI: UI{
			PickerHeight: defaultPickerHeight,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
