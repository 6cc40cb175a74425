package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koki-develop/resizer/internal/config"
)

func TestLoadDefaultsWhenMissing(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, resolved, exists, err := config.Load("")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, filepath.Join(home, ".config", "resizer", "config.toml"), resolved)

	assert.True(t, cfg.Resize.LockRatio)
	assert.False(t, cfg.Resize.ReduceQuality)
	assert.Equal(t, 1.0, cfg.Export.FullQuality)
	assert.Equal(t, 0.6, cfg.Export.ReducedQuality)
	assert.Equal(t, time.Second, cfg.Export.ProgressDelay())
	assert.Equal(t, "approx-bilinear", cfg.Export.Filter)
	assert.True(t, filepath.IsAbs(cfg.Export.OutputDir))
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadTOML(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[resize]
lock_ratio = false
reduce_quality = true

[export]
output_dir = "~/out"
filter = " Catmull-Rom "
progress_delay_ms = 0

[logging]
format = "TEXT"
file = "~/resizer.log"
`), 0o644))

	cfg, resolved, exists, err := config.Load(path)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, path, resolved)
	assert.False(t, cfg.Resize.LockRatio)
	assert.True(t, cfg.Resize.ReduceQuality)
	assert.Equal(t, filepath.Join(home, "out"), cfg.Export.OutputDir)
	assert.Equal(t, "catmull-rom", cfg.Export.Filter)
	assert.Zero(t, cfg.Export.ProgressDelay())
	assert.Equal(t, 0.6, cfg.Export.ReducedQuality, "unset keys keep defaults")
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, filepath.Join(home, "resizer.log"), cfg.Logging.File)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
export:
  filter: lanczos3
  reduced_quality: 0.5
ui:
  show_hidden: true
`), 0o644))

	cfg, _, exists, err := config.Load(path)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, "lanczos3", cfg.Export.Filter)
	assert.Equal(t, 0.5, cfg.Export.ReducedQuality)
	assert.True(t, cfg.UI.ShowHidden)
	assert.True(t, cfg.Resize.LockRatio)
}

func TestLoadEmptyYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	cfg, _, _, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default().Export.Filter, cfg.Export.Filter)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"filter":    "[export]\nfilter = \"bicubic\"\n",
		"quality":   "[export]\nreduced_quality = 1.5\n",
		"delay":     "[export]\nprogress_delay_ms = -1\n",
		"max side":  "[export]\nmax_side = -1\n",
		"log level": "[logging]\nlevel = \"loud\"\n",
		"format":    "[logging]\nformat = \"xml\"\n",
		"syntax":    "[export\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
			_, _, _, err := config.Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))
	_, _, _, err := config.Load(path)
	assert.ErrorContains(t, err, "unsupported config format")
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	require.NoError(t, config.CreateSample(path))

	cfg, _, exists, err := config.Load(path)
	require.NoError(t, err)
	assert.True(t, exists)
	want := config.Default()
	assert.Equal(t, want.Resize, cfg.Resize)
	assert.Equal(t, want.Export.Filter, cfg.Export.Filter)
	assert.Equal(t, want.Export.ProgressDelayMs, cfg.Export.ProgressDelayMs)
	assert.Equal(t, want.UI, cfg.UI)
}

func TestEnsureOutputDir(t *testing.T) {
	cfg := config.Default()
	cfg.Export.OutputDir = filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, cfg.EnsureOutputDir())
	info, err := os.Stat(cfg.Export.OutputDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
