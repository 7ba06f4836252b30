package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/treedecor/internal/geometry"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 5, cfg.Threshold)
	assert.Equal(t, 8, cfg.Frames)
	assert.Equal(t, 200*time.Millisecond, cfg.FrameDelay)
	assert.Equal(t, 15, cfg.CaptionLimit)
	assert.Equal(t, 480, cfg.Width)
	assert.Equal(t, 640, cfg.Height)
	assert.Equal(t, geometry.DefaultRegion(), cfg.Region)
	assert.NoError(t, cfg.Validate())
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "treedecor.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
threshold: 3
frame_delay: 150ms
night: true
share_url: https://example.com/tree
region:
  top_y: 10
`), 0o644))

	t.Setenv("TREEDECOR_FRAMES", "12")
	t.Setenv("TREEDECOR_THRESHOLD", "7")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Threshold, "env wins over file")
	assert.Equal(t, 12, cfg.Frames)
	assert.Equal(t, 150*time.Millisecond, cfg.FrameDelay)
	assert.True(t, cfg.Night)
	assert.Equal(t, "https://example.com/tree", cfg.ShareURL)
	assert.Equal(t, 10.0, cfg.Region.TopY)
	assert.Equal(t, geometry.DefaultRegion().BottomY, cfg.Region.BottomY, "unset region fields keep defaults")
	assert.Equal(t, 640, cfg.Height)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("threshold: [1, 2"), 0o644))
	_, err = Load(bad)
	assert.ErrorContains(t, err, "parse config")

	t.Setenv("TREEDECOR_FRAMES", "many")
	_, err = Load("")
	assert.ErrorContains(t, err, "parse env")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"threshold", func(c *Config) { c.Threshold = 0 }, "threshold"},
		{"canvas", func(c *Config) { c.Width = 0 }, "canvas"},
		{"frames", func(c *Config) { c.Frames = -1 }, "frames"},
		{"delay", func(c *Config) { c.FrameDelay = time.Millisecond }, "frame delay"},
		{"caption", func(c *Config) { c.CaptionLimit = 0 }, "caption limit"},
		{"region", func(c *Config) { c.Region.BottomY = c.Region.TopY }, "region"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
}
