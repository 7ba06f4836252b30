package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/ivlev/treedecor/internal/geometry"
)

type Config struct {
	CatalogPath  string        `yaml:"catalog"       env:"TREEDECOR_CATALOG"`
	PhotoDir     string        `yaml:"photo_dir"     env:"TREEDECOR_PHOTO_DIR"`
	OutputDir    string        `yaml:"output_dir"    env:"TREEDECOR_OUTPUT_DIR"`
	Threshold    int           `yaml:"threshold"     env:"TREEDECOR_THRESHOLD"`
	Seed         int64         `yaml:"seed"          env:"TREEDECOR_SEED"`
	Width        int           `yaml:"width"         env:"TREEDECOR_WIDTH"`
	Height       int           `yaml:"height"        env:"TREEDECOR_HEIGHT"`
	Night        bool          `yaml:"night"         env:"TREEDECOR_NIGHT"`
	LightSeed    int64         `yaml:"light_seed"    env:"TREEDECOR_LIGHT_SEED"`
	Frames       int           `yaml:"frames"        env:"TREEDECOR_FRAMES"`
	FrameDelay   time.Duration `yaml:"frame_delay"   env:"TREEDECOR_FRAME_DELAY"`
	ExportWidth  int           `yaml:"export_width"  env:"TREEDECOR_EXPORT_WIDTH"`
	ExportHeight int           `yaml:"export_height" env:"TREEDECOR_EXPORT_HEIGHT"`
	Sparkles     int           `yaml:"sparkles"      env:"TREEDECOR_SPARKLES"`
	CaptionLimit int           `yaml:"caption_limit" env:"TREEDECOR_CAPTION_LIMIT"`
	Workers      int           `yaml:"workers"       env:"TREEDECOR_WORKERS"`
	ShareURL     string        `yaml:"share_url"     env:"TREEDECOR_SHARE_URL"`
	ShowStats    bool          `yaml:"show_stats"    env:"TREEDECOR_SHOW_STATS"`

	Region geometry.Region `yaml:"region"`

	BuildVersion string `yaml:"-"`
}

// Default returns the settings the app ships with.
func Default() Config {
	return Config{
		OutputDir:    "output",
		Threshold:    5,
		Width:        480,
		Height:       640,
		LightSeed:    2024,
		Frames:       8,
		FrameDelay:   200 * time.Millisecond,
		ExportWidth:  360,
		ExportHeight: 480,
		Sparkles:     24,
		CaptionLimit: 15,
		Region:       geometry.DefaultRegion(),
	}
}

// Load starts from Default, overlays the YAML file at path (if any) and
// then TREEDECOR_* environment variables.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv loads overrides from environment variables into target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Threshold <= 0 {
		errs = append(errs, fmt.Errorf("threshold must be positive, got %d", c.Threshold))
	}
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("canvas %dx%d has no area", c.Width, c.Height))
	}
	if c.ExportWidth <= 0 || c.ExportHeight <= 0 {
		errs = append(errs, fmt.Errorf("export canvas %dx%d has no area", c.ExportWidth, c.ExportHeight))
	}
	if c.Frames <= 0 {
		errs = append(errs, fmt.Errorf("frames must be positive, got %d", c.Frames))
	}
	if c.FrameDelay < 10*time.Millisecond {
		errs = append(errs, fmt.Errorf("frame delay %v is below the 10ms GIF resolution", c.FrameDelay))
	}
	if c.Sparkles < 0 {
		errs = append(errs, fmt.Errorf("sparkles must not be negative, got %d", c.Sparkles))
	}
	if c.CaptionLimit <= 0 {
		errs = append(errs, fmt.Errorf("caption limit must be positive, got %d", c.CaptionLimit))
	}
	if c.Region.BottomY <= c.Region.TopY {
		errs = append(errs, fmt.Errorf("region bottom %.1f must be below top %.1f", c.Region.BottomY, c.Region.TopY))
	}
	return errors.Join(errs...)
}
