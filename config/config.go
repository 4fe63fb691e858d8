package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"

	"github.com/adrg/xdg"
)

// Config holds runtime configuration for the viewer and annotation defaults.
// Fields may be loaded from a JSON file and overridden by command-line flags.
type Config struct {
	Debug bool `json:"debug"`
	// Viewport parameters
	InitialScale      float64 `json:"initial_scale"`
	ZoomStep          float64 `json:"zoom_step"`
	MinPixelThreshold int     `json:"min_pixel_threshold"`
	TileCacheSize     int     `json:"tile_cache_size"`
	ResampleFilter    string  `json:"resample_filter"`

	// Annotation defaults
	AnnotationColor string `json:"annotation_color"`

	// Window geometry
	WindowWidth  int `json:"window_width"`
	WindowHeight int `json:"window_height"`
}

// Resample filter names accepted in ResampleFilter.
const (
	FilterNearest = "nearest"
	FilterLinear  = "linear"
	FilterLanczos = "lanczos"
)

// DefaultColor is the annotation outline color used when none is configured.
const DefaultColor = "#00FF00"

var hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Debug:             false,
		InitialScale:      3.0,
		ZoomStep:          1.3,
		MinPixelThreshold: 30,
		TileCacheSize:     32,
		ResampleFilter:    FilterLinear,
		AnnotationColor:   DefaultColor,
		WindowWidth:       1024,
		WindowHeight:      768,
	}
}

// DefaultPath returns the per-user config file location, creating parent
// directories as needed.
func DefaultPath() (string, error) {
	return xdg.ConfigFile(filepath.Join("yaat", "config.json"))
}

// Validate clamps/normalizes values to safe ranges.
func (c *Config) Validate() error {
	if c.InitialScale <= 0 {
		c.InitialScale = 3.0
	}
	if c.ZoomStep <= 1 {
		c.ZoomStep = 1.3
	}
	if c.MinPixelThreshold < 1 {
		c.MinPixelThreshold = 30
	}
	if c.TileCacheSize < 1 {
		c.TileCacheSize = 32
	}
	switch c.ResampleFilter {
	case FilterNearest, FilterLinear, FilterLanczos:
	default:
		c.ResampleFilter = FilterLinear
	}
	if !hexColorRe.MatchString(c.AnnotationColor) {
		c.AnnotationColor = DefaultColor
	}
	if c.WindowWidth < 200 {
		c.WindowWidth = 1024
	}
	if c.WindowHeight < 150 {
		c.WindowHeight = 768
	}
	return nil
}

// Load attempts to read configuration from the given JSON file path. If the file does not
// exist it returns DefaultConfig(). On JSON error it returns defaults with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	if err := dec.Decode(cfg); err != nil {
		return DefaultConfig(), err
	}
	_ = cfg.Validate()
	return cfg, nil
}

// Save writes the configuration to the given path in JSON format.
func (c *Config) Save(path string) error {
	_ = c.Validate()
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
