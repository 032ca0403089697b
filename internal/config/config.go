package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"alphawrap/internal/viewmatrix"
)

// Config holds paths and wrap/preview settings for the wrap command.
type Config struct {
	// Paths
	Input      string `json:"input"`
	Output     string `json:"output"`
	Preview    string `json:"preview"`
	ReportPath string `json:"report"`

	// Wrap settings
	Alpha         float64 `json:"alpha"`
	Offset        float64 `json:"offset"`
	CellsPerAlpha float64 `json:"cells_per_alpha"`
	MaxGridPoints int     `json:"max_grid_points"`

	// Preview settings
	RenderSize  int     `json:"render_size"`
	Supersample int     `json:"supersample"`
	FillRatio   float64 `json:"fill_ratio"`

	// Preview camera. Yaw and pitch are degrees; nil means the default
	// three-quarter view, so an explicit 0 is kept.
	Yaw         *float64 `json:"yaw"`
	Pitch       *float64 `json:"pitch"`
	Perspective bool     `json:"perspective"`
	FOV         float64  `json:"fov"`

	Verbose bool `json:"verbose"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Resolve applies CLI overrides and fills in defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	if flags.Input != "" {
		c.Input = flags.Input
	}
	if flags.Output != "" {
		c.Output = flags.Output
	}
	if flags.Preview != "" {
		c.Preview = flags.Preview
	}
	if flags.Report != "" {
		c.ReportPath = flags.Report
	}
	if flags.Alpha > 0 {
		c.Alpha = flags.Alpha
	}
	if flags.Offset > 0 {
		c.Offset = flags.Offset
	}
	if flags.Size > 0 {
		c.RenderSize = flags.Size
	}
	if flags.Verbose {
		c.Verbose = true
	}
	if flags.Yaw != nil {
		c.Yaw = flags.Yaw
	}
	if flags.Pitch != nil {
		c.Pitch = flags.Pitch
	}
	if flags.Perspective {
		c.Perspective = true
	}
	if flags.FOV > 0 {
		c.FOV = flags.FOV
	}

	// Output next to the input unless given
	if c.Output == "" && c.Input != "" {
		ext := filepath.Ext(c.Input)
		c.Output = strings.TrimSuffix(c.Input, ext) + ".wrapped" + ext
	}

	// Defaults for wrap settings
	if c.Alpha <= 0 {
		c.Alpha = 1.0
	}
	if c.Offset <= 0 {
		c.Offset = 0.1
	}

	// Defaults for preview settings
	if c.RenderSize <= 0 {
		c.RenderSize = 256
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.FillRatio <= 0 || c.FillRatio > 1 {
		c.FillRatio = 0.9
	}

	def := viewmatrix.DefaultCamera()
	if c.Yaw == nil {
		c.Yaw = &def.Yaw
	}
	if c.Pitch == nil {
		c.Pitch = &def.Pitch
	}
	if c.FOV <= 0 || c.FOV >= 180 {
		c.FOV = viewmatrix.DefaultFOV
	}
}

// Camera returns the preview camera described by c. Unset angles fall back
// to the default view, so it is safe to call before Resolve.
func (c Config) Camera() viewmatrix.Camera {
	cam := viewmatrix.DefaultCamera()
	if c.Yaw != nil {
		cam.Yaw = *c.Yaw
	}
	if c.Pitch != nil {
		cam.Pitch = *c.Pitch
	}
	cam.Perspective = c.Perspective
	cam.FOV = c.FOV
	return cam
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Input   string
	Output  string
	Preview string
	Report  string
	Alpha   float64
	Offset  float64
	Size    int
	Verbose bool

	// Yaw and Pitch are nil unless the flag was given.
	Yaw         *float64
	Pitch       *float64
	Perspective bool
	FOV         float64
}
