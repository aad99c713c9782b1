package config

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// DefaultPath is the configuration file both entry points read when no
// --config flag is given. It is resolved against the working directory.
const DefaultPath = "config.toml"

// Oversize policies for frames larger than the target frame size.
const (
	OversizeClip  = "clip"
	OversizeFit   = "fit"
	OversizeError = "error"
)

// Config holds the application configuration
type Config struct {
	OutputFile        string           `toml:"output_file"`
	TargetFrameWidth  int              `toml:"target_frame_width"`
	TargetFrameHeight int              `toml:"target_frame_height"`
	Layout            LayoutConfig     `toml:"layout"`
	Output            OutputConfig     `toml:"output"`
	TileSource        TileSourceConfig `toml:"tilesource"`
	Preview           PreviewConfig    `toml:"preview"`
	Sheets            []SheetSpec      `toml:"sheets"`
}

// SheetSpec identifies one source image and its native grid cell size
type SheetSpec struct {
	Path        string `toml:"path"`
	FrameWidth  int    `toml:"frame_width"`
	FrameHeight int    `toml:"frame_height"`
}

// AnimationID returns the file basename without extension.
func (s SheetSpec) AnimationID() string {
	base := path.Base(strings.ReplaceAll(s.Path, "\\", "/"))
	return strings.TrimSuffix(base, path.Ext(base))
}

// LayoutConfig holds configuration for frame placement
type LayoutConfig struct {
	Oversize         string `toml:"oversize"`
	ReserveEmptyRows bool   `toml:"reserve_empty_rows"`
	AlignTilesToRows bool   `toml:"align_tiles_to_rows"`
	StrictGrid       bool   `toml:"strict_grid"`
}

// OutputConfig holds encoder settings for the combined image
type OutputConfig struct {
	JPEGQuality  int  `toml:"jpeg_quality"`
	WebPLossless bool `toml:"webp_lossless"`
	WebPQuality  int  `toml:"webp_quality"`
}

// TileSourceConfig holds the fixed values written into the tile-source file
type TileSourceConfig struct {
	Extension      string `toml:"extension"`
	MountPrefix    string `toml:"mount_prefix"`
	PathToken      string `toml:"path_token"`
	ExtrudeBorders int    `toml:"extrude_borders"`
	CollisionGroup string `toml:"collision_group"`
	FPS            int    `toml:"fps"`
	Playback       string `toml:"playback"`
}

// PreviewConfig holds configuration for animated GIF previews
type PreviewConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

var playbackModes = []string{
	"PLAYBACK_NONE",
	"PLAYBACK_ONCE_FORWARD",
	"PLAYBACK_ONCE_BACKWARD",
	"PLAYBACK_ONCE_PINGPONG",
	"PLAYBACK_LOOP_FORWARD",
	"PLAYBACK_LOOP_BACKWARD",
	"PLAYBACK_LOOP_PINGPONG",
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Layout: LayoutConfig{
			Oversize: OversizeClip,
		},
		Output: OutputConfig{
			JPEGQuality:  95,
			WebPLossless: true,
			WebPQuality:  90,
		},
		TileSource: TileSourceConfig{
			Extension:      ".tilesource",
			MountPrefix:    "/asset",
			PathToken:      "asset",
			ExtrudeBorders: 2,
			CollisionGroup: "default",
			FPS:            12,
			Playback:       "PLAYBACK_LOOP_FORWARD",
		},
		Preview: PreviewConfig{
			Dir: "preview",
		},
	}
}

// LoadFromFile loads configuration from a TOML file on top of Default().
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "configuration file not found at %q", filename)
		}
		return nil, errors.Wrap(err, "failed to read config file")
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse config file %q", filename)
	}
	return cfg, nil
}

// Parse decodes TOML data over the defaults without validating it.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads and validates the configuration file.
func Load(filename string) (*Config, error) {
	cfg, err := LoadFromFile(filename)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid configuration in %q", filename)
	}
	return cfg, nil
}

// SaveToFile saves configuration to a TOML file
func (c *Config) SaveToFile(filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if strings.TrimSpace(c.OutputFile) == "" {
		return errors.New("output_file must be set")
	}

	if c.TargetFrameWidth <= 0 || c.TargetFrameHeight <= 0 {
		return errors.Errorf("target frame size must be positive, got %dx%d", c.TargetFrameWidth, c.TargetFrameHeight)
	}

	seen := make(map[string]int, len(c.Sheets))
	for i, s := range c.Sheets {
		if strings.TrimSpace(s.Path) == "" {
			return errors.Errorf("sheets[%d].path must be set", i)
		}
		if s.FrameWidth <= 0 || s.FrameHeight <= 0 {
			return errors.Errorf("sheets[%d] (%s): frame size must be positive, got %dx%d", i, s.Path, s.FrameWidth, s.FrameHeight)
		}
		id := s.AnimationID()
		if id == "" {
			return errors.Errorf("sheets[%d] (%s): empty animation id", i, s.Path)
		}
		if prev, ok := seen[id]; ok {
			return errors.Errorf("sheets[%d] (%s): animation id %q already used by sheets[%d]", i, s.Path, id, prev)
		}
		seen[id] = i
	}

	switch c.Layout.Oversize {
	case OversizeClip, OversizeFit, OversizeError:
	default:
		return errors.Errorf("layout.oversize must be one of clip, fit, error; got %q", c.Layout.Oversize)
	}

	if c.Output.JPEGQuality < 1 || c.Output.JPEGQuality > 100 {
		return errors.New("output.jpeg_quality must be between 1 and 100")
	}

	if c.Output.WebPQuality < 0 || c.Output.WebPQuality > 100 {
		return errors.New("output.webp_quality must be between 0 and 100")
	}

	if c.TileSource.FPS <= 0 {
		return errors.New("tilesource.fps must be positive")
	}

	if !strings.HasPrefix(c.TileSource.Extension, ".") || len(c.TileSource.Extension) < 2 {
		return errors.Errorf("tilesource.extension must start with a dot, got %q", c.TileSource.Extension)
	}

	if !isPlaybackMode(c.TileSource.Playback) {
		return errors.Errorf("tilesource.playback %q is not a known playback mode", c.TileSource.Playback)
	}

	if c.Preview.Enabled && strings.TrimSpace(c.Preview.Dir) == "" {
		return errors.New("preview.dir must be set when previews are enabled")
	}

	return nil
}

func isPlaybackMode(mode string) bool {
	for _, m := range playbackModes {
		if m == mode {
			return true
		}
	}
	return false
}
