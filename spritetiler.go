// Package spritetiler converts a set of source spritesheets into one
// standardized combined spritesheet and a matching Defold tile-source file.
//
// Basic usage:
//
//	package main
//
//	import (
//		"log"
//
//		"github.com/menta2k/spritetiler"
//	)
//
//	func main() {
//		cfg, err := spritetiler.LoadConfig("config.toml")
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		tiler := spritetiler.New(cfg)
//		if _, err := tiler.BuildSheet(); err != nil {
//			log.Fatal(err)
//		}
//		if _, err := tiler.GenerateTileSource(); err != nil {
//			log.Fatal(err)
//		}
//	}
//
// The package consists of these components:
//
//  1. Analyzer (pkg/analyzer): counts frames per sheet from image headers
//  2. Layout (pkg/layout): assigns pixel rows and tile ranges, shared by both outputs
//  3. Extractor (pkg/extractor): slices sheets and centers frames on the target size
//  4. Compositor (pkg/compositor): assembles the combined image, one sheet per row
//  5. Tile source (pkg/tilesource): writes the engine description of the animations
//  6. Preview (pkg/preview): optional animated GIF per animation
//
// Every frame of a sheet is centered onto a transparent canvas of the
// target frame size. Sheets with frames are laid out one per row in config
// order, and each row is as wide as the sheet with the most frames. Tile
// indices in the tile source use that same row stride, with one row of
// indices per configured sheet.
package spritetiler

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/menta2k/spritetiler/internal/config"
	"github.com/menta2k/spritetiler/pkg/analyzer"
	"github.com/menta2k/spritetiler/pkg/compositor"
	"github.com/menta2k/spritetiler/pkg/extractor"
	"github.com/menta2k/spritetiler/pkg/layout"
	"github.com/menta2k/spritetiler/pkg/preview"
	"github.com/menta2k/spritetiler/pkg/processing"
	"github.com/menta2k/spritetiler/pkg/tilesource"
	"github.com/menta2k/spritetiler/pkg/types"
)

// Version of the spritetiler library
const Version = "1.0.0"

// Config is the pipeline configuration, see the config.toml format.
type Config = config.Config

// SheetSpec is one configured source sheet.
type SheetSpec = config.SheetSpec

// DefaultConfig returns a configuration with default values and no sheets.
func DefaultConfig() *Config {
	return config.Default()
}

// LoadConfig reads and validates a TOML configuration file.
func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}

// Tiler runs the spritesheet and tile-source pipelines for one configuration
type Tiler struct {
	cfg        *config.Config
	log        zerolog.Logger
	processor  *processing.Processor
	analyzer   *analyzer.SheetAnalyzer
	extractor  *extractor.FrameExtractor
	compositor *compositor.SheetCompositor
	emitter    *tilesource.Emitter
	preview    *preview.Writer
}

// Option configures a Tiler
type Option func(*Tiler)

// WithLogger sets the logger used by all pipeline stages
func WithLogger(log zerolog.Logger) Option {
	return func(t *Tiler) {
		t.log = log
	}
}

// New creates a new Tiler for a validated configuration
func New(cfg *config.Config, opts ...Option) *Tiler {
	t := &Tiler{cfg: cfg, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(t)
	}

	target := types.Size{Width: cfg.TargetFrameWidth, Height: cfg.TargetFrameHeight}
	t.processor = processing.NewProcessorWithOptions(processing.Options{
		JPEGQuality:  cfg.Output.JPEGQuality,
		WebPLossless: cfg.Output.WebPLossless,
		WebPQuality:  cfg.Output.WebPQuality,
	})
	t.analyzer = analyzer.New(t.processor, t.log)
	t.analyzer.SetStrict(cfg.Layout.StrictGrid)
	t.extractor = extractor.NewWithPolicy(target, cfg.Layout.Oversize)
	t.compositor = compositor.New(target, t.log)
	t.emitter = tilesource.New(cfg)
	if cfg.Preview.Enabled {
		t.preview = preview.New(cfg.Preview.Dir, cfg.TileSource.FPS)
	}
	return t
}

// Result describes the outcome of BuildSheet
type Result struct {
	Records []types.FrameCountRecord
	Layout  layout.Layout
	// ImagePath is empty when no sheet produced frames and nothing was written.
	ImagePath string
	Width     int
	Height    int
	Previews  []string
}

// Analyze counts the frames of every sheet and computes the shared layout.
func (t *Tiler) Analyze() ([]types.FrameCountRecord, layout.Layout, error) {
	if len(t.cfg.Sheets) == 0 {
		t.log.Warn().Msg("configuration lists no sheets")
	}

	records, err := t.analyzer.AnalyzeAll(t.cfg.Sheets)
	if err != nil {
		return nil, layout.Layout{}, err
	}
	l := layout.Compute(records, layout.Options{
		ReserveEmptyRows: t.cfg.Layout.ReserveEmptyRows,
		AlignTilesToRows: t.cfg.Layout.AlignTilesToRows,
	})
	t.log.Info().Int("frames_per_row", l.Stride).Int("rows", l.Slots).Msg("calculated atlas layout")
	return records, l, nil
}

// BuildSheet slices every sheet, assembles the combined image and writes it
// to the configured output file.
func (t *Tiler) BuildSheet() (*Result, error) {
	records, l, err := t.Analyze()
	if err != nil {
		return nil, err
	}
	res := &Result{Records: records, Layout: l}

	source := func(row types.Row) ([]types.ProcessedFrame, error) {
		sheet := t.cfg.Sheets[row.Index]
		t.log.Info().Str("path", sheet.Path).Msg("processing sheet")

		img, err := t.processor.LoadImage(sheet.Path)
		if err != nil {
			return nil, err
		}
		frames, err := t.extractor.Extract(img, sheet)
		if err != nil {
			return nil, err
		}
		if t.preview != nil {
			path, err := t.preview.Write(row.AnimationID, frames)
			if err != nil {
				return nil, err
			}
			res.Previews = append(res.Previews, path)
			t.log.Debug().Str("path", path).Msg("wrote preview")
		}
		return frames, nil
	}

	canvas, err := t.compositor.Write(l, source, t.processor, t.cfg.OutputFile)
	if errors.Is(err, compositor.ErrNoRows) {
		t.log.Warn().Msg("no sheet produced any frames; combined image not written")
		return res, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to build spritesheet")
	}

	res.ImagePath = t.cfg.OutputFile
	res.Width, res.Height = canvas.Bounds().Dx(), canvas.Bounds().Dy()
	return res, nil
}

// GenerateTileSource analyzes the sheets and writes the tile-source file
// next to the configured output file. It returns the path written.
func (t *Tiler) GenerateTileSource() (string, error) {
	_, l, err := t.Analyze()
	if err != nil {
		return "", err
	}
	path, err := t.emitter.Write(t.cfg.OutputFile, l)
	if err != nil {
		return "", err
	}
	t.log.Info().Str("path", path).Int("animations", len(l.Animations())).Msg("tile source generated")
	return path, nil
}

// Run builds the combined image and then the tile source.
func (t *Tiler) Run() (*Result, string, error) {
	res, err := t.BuildSheet()
	if err != nil {
		return nil, "", err
	}
	path, err := t.GenerateTileSource()
	if err != nil {
		return res, "", err
	}
	return res, path, nil
}

// LoadAndRun loads the configuration at path and runs both pipelines.
func LoadAndRun(path string, opts ...Option) (*Result, string, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return New(cfg, opts...).Run()
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}
