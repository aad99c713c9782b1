// Package tilesource renders Defold tile-source descriptions for a
// combined spritesheet.
package tilesource

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/pkg/errors"

	"github.com/menta2k/spritetiler/internal/config"
	"github.com/menta2k/spritetiler/internal/utils"
	"github.com/menta2k/spritetiler/pkg/layout"
)

// Emitter writes tile-source files
type Emitter struct {
	opts       config.TileSourceConfig
	tileWidth  int
	tileHeight int
}

// New creates an Emitter from the loaded configuration
func New(cfg *config.Config) *Emitter {
	return &Emitter{
		opts:       cfg.TileSource,
		tileWidth:  cfg.TargetFrameWidth,
		tileHeight: cfg.TargetFrameHeight,
	}
}

// ImagePath rewrites an output file path into the engine's virtual mount:
// everything up to and including the last occurrence of the path token is
// replaced with the mount prefix.
func (e *Emitter) ImagePath(outputFile string) string {
	p := strings.ReplaceAll(outputFile, "\\", "/")
	if e.opts.PathToken != "" {
		if i := strings.LastIndex(p, e.opts.PathToken); i >= 0 {
			return e.opts.MountPrefix + p[i+len(e.opts.PathToken):]
		}
	}
	return path.Join(e.opts.MountPrefix, path.Clean("/"+p))
}

// Path returns the tile-source file that accompanies outputFile.
func (e *Emitter) Path(outputFile string) string {
	return utils.ReplaceExtension(outputFile, e.opts.Extension)
}

// Render writes the tile-source text for l to w.
func (e *Emitter) Render(w io.Writer, outputFile string, l layout.Layout) error {
	var b bytes.Buffer

	fmt.Fprintf(&b, "image: %q\n", e.ImagePath(outputFile))
	fmt.Fprintf(&b, "tile_width: %d\n", e.tileWidth)
	fmt.Fprintf(&b, "tile_height: %d\n", e.tileHeight)
	fmt.Fprintf(&b, "extrude_borders: %d\n", e.opts.ExtrudeBorders)
	fmt.Fprintf(&b, "collision_groups: %q\n", e.opts.CollisionGroup)

	for _, row := range l.Animations() {
		b.WriteString("animations {\n")
		fmt.Fprintf(&b, "  id: %q\n", row.AnimationID)
		fmt.Fprintf(&b, "  start_tile: %d\n", row.StartTile)
		fmt.Fprintf(&b, "  end_tile: %d\n", row.EndTile)
		fmt.Fprintf(&b, "  fps: %d\n", e.opts.FPS)
		fmt.Fprintf(&b, "  playback: %s\n", e.opts.Playback)
		b.WriteString("}\n")
	}

	_, err := w.Write(b.Bytes())
	return err
}

// Write renders the tile-source for l and atomically writes it next to
// outputFile. It returns the path written.
func (e *Emitter) Write(outputFile string, l layout.Layout) (string, error) {
	var buf bytes.Buffer
	if err := e.Render(&buf, outputFile, l); err != nil {
		return "", errors.Wrap(err, "failed to render tile source")
	}

	target := e.Path(outputFile)
	if err := utils.WriteFileAtomic(target, buf.Bytes(), 0644); err != nil {
		return "", errors.Wrapf(err, "failed to write tile source %s", target)
	}
	return target, nil
}
