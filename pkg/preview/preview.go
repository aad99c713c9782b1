// Package preview renders animated GIF previews of extracted animations.
package preview

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"io"
	"path/filepath"

	"github.com/andybons/gogif"
	"github.com/pkg/errors"

	"github.com/menta2k/spritetiler/internal/utils"
	"github.com/menta2k/spritetiler/pkg/types"
)

// Writer encodes frame lists as looping GIFs
type Writer struct {
	dir   string
	delay int
}

// New creates a Writer that stores previews in dir, played at fps.
func New(dir string, fps int) *Writer {
	delay := 100 / fps
	if delay < 1 {
		delay = 1
	}
	return &Writer{dir: dir, delay: delay}
}

// Delay returns the per-frame delay in hundredths of a second.
func (w *Writer) Delay() int {
	return w.delay
}

// Path returns the preview file for an animation id.
func (w *Writer) Path(id string) string {
	return filepath.Join(w.dir, id+".gif")
}

// Encode writes frames to out as an animated GIF that loops forever.
func (w *Writer) Encode(out io.Writer, frames []types.ProcessedFrame) error {
	if len(frames) == 0 {
		return errors.New("no frames to encode")
	}

	g := gif.GIF{LoopCount: 0, BackgroundIndex: 0}
	quantizer := gogif.MedianCutQuantizer{NumColor: 255} // Up to 255 colors plus 1 space for transparency.
	for _, frame := range frames {
		img := frame.Image
		pal := image.NewPaletted(img.Bounds(), nil)
		quantizer.Quantize(pal, img.Bounds(), img, image.Point{})

		// Index 0 is transparent so untouched pixels stay see-through.
		withAlpha := image.NewPaletted(img.Bounds(), append(color.Palette{color.Transparent}, pal.Palette...))
		draw.Draw(withAlpha, img.Bounds(), img, img.Bounds().Min, draw.Over)

		g.Image = append(g.Image, withAlpha)
		g.Delay = append(g.Delay, w.delay)
		g.Disposal = append(g.Disposal, gif.DisposalBackground)
	}
	return gif.EncodeAll(out, &g)
}

// Write encodes frames to the preview file of id and returns its path.
func (w *Writer) Write(id string, frames []types.ProcessedFrame) (string, error) {
	var buf bytes.Buffer
	if err := w.Encode(&buf, frames); err != nil {
		return "", errors.Wrapf(err, "failed to encode preview for %s", id)
	}
	path := w.Path(id)
	if err := utils.WriteFileAtomic(path, buf.Bytes(), 0644); err != nil {
		return "", errors.Wrapf(err, "failed to write preview %s", path)
	}
	return path, nil
}
