package compositor

import (
	"image"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/menta2k/spritetiler/pkg/layout"
	"github.com/menta2k/spritetiler/pkg/types"
)

var (
	// ErrNoRows is returned when no sheet produced a frame.
	ErrNoRows = errors.New("no sheet produced any frames")
	// ErrFrameCountMismatch is returned when extraction disagrees with the layout.
	ErrFrameCountMismatch = errors.New("extracted frame count does not match layout")
)

// FrameSource produces the processed frames of one laid out sheet.
type FrameSource func(row types.Row) ([]types.ProcessedFrame, error)

// ImageSaver writes an image to a path
type ImageSaver interface {
	SaveImage(img image.Image, path string) error
}

// SheetCompositor assembles processed frames into one combined spritesheet,
// one sheet per row.
type SheetCompositor struct {
	frame types.Size
	log   zerolog.Logger
}

// New creates a SheetCompositor for the given target frame size
func New(frame types.Size, log zerolog.Logger) *SheetCompositor {
	return &SheetCompositor{frame: frame, log: log}
}

// NewCanvas allocates the transparent combined image for l.
func (c *SheetCompositor) NewCanvas(l layout.Layout) *image.NRGBA {
	return image.NewNRGBA(image.Rect(0, 0, l.Width(c.frame.Width), l.Height(c.frame.Height)))
}

// Place copies the frames of row into canvas, frame f at column f of the
// row's pixel row. Pixels are overwritten, not blended.
func (c *SheetCompositor) Place(canvas *image.NRGBA, row types.Row, frames []types.ProcessedFrame) error {
	if row.RowIndex < 0 {
		return errors.Errorf("%s has no row in the layout", row.AnimationID)
	}
	if len(frames) != row.FrameCount {
		return errors.Wrapf(ErrFrameCountMismatch, "%s: layout has %d frames, extracted %d",
			row.AnimationID, row.FrameCount, len(frames))
	}

	for f, frame := range frames {
		blit(canvas, image.Pt(f*c.frame.Width, row.RowIndex*c.frame.Height), frame.Image)
	}
	return nil
}

// blit copies src into dst at pt byte for byte. Going through color
// conversion would lose channel data of low-alpha pixels.
func blit(dst *image.NRGBA, pt image.Point, src *image.NRGBA) {
	r := image.Rectangle{Min: pt, Max: pt.Add(src.Rect.Size())}.Intersect(dst.Rect)
	if r.Empty() {
		return
	}
	n := r.Dx() * 4
	for y := r.Min.Y; y < r.Max.Y; y++ {
		di := dst.PixOffset(r.Min.X, y)
		si := src.PixOffset(src.Rect.Min.X+r.Min.X-pt.X, src.Rect.Min.Y+y-pt.Y)
		copy(dst.Pix[di:di+n], src.Pix[si:si+n])
	}
}

// Compose builds the combined image for l, pulling each sheet's frames from
// source one row at a time.
func (c *SheetCompositor) Compose(l layout.Layout, source FrameSource) (*image.NRGBA, error) {
	if l.Empty() {
		return nil, ErrNoRows
	}

	canvas := c.NewCanvas(l)
	c.log.Info().
		Int("width", canvas.Bounds().Dx()).
		Int("height", canvas.Bounds().Dy()).
		Int("frames_per_row", l.Stride).
		Msg("assembling final spritesheet")

	for _, row := range l.Animations() {
		frames, err := source(row)
		if err != nil {
			return nil, err
		}
		if err := c.Place(canvas, row, frames); err != nil {
			return nil, err
		}
		c.log.Debug().Str("id", row.AnimationID).Int("row", row.RowIndex).Int("frames", len(frames)).Msg("placed row")
	}
	return canvas, nil
}

// Write composes the combined image and saves it to path.
func (c *SheetCompositor) Write(l layout.Layout, source FrameSource, saver ImageSaver, path string) (*image.NRGBA, error) {
	canvas, err := c.Compose(l, source)
	if err != nil {
		return nil, err
	}
	if err := saver.SaveImage(canvas, path); err != nil {
		return nil, err
	}
	c.log.Info().Str("path", path).Msg("final spritesheet saved")
	return canvas, nil
}
