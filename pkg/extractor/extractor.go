package extractor

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"

	"github.com/menta2k/spritetiler/internal/config"
	"github.com/menta2k/spritetiler/pkg/types"
)

// ErrFrameTooLarge is returned under the error oversize policy when a
// native frame does not fit the target frame size.
var ErrFrameTooLarge = errors.New("frame larger than target frame size")

// FrameExtractor slices sheets into frames of a uniform target size
type FrameExtractor struct {
	target   types.Size
	oversize string
}

// New creates a FrameExtractor using the clip oversize policy
func New(target types.Size) *FrameExtractor {
	return &FrameExtractor{target: target, oversize: config.OversizeClip}
}

// NewWithPolicy creates a FrameExtractor with a specific oversize policy
func NewWithPolicy(target types.Size, oversize string) *FrameExtractor {
	return &FrameExtractor{target: target, oversize: oversize}
}

// Extract slices img into frameWidth x frameHeight cells in row-major
// order and centers each onto a transparent canvas of the target size.
// Remainder pixels past the last full row or column are ignored.
func (e *FrameExtractor) Extract(img image.Image, sheet config.SheetSpec) ([]types.ProcessedFrame, error) {
	fw, fh := sheet.FrameWidth, sheet.FrameHeight
	if fw <= 0 || fh <= 0 {
		return nil, errors.Errorf("invalid frame size %dx%d", fw, fh)
	}
	if e.oversize == config.OversizeError && (fw > e.target.Width || fh > e.target.Height) {
		return nil, errors.Wrapf(ErrFrameTooLarge, "%s: %dx%d frame, %dx%d target",
			sheet.Path, fw, fh, e.target.Width, e.target.Height)
	}

	bounds := img.Bounds()
	cols := bounds.Dx() / fw
	rows := bounds.Dy() / fh

	frames := make([]types.ProcessedFrame, 0, cols*rows)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			cell := image.Rect(0, 0, fw, fh).Add(bounds.Min).Add(image.Pt(x*fw, y*fh))
			frames = append(frames, types.ProcessedFrame{
				Index: y*cols + x,
				Image: e.centerCell(img, cell),
			})
		}
	}
	return frames, nil
}

// CenterFrame centers a single native-size frame onto a target canvas.
func (e *FrameExtractor) CenterFrame(frame image.Image) (*image.NRGBA, error) {
	b := frame.Bounds()
	if e.oversize == config.OversizeError && (b.Dx() > e.target.Width || b.Dy() > e.target.Height) {
		return nil, errors.Wrapf(ErrFrameTooLarge, "%dx%d frame, %dx%d target",
			b.Dx(), b.Dy(), e.target.Width, e.target.Height)
	}
	return e.centerCell(frame, b), nil
}

func (e *FrameExtractor) centerCell(img image.Image, cell image.Rectangle) *image.NRGBA {
	canvas := imaging.New(e.target.Width, e.target.Height, color.Transparent)

	if e.oversize == config.OversizeFit && (cell.Dx() > e.target.Width || cell.Dy() > e.target.Height) {
		scaled := imaging.Fit(imaging.Crop(img, cell), e.target.Width, e.target.Height, imaging.NearestNeighbor)
		pt := image.Pt((e.target.Width-scaled.Bounds().Dx())/2, (e.target.Height-scaled.Bounds().Dy())/2)
		return imaging.Paste(canvas, scaled, pt)
	}

	// Clip on the source side: the kept window is what a paste at a
	// negative offset would leave on the canvas.
	sx, dx := clipAxis(cell.Dx(), e.target.Width)
	sy, dy := clipAxis(cell.Dy(), e.target.Height)
	w, h := minInt(cell.Dx(), e.target.Width), minInt(cell.Dy(), e.target.Height)

	src := image.Rect(sx, sy, sx+w, sy+h).Add(cell.Min)
	return imaging.Paste(canvas, imaging.Crop(img, src), image.Pt(dx, dy))
}

// clipAxis returns the source and destination offsets for centering a
// span of length n inside target.
func clipAxis(n, target int) (src, dst int) {
	if n > target {
		return (n - target) / 2, 0
	}
	return 0, (target - n) / 2
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
