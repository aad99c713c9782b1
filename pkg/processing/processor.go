package processing

import (
	"bytes"
	"image"
	"image/png"
	"io"
	"os"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/menta2k/spritetiler/internal/utils"
	"github.com/menta2k/spritetiler/pkg/types"
)

// ErrUnsupportedFormat is returned when an output extension has no encoder.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Options controls encoder settings
type Options struct {
	JPEGQuality  int
	WebPLossless bool
	WebPQuality  int
}

// Processor handles image decoding and encoding
type Processor struct {
	opts Options
}

// NewProcessor creates a new image processor with default encoder settings
func NewProcessor() *Processor {
	return &Processor{opts: Options{JPEGQuality: 95, WebPLossless: true, WebPQuality: 90}}
}

// NewProcessorWithOptions creates a new image processor with custom encoder settings
func NewProcessorWithOptions(opts Options) *Processor {
	return &Processor{opts: opts}
}

// LoadImage loads an image from a file path with WebP support
func (p *Processor) LoadImage(path string) (image.Image, error) {
	// Try imaging.Open (registered decoders)
	img, openErr := imaging.Open(path)
	if openErr == nil {
		return img, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}
	defer f.Close()

	// Fallback: explicit WebP decode
	if strings.EqualFold(utils.GetFileExtension(path), "webp") {
		if img, err := webp.Decode(f); err == nil {
			return img, nil
		}
	}
	return nil, errors.Wrapf(openErr, "failed to decode %s", path)
}

// DecodeDimensions reads only the image header and returns its pixel size.
func (p *Processor) DecodeDimensions(path string) (types.Size, error) {
	f, err := os.Open(path)
	if err != nil {
		return types.Size{}, errors.Wrapf(err, "failed to open %s", path)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		if _, serr := f.Seek(0, io.SeekStart); serr == nil {
			if wcfg, werr := webp.DecodeConfig(f); werr == nil {
				return types.Size{Width: wcfg.Width, Height: wcfg.Height}, nil
			}
		}
		return types.Size{}, errors.Wrapf(err, "failed to read image header of %s", path)
	}
	return types.Size{Width: cfg.Width, Height: cfg.Height}, nil
}

// Encode writes img to w in the format implied by the extension of filename.
func (p *Processor) Encode(w io.Writer, img image.Image, filename string) error {
	switch ext := utils.GetFileExtension(filename); ext {
	case "webp":
		opts := &webp.Options{Lossless: p.opts.WebPLossless, Quality: float32(p.opts.WebPQuality), Exact: true}
		return webp.Encode(w, img, opts)
	case "png":
		return imaging.Encode(w, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression))
	case "jpg", "jpeg":
		return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(p.opts.JPEGQuality))
	default:
		format, err := imaging.FormatFromExtension(ext)
		if err != nil {
			return errors.Wrapf(ErrUnsupportedFormat, "%q", filename)
		}
		return imaging.Encode(w, img, format)
	}
}

// SaveImage encodes img and atomically replaces path with the result.
func (p *Processor) SaveImage(img image.Image, path string) error {
	var buf bytes.Buffer
	if err := p.Encode(&buf, img, path); err != nil {
		return errors.Wrapf(err, "failed to encode %s", path)
	}
	if err := utils.WriteFileAtomic(path, buf.Bytes(), 0644); err != nil {
		return errors.Wrapf(err, "failed to save %s", path)
	}
	return nil
}
