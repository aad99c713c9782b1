// Package analyzer counts the frames of source sheets from their image headers.
package analyzer

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/menta2k/spritetiler/internal/config"
	"github.com/menta2k/spritetiler/internal/utils"
	"github.com/menta2k/spritetiler/pkg/types"
)

// DimensionReader reads an image's size without decoding its pixels
type DimensionReader interface {
	DecodeDimensions(path string) (types.Size, error)
}

// SheetAnalyzer counts the frames of each configured sheet from image headers
type SheetAnalyzer struct {
	reader DimensionReader
	log    zerolog.Logger
	strict bool
}

// New creates a new SheetAnalyzer
func New(reader DimensionReader, log zerolog.Logger) *SheetAnalyzer {
	return &SheetAnalyzer{reader: reader, log: log}
}

// SetStrict makes uneven grids log at warning level instead of debug.
func (a *SheetAnalyzer) SetStrict(strict bool) {
	a.strict = strict
}

// Grid computes the frame grid of an image. Remainder pixels are dropped.
func Grid(size types.Size, sheet config.SheetSpec) types.FrameCountRecord {
	cols := size.Width / sheet.FrameWidth
	rows := size.Height / sheet.FrameHeight
	return types.FrameCountRecord{
		AnimationID: sheet.AnimationID(),
		Path:        sheet.Path,
		FrameCount:  cols * rows,
		Columns:     cols,
		Rows:        rows,
		RemainderX:  size.Width % sheet.FrameWidth,
		RemainderY:  size.Height % sheet.FrameHeight,
	}
}

// AnalyzeSheet returns the frame count record for one sheet. A missing
// source file yields a record with Missing set and no error; any other
// failure to reach the file is returned.
func (a *SheetAnalyzer) AnalyzeSheet(sheet config.SheetSpec) (types.FrameCountRecord, error) {
	exists, err := utils.FileExists(sheet.Path)
	if err != nil {
		return types.FrameCountRecord{}, errors.Wrapf(err, "failed to analyze %s", sheet.Path)
	}
	if !exists {
		a.log.Warn().Str("path", sheet.Path).Msg("skipping missing file")
		return types.FrameCountRecord{
			AnimationID: sheet.AnimationID(),
			Path:        sheet.Path,
			Missing:     true,
		}, nil
	}

	size, err := a.reader.DecodeDimensions(sheet.Path)
	if err != nil {
		return types.FrameCountRecord{}, errors.Wrapf(err, "failed to analyze %s", sheet.Path)
	}

	rec := Grid(size, sheet)
	if rec.RemainderX != 0 || rec.RemainderY != 0 {
		ev := a.log.Debug()
		if a.strict {
			ev = a.log.Warn()
		}
		ev.Str("path", sheet.Path).
			Int("remainder_x", rec.RemainderX).
			Int("remainder_y", rec.RemainderY).
			Msgf("%dx%d is not a multiple of the %dx%d frame size; remainder ignored",
				size.Width, size.Height, sheet.FrameWidth, sheet.FrameHeight)
	}
	if rec.FrameCount == 0 {
		a.log.Warn().Str("path", sheet.Path).Msg("sheet is smaller than one frame")
	}

	a.log.Info().Str("id", rec.AnimationID).Int("frames", rec.FrameCount).Msg("found sheet")
	return rec, nil
}

// AnalyzeAll analyzes every sheet in config order.
func (a *SheetAnalyzer) AnalyzeAll(sheets []config.SheetSpec) ([]types.FrameCountRecord, error) {
	records := make([]types.FrameCountRecord, 0, len(sheets))
	for _, sheet := range sheets {
		rec, err := a.AnalyzeSheet(sheet)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}
