// Package layout assigns every configured sheet its place in the combined
// spritesheet and in the tile index space.
//
// Both the image pipeline and the tile-source pipeline derive their output
// from the same Layout. Pixel rows hold only sheets with frames, while by
// default every configured sheet owns one row of tile indices, so empty and
// missing sheets leave a gap of Stride unused tiles.
package layout

import "github.com/menta2k/spritetiler/pkg/types"

// Options controls row slot assignment
type Options struct {
	// ReserveEmptyRows keeps a transparent pixel row for sheets that
	// produced no frames.
	ReserveEmptyRows bool
	// AlignTilesToRows numbers tiles by pixel row instead of by sheet, so
	// sheets without a pixel row take no tile indices.
	AlignTilesToRows bool
}

// Layout is the placement of all sheets, in config order
type Layout struct {
	// Stride is the number of tile slots per row, the largest frame count.
	Stride int
	// Slots is the number of rows in the combined image.
	Slots int
	Rows  []types.Row
}

// Compute builds the layout from frame count records in config order.
func Compute(records []types.FrameCountRecord, opts Options) Layout {
	l := Layout{Rows: make([]types.Row, 0, len(records))}
	for _, rec := range records {
		if rec.FrameCount > l.Stride {
			l.Stride = rec.FrameCount
		}
	}

	for i, rec := range records {
		row := types.Row{
			Index:       i,
			AnimationID: rec.AnimationID,
			Path:        rec.Path,
			FrameCount:  rec.FrameCount,
			RowIndex:    -1,
			TileSlot:    i,
			Missing:     rec.Missing,
		}
		if rec.FrameCount > 0 || opts.ReserveEmptyRows {
			row.RowIndex = l.Slots
			l.Slots++
		}
		if opts.AlignTilesToRows {
			row.TileSlot = row.RowIndex
		}
		if row.TileSlot >= 0 {
			row.StartTile = row.TileSlot*l.Stride + 1
			row.EndTile = row.StartTile + rec.FrameCount - 1
		}
		l.Rows = append(l.Rows, row)
	}

	// A layout of empty sheets only has no pixels and no tiles.
	if l.Stride == 0 {
		l.Slots = 0
		for i := range l.Rows {
			l.Rows[i].RowIndex = -1
			l.Rows[i].TileSlot = -1
			l.Rows[i].StartTile = 0
			l.Rows[i].EndTile = 0
		}
	}
	return l
}

// Empty reports whether the combined image would have no pixels.
func (l Layout) Empty() bool {
	return l.Stride == 0 || l.Slots == 0
}

// Width returns the combined image width for the given frame width.
func (l Layout) Width(frameWidth int) int {
	return l.Stride * frameWidth
}

// Height returns the combined image height for the given frame height.
func (l Layout) Height(frameHeight int) int {
	return l.Slots * frameHeight
}

// Animations returns the rows that carry at least one frame.
func (l Layout) Animations() []types.Row {
	var out []types.Row
	for _, r := range l.Rows {
		if r.HasTiles() {
			out = append(out, r)
		}
	}
	return out
}
