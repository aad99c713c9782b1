package types

import "image"

// Size is a width/height pair in pixels
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// FrameCountRecord is the dimension-only analysis of one configured sheet
type FrameCountRecord struct {
	AnimationID string `json:"animation_id"`
	Path        string `json:"path"`
	FrameCount  int    `json:"frame_count"`
	Columns     int    `json:"columns"`
	Rows        int    `json:"rows"`
	// RemainderX and RemainderY are the pixels left over when the frame
	// size does not evenly divide the image.
	RemainderX int  `json:"remainder_x"`
	RemainderY int  `json:"remainder_y"`
	Missing    bool `json:"missing"`
}

// ProcessedFrame is one frame centered onto a transparent canvas of the
// target frame size.
type ProcessedFrame struct {
	Index int
	Image *image.NRGBA
}

// Row is the placement of one sheet in the combined image and the tile index space
type Row struct {
	// Index is the position of the sheet in the configuration.
	Index       int    `json:"index"`
	AnimationID string `json:"animation_id"`
	Path        string `json:"path"`
	FrameCount  int    `json:"frame_count"`
	// RowIndex is the pixel row in the combined image, -1 when the sheet
	// has no row.
	RowIndex int `json:"row_index"`
	// TileSlot is the row of tile indices owned by the sheet, -1 when it
	// owns none. StartTile is TileSlot*stride+1.
	TileSlot  int  `json:"tile_slot"`
	StartTile int  `json:"start_tile"`
	EndTile   int  `json:"end_tile"`
	Missing   bool `json:"missing"`
}

// HasTiles reports whether the row contributes an animation.
func (r Row) HasTiles() bool {
	return r.FrameCount > 0 && r.RowIndex >= 0
}
