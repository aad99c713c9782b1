package analyzer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/menta2k/spritetiler/internal/config"
	"github.com/menta2k/spritetiler/pkg/types"
)

// fakeReader returns canned sizes keyed by path
type fakeReader map[string]types.Size

func (f fakeReader) DecodeDimensions(path string) (types.Size, error) {
	size, ok := f[path]
	if !ok {
		return types.Size{}, errors.New("corrupt header")
	}
	return size, nil
}

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte{0}, 0644))
	return path
}

func TestGrid(t *testing.T) {
	tests := []struct {
		name  string
		size  types.Size
		sheet config.SheetSpec
		want  types.FrameCountRecord
	}{
		{
			name:  "exact",
			size:  types.Size{Width: 96, Height: 32},
			sheet: config.SheetSpec{Path: "walk.png", FrameWidth: 24, FrameHeight: 16},
			want:  types.FrameCountRecord{AnimationID: "walk", Path: "walk.png", FrameCount: 8, Columns: 4, Rows: 2},
		},
		{
			name:  "remainder dropped",
			size:  types.Size{Width: 100, Height: 35},
			sheet: config.SheetSpec{Path: "run.png", FrameWidth: 24, FrameHeight: 16},
			want:  types.FrameCountRecord{AnimationID: "run", Path: "run.png", FrameCount: 8, Columns: 4, Rows: 2, RemainderX: 4, RemainderY: 3},
		},
		{
			name:  "smaller than one frame",
			size:  types.Size{Width: 10, Height: 10},
			sheet: config.SheetSpec{Path: "tiny.png", FrameWidth: 16, FrameHeight: 16},
			want:  types.FrameCountRecord{AnimationID: "tiny", Path: "tiny.png", RemainderX: 10, RemainderY: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Grid(tt.size, tt.sheet))
		})
	}
}

func TestAnalyzeAll(t *testing.T) {
	dir := t.TempDir()
	walk := touch(t, dir, "walk.png")
	idle := touch(t, dir, "idle.png")
	missing := filepath.Join(dir, "missing.png")

	reader := fakeReader{
		walk: {Width: 128, Height: 32},
		idle: {Width: 64, Height: 64},
	}
	a := New(reader, zerolog.Nop())

	records, err := a.AnalyzeAll([]config.SheetSpec{
		{Path: walk, FrameWidth: 32, FrameHeight: 32},
		{Path: missing, FrameWidth: 32, FrameHeight: 32},
		{Path: idle, FrameWidth: 32, FrameHeight: 32},
	})
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "walk", records[0].AnimationID)
	assert.Equal(t, 4, records[0].FrameCount)

	assert.Equal(t, "missing", records[1].AnimationID)
	assert.True(t, records[1].Missing)
	assert.Zero(t, records[1].FrameCount)

	assert.Equal(t, "idle", records[2].AnimationID)
	assert.Equal(t, 4, records[2].FrameCount)
}

func TestAnalyzeSheetDecodeFailureIsFatal(t *testing.T) {
	dir := t.TempDir()
	broken := touch(t, dir, "broken.png")
	a := New(fakeReader{}, zerolog.Nop())
	a.SetStrict(true)

	_, err := a.AnalyzeAll([]config.SheetSpec{{Path: broken, FrameWidth: 8, FrameHeight: 8}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.png")
}

func TestAnalyzeSheetUnreachableFileIsFatal(t *testing.T) {
	dir := t.TempDir()
	notDir := touch(t, dir, "locked")
	sheet := filepath.Join(notDir, "walk.png")
	a := New(fakeReader{sheet: {Width: 64, Height: 32}}, zerolog.Nop())

	rec, err := a.AnalyzeSheet(config.SheetSpec{Path: sheet, FrameWidth: 32, FrameHeight: 32})
	require.Error(t, err)
	assert.False(t, rec.Missing, "only a not-found file counts as missing")
	assert.Contains(t, err.Error(), "walk.png")
}

func TestAnalyzeSheetDirectoryIsFatal(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "walk.png")
	require.NoError(t, os.Mkdir(dir, 0755))
	a := New(fakeReader{}, zerolog.Nop())

	_, err := a.AnalyzeSheet(config.SheetSpec{Path: dir, FrameWidth: 32, FrameHeight: 32})
	assert.Error(t, err)
}
