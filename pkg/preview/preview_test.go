package preview

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/menta2k/spritetiler/pkg/types"
)

func framesOf(n int) []types.ProcessedFrame {
	frames := make([]types.ProcessedFrame, n)
	for i := range frames {
		img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
		for y := 2; y < 6; y++ {
			for x := 2; x < 6; x++ {
				img.SetNRGBA(x, y, color.NRGBA{uint8(60 * i), 200, 30, 255})
			}
		}
		frames[i] = types.ProcessedFrame{Index: i, Image: img}
	}
	return frames
}

func TestDelay(t *testing.T) {
	assert.Equal(t, 8, New("p", 12).Delay())
	assert.Equal(t, 4, New("p", 24).Delay())
	assert.Equal(t, 1, New("p", 500).Delay())
}

func TestEncode(t *testing.T) {
	w := New("preview", 12)

	var buf bytes.Buffer
	require.NoError(t, w.Encode(&buf, framesOf(3)))

	g, err := gif.DecodeAll(&buf)
	require.NoError(t, err)
	require.Len(t, g.Image, 3)
	assert.Equal(t, []int{8, 8, 8}, g.Delay)
	assert.Equal(t, 0, g.LoopCount)

	first := g.Image[0]
	_, _, _, a := first.At(0, 0).RGBA()
	assert.Zero(t, a, "background stays transparent")
	_, _, _, a = first.At(3, 3).RGBA()
	assert.Equal(t, uint32(0xffff), a)
}

func TestEncodeNoFrames(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, New("preview", 12).Encode(&buf, nil))
}

func TestWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "preview")
	w := New(dir, 12)

	path, err := w.Write("walk", framesOf(2))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "walk.gif"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	g, err := gif.DecodeAll(f)
	require.NoError(t, err)
	assert.Len(t, g.Image, 2)
}
