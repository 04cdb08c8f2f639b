package thumbnail

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodedPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 0, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestRenderThumbnailResizesWithinBounds(t *testing.T) {
	src := encodedPNG(t, 800, 400)

	out, err := RenderThumbnail(src, 100, 100)
	require.NoError(t, err)

	img, _, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)

	bounds := img.Bounds()
	assert.LessOrEqual(t, bounds.Dx(), 100)
	assert.LessOrEqual(t, bounds.Dy(), 100)
	// aspect ratio preserved: original is 2:1
	assert.Equal(t, bounds.Dx(), 2*bounds.Dy())
}

func TestRenderThumbnailRejectsGarbage(t *testing.T) {
	_, err := RenderThumbnail([]byte("not an image"), 100, 100)
	assert.Error(t, err)
}
