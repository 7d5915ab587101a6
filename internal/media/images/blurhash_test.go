package images

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestComputeBlurHash(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 200, 120))
	for y := 0; y < 120; y++ {
		for x := 0; x < 200; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}

	hash, err := ComputeBlurHash(encodePNG(t, img))
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
}

func TestComputeBlurHash_InvalidData(t *testing.T) {
	_, err := ComputeBlurHash([]byte("not an image"))
	assert.Error(t, err)
}

func TestResizeForBlurHash_PreservesAspect(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 640, 320))

	resized := resizeForBlurHash(img)
	bounds := resized.Bounds()

	assert.Equal(t, 64, bounds.Dx())
	assert.Equal(t, 32, bounds.Dy())
}

func TestResizeForBlurHash_SmallImageUntouched(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))

	resized := resizeForBlurHash(img)
	assert.Equal(t, img.Bounds(), resized.Bounds())
}
