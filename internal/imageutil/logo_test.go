package imageutil

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeTestImage(t *testing.T, w, h int, asJPEG bool) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	if asJPEG {
		require.NoError(t, jpeg.Encode(&buf, img, nil))
	} else {
		require.NoError(t, png.Encode(&buf, img))
	}
	return buf.Bytes()
}

func TestPrepareLogoKeepsSmallImages(t *testing.T) {
	logo, err := PrepareLogo(encodeTestImage(t, 40, 20, false), nil)
	require.NoError(t, err)
	assert.Equal(t, 40, logo.Width)
	assert.Equal(t, 20, logo.Height)

	cfg, err := png.DecodeConfig(bytes.NewReader(logo.PNG))
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Width)
}

func TestPrepareLogoDownscalesPreservingAspect(t *testing.T) {
	logo, err := PrepareLogo(encodeTestImage(t, 200, 100, true), &ResizeConfig{MaxDimension: 50})
	require.NoError(t, err)
	assert.Equal(t, 50, logo.Width)
	assert.Equal(t, 25, logo.Height)

	// JPEG input comes out as PNG
	_, format, err := image.DecodeConfig(bytes.NewReader(logo.PNG))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
}

func TestPrepareLogoRejectsGarbage(t *testing.T) {
	_, err := PrepareLogo([]byte("not an image"), nil)
	assert.Error(t, err)

	_, err = PrepareLogo(nil, nil)
	assert.ErrorIs(t, err, ErrEmptyImage)
}

func TestPrepareLogoReader(t *testing.T) {
	logo, err := PrepareLogoReader(bytes.NewReader(encodeTestImage(t, 10, 30, false)), nil)
	require.NoError(t, err)
	assert.Equal(t, 10, logo.Width)

	_, err = PrepareLogoReader(strings.NewReader(""), nil)
	assert.Error(t, err)
}

func TestFit(t *testing.T) {
	w, h := fit(1000, 10, 100)
	assert.Equal(t, 100, w)
	assert.Equal(t, 1, h)

	w, h = fit(300, 600, 0)
	assert.Equal(t, 300, w)
	assert.Equal(t, 600, h)
}
