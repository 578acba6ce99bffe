package thumbnail_test

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"droscher.com/Portafilter/pkg/thumbnail"
)

const dataURLPrefix = "data:image/jpeg;base64,"

func pngOf(t *testing.T, width, height int, fill func(x, y int) color.Color) *bytes.Buffer {
	t.Helper()

	source := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			source.Set(x, y, fill(x, y))
		}
	}

	var buffer bytes.Buffer
	require.NoError(t, png.Encode(&buffer, source))

	return &buffer
}

func roast(int, int) color.Color {
	return color.RGBA{R: 120, G: 70, B: 30, A: 255}
}

func decodeDataURL(t *testing.T, encoded string) image.Image {
	t.Helper()

	require.True(t, strings.HasPrefix(encoded, dataURLPrefix))

	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(encoded, dataURLPrefix))
	require.NoError(t, err)

	decoded, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	return decoded
}

func luminance(c color.Color) uint32 {
	r, g, b, _ := c.RGBA()

	return (r + g + b) / 3 >> 8
}

func TestEncode_ScalesToMaxDimension(t *testing.T) {
	encoded, err := thumbnail.NewEncoder(100).Encode(pngOf(t, 400, 200, roast))
	require.NoError(t, err)

	decoded := decodeDataURL(t, encoded)
	assert.Equal(t, 100, decoded.Bounds().Dx())
	assert.Equal(t, 50, decoded.Bounds().Dy())
}

func TestEncode_ScalingKeepsContent(t *testing.T) {
	halves := func(x, _ int) color.Color {
		if x < 200 {
			return color.Black
		}

		return color.White
	}

	encoded, err := thumbnail.NewEncoder(40).Encode(pngOf(t, 400, 100, halves))
	require.NoError(t, err)

	decoded := decodeDataURL(t, encoded)
	require.Equal(t, 40, decoded.Bounds().Dx())
	require.Equal(t, 10, decoded.Bounds().Dy())

	assert.Less(t, luminance(decoded.At(5, 5)), uint32(40))
	assert.Greater(t, luminance(decoded.At(34, 5)), uint32(215))
}

func TestEncode_KeepsSmallImages(t *testing.T) {
	encoded, err := thumbnail.NewEncoder(0).Encode(pngOf(t, 30, 60, roast))
	require.NoError(t, err)

	decoded := decodeDataURL(t, encoded)
	assert.Equal(t, 30, decoded.Bounds().Dx())
	assert.Equal(t, 60, decoded.Bounds().Dy())
}

func TestEncode_RejectsNonImages(t *testing.T) {
	_, err := thumbnail.NewEncoder(100).Encode(strings.NewReader("not an image"))

	require.ErrorIs(t, err, thumbnail.ErrUnsupportedImage)
}
