package thumbnail

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"

	"golang.org/x/image/draw"
)

const (
	DefaultMaxDimension = 400
	quality             = 70
	prefix              = "data:image/jpeg;base64,"
)

var ErrUnsupportedImage = errors.New("unsupported image")

// Encoder turns uploaded photos into small JPEG data URLs.
type Encoder struct {
	MaxDimension int
}

func NewEncoder(maxDimension int) *Encoder {
	if maxDimension <= 0 {
		maxDimension = DefaultMaxDimension
	}

	return &Encoder{MaxDimension: maxDimension}
}

func (e *Encoder) Encode(reader io.Reader) (string, error) {
	source, _, err := image.Decode(reader)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnsupportedImage, err)
	}

	var buffer bytes.Buffer

	if err := jpeg.Encode(&buffer, e.scale(source), &jpeg.Options{Quality: quality}); err != nil {
		return "", err
	}

	return prefix + base64.StdEncoding.EncodeToString(buffer.Bytes()), nil
}

// scale shrinks the image so its longest side fits MaxDimension, keeping
// the aspect ratio.
func (e *Encoder) scale(source image.Image) image.Image {
	bounds := source.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	longest := max(width, height)
	if longest <= e.MaxDimension {
		return source
	}

	target := image.NewRGBA(image.Rect(0, 0, max(1, width*e.MaxDimension/longest), max(1, height*e.MaxDimension/longest)))
	draw.CatmullRom.Scale(target, target.Bounds(), source, bounds, draw.Src, nil)

	return target
}
