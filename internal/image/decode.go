package imagepkg

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

var ErrDecode = errors.New("decode image")

// DecodeImage decodes PNG, JPEG, GIF, BMP, TIFF or WebP data, applying any
// EXIF orientation.
func DecodeImage(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return img, nil
}

func DecodeImageBytes(b []byte) (image.Image, error) {
	return DecodeImage(bytes.NewReader(b))
}

// DecodeImageLimited decodes b after checking its declared dimensions, so an
// image whose width*height exceeds maxPixels is rejected before any pixel
// buffer is allocated. Zero means no cap.
func DecodeImageLimited(b []byte, maxPixels int64) (image.Image, error) {
	if maxPixels > 0 {
		cfg, _, err := image.DecodeConfig(bytes.NewReader(b))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		if int64(cfg.Width)*int64(cfg.Height) > maxPixels {
			return nil, fmt.Errorf("%w: %dx%d pixels", ErrTooLarge, cfg.Width, cfg.Height)
		}
	}
	return DecodeImageBytes(b)
}

// SniffFormat reports the registered format name of data without decoding
// the pixels.
func SniffFormat(data []byte) (string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return format, nil
}
