// Package imaging handles the survey imagery: thumbnails and change masks
// between two captures of the same pose.
package imaging

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"path"
	"strings"

	"golang.org/x/image/draw"
)

// ThumbnailWidth is the width of generated thumbnails in pixels.
const ThumbnailWidth = 200

const jpegQuality = 90

// AllowedExtensions lists the accepted upload formats.
var AllowedExtensions = []string{"png", "jpg", "jpeg"}

// NormalizeExtension lower-cases ext, strips a leading dot and reports
// whether the format is accepted.
func NormalizeExtension(ext string) (string, bool) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, a := range AllowedExtensions {
		if ext == a {
			return ext, true
		}
	}
	return ext, false
}

// Decode reads a png or jpeg image.
func Decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// Encode writes img in the format implied by filename's extension.
func Encode(w io.Writer, img image.Image, filename string) error {
	ext, ok := NormalizeExtension(path.Ext(filename))
	if !ok {
		return fmt.Errorf("unsupported image format %q", ext)
	}
	if ext == "png" {
		return png.Encode(w, img)
	}
	return jpeg.Encode(w, img, &jpeg.Options{Quality: jpegQuality})
}

// Resize scales img to width, keeping the aspect ratio.
func Resize(img image.Image, width int) image.Image {
	b := img.Bounds()
	if b.Dx() == 0 {
		return img
	}
	height := int(float64(b.Dy()) * float64(width) / float64(b.Dx()))
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

// Thumbnail decodes src, scales it to ThumbnailWidth and encodes it to dst
// in the format of filename.
func Thumbnail(dst io.Writer, src io.Reader, filename string) error {
	img, err := Decode(src)
	if err != nil {
		return err
	}
	return Encode(dst, Resize(img, ThumbnailWidth), filename)
}
