package imaging

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// DefaultThreshold is the grey-level delta above which a pixel counts as changed.
const DefaultThreshold = 30

// Comparison is the outcome of subtracting one capture from another.
type Comparison struct {
	// Ratio is the share of changed pixels, in [0, 1].
	Ratio float64
	// Mask is white where the scene changed.
	Mask *image.Gray
}

// Comparator detects changes between two captures of the same scene.
type Comparator interface {
	Compare(minuend, subtrahend image.Image) (*Comparison, error)
}

// toGray converts img to greyscale at the given size.
func toGray(img image.Image, size image.Rectangle) *image.Gray {
	g := image.NewGray(size)
	if img.Bounds().Size() == size.Size() {
		draw.Draw(g, size, img, img.Bounds().Min, draw.Src)
		return g
	}
	draw.ApproxBiLinear.Scale(g, size, img, img.Bounds(), draw.Src, nil)
	return g
}

func checkSize(img image.Image) error {
	if img == nil || img.Bounds().Empty() {
		return fmt.Errorf("empty image")
	}
	return nil
}

var (
	maskOn  = color.Gray{Y: 255}
	maskOff = color.Gray{Y: 0}
)
