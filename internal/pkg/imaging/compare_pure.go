//go:build !opencv

package imaging

import (
	"image"
)

// Backend names the change-detection implementation compiled in.
const Backend = "pure"

type diffComparator struct {
	threshold uint8
}

// NewComparator returns the absolute-difference comparator. Build with the
// opencv tag for background subtraction instead.
func NewComparator(threshold uint8) Comparator {
	if threshold == 0 {
		threshold = DefaultThreshold
	}
	return &diffComparator{threshold: threshold}
}

func (d *diffComparator) Compare(minuend, subtrahend image.Image) (*Comparison, error) {
	if err := checkSize(minuend); err != nil {
		return nil, err
	}
	if err := checkSize(subtrahend); err != nil {
		return nil, err
	}

	size := image.Rect(0, 0, minuend.Bounds().Dx(), minuend.Bounds().Dy())
	a := toGray(minuend, size)
	b := toGray(subtrahend, size)

	mask := image.NewGray(size)
	changed := 0
	for i := range a.Pix {
		delta := int(a.Pix[i]) - int(b.Pix[i])
		if delta < 0 {
			delta = -delta
		}
		if delta > int(d.threshold) {
			mask.Pix[i] = maskOn.Y
			changed++
		} else {
			mask.Pix[i] = maskOff.Y
		}
	}

	return &Comparison{
		Ratio: float64(changed) / float64(len(a.Pix)),
		Mask:  mask,
	}, nil
}
