//go:build opencv

package imaging

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// Backend names the change-detection implementation compiled in.
const Backend = "opencv"

type mogComparator struct {
	threshold uint8
}

// NewComparator returns a MOG2 background-subtraction comparator.
func NewComparator(threshold uint8) Comparator {
	if threshold == 0 {
		threshold = DefaultThreshold
	}
	return &mogComparator{threshold: threshold}
}

func (m *mogComparator) Compare(minuend, subtrahend image.Image) (*Comparison, error) {
	if err := checkSize(minuend); err != nil {
		return nil, err
	}
	if err := checkSize(subtrahend); err != nil {
		return nil, err
	}

	size := image.Rect(0, 0, minuend.Bounds().Dx(), minuend.Bounds().Dy())
	background, err := gocv.ImageGrayToMatGray(toGray(minuend, size))
	if err != nil {
		return nil, fmt.Errorf("minuend to mat: %w", err)
	}
	defer background.Close()

	frame, err := gocv.ImageGrayToMatGray(toGray(subtrahend, size))
	if err != nil {
		return nil, fmt.Errorf("subtrahend to mat: %w", err)
	}
	defer frame.Close()

	mog := gocv.NewBackgroundSubtractorMOG2()
	defer mog.Close()

	fg := gocv.NewMat()
	defer fg.Close()

	// Learn the minuend as background, then take the subtrahend's foreground.
	mog.Apply(background, &fg)
	mog.Apply(frame, &fg)

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.Threshold(fg, &mask, float32(m.threshold), 255, gocv.ThresholdBinary)

	out := image.NewGray(size)
	copy(out.Pix, mask.ToBytes())

	return &Comparison{
		Ratio: float64(gocv.CountNonZero(mask)) / float64(mask.Total()),
		Mask:  out,
	}, nil
}
