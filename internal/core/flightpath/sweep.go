package flightpath

import (
	"fmt"

	"github.com/samirrijal/dronesurvey/internal/core/domain"
	"github.com/samirrijal/dronesurvey/internal/pkg/geospatial"
)

// altitudeTolerance absorbs float error when comparing a layer to the ceiling.
const altitudeTolerance = 1e-9

// Sweep is a boustrophedon path over an altitude band.
type Sweep struct {
	Path []domain.GeoPosition
	// Layers is the number of altitude layers that contributed points.
	Layers int
	// Truncated is set when the point budget ran out before the band was
	// covered, or a layer was cut short.
	Truncated bool
}

// Assemble builds the sweep between c1 and c2, one resampled line per
// altitude layer starting at altStart and rising by vStep while the layer
// stays at or below altEnd. Lines alternate direction so each starts where
// the previous one ended. The whole path never exceeds maxPoints.
func Assemble(m geospatial.Metric, c1, c2 domain.GeoPoint, hStep, vStep, altStart, altEnd float64, maxPoints int) (Sweep, error) {
	if c1 == c2 {
		return Sweep{}, ErrDegenerateInput
	}
	if !(vStep > 0) {
		return Sweep{}, fmt.Errorf("%w: vertical step must be positive, got %g", ErrInvalidArgument, vStep)
	}

	first, err := Resample(m, c1, c2, hStep, maxPoints, altStart)
	if err != nil {
		return Sweep{}, err
	}

	sw := Sweep{Path: first.Points, Layers: 1, Truncated: first.Truncated}
	forward := false
	for k := 1; ; k++ {
		// Multiply rather than accumulate so high layers do not drift.
		alt := altStart + float64(k)*vStep
		if alt > altEnd+altitudeTolerance {
			break
		}
		budget := maxPoints - len(sw.Path)
		if budget <= 0 {
			sw.Truncated = true
			break
		}

		from, to := c2, c1
		if forward {
			from, to = c1, c2
		}
		line, err := Resample(m, from, to, hStep, budget, alt)
		if err != nil {
			return Sweep{}, err
		}
		sw.Path = append(sw.Path, line.Points...)
		sw.Layers++
		sw.Truncated = sw.Truncated || line.Truncated
		forward = !forward
	}

	if len(sw.Path) > maxPoints {
		sw.Path = sw.Path[:maxPoints]
		sw.Truncated = true
	}
	return sw, nil
}
