// Package analysis computes the marine status and turbine feasibility metrics
// from clipped red and green reflectance rasters.
package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/tidelens/seascan/internal/raster"
)

// ErrNumericUndefined tags computations whose inputs leave no valid pixels,
// where a mean would otherwise be NaN.
var ErrNumericUndefined = errors.New("numerically undefined result")

// Fixed normalization constants of the metric formulas.
const (
	reflectanceScale  = 10000.0 // Sentinel-2 DN to reflectance divisor
	vegetationGain    = 1.15
	depthBase         = 30.0
	depthDivisor      = 500.0
	depthRawMin       = 5.0
	depthFloor        = 12.0 // replacement for degenerate shallow estimates
	depthScoreCeiling = 40.0
	windScoreFactor   = 5.0
)

// MarineStatus holds the water quality outputs: the per-pixel turbidity field
// plus its scalar summary and the benthic vegetation proxy.
type MarineStatus struct {
	Turbidity       *raster.Raster
	TurbidityMean   float64
	VegetationProxy float64
}

// Feasibility holds the engineering outputs derived from the green band and
// the site baseline constants.
type Feasibility struct {
	Score           float64
	DepthEstimate   float64
	WindSpeed       float64
	DistanceToShore float64
}

// TurbidityField computes the per-pixel normalized difference turbidity index
// (red − green) / (red + green). A pixel is valid only when both inputs carry
// data and the denominator is non-zero; zero denominators are masked out
// before any reduction so they can never contaminate the mean.
func TurbidityField(red, green *raster.Raster) (*raster.Raster, error) {
	if err := raster.SameShape(red, green); err != nil {
		return nil, err
	}

	field := raster.New(red.Width, red.Height, red.Ref)
	for row := 0; row < red.Height; row++ {
		for col := 0; col < red.Width; col++ {
			if !red.IsValid(col, row) || !green.IsValid(col, row) {
				continue
			}
			r, g := red.At(col, row), green.At(col, row)
			if r+g == 0 {
				continue // masked: division would be undefined
			}
			field.Set(col, row, (r-g)/(r+g))
		}
	}

	return field, nil
}

// ComputeMarineStatus derives the turbidity field, its mean and the
// vegetation proxy from the two band rasters. An input with no valid pixels
// yields ErrNumericUndefined rather than a silent NaN.
func ComputeMarineStatus(red, green *raster.Raster) (*MarineStatus, error) {
	field, err := TurbidityField(red, green)
	if err != nil {
		return nil, err
	}

	turbidityMean, err := field.Mean()
	if err != nil {
		return nil, fmt.Errorf("%w: turbidity: %w", ErrNumericUndefined, err)
	}

	greenMean, err := green.Mean()
	if err != nil {
		return nil, fmt.Errorf("%w: green band: %w", ErrNumericUndefined, err)
	}

	return &MarineStatus{
		Turbidity:       field,
		TurbidityMean:   turbidityMean,
		VegetationProxy: greenMean / reflectanceScale * vegetationGain,
	}, nil
}

// ComputeFeasibility derives the depth estimate and feasibility score from
// the green band mean and the site baseline wind and shore distance. Higher
// green reflectance over the Irish Sea banks indicates shallower water; the
// raw estimate is replaced with a fixed floor when it degenerates below the
// plausible range. The floor and the baseline constants are deliberate
// placeholders and are preserved as such.
func ComputeFeasibility(green *raster.Raster, windSpeed, distanceToShore float64) (*Feasibility, error) {
	greenMean, err := green.Mean()
	if err != nil {
		return nil, fmt.Errorf("%w: green band: %w", ErrNumericUndefined, err)
	}

	depth := depthBase - greenMean/depthDivisor
	if depth < depthRawMin {
		depth = depthFloor
	}

	score := windSpeed*windScoreFactor + (depthScoreCeiling - depth)

	return &Feasibility{
		Score:           roundTo1(score),
		DepthEstimate:   roundTo1(depth),
		WindSpeed:       windSpeed,
		DistanceToShore: distanceToShore,
	}, nil
}

func roundTo1(v float64) float64 {
	return math.Round(v*10) / 10
}
