package texture

import (
	"image/png"

	"github.com/pkg/errors"
	"golang.org/x/image/draw"
)

// Filter selects the interpolation used when roughness has to be resampled
// to the metallic map size.
type Filter string

const (
	FilterNearest    Filter = "nearest"
	FilterBilinear   Filter = "bilinear"
	FilterCatmullRom Filter = "catmullrom"
)

func ParseFilter(name string) (Filter, error) {
	switch Filter(name) {
	case "", FilterNearest:
		return FilterNearest, nil
	case FilterBilinear, FilterCatmullRom:
		return Filter(name), nil
	}
	return "", errors.Wrapf(ErrConfiguration, "unknown resample filter %q", name)
}

func (f Filter) interpolator() draw.Interpolator {
	switch f {
	case FilterBilinear:
		return draw.ApproxBiLinear
	case FilterCatmullRom:
		return draw.CatmullRom
	default:
		return draw.NearestNeighbor
	}
}

func ParseCompression(name string) (png.CompressionLevel, error) {
	switch name {
	case "", "default":
		return png.DefaultCompression, nil
	case "none":
		return png.NoCompression, nil
	case "speed":
		return png.BestSpeed, nil
	case "best":
		return png.BestCompression, nil
	}
	return 0, errors.Wrapf(ErrConfiguration, "unknown png compression %q", name)
}

type PackOptions struct {
	Filter Filter
	// Compression applies to the packed map only. PNG sources are embedded
	// unchanged and other formats are converted at png.DefaultCompression.
	Compression png.CompressionLevel
}
