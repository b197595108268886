package pipeline

import (
	"github.com/disintegration/imaging"

	"github.com/optimg/optimg/internal/model"
)

// Filter names a resampling kernel for resize operations.
type Filter int

const (
	FilterLanczos3 Filter = iota // default
	FilterPoint
	FilterTriangle
	FilterCatmullRom
	FilterMitchell
	FilterNearest
)

var filterNames = map[string]Filter{
	"lanczos3":    FilterLanczos3,
	"point":       FilterPoint,
	"triangle":    FilterTriangle,
	"catmull-rom": FilterCatmullRom,
	"mitchell":    FilterMitchell,
	"nearest":     FilterNearest,
}

// ParseFilter maps a kernel name to a Filter. The empty string selects
// the default lanczos3.
func ParseFilter(s string) (Filter, error) {
	if s == "" {
		return FilterLanczos3, nil
	}
	f, ok := filterNames[s]
	if !ok {
		return 0, model.ConfigErrorf("unknown resize filter %q", s)
	}
	return f, nil
}

// Resample returns the imaging kernel backing this filter. Point and
// nearest both sample the closest source pixel.
func (f Filter) Resample() imaging.ResampleFilter {
	switch f {
	case FilterPoint, FilterNearest:
		return imaging.NearestNeighbor
	case FilterTriangle:
		return imaging.Linear
	case FilterCatmullRom:
		return imaging.CatmullRom
	case FilterMitchell:
		return imaging.MitchellNetravali
	default:
		return imaging.Lanczos
	}
}

func (f Filter) String() string {
	for name, v := range filterNames {
		if v == f {
			return name
		}
	}
	return "lanczos3"
}
