// Package scale maps accumulated cell values onto normalized [0, 1]
// colour intensities.
package scale

import (
	"fmt"
	"math"
	"strings"
)

// Kind selects the shape of the value-to-intensity mapping.
type Kind int

const (
	// Linear interpolates proportionally between the domain bounds.
	Linear Kind = iota
	// Logarithmic compresses large values so sparse data stays visible.
	Logarithmic
)

// ParseKind parses a kind name. Accepted values are "linear",
// "logarithmic" and the shorthand "log", case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "linear":
		return Linear, nil
	case "logarithmic", "log":
		return Logarithmic, nil
	default:
		return 0, fmt.Errorf("invalid curve type: %q (use 'linear' or 'logarithmic')", s)
	}
}

func (k Kind) String() string {
	switch k {
	case Linear:
		return "linear"
	case Logarithmic:
		return "log"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ErrInvalidBounds reports a domain whose bounds cannot produce a
// monotonic mapping.
type ErrInvalidBounds struct {
	Min, Max float64
}

func (e *ErrInvalidBounds) Error() string {
	return fmt.Sprintf("invalid scale domain: max (%g) must be greater than min (%g)", e.Max, e.Min)
}

// Domain converts a scalar value into a normalized intensity in (0, 1].
// Values at or below the minimum have no intensity at all (rendered
// transparent), values at or above the maximum saturate at 1.
type Domain struct {
	kind Kind
	min  float64
	max  float64
}

// New creates a Domain over (min, max). It fails when max <= min, since
// no monotonic mapping exists over an empty or inverted interval.
func New(kind Kind, min, max float64) (*Domain, error) {
	if max <= min {
		return nil, &ErrInvalidBounds{Min: min, Max: max}
	}
	return &Domain{kind: kind, min: min, max: max}, nil
}

// Kind returns the configured mapping kind.
func (d *Domain) Kind() Kind { return d.kind }

// Min returns the lower domain bound.
func (d *Domain) Min() float64 { return d.min }

// Max returns the upper domain bound.
func (d *Domain) Max() float64 { return d.max }

// Scale maps value into [0, 1]. The second return is false when the
// value carries no intensity (value <= min).
func (d *Domain) Scale(value float64) (float64, bool) {
	switch d.kind {
	case Logarithmic:
		return d.scaleLog(value)
	default:
		return d.scaleLinear(value)
	}
}

func (d *Domain) scaleLinear(value float64) (float64, bool) {
	if value <= d.min {
		return 0, false
	}
	if value >= d.max {
		return 1, true
	}
	return (value - d.min) / (d.max - d.min), true
}

// scaleLog uses log1p-style scaling, ln(offset+1) / ln(range+1) with
// offset = value - min. Values just above min map near zero instead of
// diverging to -inf, and min is not required to be positive.
func (d *Domain) scaleLog(value float64) (float64, bool) {
	if value <= d.min {
		return 0, false
	}
	if value >= d.max {
		return 1, true
	}
	offset := value - d.min
	rng := d.max - d.min
	return math.Log1p(offset) / math.Log1p(rng), true
}
