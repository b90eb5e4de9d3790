// Package gradient provides the colour capabilities injected into a
// rendering session: continuous gradients for raw/scaled values and a
// fixed categorical palette.
package gradient

import (
	"fmt"
	"image/color"
	"strings"
)

// RGB is an opaque 8-bit colour triple.
type RGB struct {
	R, G, B uint8
}

// NRGBA converts an RGB triple to a fully opaque color.NRGBA.
func (c RGB) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// Gradient maps a normalized value in [0, 1] onto a colour by linear
// interpolation between evenly spaced stops. It is immutable and safe
// for concurrent use.
type Gradient struct {
	name  string
	stops []RGB
}

// New creates a gradient from evenly spaced stops. At least two stops
// are required.
func New(name string, stops []RGB) (*Gradient, error) {
	if len(stops) < 2 {
		return nil, fmt.Errorf("gradient %q: need at least 2 stops, got %d", name, len(stops))
	}
	s := make([]RGB, len(stops))
	copy(s, stops)
	return &Gradient{name: name, stops: s}, nil
}

// Name returns the gradient's name.
func (g *Gradient) Name() string { return g.name }

// At evaluates the gradient at t. Values outside [0, 1] are clamped.
func (g *Gradient) At(t float64) RGB {
	if t <= 0 {
		return g.stops[0]
	}
	if t >= 1 {
		return g.stops[len(g.stops)-1]
	}

	pos := t * float64(len(g.stops)-1)
	i := int(pos)
	frac := pos - float64(i)

	a, b := g.stops[i], g.stops[i+1]
	return RGB{
		R: lerp8(a.R, b.R, frac),
		G: lerp8(a.G, b.G, frac),
		B: lerp8(a.B, b.B, frac),
	}
}

func lerp8(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + t*(float64(b)-float64(a)) + 0.5)
}

// Magma is a perceptually uniform dark-to-light gradient, the default
// for continuous heat-maps.
var Magma = mustNew("magma", []RGB{
	{0x00, 0x00, 0x04},
	{0x18, 0x0f, 0x3e},
	{0x45, 0x10, 0x77},
	{0x72, 0x1f, 0x81},
	{0x9f, 0x2f, 0x7f},
	{0xcd, 0x40, 0x71},
	{0xf1, 0x60, 0x5d},
	{0xfd, 0x95, 0x67},
	{0xfe, 0xc9, 0x8d},
	{0xfc, 0xfd, 0xbf},
})

// Cividis is a blue-to-yellow gradient designed to stay readable with
// colour vision deficiency.
var Cividis = mustNew("cividis", []RGB{
	{0x00, 0x20, 0x4d},
	{0x00, 0x33, 0x6f},
	{0x39, 0x48, 0x6b},
	{0x57, 0x5d, 0x6d},
	{0x70, 0x71, 0x73},
	{0x8a, 0x87, 0x79},
	{0xa6, 0x9d, 0x75},
	{0xc4, 0xb5, 0x6c},
	{0xe4, 0xcf, 0x5b},
	{0xff, 0xea, 0x46},
})

// ByName resolves a gradient by name. "accessible" is an alias for
// cividis, matching the CLI surface.
func ByName(name string) (*Gradient, error) {
	switch strings.ToLower(name) {
	case "magma":
		return Magma, nil
	case "cividis", "accessible":
		return Cividis, nil
	default:
		return nil, fmt.Errorf("unknown colour scale: %q (use 'magma', 'cividis' or 'accessible')", name)
	}
}

func mustNew(name string, stops []RGB) *Gradient {
	g, err := New(name, stops)
	if err != nil {
		panic(err)
	}
	return g
}
