package gradient

import "image/color"

// Palette colours categorical cells. Category ids wrap around the
// palette size; ids below zero mean "never painted" and map to a fully
// transparent colour.
type Palette struct {
	name    string
	colours []RGB
}

// Accent is the ColorBrewer "Accent" qualitative palette, the default
// for categorical heat-maps.
var Accent = &Palette{
	name: "accent",
	colours: []RGB{
		{127, 201, 127}, // green
		{190, 174, 212}, // purple
		{253, 192, 134}, // orange
		{255, 255, 153}, // yellow
		{56, 108, 176},  // blue
		{240, 2, 127},   // pink
		{191, 91, 23},   // brown
		{102, 102, 102}, // gray
	},
}

// Name returns the palette's name.
func (p *Palette) Name() string { return p.name }

// Size returns the number of distinct palette entries.
func (p *Palette) Size() int { return len(p.colours) }

// Color maps a category id to a colour. Negative ids are transparent.
func (p *Palette) Color(id int32) color.NRGBA {
	if id < 0 {
		return color.NRGBA{}
	}
	return p.colours[int(id)%len(p.colours)].NRGBA()
}
