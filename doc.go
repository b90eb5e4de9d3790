// Package ipheat renders dense heat-maps of the IPv4 address space.
//
// Every address (or CIDR block) is projected onto a square pixel grid
// along a Hilbert curve, so numerically adjacent addresses form compact
// image regions. Weights accumulate into a per-pixel buffer during
// ingestion; a final pass normalizes the values through a linear or
// logarithmic colour domain and paints them with a gradient, or with a
// fixed palette in categorical mode.
//
// # Quick start
//
//	hm, _ := ipheat.New(8, ipheat.WithAccumulate(true))
//	_ = hm.Ingest(ctx, os.Stdin)
//	_ = hm.Save("heatmap.png")
//
// Input is line-oriented: `<address-or-range> [value]`, where the first
// field is a dotted quad, a bare integer, or a CIDR prefix, and the
// optional value defaults to 1.
//
// # Granularity
//
// The bitsPerPixel parameter controls how many low address bits
// collapse into one pixel. At 8 the full IPv4 space fits a 4096x4096
// image with one pixel per /24; at 24 it is a 16x16 thumbnail with one
// pixel per /8. The parameter must be even so the pixel count is a
// perfect square.
//
// # Value modes
//
// Scaled (default) divides weights by the addresses-per-pixel density,
// raw writes them unchanged, and categorical treats them as palette
// ids. See ValueMode.
package ipheat
