// Package hilbert implements the index-to-point transform of the Hilbert
// space-filling curve.
//
// A curve of order k visits every cell of a 2^k x 2^k grid exactly once,
// and consecutive curve indices always land on edge-adjacent cells. This
// locality is what makes the curve useful for address-space visualisation:
// numerically close addresses (long shared prefix) end up in a compact
// image region instead of being smeared across a row-major raster.
package hilbert

// Side returns the grid side length for a curve of the given order.
func Side(order uint32) uint32 {
	return 1 << order
}

// XY converts a curve index d into grid coordinates for a curve of the
// given order. The returned coordinates satisfy x, y < 2^order.
//
// Only the low 2*order bits of d are consulted: an index outside
// [0, 4^order) behaves exactly as d mod 4^order. Callers that need the
// bound enforced must check it themselves; painting code derives d from
// a 32-bit address, which cannot exceed the bound for any valid
// granularity.
//
// Order 0 is a single-cell grid and always yields (0, 0).
func XY(d uint64, order uint32) (x, y uint32) {
	if order == 0 {
		return 0, 0
	}

	n := uint32(1) << order
	t := d

	for s := uint32(1); s < n; s <<= 1 {
		rx := uint32(1 & (t >> 1))
		ry := uint32(1 & (t ^ uint64(rx)))

		if ry == 0 {
			if rx == 1 {
				x = s - 1 - x
				y = s - 1 - y
			}
			x, y = y, x
		}

		x += s * rx
		y += s * ry
		t >>= 2
	}

	return x, y
}
