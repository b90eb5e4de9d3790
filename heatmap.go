package ipheat

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/ties/ipheat/gradient"
	"github.com/ties/ipheat/hilbert"
	"github.com/ties/ipheat/scale"
)

const (
	// addressBits is the width of the linear address space (IPv4).
	addressBits = 32

	// MinBitsPerPixel bounds the buffer to 4096x4096 cells (64 MiB).
	MinBitsPerPixel = 8
	// MaxBitsPerPixel collapses the whole address space into one pixel.
	MaxBitsPerPixel = 32

	// noDataSentinel marks never-painted cells in categorical mode.
	// Continuous modes zero-fill instead, where absence and an
	// accumulated zero are indistinguishable.
	noDataSentinel = -1
)

// Side returns the output image side length for a granularity: the
// address space holds 2^(32-bitsPerPixel) pixels, arranged in a square
// of side 2^((32-bitsPerPixel)/2) along the Hilbert curve.
//
// The result is only meaningful for even bitsPerPixel in
// [MinBitsPerPixel, MaxBitsPerPixel]; New enforces that.
func Side(bitsPerPixel int) uint32 {
	order := uint32(addressBits-bitsPerPixel) / 2
	return 1 << order
}

// Heatmap is a single rendering session over the IPv4 address space:
// one cell buffer, written in place during ingestion, then scanned
// twice at render time (bounds, colours). It is not safe for concurrent
// use; sharded ingestion manages its own private copies.
type Heatmap struct {
	bitsPerPixel int
	order        uint32
	side         uint32
	perPixel     uint64 // addresses covered by one pixel

	cells   []int32
	painted *roaring.Bitmap // pixel distances that received a write

	mode       ValueMode
	plan       modePlan
	accumulate bool

	kind     scale.Kind
	minValue *float64
	maxValue *float64

	grad    *gradient.Gradient
	palette *gradient.Palette

	logger  *Logger
	metrics MetricsCollector

	shards   int
	progress int
}

// New creates a rendering session. bitsPerPixel is the number of low
// address bits collapsed into one pixel; it must be even and within
// [MinBitsPerPixel, MaxBitsPerPixel]. All configuration errors surface
// here, before any input is processed.
func New(bitsPerPixel int, optFns ...Option) (*Heatmap, error) {
	if bitsPerPixel < MinBitsPerPixel || bitsPerPixel > MaxBitsPerPixel || bitsPerPixel%2 != 0 {
		return nil, &ErrInvalidBitsPerPixel{Bits: bitsPerPixel}
	}

	o := applyOptions(optFns)

	if o.shards > 1 && !o.accumulate {
		return nil, ErrShardsRequireAccumulate
	}
	if o.minValue != nil && o.maxValue != nil && *o.maxValue <= *o.minValue {
		return nil, &scale.ErrInvalidBounds{Min: *o.minValue, Max: *o.maxValue}
	}

	order := uint32(addressBits-bitsPerPixel) / 2
	side := uint32(1) << order

	h := &Heatmap{
		bitsPerPixel: bitsPerPixel,
		order:        order,
		side:         side,
		perPixel:     1 << bitsPerPixel,
		cells:        make([]int32, uint64(side)*uint64(side)),
		painted:      roaring.New(),
		mode:         o.mode,
		plan:         planFor(o.mode),
		accumulate:   o.accumulate,
		kind:         o.kind,
		minValue:     o.minValue,
		maxValue:     o.maxValue,
		grad:         o.grad,
		palette:      o.palette,
		logger:       o.logger.WithBitsPerPixel(bitsPerPixel),
		metrics:      o.metrics,
		shards:       o.shards,
		progress:     o.progress,
	}

	if h.plan.initValue != 0 {
		for i := range h.cells {
			h.cells[i] = h.plan.initValue
		}
	}

	return h, nil
}

// Side returns the output image side length in pixels.
func (h *Heatmap) Side() uint32 { return h.side }

// BitsPerPixel returns the session's granularity.
func (h *Heatmap) BitsPerPixel() int { return h.bitsPerPixel }

// Mode returns the session's value mode.
func (h *Heatmap) Mode() ValueMode { return h.mode }

// PaintedPixels returns the number of distinct pixels that have
// received at least one write.
func (h *Heatmap) PaintedPixels() uint64 {
	return h.painted.GetCardinality()
}

// Coverage returns the painted fraction of the pixel grid, in [0, 1].
func (h *Heatmap) Coverage() float64 {
	total := uint64(h.side) * uint64(h.side)
	return float64(h.PaintedPixels()) / float64(total)
}

// CellAt returns the accumulated value of the cell at (x, y).
// Coordinates must be within [0, Side).
func (h *Heatmap) CellAt(x, y uint32) int32 {
	return h.cells[uint64(y)*uint64(h.side)+uint64(x)]
}

// project maps an address to its pixel coordinate. The curve distance
// addr >> bitsPerPixel is always below 4^order, so the Hilbert bound
// holds by construction.
func (h *Heatmap) project(addr uint32) (x, y uint32, d uint64) {
	d = uint64(addr) >> h.bitsPerPixel
	x, y = hilbert.XY(d, h.order)
	return x, y, d
}

// xyOf maps a pixel distance back to its grid coordinate.
func (h *Heatmap) xyOf(d uint64) (x, y uint32) {
	return hilbert.XY(d, h.order)
}

func (h *Heatmap) writeCell(x, y uint32, d uint64, value int32) {
	i := uint64(y)*uint64(h.side) + uint64(x)
	if h.accumulate {
		h.cells[i] += value
	} else {
		h.cells[i] = value
	}
	h.painted.Add(uint32(d))
}

// PaintAddress writes a single address's weight to its pixel.
func (h *Heatmap) PaintAddress(addr uint32, value int32) {
	x, y, d := h.project(addr)
	h.writeCell(x, y, d, h.plan.single(value, h.perPixel))
	h.metrics.RecordPaint(1)
}

// PaintRange distributes a weight across every pixel the inclusive
// address range [first, last] touches. Work is proportional to the
// number of pixels covered, not the number of addresses: a /8 at 24
// bits per pixel touches 16 pixels, never 2^24 addresses.
//
// Each touched pixel receives the mode's range transform of the weight
// and the overlap size (the count of range addresses inside that
// pixel's block).
func (h *Heatmap) PaintRange(first, last uint32, value int32) error {
	if first > last {
		return &ErrInvalidRange{First: first, Last: last}
	}

	first64 := uint64(first)
	last64 := uint64(last)
	firstD := first64 >> h.bitsPerPixel
	lastD := last64 >> h.bitsPerPixel

	pixels := 0
	for d := firstD; d <= lastD; d++ {
		pixelFirst := d << h.bitsPerPixel
		pixelLast := pixelFirst + h.perPixel - 1

		overlapFirst := max(first64, pixelFirst)
		overlapLast := min(last64, pixelLast)
		if overlapFirst > overlapLast {
			continue
		}
		overlap := overlapLast - overlapFirst + 1

		x, y := hilbert.XY(d, h.order)
		h.writeCell(x, y, d, h.plan.ranged(value, overlap, h.perPixel))
		pixels++
	}

	h.metrics.RecordPaint(pixels)
	return nil
}
