package ipheat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ties/ipheat/hilbert"
)

func TestSide(t *testing.T) {
	tests := []struct {
		bits int
		want uint32
	}{
		{8, 4096},
		{10, 2048},
		{12, 1024},
		{16, 256},
		{24, 16},
		{32, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Side(tt.bits), "bits=%d", tt.bits)
	}
}

// Every valid granularity must partition the address space exactly:
// side^2 pixels times 2^bits addresses per pixel covers 2^32 addresses
// with no gaps or overlaps.
func TestCoverageInvariant(t *testing.T) {
	for bits := MinBitsPerPixel; bits <= MaxBitsPerPixel; bits += 2 {
		side := uint64(Side(bits))
		total := side * side * (uint64(1) << bits)
		assert.Equal(t, uint64(1)<<32, total, "bits=%d", bits)
	}
}

func TestNewValidation(t *testing.T) {
	t.Run("OddBits", func(t *testing.T) {
		_, err := New(9)
		var bad *ErrInvalidBitsPerPixel
		require.ErrorAs(t, err, &bad)
		assert.Equal(t, 9, bad.Bits)
	})

	t.Run("OutOfRange", func(t *testing.T) {
		for _, bits := range []int{0, 2, 6, 34, -4} {
			_, err := New(bits)
			assert.Error(t, err, "bits=%d", bits)
		}
	})

	t.Run("ValidRange", func(t *testing.T) {
		for bits := MinBitsPerPixel; bits <= MaxBitsPerPixel; bits += 2 {
			hm, err := New(bits)
			require.NoError(t, err, "bits=%d", bits)
			assert.Equal(t, Side(bits), hm.Side())
			assert.Equal(t, bits, hm.BitsPerPixel())
		}
	})

	t.Run("ShardsWithoutAccumulate", func(t *testing.T) {
		_, err := New(24, WithShards(4))
		assert.ErrorIs(t, err, ErrShardsRequireAccumulate)

		_, err = New(24, WithShards(4), WithAccumulate(true))
		assert.NoError(t, err)
	})

	t.Run("ExplicitBoundsCollapsed", func(t *testing.T) {
		_, err := New(24, WithMinValue(10), WithMaxValue(10))
		assert.Error(t, err)

		_, err = New(24, WithMinValue(10), WithMaxValue(5))
		assert.Error(t, err)

		_, err = New(24, WithMinValue(0), WithMaxValue(100))
		assert.NoError(t, err)
	})
}

func TestCategoricalSentinelFill(t *testing.T) {
	hm, err := New(24, WithValueMode(ModeCategorical))
	require.NoError(t, err)

	for y := uint32(0); y < hm.Side(); y++ {
		for x := uint32(0); x < hm.Side(); x++ {
			require.Equal(t, int32(-1), hm.CellAt(x, y))
		}
	}

	hm, err = New(24, WithValueMode(ModeRaw))
	require.NoError(t, err)
	assert.Equal(t, int32(0), hm.CellAt(0, 0))
}

func TestPaintAddress(t *testing.T) {
	t.Run("Raw", func(t *testing.T) {
		hm, err := New(24, WithValueMode(ModeRaw))
		require.NoError(t, err)

		// 10.0.0.0 at 24 bits per pixel lands on curve index 10.
		hm.PaintAddress(0x0A000000, 7)
		x, y := hilbert.XY(10, 4)
		assert.Equal(t, int32(7), hm.CellAt(x, y))
		assert.Equal(t, uint64(1), hm.PaintedPixels())
	})

	t.Run("ScaledTruncatesToZero", func(t *testing.T) {
		// P = 2^24 dwarfs the weight; the scaled write truncates to 0.
		hm, err := New(24, WithValueMode(ModeScaled))
		require.NoError(t, err)

		hm.PaintAddress(0x0A000000, 1000)
		x, y := hilbert.XY(10, 4)
		assert.Equal(t, int32(0), hm.CellAt(x, y))
		// The pixel still counts as painted.
		assert.Equal(t, uint64(1), hm.PaintedPixels())
	})

	t.Run("OverwriteVsAccumulate", func(t *testing.T) {
		over, err := New(24, WithValueMode(ModeRaw))
		require.NoError(t, err)
		over.PaintAddress(0, 3)
		over.PaintAddress(0, 5)
		assert.Equal(t, int32(5), over.CellAt(0, 0), "last write wins")

		acc, err := New(24, WithValueMode(ModeRaw), WithAccumulate(true))
		require.NoError(t, err)
		acc.PaintAddress(0, 3)
		acc.PaintAddress(0, 5)
		assert.Equal(t, int32(8), acc.CellAt(0, 0), "writes sum")
	})
}

func TestPaintRange(t *testing.T) {
	t.Run("InvalidOrder", func(t *testing.T) {
		hm, err := New(24)
		require.NoError(t, err)

		err = hm.PaintRange(10, 5, 1)
		var bad *ErrInvalidRange
		require.ErrorAs(t, err, &bad)
		assert.Equal(t, uint32(10), bad.First)
		assert.Equal(t, uint32(5), bad.Last)
	})

	// A /8 at 24 bits per pixel covers exactly one pixel, the one
	// for its first address.
	t.Run("SlashEightOnePixel", func(t *testing.T) {
		hm, err := New(24, WithValueMode(ModeScaled))
		require.NoError(t, err)

		require.NoError(t, hm.PaintRange(0x0A000000, 0x0AFFFFFF, 1))
		assert.Equal(t, uint64(1), hm.PaintedPixels())

		// Full overlap: value * 2^24 / 2^24 = value.
		x, y := hilbert.XY(10, 4)
		assert.Equal(t, int32(1), hm.CellAt(x, y))
	})

	t.Run("PartialOverlap", func(t *testing.T) {
		// A /9 covers half of one 2^24-address pixel.
		hm, err := New(24, WithValueMode(ModeScaled))
		require.NoError(t, err)

		require.NoError(t, hm.PaintRange(0x0A000000, 0x0A7FFFFF, 100))
		x, y := hilbert.XY(10, 4)
		assert.Equal(t, int32(50), hm.CellAt(x, y))
	})

	t.Run("SpansPixels", func(t *testing.T) {
		// A /14 covers 2^18 addresses, four full 2^16-address pixels.
		hm, err := New(16, WithValueMode(ModeScaled))
		require.NoError(t, err)

		first := uint32(0x0A000000)
		last := first + (1 << 18) - 1
		require.NoError(t, hm.PaintRange(first, last, 5))
		assert.Equal(t, uint64(4), hm.PaintedPixels())

		// Fully covered pixels each take the whole weight.
		var sum int64
		for d := first >> 16; d <= last>>16; d++ {
			x, y := hilbert.XY(uint64(d), 8)
			sum += int64(hm.CellAt(x, y))
		}
		assert.Equal(t, int64(5*4), sum)
	})

	t.Run("RawRangeNoApportioning", func(t *testing.T) {
		hm, err := New(16, WithValueMode(ModeRaw))
		require.NoError(t, err)

		first := uint32(0x0A000000)
		last := first + (1 << 18) - 1
		require.NoError(t, hm.PaintRange(first, last, 9))
		for d := first >> 16; d <= last>>16; d++ {
			x, y := hilbert.XY(uint64(d), 8)
			assert.Equal(t, int32(9), hm.CellAt(x, y))
		}
	})
}

// At 8 bits per pixel the four /2 networks land one per 2048-wide
// quadrant of the 4096x4096 image.
func TestQuadrantProjection(t *testing.T) {
	hm, err := New(8, WithValueMode(ModeRaw))
	require.NoError(t, err)

	const mid = 2048
	quadrant := func(addr uint32) string {
		x, y, _ := hm.project(addr)
		switch {
		case x < mid && y < mid:
			return "top-left"
		case x >= mid && y < mid:
			return "top-right"
		case x < mid && y >= mid:
			return "lower-left"
		default:
			return "lower-right"
		}
	}

	assert.Equal(t, "top-left", quadrant(0x00000000))
	assert.Equal(t, "lower-left", quadrant(0x40000000))
	assert.Equal(t, "lower-right", quadrant(0x80000000))
	assert.Equal(t, "top-right", quadrant(0xC0000000))
}

func TestCoverage(t *testing.T) {
	hm, err := New(24, WithValueMode(ModeRaw))
	require.NoError(t, err)
	assert.Equal(t, 0.0, hm.Coverage())

	require.NoError(t, hm.PaintRange(0, 0xFFFFFFFF, 1))
	assert.Equal(t, 1.0, hm.Coverage())
	assert.Equal(t, uint64(256), hm.PaintedPixels())
}
