package ipheat

import (
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ties/ipheat/blobstore"
	"github.com/ties/ipheat/gradient"
	"github.com/ties/ipheat/hilbert"
	"github.com/ties/ipheat/scale"
)

func TestRenderCategorical(t *testing.T) {
	ctx := context.Background()

	hm, err := New(24, WithValueMode(ModeCategorical))
	require.NoError(t, err)

	// Category 0 and category 9; 9 wraps to palette index 1.
	require.NoError(t, hm.IngestString(ctx, "10.0.0.1 0\n20.0.0.1 9\n"))

	img, err := hm.Render()
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 16, 16), img.Bounds())

	x0, y0 := hilbert.XY(10, 4)
	c0 := img.NRGBAAt(int(x0), int(y0))
	assert.Equal(t, gradient.Accent.Color(0), c0)
	assert.Equal(t, uint8(255), c0.A)

	x9, y9 := hilbert.XY(20, 4)
	c9 := img.NRGBAAt(int(x9), int(y9))
	assert.Equal(t, gradient.Accent.Color(1), c9, "category 9 wraps to palette index 1")

	// Everything else is the sentinel and renders transparent.
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			if (x == int(x0) && y == int(y0)) || (x == int(x9) && y == int(y9)) {
				continue
			}
			require.Equal(t, uint8(0), img.NRGBAAt(x, y).A, "cell (%d,%d)", x, y)
		}
	}
}

func TestRenderContinuous(t *testing.T) {
	ctx := context.Background()

	hm, err := New(24, WithValueMode(ModeRaw), WithAccumulate(true))
	require.NoError(t, err)
	require.NoError(t, hm.IngestString(ctx, "10.0.0.1 10\n20.0.0.1 5\n"))

	img, err := hm.Render()
	require.NoError(t, err)

	// Auto bounds are [0, 10]: the max cell saturates at the top of
	// the gradient, the 5-cell sits mid-scale, empty cells (== min)
	// are transparent.
	xMax, yMax := hilbert.XY(10, 4)
	assert.Equal(t, gradient.Magma.At(1).NRGBA(), img.NRGBAAt(int(xMax), int(yMax)))

	xMid, yMid := hilbert.XY(20, 4)
	mid := img.NRGBAAt(int(xMid), int(yMid))
	assert.Equal(t, uint8(255), mid.A)

	assert.Equal(t, uint8(0), img.NRGBAAt(0, 0).A)
}

func TestRenderExplicitBounds(t *testing.T) {
	ctx := context.Background()

	hm, err := New(24, WithValueMode(ModeRaw),
		WithMinValue(0), WithMaxValue(100),
		WithDomain(scale.Logarithmic),
		WithGradient(gradient.Cividis))
	require.NoError(t, err)
	require.NoError(t, hm.IngestString(ctx, "10.0.0.1 100\n"))

	img, err := hm.Render()
	require.NoError(t, err)

	x, y := hilbert.XY(10, 4)
	assert.Equal(t, gradient.Cividis.At(1).NRGBA(), img.NRGBAAt(int(x), int(y)))
}

// A dataset with one distinct value and no explicit bounds collapses
// the auto-computed domain; that is a render-time error, not a panic.
func TestRenderCollapsedDomain(t *testing.T) {
	hm, err := New(24, WithValueMode(ModeRaw))
	require.NoError(t, err)

	_, err = hm.Render() // all zeros: min == max == 0
	require.Error(t, err)

	var bounds *scale.ErrInvalidBounds
	assert.ErrorAs(t, err, &bounds)
}

func TestRGBA(t *testing.T) {
	ctx := context.Background()

	hm, err := New(24, WithValueMode(ModeRaw), WithAccumulate(true))
	require.NoError(t, err)
	require.NoError(t, hm.IngestString(ctx, "10.0.0.0/8 1\n20.0.0.1 3\n"))

	data, err := hm.RGBA()
	require.NoError(t, err)
	assert.Len(t, data, 16*16*4)
}

func TestSave(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	newPainted := func(t *testing.T) *Heatmap {
		hm, err := New(24, WithValueMode(ModeRaw), WithAccumulate(true))
		require.NoError(t, err)
		require.NoError(t, hm.IngestString(ctx, "10.0.0.0/8 1\n192.168.0.0/16 5\n"))
		return hm
	}

	t.Run("PNG", func(t *testing.T) {
		path := filepath.Join(dir, "heat.png")
		require.NoError(t, newPainted(t).Save(path))

		f, err := os.Open(path)
		require.NoError(t, err)
		defer f.Close()

		img, err := png.Decode(f)
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 16, 16), img.Bounds())
	})

	t.Run("OtherEncoders", func(t *testing.T) {
		for _, name := range []string{"heat.gif", "heat.jpg", "heat.bmp"} {
			path := filepath.Join(dir, name)
			require.NoError(t, newPainted(t).Save(path), name)

			fi, err := os.Stat(path)
			require.NoError(t, err, name)
			assert.Greater(t, fi.Size(), int64(0), name)
		}
	})

	t.Run("RenderErrorLeavesNoFile", func(t *testing.T) {
		hm, err := New(24, WithValueMode(ModeRaw))
		require.NoError(t, err)

		path := filepath.Join(dir, "broken.png")
		require.Error(t, hm.Save(path)) // collapsed domain
		_, err = os.Stat(path)
		assert.True(t, os.IsNotExist(err))
	})
}

func TestSaveTo(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	hm, err := New(24, WithValueMode(ModeRaw), WithAccumulate(true))
	require.NoError(t, err)
	require.NoError(t, hm.IngestString(ctx, "10.0.0.0/8 1\n11.0.0.0/8 2\n"))

	require.NoError(t, hm.SaveTo(ctx, store, "maps/heat.png"))

	data, ok := store.Get("maps/heat.png")
	require.True(t, ok)
	assert.NotEmpty(t, data)

	// PNG magic
	require.Greater(t, len(data), 8)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, data[:4])
}
