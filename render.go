package ipheat

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/image/bmp"

	"github.com/ties/ipheat/blobstore"
	"github.com/ties/ipheat/scale"
)

// Render colorizes the finished buffer into a square RGBA image.
// Unpainted and below-minimum cells are fully transparent.
//
// For continuous modes the colour domain is resolved here: explicit
// bounds from options, otherwise the true cell minimum and maximum.
// Auto-computed bounds that collapse (max <= min, e.g. a dataset with
// one distinct value) are a fatal error at this point.
func (h *Heatmap) Render() (*image.NRGBA, error) {
	start := time.Now()
	img, err := h.render()
	h.logger.LogRender(h.PaintedPixels(), time.Since(start), err)
	h.metrics.RecordRender(time.Since(start), err)
	return img, err
}

// RGBA renders and returns the raw pixel data: side*side*4 bytes of
// non-premultiplied RGBA, row-major from the top-left.
func (h *Heatmap) RGBA() ([]byte, error) {
	img, err := h.Render()
	if err != nil {
		return nil, err
	}
	return img.Pix, nil
}

func (h *Heatmap) render() (*image.NRGBA, error) {
	img := image.NewNRGBA(image.Rect(0, 0, int(h.side), int(h.side)))

	if h.mode == ModeCategorical {
		h.renderCategorical(img)
		return img, nil
	}

	domain, err := h.computeDomain()
	if err != nil {
		return nil, err
	}
	h.renderContinuous(img, domain)
	return img, nil
}

func (h *Heatmap) renderCategorical(img *image.NRGBA) {
	for y := uint32(0); y < h.side; y++ {
		for x := uint32(0); x < h.side; x++ {
			id := h.CellAt(x, y)
			if id < 0 {
				continue // transparent zero value
			}
			img.SetNRGBA(int(x), int(y), h.palette.Color(id))
		}
	}
}

func (h *Heatmap) renderContinuous(img *image.NRGBA, domain *scale.Domain) {
	for y := uint32(0); y < h.side; y++ {
		for x := uint32(0); x < h.side; x++ {
			t, ok := domain.Scale(float64(h.CellAt(x, y)))
			if !ok {
				continue
			}
			c := h.grad.At(t)
			img.SetNRGBA(int(x), int(y), color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255})
		}
	}
}

// computeDomain resolves the colour-scale bounds, scanning the buffer
// for whichever bound was not configured explicitly.
func (h *Heatmap) computeDomain() (*scale.Domain, error) {
	var minV, maxV float64
	if h.minValue != nil {
		minV = *h.minValue
	} else {
		minV = float64(h.minCell())
	}
	if h.maxValue != nil {
		maxV = *h.maxValue
	} else {
		maxV = float64(h.maxCell())
	}

	h.logger.Debug("colour scaling",
		"curve", h.kind.String(),
		"min", minV,
		"max", maxV,
	)

	domain, err := scale.New(h.kind, minV, maxV)
	if err != nil {
		return nil, fmt.Errorf("compute colour domain: %w", err)
	}
	return domain, nil
}

func (h *Heatmap) minCell() int32 {
	m := h.cells[0]
	for _, v := range h.cells[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func (h *Heatmap) maxCell() int32 {
	m := h.cells[0]
	for _, v := range h.cells[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// Save renders and writes the image to path, choosing the encoder by
// extension: .png (default), .gif, .jpg/.jpeg, .bmp. JPEG has no alpha
// channel, so transparent cells come out black there.
func (h *Heatmap) Save(path string) error {
	img, err := h.Render()
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save image to %s: %w", path, err)
	}

	if err := encodeImage(f, img, path); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("save image to %s: %w", path, err)
	}
	return f.Close()
}

// SaveTo renders and writes the image to a blob store under name,
// choosing the encoder by name's extension.
func (h *Heatmap) SaveTo(ctx context.Context, store blobstore.Store, name string) error {
	img, err := h.Render()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := encodeImage(&buf, img, name); err != nil {
		return fmt.Errorf("encode image %s: %w", name, err)
	}
	return store.Put(ctx, name, buf.Bytes())
}

func encodeImage(w io.Writer, img *image.NRGBA, name string) error {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".gif":
		return gif.Encode(w, img, nil)
	case ".jpg", ".jpeg":
		return jpeg.Encode(w, img, nil)
	case ".bmp":
		return bmp.Encode(w, img)
	default:
		return png.Encode(w, img)
	}
}
