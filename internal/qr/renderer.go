// Package qr turns payment URLs into PNG QR codes.
//
// Every call re-encodes the symbol. Payment URLs change whenever an admin
// edits a club, so the renderer keeps no cache and callers decide on their
// own caching policy.
package qr

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"

	"github.com/skip2/go-qrcode"
)

type Renderer struct {
	defaults Settings
}

// NewRenderer returns a Renderer whose unset settings fall back to defaults,
// and beneath those to DefaultSettings.
func NewRenderer(defaults Settings) *Renderer {
	return &Renderer{defaults: defaults.Merge(DefaultSettings())}
}

// Defaults returns the settings used for fields a club leaves unset.
func (r *Renderer) Defaults() Settings {
	return r.defaults
}

// Render draws content as a width x width PNG with margin quiet-zone modules
// on every side. When width is smaller than the symbol plus margin the image
// grows to one pixel per module.
func (r *Renderer) Render(content string, s Settings) ([]byte, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyInput
	}

	full := s.Merge(r.defaults)
	opts, err := full.compile()
	if err != nil {
		return nil, err
	}

	code, err := qrcode.New(content, opts.level)
	if err != nil {
		return nil, fmt.Errorf("encode qr symbol: %w", err)
	}
	code.DisableBorder = true

	img := paint(code.Bitmap(), opts)

	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Render uses the built-in defaults.
func Render(content string, s Settings) ([]byte, error) {
	return NewRenderer(DefaultSettings()).Render(content, s)
}

func paint(bitmap [][]bool, o options) *image.Paletted {
	modules := len(bitmap)
	total := modules + 2*o.margin

	size := o.width
	if size < total {
		size = total
	}

	img := image.NewPaletted(image.Rect(0, 0, size, size), color.Palette{o.light, o.dark})

	// nearest-module sampling, same approach as qrcode.Image
	modulesPerPixel := float64(total) / float64(size)
	for y := 0; y < size; y++ {
		my := int(float64(y)*modulesPerPixel) - o.margin
		if my < 0 || my >= modules {
			continue
		}
		for x := 0; x < size; x++ {
			mx := int(float64(x)*modulesPerPixel) - o.margin
			if mx < 0 || mx >= modules {
				continue
			}
			if bitmap[my][mx] {
				img.SetColorIndex(x, y, 1)
			}
		}
	}
	return img
}
