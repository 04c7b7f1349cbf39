// Package render rasterizes icon path data.
package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"image"
	"image/color"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

const (
	// DefaultSize is the edge length of rendered icons in pixels.
	DefaultSize = 48
	// DefaultViewBox is the edge length of the coordinate space path data
	// is written in.
	DefaultViewBox = 24
)

// Rasterizer draws SVG path data into an RGBA image.
type Rasterizer struct {
	Size    int
	ViewBox float64
	Fill    color.Color
}

// NewRasterizer returns a rasterizer with default size, view box and a black
// fill.
func NewRasterizer() Rasterizer {
	return Rasterizer{Size: DefaultSize, ViewBox: DefaultViewBox, Fill: color.Black}
}

// Render draws path into a new Size by Size image.
func (r Rasterizer) Render(path []byte) (image.Image, error) {
	if len(bytes.TrimSpace(path)) == 0 {
		return nil, fmt.Errorf("render: empty path")
	}
	size := r.Size
	if size <= 0 {
		size = DefaultSize
	}

	icon, err := oksvg.ReadIconStream(bytes.NewReader(r.document(path)), oksvg.StrictErrorMode)
	if err != nil {
		return nil, fmt.Errorf("render: parse path: %w", err)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(size, size, scanner), 1)
	return img, nil
}

// document wraps path in a minimal SVG document.
func (r Rasterizer) document(path []byte) []byte {
	viewBox := r.ViewBox
	if viewBox <= 0 {
		viewBox = DefaultViewBox
	}
	fill := r.Fill
	if fill == nil {
		fill = color.Black
	}
	red, green, blue, _ := fill.RGBA()

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %g %g"><path fill="#%02x%02x%02x" d="`,
		viewBox, viewBox, red>>8, green>>8, blue>>8)
	_ = xml.EscapeText(&buf, path)
	buf.WriteString(`"/></svg>`)
	return buf.Bytes()
}
