package engine

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"

	"github.com/jung-kurt/gofpdf"
	xdraw "golang.org/x/image/draw"

	"github.com/easelapp/easel/internal/wire"
)

// Flatten renders the merged canvas at one image pixel per grid cell,
// independent of the viewport. Cells that are empty after merging get the
// background color.
func (e *Engine) Flatten() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, e.width, e.height))
	xdraw.Draw(out, out.Bounds(), image.NewUniform(e.background), image.Point{}, xdraw.Src)
	for _, px := range e.CurrentPixelData() {
		out.SetRGBA(px.X, px.Y, rgbaOf(px.Color))
	}
	return out
}

// ExportPNG writes the flattened canvas as PNG, upscaled by the given factor
// with hard pixel edges. A factor below 1 exports at native size.
func (e *Engine) ExportPNG(w io.Writer, scale int) error {
	img := e.Flatten()
	if scale > 1 {
		scaled := image.NewRGBA(image.Rect(0, 0, e.width*scale, e.height*scale))
		xdraw.NearestNeighbor.Scale(scaled, scaled.Bounds(), img, img.Bounds(), xdraw.Src, nil)
		img = scaled
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}

// ExportPDF writes the flattened canvas as a single-page PDF with the image
// centered on an A4 landscape page.
func (e *Engine) ExportPDF(w io.Writer) error {
	var buf bytes.Buffer
	if err := e.ExportPNG(&buf, 4); err != nil {
		return err
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("canvas", opts, &buf)

	pageW, pageH := pdf.GetPageSize()
	const margin = 15.0
	availW := pageW - 2*margin
	availH := pageH - 2*margin
	imgW, imgH := availW, availH
	if e.width > 0 && e.height > 0 {
		ratio := float64(e.height) / float64(e.width)
		if availW*ratio <= availH {
			imgH = availW * ratio
		} else {
			imgW = availH / ratio
		}
	}
	pdf.ImageOptions("canvas", (pageW-imgW)/2, (pageH-imgH)/2, imgW, imgH, false, opts, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("writing pdf: %w", err)
	}
	return nil
}

// DecodeImportImage reads an image and resamples it to fit the grid,
// returning one pixel record per opaque cell. Feed the result to
// ImportDrawing to stage it as a single undoable entry.
func (e *Engine) DecodeImportImage(r io.Reader) ([]wire.Pixel, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decoding import image: %w", err)
	}
	if e.width == 0 || e.height == 0 {
		return nil, nil
	}

	bounds := src.Bounds()
	fitW, fitH := e.width, e.height
	if bounds.Dx() > 0 && bounds.Dy() > 0 {
		ratio := float64(bounds.Dy()) / float64(bounds.Dx())
		if h := int(float64(e.width) * ratio); h <= e.height {
			fitH = maxInt(1, h)
		} else {
			fitW = maxInt(1, int(float64(e.height)/ratio))
		}
	}
	fitted := image.NewRGBA(image.Rect(0, 0, fitW, fitH))
	xdraw.ApproxBiLinear.Scale(fitted, fitted.Bounds(), src, bounds, xdraw.Src, nil)

	pixels := make([]wire.Pixel, 0, fitW*fitH)
	for y := 0; y < fitH; y++ {
		for x := 0; x < fitW; x++ {
			c := fitted.RGBAAt(x, y)
			if c.A < 0x80 {
				continue
			}
			pixels = append(pixels, wire.Pixel{
				X:     x,
				Y:     y,
				Color: uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B),
			})
		}
	}
	return pixels, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
