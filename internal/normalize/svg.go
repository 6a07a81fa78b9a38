package normalize

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/rfenwick/vaultclip/internal/errors"
)

// defaultSVGSize is the logical canvas edge assumed when an SVG declares
// no intrinsic dimensions, before the scale factor is applied.
const defaultSVGSize = 300

// Rasterize renders an SVG buffer off-screen at its intrinsic dimensions
// multiplied by scale in both axes, and encodes the result as PNG. Vector
// sources have no pixel grid until rendered, so transcoding is not an
// option here.
func Rasterize(svg []byte, scale int) ([]byte, error) {
	if scale < 1 {
		scale = 1
	}

	icon, err := oksvg.ReadIconStream(bytes.NewReader(svg))
	if err != nil {
		return nil, errors.RasterizeFailed(err)
	}

	logicalW := icon.ViewBox.W
	logicalH := icon.ViewBox.H
	if logicalW <= 0 || logicalH <= 0 {
		logicalW = defaultSVGSize
		logicalH = defaultSVGSize
	}

	width := int(logicalW) * scale
	height := int(logicalH) * scale
	if width < 1 || height < 1 {
		return nil, errors.RasterizeFailed(fmt.Errorf("degenerate canvas %dx%d", width, height))
	}

	// Draw the full vector image scaled to fill the computed canvas.
	icon.SetTarget(0, 0, float64(width), float64(height))
	rgba := image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, rgba, rgba.Bounds())
	icon.Draw(rasterx.NewDasher(width, height, scanner), 1)

	var buf bytes.Buffer
	if err := png.Encode(&buf, rgba); err != nil {
		return nil, errors.RasterizeFailed(err)
	}
	return buf.Bytes(), nil
}
