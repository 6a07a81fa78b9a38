// Package normalize converts image buffers of any supported encoding into
// PNG for the clipboard. Three paths: PNG passthrough, SVG rasterization,
// and raster re-encoding. The system clipboard reliably accepts only
// bitmap/PNG payloads, so everything else is normalized before the write.
package normalize

import (
	"bytes"
	"image"
	"image/png"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	// Register the raster codecs for image.Decode.
	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/rfenwick/vaultclip/internal/errors"
	"github.com/rfenwick/vaultclip/internal/logger"
)

// Kind is the closed set of content kinds the normalizer handles.
// The set is fixed and exhaustively dispatched on.
type Kind int

const (
	// KindPNG buffers pass through unchanged.
	KindPNG Kind = iota
	// KindSVG buffers are rasterized at the configured scale.
	KindSVG
	// KindRaster covers every other raster encoding (bmp, gif, jpeg, tiff).
	KindRaster
)

func (k Kind) String() string {
	switch k {
	case KindPNG:
		return "png"
	case KindSVG:
		return "svg"
	default:
		return "raster"
	}
}

// ImageBytes is an immutable byte buffer plus its declared content type.
type ImageBytes struct {
	Data      []byte
	MediaType string // declared type; empty means sniff from content
}

// DetectKind maps a declared content type to a Kind, sniffing the buffer
// when no type was declared.
func DetectKind(declared string, data []byte) Kind {
	mediaType := declared
	if mediaType == "" {
		mediaType = mimetype.Detect(data).String()
	}
	// Strip any parameters ("image/svg+xml; charset=utf-8").
	if semi := strings.Index(mediaType, ";"); semi >= 0 {
		mediaType = strings.TrimSpace(mediaType[:semi])
	}

	switch mediaType {
	case "image/png":
		return KindPNG
	case "image/svg+xml":
		return KindSVG
	default:
		return KindRaster
	}
}

// Normalize produces a PNG-encoded buffer from img. The scale factor only
// applies to the SVG path; PNG input is returned byte-identical.
func Normalize(img ImageBytes, scale int) ([]byte, error) {
	kind := DetectKind(img.MediaType, img.Data)
	log := logger.ComponentLogger("Normalize")

	switch kind {
	case KindPNG:
		// Identity path: no re-encode cost.
		return img.Data, nil

	case KindSVG:
		out, err := Rasterize(img.Data, scale)
		if err != nil {
			return nil, err
		}
		log.Debug("Rasterized SVG", "inBytes", len(img.Data), "outBytes", len(out), "scale", scale)
		return out, nil

	default:
		decoded, format, err := image.Decode(bytes.NewReader(img.Data))
		if err != nil {
			return nil, errors.DecodeFailed(img.MediaType, err)
		}

		var buf bytes.Buffer
		if err := png.Encode(&buf, decoded); err != nil {
			return nil, errors.DecodeFailed(img.MediaType, err)
		}
		log.Debug("Re-encoded raster image", "format", format, "outBytes", buf.Len())
		return buf.Bytes(), nil
	}
}
