// Package resize decodes image bytes and produces fixed-size square
// thumbnail variants. The engine is stateless and performs no I/O.
package resize

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"time"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"

	// Register decoders beyond the stdlib trio. The source format is
	// sniffed from content, never trusted from the key extension.
	_ "golang.org/x/image/webp"
)

// jpegQuality balances thumbnail file size against visible artifacts.
const jpegQuality = 85

// ErrDecode marks source bytes that are not a supported image.
// Fatal for the record being processed.
var ErrDecode = errors.New("unsupported or corrupt image data")

// Variant is one resized raster produced from a source image.
type Variant struct {
	Data        []byte
	Ext         string // extension chosen by the encoder, e.g. "jpg", "png"
	ContentType string
	Size        int // square edge length in pixels
}

// Thumbnail decodes src, center-crop fills it to size×size, and re-encodes.
// PNG input stays PNG to preserve transparency; every other decoded format
// is normalized to JPEG. The output format may therefore differ from the
// source key's apparent extension.
func Thumbnail(src []byte, size int) (*Variant, error) {
	img, format, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	start := time.Now()
	filled := imaging.Fill(img, size, size, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	ext, contentType := "jpg", "image/jpeg"
	if format == "png" {
		ext, contentType = "png", "image/png"
		err = png.Encode(&buf, filled)
	} else {
		err = jpeg.Encode(&buf, filled, &jpeg.Options{Quality: jpegQuality})
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s variant: %w", ext, err)
	}

	log.Debug().
		Str("sourceFormat", format).
		Int("size", size).
		Int("outputBytes", buf.Len()).
		Dur("elapsed", time.Since(start)).
		Msg("Variant produced")

	return &Variant{
		Data:        buf.Bytes(),
		Ext:         ext,
		ContentType: contentType,
		Size:        size,
	}, nil
}
