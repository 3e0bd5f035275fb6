// Package imaging normalizes uploaded sneaker photos: it sniffs the real
// format, bounds the dimensions, and re-encodes everything as JPEG so the
// database only ever stores one format at a predictable size.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// MaxDimension bounds the stored photo's width and height.
const MaxDimension = 1200

// jpegQuality is the re-encode compression quality.
const jpegQuality = 85

// accepted lists the input MIME types we decode. Output is always JPEG.
var accepted = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// Photo is a normalized photo ready for storage.
type Photo struct {
	Data   []byte
	MIME   string
	Width  int
	Height int
}

// Normalize reads raw upload bytes, validates the format by sniffing content
// (client headers are not trusted), downscales anything larger than
// MaxDimension, and re-encodes as JPEG.
func Normalize(r io.Reader) (*Photo, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading photo data: %w", err)
	}

	detected := http.DetectContentType(raw)
	if !accepted[detected] {
		return nil, fmt.Errorf("unsupported photo format %s (JPEG, PNG, or WebP required)", detected)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decoding photo: %w", err)
	}

	w, h := fit(img.Bounds().Dx(), img.Bounds().Dy(), MaxDimension)
	if w != img.Bounds().Dx() || h != img.Bounds().Dy() {
		scaled := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, img.Bounds(), draw.Over, nil)
		img = scaled
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encoding JPEG: %w", err)
	}

	return &Photo{
		Data:   buf.Bytes(),
		MIME:   "image/jpeg",
		Width:  w,
		Height: h,
	}, nil
}

// fit scales (w, h) down proportionally so neither exceeds max.
// Dimensions already within bounds are returned unchanged.
func fit(w, h, max int) (int, int) {
	if w <= max && h <= max {
		return w, h
	}

	if w >= h {
		h = h * max / w
		w = max
	} else {
		w = w * max / h
		h = max
	}

	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}
