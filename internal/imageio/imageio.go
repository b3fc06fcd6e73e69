// Package imageio validates scan images before they are handed to the OCR
// engine, so an unreadable file fails fast with a real error instead of an
// empty OCR result.
package imageio

import (
	"fmt"
	"image"
	"os"

	// Raster formats accepted for report scans.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Info describes a decodable scan image.
type Info struct {
	Format string
	Width  int
	Height int
}

// Sniff decodes the image header at path and returns its format and
// dimensions. It does not decode pixel data.
func Sniff(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return Info{}, fmt.Errorf("decode image %q: %w", path, err)
	}
	return Info{Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}
