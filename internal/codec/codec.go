// Package codec loads and stores rasters through the standard image
// encoders plus the BMP and TIFF encoders from golang.org/x/image.
package codec

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// I/O errors.
var (
	// ErrUnsupportedFormat is returned for an unknown file extension or format.
	ErrUnsupportedFormat = errors.New("codec: unsupported format")

	// ErrNilImage is returned when asked to encode a nil image.
	ErrNilImage = errors.New("codec: nil image")
)

// Format identifies an on-disk encoding.
type Format uint8

const (
	// PNG is lossless and the default for pyramid levels.
	PNG Format = iota

	// JPEG is lossy; see DefaultJPEGQuality.
	JPEG

	// BMP is uncompressed.
	BMP

	// TIFF is lossless (deflate-compressed).
	TIFF
)

// DefaultJPEGQuality is used when encoding JPEG.
const DefaultJPEGQuality = 95

// String returns the canonical lowercase name of the format.
func (f Format) String() string {
	switch f {
	case PNG:
		return "png"
	case JPEG:
		return "jpeg"
	case BMP:
		return "bmp"
	case TIFF:
		return "tiff"
	default:
		return "unknown"
	}
}

// Ext returns the file extension for the format, including the dot.
func (f Format) Ext() string {
	switch f {
	case JPEG:
		return ".jpg"
	case BMP:
		return ".bmp"
	case TIFF:
		return ".tiff"
	default:
		return ".png"
	}
}

// ParseFormat maps a format name or file extension (with or without the
// leading dot) to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(s), ".") {
	case "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "bmp":
		return BMP, nil
	case "tif", "tiff":
		return TIFF, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// FormatFromPath infers the format from a file name's extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Load decodes the image at path. The format is detected from content, so
// any registered decoder (PNG, JPEG, BMP, TIFF) works regardless of extension.
func Load(path string) (image.Image, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("codec: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Decode(f)
}

// Decode decodes an image from r, auto-detecting the format.
func Decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(bufio.NewReader(r))
	if err != nil {
		return nil, fmt.Errorf("codec: decode: %w", err)
	}
	return img, nil
}

// Encode writes img to w in the given format.
func Encode(w io.Writer, img image.Image, format Format) error {
	if img == nil {
		return ErrNilImage
	}

	var err error
	switch format {
	case PNG:
		err = png.Encode(w, img)
	case JPEG:
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: DefaultJPEGQuality})
	case BMP:
		err = bmp.Encode(w, img)
	case TIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%w: %d", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return fmt.Errorf("codec: encode %s: %w", format, err)
	}
	return nil
}

// Save encodes img into a new file at path.
func Save(path string, img image.Image, format Format) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("codec: create file: %w", err)
	}

	bw := bufio.NewWriter(f)
	if err := Encode(bw, img, format); err != nil {
		_ = f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("codec: flush: %w", err)
	}

	return f.Close()
}
