package pyramid

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/pyramid/internal/codec"
)

// Format is an on-disk image encoding.
type Format = codec.Format

// Supported encodings.
const (
	FormatPNG  = codec.PNG
	FormatJPEG = codec.JPEG
	FormatBMP  = codec.BMP
	FormatTIFF = codec.TIFF
)

// ParseFormat maps a format name or extension ("png", ".jpg", "tiff", ...)
// to a Format.
func ParseFormat(s string) (Format, error) {
	return codec.ParseFormat(s)
}

// LoadRaster decodes the image file at path (PNG, JPEG, BMP or TIFF).
func LoadRaster(path string) (*Raster, error) {
	img, err := codec.Load(path)
	if err != nil {
		return nil, err
	}
	r := RasterFromImage(img)
	if r.Width == 0 || r.Height == 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDimensions, path)
	}
	return r, nil
}

// Save encodes the raster to path. The format is taken from the path's
// extension.
func (r *Raster) Save(path string) error {
	f, err := codec.FormatFromPath(path)
	if err != nil {
		return err
	}
	return codec.Save(path, r.ToImage(), f)
}

// SaveAll writes every Gaussian level as gaussian_<i><ext> and every
// Laplacian level, mapped through Residual.Visualize, as laplacian_<i><ext>
// into dir, creating dir if needed. Files are encoded concurrently; the first
// failure cancels the writes that have not started yet.
//
// Returns a *DimensionError wrapping ErrNotBuilt before BuildLaplacePyramid.
func (p *Pyramid) SaveAll(ctx context.Context, dir string, format Format) error {
	if p.state < StateLaplacian {
		return &DimensionError{Op: "save all", Level: -1, Err: ErrNotBuilt}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("pyramid: create output dir: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	save := func(name string, r *Raster) {
		path := filepath.Join(dir, name+format.Ext())
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := codec.Save(path, r.ToImage(), format); err != nil {
				return err
			}
			Logger().Debug("level saved", "path", path)
			return nil
		})
	}

	for i, r := range p.gaussian {
		save(fmt.Sprintf("gaussian_%d", i), r)
	}
	for i, l := range p.laplacian {
		save(fmt.Sprintf("laplacian_%d", i), l.Visualize())
	}

	return g.Wait()
}
