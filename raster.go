package pyramid

import (
	"image"
	"image/color"
)

// Channels is the number of interleaved 8-bit channels per pixel.
const Channels = 3

// Raster is a 3-channel, 8-bit-per-channel pixel grid.
//
// Pixels are stored row-major as interleaved R, G, B bytes with no row
// padding, so Stride is always 3*Width.
//
// Thread safety: Raster is safe for concurrent reads. Convolution treats its
// source as immutable and always writes into a new Raster.
type Raster struct {
	Pix    []uint8
	Width  int
	Height int
}

// NewRaster allocates a zeroed raster. Returns ErrInvalidDimensions if width
// or height is non-positive.
func NewRaster(width, height int) (*Raster, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	return newRaster(width, height), nil
}

func newRaster(width, height int) *Raster {
	return &Raster{
		Pix:    make([]uint8, width*height*Channels),
		Width:  width,
		Height: height,
	}
}

// RasterFromImage copies img into a new raster, dropping alpha.
// Colors are taken un-premultiplied where the source type allows it.
func RasterFromImage(img image.Image) *Raster {
	b := img.Bounds()
	r := newRaster(b.Dx(), b.Dy())

	// Fast path for the common decoder outputs.
	switch src := img.(type) {
	case *image.NRGBA:
		for y := range r.Height {
			srow := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
			drow := r.Row(y)
			for x := range r.Width {
				drow[x*3] = srow[x*4]
				drow[x*3+1] = srow[x*4+1]
				drow[x*3+2] = srow[x*4+2]
			}
		}
		return r
	case *image.RGBA:
		if src.Opaque() {
			for y := range r.Height {
				srow := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
				drow := r.Row(y)
				for x := range r.Width {
					drow[x*3] = srow[x*4]
					drow[x*3+1] = srow[x*4+1]
					drow[x*3+2] = srow[x*4+2]
				}
			}
			return r
		}
	}

	for y := range r.Height {
		for x := range r.Width {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			r.Set(x, y, c.R, c.G, c.B)
		}
	}
	return r
}

// ToImage returns an opaque *image.NRGBA copy of the raster.
func (r *Raster) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, r.Width, r.Height))
	for y := range r.Height {
		srow := r.Row(y)
		drow := img.Pix[y*img.Stride:]
		for x := range r.Width {
			drow[x*4] = srow[x*3]
			drow[x*4+1] = srow[x*3+1]
			drow[x*4+2] = srow[x*3+2]
			drow[x*4+3] = 0xff
		}
	}
	return img
}

// Stride returns the number of bytes per row.
func (r *Raster) Stride() int {
	return r.Width * Channels
}

// Bounds returns the raster dimensions as (width, height).
func (r *Raster) Bounds() (int, int) {
	return r.Width, r.Height
}

// Row returns the pixel bytes of row y. It panics if y is out of range.
func (r *Raster) Row(y int) []uint8 {
	s := r.Stride()
	return r.Pix[y*s : (y+1)*s]
}

// At returns the channels of pixel (x, y). It panics if (x, y) is out of range.
func (r *Raster) At(x, y int) (c0, c1, c2 uint8) {
	i := (y*r.Width + x) * Channels
	return r.Pix[i], r.Pix[i+1], r.Pix[i+2]
}

// Set writes the channels of pixel (x, y). It panics if (x, y) is out of range.
func (r *Raster) Set(x, y int, c0, c1, c2 uint8) {
	i := (y*r.Width + x) * Channels
	r.Pix[i] = c0
	r.Pix[i+1] = c1
	r.Pix[i+2] = c2
}

// Fill sets every pixel to the given channel values.
func (r *Raster) Fill(c0, c1, c2 uint8) {
	for i := 0; i < len(r.Pix); i += Channels {
		r.Pix[i] = c0
		r.Pix[i+1] = c1
		r.Pix[i+2] = c2
	}
}

// Clone returns a deep copy.
func (r *Raster) Clone() *Raster {
	pix := make([]uint8, len(r.Pix))
	copy(pix, r.Pix)
	return &Raster{Pix: pix, Width: r.Width, Height: r.Height}
}

// Equal reports whether both rasters have the same size and pixels.
func (r *Raster) Equal(o *Raster) bool {
	if r.Width != o.Width || r.Height != o.Height {
		return false
	}
	for i, v := range r.Pix {
		if o.Pix[i] != v {
			return false
		}
	}
	return true
}

// MaxAbsDiff returns the largest per-channel absolute difference between two
// rasters of equal size.
func (r *Raster) MaxAbsDiff(o *Raster) (int, error) {
	if r.Width != o.Width || r.Height != o.Height {
		return 0, ErrSizeMismatch
	}
	worst := 0
	for i, v := range r.Pix {
		d := int(v) - int(o.Pix[i])
		if d < 0 {
			d = -d
		}
		worst = max(worst, d)
	}
	return worst, nil
}

// decimate keeps every even row and column, halving each dimension (floor).
func (r *Raster) decimate() *Raster {
	dst := newRaster(r.Width/2, r.Height/2)
	for y := range dst.Height {
		srow := r.Row(2 * y)
		drow := dst.Row(y)
		for x := range dst.Width {
			copy(drow[x*3:x*3+3], srow[x*6:x*6+3])
		}
	}
	return dst
}
