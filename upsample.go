package pyramid

import (
	"fmt"
	"image"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/pyramid/internal/parallel"
)

// Upsampler selects how a coarser level is brought back to the size of the
// finer one when building and collapsing the Laplacian pyramid.
//
// Every mode is deterministic. Because the Laplacian levels are computed
// against the same upsampler that Reconstruct uses, reconstruction from the
// coarsest Gaussian level is exact whichever mode is chosen; the mode only
// changes how much detail ends up in each Laplacian level.
type Upsampler uint8

const (
	// UpsampleNearest scales to the finer level's size by nearest-neighbor
	// sampling. For even target sizes this replicates each pixel into a
	// 2×2 block.
	UpsampleNearest Upsampler = iota

	// UpsampleBilinear interpolates linearly between the 4 nearest samples.
	UpsampleBilinear

	// UpsampleExpand places samples on the even lattice, zeros elsewhere,
	// and smooths with a ScaleUp4 copy of the pyramid kernel.
	UpsampleExpand
)

// String returns the lowercase mode name.
func (u Upsampler) String() string {
	switch u {
	case UpsampleNearest:
		return "nearest"
	case UpsampleBilinear:
		return "bilinear"
	case UpsampleExpand:
		return "expand"
	default:
		return fmt.Sprintf("Upsampler(%d)", uint8(u))
	}
}

// IsValid reports whether u is one of the defined modes.
func (u Upsampler) IsValid() bool {
	return u <= UpsampleExpand
}

// ParseUpsampler maps a mode name to an Upsampler. Unknown names return an
// error wrapping ErrUnknownUpsampler.
func ParseUpsampler(s string) (Upsampler, error) {
	switch s {
	case "nearest":
		return UpsampleNearest, nil
	case "bilinear":
		return UpsampleBilinear, nil
	case "expand":
		return UpsampleExpand, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownUpsampler, s)
	}
}

// Upsample resizes src to width×height. k is used by UpsampleExpand only;
// a nil k selects the Gaussian5 table kernel.
func Upsample(src *Raster, width, height int, mode Upsampler, k *Kernel) (*Raster, error) {
	if k == nil && mode == UpsampleExpand {
		var err error
		if k, err = NewKernel(Gaussian5); err != nil {
			return nil, err
		}
	}
	return upsample(defaultPool(), src, width, height, mode, k)
}

func upsample(pool *parallel.WorkerPool, src *Raster, width, height int, mode Upsampler, k *Kernel) (*Raster, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}

	switch mode {
	case UpsampleNearest:
		return scaleImage(src, width, height, xdraw.NearestNeighbor), nil
	case UpsampleBilinear:
		return scaleImage(src, width, height, xdraw.BiLinear), nil
	case UpsampleExpand:
		return expand(pool, src, width, height, k)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownUpsampler, uint8(mode))
	}
}

func scaleImage(src *Raster, width, height int, scaler xdraw.Scaler) *Raster {
	in := src.ToImage()
	out := image.NewNRGBA(image.Rect(0, 0, width, height))
	scaler.Scale(out, out.Bounds(), in, in.Bounds(), xdraw.Src, nil)
	return RasterFromImage(out)
}

// expand spreads src over the even sites of a width×height lattice and
// smooths it with 4k. Even sites past the end of src repeat its last
// row or column so odd target sizes do not darken at the border.
func expand(pool *parallel.WorkerPool, src *Raster, width, height int, k *Kernel) (*Raster, error) {
	lattice := newRaster(width, height)
	for y := 0; y < height; y += 2 {
		sy := min(y/2, src.Height-1)
		drow := lattice.Row(y)
		for x := 0; x < width; x += 2 {
			sx := min(x/2, src.Width-1)
			c0, c1, c2 := src.At(sx, sy)
			drow[x*Channels] = c0
			drow[x*Channels+1] = c1
			drow[x*Channels+2] = c2
		}
	}

	k4 := k.Clone()
	k4.ScaleUp4()
	return k4.convolve(pool, lattice, false, "expand")
}
