package pyramid

// Residual is a signed, 3-channel detail layer of a Laplacian pyramid.
//
// Each channel holds the difference between two 8-bit rasters, so values lie
// in [-255, 255] and are kept as int16 to avoid losing the sign before
// reconstruction.
type Residual struct {
	Pix    []int16
	Width  int
	Height int
}

// Subtract returns a - b per pixel and channel.
// Returns ErrSizeMismatch if the rasters differ in size.
func Subtract(a, b *Raster) (*Residual, error) {
	if a.Width != b.Width || a.Height != b.Height {
		return nil, ErrSizeMismatch
	}

	res := &Residual{
		Pix:    make([]int16, len(a.Pix)),
		Width:  a.Width,
		Height: a.Height,
	}
	for i, v := range a.Pix {
		res.Pix[i] = int16(v) - int16(b.Pix[i])
	}
	return res, nil
}

// At returns the signed channels of pixel (x, y).
func (r *Residual) At(x, y int) (c0, c1, c2 int16) {
	i := (y*r.Width + x) * Channels
	return r.Pix[i], r.Pix[i+1], r.Pix[i+2]
}

// AddTo returns base + r per pixel and channel, clamped to [0, 255].
// Returns ErrSizeMismatch if base differs in size.
func (r *Residual) AddTo(base *Raster) (*Raster, error) {
	if base.Width != r.Width || base.Height != r.Height {
		return nil, ErrSizeMismatch
	}

	dst := newRaster(r.Width, r.Height)
	for i, d := range r.Pix {
		dst.Pix[i] = clampByte(int(base.Pix[i]) + int(d))
	}
	return dst, nil
}

// Visualize maps the residual into a displayable raster as v/2 + 128, so a
// zero difference is mid-gray. The mapping loses the lowest bit.
func (r *Residual) Visualize() *Raster {
	dst := newRaster(r.Width, r.Height)
	for i, d := range r.Pix {
		dst.Pix[i] = clampByte(int(d)/2 + 128)
	}
	return dst
}

// Energy returns the mean absolute value over all channels, a cheap measure
// of how much detail a level carries.
func (r *Residual) Energy() float64 {
	if len(r.Pix) == 0 {
		return 0
	}
	var sum int64
	for _, d := range r.Pix {
		if d < 0 {
			d = -d
		}
		sum += int64(d)
	}
	return float64(sum) / float64(len(r.Pix))
}

func clampByte(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
