package pyramid

import (
	"sync"

	"github.com/gogpu/pyramid/internal/parallel"
)

// sharedPool serves Convolve calls that are not bound to a Pyramid.
var (
	sharedPoolOnce sync.Once
	sharedPool     *parallel.WorkerPool
)

func defaultPool() *parallel.WorkerPool {
	sharedPoolOnce.Do(func() {
		sharedPool = parallel.NewWorkerPool(0)
	})
	return sharedPool
}

// reflectIndex mirrors an out-of-range coordinate back into [0, n-1].
//
// Below zero the mirror point is 0 itself (-1 → 1); above the maximum the
// edge pixel is repeated first (n → n-1, n+1 → n-2). The result is in range
// for any c in [-(n-1), 2n-1].
func reflectIndex(c, n int) int {
	if c < 0 {
		return -c
	}
	if c > n-1 {
		return n - 1 - (c - n)
	}
	return c
}

// reflectTable returns t with t[i] = reflectIndex(i-half, n) for
// i in [0, n+2*half).
func reflectTable(n, half int) []int {
	t := make([]int, n+2*half)
	for i := range t {
		t[i] = reflectIndex(i-half, n)
	}
	return t
}

// Convolve applies k to every pixel of src independently per channel and
// returns a new raster of the same size. Out-of-range samples are reflected
// at the border (see reflectIndex).
//
// src must be larger than the kernel in both dimensions; otherwise a
// *DimensionError wrapping ErrImageTooSmall is returned.
//
// Each weighted sum is rounded to the nearest integer and clamped to [0, 255].
func (k *Kernel) Convolve(src *Raster) (*Raster, error) {
	return k.convolve(defaultPool(), src, false, "convolve")
}

// ConvolveQuincunx is Convolve restricted to a quincunx lattice: pixels whose
// row and column are both odd are copied from src unchanged, and every other
// pixel gets its weighted sum multiplied by 4.
//
// The ×4 factor compensates for a lattice on which only a quarter of the
// samples carry signal. Pair it with ScaleDown4 on a kernel copy to smooth a
// dense raster at the sites that survive 2× decimation.
func (k *Kernel) ConvolveQuincunx(src *Raster) (*Raster, error) {
	return k.convolve(defaultPool(), src, true, "convolve quincunx")
}

func (k *Kernel) convolve(pool *parallel.WorkerPool, src *Raster, quincunx bool, op string) (*Raster, error) {
	if src == nil || src.Width <= 0 || src.Height <= 0 {
		return nil, &DimensionError{Op: op, Level: -1, Err: ErrInvalidDimensions}
	}
	if src.Width <= k.size || src.Height <= k.size {
		return nil, tooSmall(op, src.Width, src.Height, k.size)
	}

	weights := k.weights
	if quincunx {
		weights = make([]float64, len(k.weights))
		for i, w := range k.weights {
			weights[i] = w * 4
		}
	}

	half := k.size / 2
	cols := reflectTable(src.Width, half)
	rows := reflectTable(src.Height, half)
	dst := newRaster(src.Width, src.Height)

	parallel.ForRows(pool, src.Height, func(y0, y1 int) {
		convolveRows(src, dst, weights, k.size, cols, rows, y0, y1, quincunx)
	})

	return dst, nil
}

// convolveRows fills dst rows [y0, y1). It reads only src and the lookup
// tables and writes only its own rows of dst.
func convolveRows(src, dst *Raster, weights []float64, size int, cols, rows []int, y0, y1 int, quincunx bool) {
	stride := src.Stride()

	for y := y0; y < y1; y++ {
		drow := dst.Row(y)
		for x := range src.Width {
			di := x * Channels

			if quincunx && y&1 == 1 && x&1 == 1 {
				si := y*stride + di
				drow[di] = src.Pix[si]
				drow[di+1] = src.Pix[si+1]
				drow[di+2] = src.Pix[si+2]
				continue
			}

			var s0, s1, s2 float64
			for m := range size {
				srow := src.Pix[rows[y+m]*stride:]
				wrow := weights[m*size : (m+1)*size]
				for n, w := range wrow {
					si := cols[x+n] * Channels
					s0 += float64(srow[si]) * w
					s1 += float64(srow[si+1]) * w
					s2 += float64(srow[si+2]) * w
				}
			}

			drow[di] = quantize(s0)
			drow[di+1] = quantize(s1)
			drow[di+2] = quantize(s2)
		}
	}
}

// quantize rounds v to the nearest integer and clamps it to [0, 255].
func quantize(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
