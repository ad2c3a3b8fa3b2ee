package pyramid

import (
	"math/rand/v2"
	"testing"
)

// Test helpers shared across the package tests.

// flatRaster returns a w×h raster with every channel set to v.
func flatRaster(t testing.TB, w, h int, v uint8) *Raster {
	t.Helper()
	r, err := NewRaster(w, h)
	if err != nil {
		t.Fatalf("NewRaster(%d, %d) error = %v", w, h, err)
	}
	r.Fill(v, v, v)
	return r
}

// noiseRaster returns a w×h raster of deterministic pseudo-random pixels.
func noiseRaster(t testing.TB, w, h int, seed uint64) *Raster {
	t.Helper()
	r, err := NewRaster(w, h)
	if err != nil {
		t.Fatalf("NewRaster(%d, %d) error = %v", w, h, err)
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	for i := range r.Pix {
		r.Pix[i] = uint8(rng.IntN(256))
	}
	return r
}

// gradientRaster returns a raster whose channels vary smoothly with x and y.
func gradientRaster(t testing.TB, w, h int) *Raster {
	t.Helper()
	r, err := NewRaster(w, h)
	if err != nil {
		t.Fatalf("NewRaster(%d, %d) error = %v", w, h, err)
	}
	for y := range h {
		for x := range w {
			r.Set(x, y, uint8(x*255/w), uint8(y*255/h), uint8((x+y)*127/(w+h)))
		}
	}
	return r
}

// allKernelTypes lists the supported kernel widths.
var allKernelTypes = []KernelType{Gaussian3, Gaussian5, Gaussian7}

// mustKernel builds a table kernel or fails the test.
func mustKernel(t testing.TB, kt KernelType) *Kernel {
	t.Helper()
	k, err := NewKernel(kt)
	if err != nil {
		t.Fatalf("NewKernel(%v) error = %v", kt, err)
	}
	return k
}
