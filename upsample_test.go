package pyramid

import (
	"errors"
	"testing"
)

func TestUpsampleNearestReplicatesBlocks(t *testing.T) {
	src := noiseRaster(t, 6, 4, 9)

	up, err := Upsample(src, 12, 8, UpsampleNearest, nil)
	if err != nil {
		t.Fatal(err)
	}

	for y := range 8 {
		for x := range 12 {
			g0, g1, g2 := up.At(x, y)
			w0, w1, w2 := src.At(x/2, y/2)
			if g0 != w0 || g1 != w1 || g2 != w2 {
				t.Fatalf("pixel (%d,%d) = (%d,%d,%d), want source (%d,%d) = (%d,%d,%d)",
					x, y, g0, g1, g2, x/2, y/2, w0, w1, w2)
			}
		}
	}
}

func TestUpsampleNearestOddSize(t *testing.T) {
	src := noiseRaster(t, 6, 4, 10)

	up, err := Upsample(src, 13, 9, UpsampleNearest, nil)
	if err != nil {
		t.Fatal(err)
	}
	if up.Width != 13 || up.Height != 9 {
		t.Fatalf("size = %dx%d, want 13x9", up.Width, up.Height)
	}

	// Pixel centers map back by the 6/13 and 4/9 ratios.
	for y := range 9 {
		for x := range 13 {
			sx, sy := (2*x+1)*6/26, (2*y+1)*4/18
			g0, g1, g2 := up.At(x, y)
			w0, w1, w2 := src.At(sx, sy)
			if g0 != w0 || g1 != w1 || g2 != w2 {
				t.Fatalf("pixel (%d,%d) does not match source (%d,%d)", x, y, sx, sy)
			}
		}
	}
}

func TestUpsampleBilinearFlat(t *testing.T) {
	src := flatRaster(t, 9, 7, 173)

	up, err := Upsample(src, 19, 14, UpsampleBilinear, nil)
	if err != nil {
		t.Fatal(err)
	}
	if up.Width != 19 || up.Height != 14 {
		t.Fatalf("size = %dx%d, want 19x14", up.Width, up.Height)
	}
	if d, _ := up.MaxAbsDiff(flatRaster(t, 19, 14, 173)); d > 1 {
		t.Errorf("bilinear on flat input deviates by %d", d)
	}
}

func TestUpsampleExpand(t *testing.T) {
	src := gradientRaster(t, 25, 18)

	for _, dims := range [][2]int{{50, 36}, {51, 37}} {
		up, err := Upsample(src, dims[0], dims[1], UpsampleExpand, nil)
		if err != nil {
			t.Fatalf("expand to %dx%d: %v", dims[0], dims[1], err)
		}
		if up.Width != dims[0] || up.Height != dims[1] {
			t.Errorf("expand size = %dx%d, want %dx%d", up.Width, up.Height, dims[0], dims[1])
		}
	}
}

func TestUpsampleExpandUsesKernel(t *testing.T) {
	src := noiseRaster(t, 12, 12, 4)

	k3 := mustKernel(t, Gaussian3)
	k7 := mustKernel(t, Gaussian7)

	a, err := Upsample(src, 24, 24, UpsampleExpand, k3)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Upsample(src, 24, 24, UpsampleExpand, k7)
	if err != nil {
		t.Fatal(err)
	}
	if a.Equal(b) {
		t.Error("expand ignored the kernel argument")
	}
	if k3.Sum() > 1.0001 {
		t.Error("expand scaled the caller's kernel")
	}
}

func TestUpsampleExpandTooSmall(t *testing.T) {
	src := flatRaster(t, 2, 2, 50)
	if _, err := Upsample(src, 4, 4, UpsampleExpand, nil); !errors.Is(err, ErrImageTooSmall) {
		t.Errorf("error = %v, want ErrImageTooSmall", err)
	}
}

func TestUpsampleInvalid(t *testing.T) {
	src := flatRaster(t, 4, 4, 0)

	if _, err := Upsample(src, 0, 8, UpsampleNearest, nil); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("zero width error = %v, want ErrInvalidDimensions", err)
	}
	_, err := Upsample(src, 8, 8, Upsampler(42), nil)
	if !errors.Is(err, ErrUnknownUpsampler) {
		t.Errorf("unknown mode error = %v, want ErrUnknownUpsampler", err)
	}
	if err != nil && err.Error() != "pyramid: unknown upsampler: 42" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestParseUpsampler(t *testing.T) {
	for _, u := range []Upsampler{UpsampleNearest, UpsampleBilinear, UpsampleExpand} {
		got, err := ParseUpsampler(u.String())
		if err != nil {
			t.Fatalf("ParseUpsampler(%q) error = %v", u.String(), err)
		}
		if got != u {
			t.Errorf("ParseUpsampler(%q) = %v, want %v", u.String(), got, u)
		}
	}

	if _, err := ParseUpsampler("cubic"); !errors.Is(err, ErrUnknownUpsampler) {
		t.Errorf("ParseUpsampler(cubic) error = %v, want ErrUnknownUpsampler", err)
	}
	if Upsampler(3).IsValid() || !UpsampleExpand.IsValid() {
		t.Error("IsValid() disagrees with the defined modes")
	}
	if s := Upsampler(9).String(); s != "Upsampler(9)" {
		t.Errorf("String() = %q", s)
	}
}
