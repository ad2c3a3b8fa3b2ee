// Package pyramid builds Gaussian and Laplacian image pyramids on top of a
// small-kernel 2D convolution engine.
//
// # Overview
//
// A [Kernel] is a 3×3, 5×5 or 7×7 Gaussian weight matrix, taken from a
// precomputed table or evaluated from a sigma. [Kernel.Convolve] smooths a
// 3-channel 8-bit [Raster] with reflective border handling and returns a new
// raster; rows are processed in parallel bands.
//
// A [Pyramid] repeatedly smooths and halves its source to form the Gaussian
// levels, stores the signed per-level differences as [Residual] Laplacian
// levels, and collapses them back with [Pyramid.Reconstruct].
//
// # Quick Start
//
//	src, err := pyramid.LoadRaster("input.png")
//	if err != nil {
//	    return err
//	}
//
//	p, err := pyramid.New(src, pyramid.WithLevels(4))
//	if err != nil {
//	    return err
//	}
//	defer p.Release()
//
//	if err := p.BuildGaussianPyramid(); err != nil {
//	    return err
//	}
//	if err := p.BuildLaplacePyramid(); err != nil {
//	    return err
//	}
//
//	out, err := p.Reconstruct(p.Levels() - 1)
//
// # Errors
//
// Precondition failures are returned, never fatal. Unsupported kernels yield a
// [*ConstructionError]; undersized rasters, out-of-range levels and unbuilt
// stages yield a [*DimensionError]. Both unwrap to sentinel errors such as
// [ErrUnsupportedKernel] and [ErrNotBuilt].
//
// # Logging
//
// The package is silent unless [SetLogger] installs a [log/slog] logger.
package pyramid
