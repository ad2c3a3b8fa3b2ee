package pyramid

// Option configures a Pyramid during creation.
//
// Example:
//
//	// 3 levels, 5x5 table kernel, nearest-neighbor upsampling
//	p, err := pyramid.New(src)
//
//	// 5 levels, 7x7 kernel evaluated at sigma 1.2, bilinear upsampling
//	p, err := pyramid.New(src,
//	    pyramid.WithLevels(5),
//	    pyramid.WithKernelType(pyramid.Gaussian7),
//	    pyramid.WithSigma(1.2),
//	    pyramid.WithUpsampler(pyramid.UpsampleBilinear))
type Option func(*options)

// options holds optional configuration for Pyramid creation.
type options struct {
	levels     int
	kernelType KernelType
	sigma      float64 // 0 selects the precomputed table
	upsampler  Upsampler
	quincunx   bool
	workers    int // 0 shares the package pool
}

// defaultOptions returns the default pyramid options.
func defaultOptions() options {
	return options{
		levels:     DefaultLevels,
		kernelType: Gaussian5,
		upsampler:  UpsampleNearest,
		quincunx:   true,
	}
}

// WithLevels sets the number of Gaussian levels, including the source.
// Valid values are 1 through MaxLevels. The count is never reduced
// automatically: if the source is too small for n levels,
// BuildGaussianPyramid fails.
func WithLevels(n int) Option {
	return func(o *options) {
		o.levels = n
	}
}

// WithKernelType selects the smoothing kernel width.
func WithKernelType(t KernelType) Option {
	return func(o *options) {
		o.kernelType = t
	}
}

// WithSigma evaluates the kernel from a Gaussian with the given standard
// deviation instead of using the precomputed table.
func WithSigma(sigma float64) Option {
	return func(o *options) {
		o.sigma = sigma
	}
}

// WithUpsampler selects the upsampling mode for the Laplacian pyramid.
func WithUpsampler(u Upsampler) Option {
	return func(o *options) {
		o.upsampler = u
	}
}

// WithQuincunx toggles the quincunx smoothing pass used while building the
// Gaussian pyramid. Both settings produce identical levels; the quincunx pass
// skips a quarter of the pixels that decimation discards anyway.
func WithQuincunx(enabled bool) Option {
	return func(o *options) {
		o.quincunx = enabled
	}
}

// WithWorkers gives the pyramid its own worker pool of n goroutines,
// released by Release. With n <= 0 (the default) the pyramid shares the
// package-wide pool sized to GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}
