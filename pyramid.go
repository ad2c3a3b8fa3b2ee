package pyramid

import (
	"fmt"

	"github.com/gogpu/pyramid/internal/parallel"
)

const (
	// MaxLevels is the largest supported number of Gaussian levels.
	MaxLevels = 9

	// DefaultLevels is the level count used when WithLevels is not given.
	DefaultLevels = 3
)

// State is the build phase of a Pyramid.
type State uint8

const (
	// StateUninitialized holds only the source raster.
	StateUninitialized State = iota

	// StateGaussian has all Gaussian levels built.
	StateGaussian

	// StateLaplacian has both sequences built and can be reconstructed.
	StateLaplacian
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateGaussian:
		return "gaussian"
	case StateLaplacian:
		return "laplacian"
	default:
		return "unknown"
	}
}

// Pyramid is a Gaussian/Laplacian image pyramid over one source raster.
//
// Level 0 of the Gaussian sequence is the source; each following level is
// the previous one smoothed and decimated to half its width and height
// (rounded down). Laplacian level i holds Gaussian[i] minus the upsampled
// Gaussian[i+1], so there is one Laplacian level fewer than Gaussian levels.
//
// Building is strictly ordered: BuildGaussianPyramid, then
// BuildLaplacePyramid, after which Reconstruct and SaveAll are available.
//
// Thread safety: a Pyramid must not be built concurrently from several
// goroutines. Once built, its accessors and Reconstruct are safe for
// concurrent use.
type Pyramid struct {
	levels    int
	kernel    *Kernel
	upsampler Upsampler
	quincunx  bool

	pool    *parallel.WorkerPool
	ownPool bool

	gaussian  []*Raster
	laplacian []*Residual
	state     State
}

// New creates a pyramid over src, which becomes Gaussian level 0 without
// being copied. src must not be modified while the pyramid is in use.
//
// Returns ErrInvalidDimensions for a nil or empty source, ErrInvalidLevels
// for a level count outside [1, MaxLevels], ErrUnknownUpsampler for an
// undefined upsampling mode, and a *ConstructionError for an unsupported
// kernel type or sigma.
func New(src *Raster, opts ...Option) (*Pyramid, error) {
	if src == nil || src.Width <= 0 || src.Height <= 0 {
		return nil, ErrInvalidDimensions
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if o.levels < 1 || o.levels > MaxLevels {
		return nil, fmt.Errorf("%w: %d (want 1..%d)", ErrInvalidLevels, o.levels, MaxLevels)
	}
	if !o.upsampler.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownUpsampler, uint8(o.upsampler))
	}

	var (
		k   *Kernel
		err error
	)
	if o.sigma != 0 {
		k, err = NewGaussianKernel(o.kernelType, o.sigma)
	} else {
		k, err = NewKernel(o.kernelType)
	}
	if err != nil {
		return nil, err
	}

	p := &Pyramid{
		levels:    o.levels,
		kernel:    k,
		upsampler: o.upsampler,
		quincunx:  o.quincunx,
		gaussian:  []*Raster{src},
	}
	if o.workers > 0 {
		p.pool = parallel.NewWorkerPool(o.workers)
		p.ownPool = true
	} else {
		p.pool = defaultPool()
	}

	return p, nil
}

// BuildGaussianPyramid computes Gaussian levels 1 through Levels()-1 and
// discards any previously built levels.
//
// Each level smooths the previous one with the pyramid kernel and keeps
// every other row and column. If a level would end up smaller than the
// kernel, a *DimensionError wrapping ErrImageTooSmall is returned and the
// pyramid is left uninitialized.
func (p *Pyramid) BuildGaussianPyramid() error {
	if len(p.gaussian) == 0 {
		return &DimensionError{Op: "build gaussian", Level: 0, Err: ErrNotBuilt}
	}

	p.reset()

	smoother := p.kernel
	if p.quincunx {
		// The quincunx pass multiplies by 4; undo it on a copy so the
		// surviving even sites see the plain kernel.
		smoother = p.kernel.Clone()
		smoother.ScaleDown4()
	}

	size := p.kernel.Size()
	for i := 1; i < p.levels; i++ {
		prev := p.gaussian[i-1]

		smoothed, err := smoother.convolve(p.pool, prev, p.quincunx, "build gaussian")
		if err != nil {
			p.reset()
			return fmt.Errorf("gaussian level %d: %w", i, err)
		}

		next := smoothed.decimate()
		if next.Width < size || next.Height < size {
			p.reset()
			return &DimensionError{
				Op:     "build gaussian",
				Width:  next.Width,
				Height: next.Height,
				Min:    size - 1,
				Level:  i,
				Err:    ErrImageTooSmall,
			}
		}

		p.gaussian = append(p.gaussian, next)
		Logger().Debug("gaussian level built", "level", i, "width", next.Width, "height", next.Height)
	}

	p.state = StateGaussian
	return nil
}

// BuildLaplacePyramid computes Laplacian levels 0 through Levels()-2 from
// the Gaussian levels. Returns a *DimensionError wrapping ErrNotBuilt if the
// Gaussian pyramid has not been built.
func (p *Pyramid) BuildLaplacePyramid() error {
	if p.state < StateGaussian {
		return &DimensionError{Op: "build laplacian", Level: -1, Err: ErrNotBuilt}
	}

	laplacian := make([]*Residual, 0, p.levels-1)
	for i := 0; i < p.levels-1; i++ {
		fine, coarse := p.gaussian[i], p.gaussian[i+1]

		up, err := upsample(p.pool, coarse, fine.Width, fine.Height, p.upsampler, p.kernel)
		if err != nil {
			return fmt.Errorf("laplacian level %d: %w", i, err)
		}
		diff, err := Subtract(fine, up)
		if err != nil {
			return fmt.Errorf("laplacian level %d: %w", i, err)
		}

		laplacian = append(laplacian, diff)
		Logger().Debug("laplacian level built", "level", i, "energy", diff.Energy())
	}

	p.laplacian = laplacian
	p.state = StateLaplacian
	return nil
}

// Reconstruct collapses the pyramid from Gaussian level dstLevel back to the
// source resolution: starting from that level it repeatedly upsamples and
// adds the Laplacian detail of the next finer level.
//
// Returns a *DimensionError wrapping ErrNotBuilt before BuildLaplacePyramid,
// or wrapping ErrLevelOutOfRange if dstLevel is outside [0, Levels()-1].
func (p *Pyramid) Reconstruct(dstLevel int) (*Raster, error) {
	if p.state < StateLaplacian {
		return nil, levelError("reconstruct", dstLevel, ErrNotBuilt)
	}
	if dstLevel < 0 || dstLevel >= p.levels {
		return nil, levelError("reconstruct", dstLevel, ErrLevelOutOfRange)
	}

	cur := p.gaussian[dstLevel].Clone()
	for i := dstLevel - 1; i >= 0; i-- {
		fine := p.gaussian[i]

		up, err := upsample(p.pool, cur, fine.Width, fine.Height, p.upsampler, p.kernel)
		if err != nil {
			return nil, fmt.Errorf("reconstruct level %d: %w", i, err)
		}
		if cur, err = p.laplacian[i].AddTo(up); err != nil {
			return nil, fmt.Errorf("reconstruct level %d: %w", i, err)
		}
	}

	return cur, nil
}

// Levels returns the configured number of Gaussian levels.
func (p *Pyramid) Levels() int {
	return p.levels
}

// State returns the current build phase.
func (p *Pyramid) State() State {
	return p.state
}

// Upsampler returns the configured upsampling mode.
func (p *Pyramid) Upsampler() Upsampler {
	return p.upsampler
}

// Kernel returns a copy of the smoothing kernel.
func (p *Pyramid) Kernel() *Kernel {
	return p.kernel.Clone()
}

// Gaussian returns Gaussian level i. Level 0 is always available until
// Release; higher levels require BuildGaussianPyramid.
func (p *Pyramid) Gaussian(i int) (*Raster, error) {
	if i < 0 || i >= p.levels {
		return nil, levelError("gaussian", i, ErrLevelOutOfRange)
	}
	if i >= len(p.gaussian) {
		return nil, levelError("gaussian", i, ErrNotBuilt)
	}
	return p.gaussian[i], nil
}

// Laplacian returns Laplacian level i, for i in [0, Levels()-2].
func (p *Pyramid) Laplacian(i int) (*Residual, error) {
	if i < 0 || i >= p.levels-1 {
		return nil, levelError("laplacian", i, ErrLevelOutOfRange)
	}
	if p.state < StateLaplacian {
		return nil, levelError("laplacian", i, ErrNotBuilt)
	}
	return p.laplacian[i], nil
}

// Release drops both level sequences, including the source reference, and
// stops the pyramid's own worker pool if it has one. The pyramid cannot be
// rebuilt afterwards.
func (p *Pyramid) Release() {
	p.gaussian = nil
	p.laplacian = nil
	p.state = StateUninitialized
	if p.ownPool {
		p.pool.Close()
	}
}

// reset keeps only the source level.
func (p *Pyramid) reset() {
	if len(p.gaussian) > 1 {
		clear(p.gaussian[1:])
		p.gaussian = p.gaussian[:1]
	}
	p.laplacian = nil
	p.state = StateUninitialized
}
