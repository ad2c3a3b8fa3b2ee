package pyramid

import (
	"errors"
	"fmt"
)

// Sentinel errors. The typed errors below unwrap to one of these, so callers
// can match with errors.Is and still get details through errors.As.
var (
	// ErrUnsupportedKernel is returned for a kernel type other than 3, 5 or 7,
	// or for a non-positive sigma.
	ErrUnsupportedKernel = errors.New("pyramid: unsupported kernel")

	// ErrImageTooSmall is returned when a raster is not larger than the kernel.
	ErrImageTooSmall = errors.New("pyramid: image too small for kernel")

	// ErrLevelOutOfRange is returned for a level index outside [0, levels-1].
	ErrLevelOutOfRange = errors.New("pyramid: level out of range")

	// ErrNotBuilt is returned when an operation needs a pyramid stage that
	// has not been built yet.
	ErrNotBuilt = errors.New("pyramid: level not built")

	// ErrInvalidLevels is returned for a level count outside [1, MaxLevels].
	ErrInvalidLevels = errors.New("pyramid: invalid level count")

	// ErrInvalidDimensions is returned for non-positive raster dimensions.
	ErrInvalidDimensions = errors.New("pyramid: invalid dimensions")

	// ErrSizeMismatch is returned when two rasters must share dimensions but do not.
	ErrSizeMismatch = errors.New("pyramid: raster size mismatch")

	// ErrUnknownUpsampler is returned for an Upsampler value or name outside
	// the defined modes.
	ErrUnknownUpsampler = errors.New("pyramid: unknown upsampler")
)

// ConstructionError reports a kernel that cannot be built.
type ConstructionError struct {
	Type  KernelType
	Sigma float64
	Err   error
}

func (e *ConstructionError) Error() string {
	if e.Sigma != 0 {
		return fmt.Sprintf("%v: type %d, sigma %g", e.Err, int(e.Type), e.Sigma)
	}
	return fmt.Sprintf("%v: type %d", e.Err, int(e.Type))
}

func (e *ConstructionError) Unwrap() error { return e.Err }

// DimensionError reports a raster or level that does not satisfy an
// operation's size or state precondition.
type DimensionError struct {
	// Op names the operation that failed, e.g. "convolve" or "reconstruct".
	Op string

	// Width and Height are the offending raster dimensions, if any.
	Width, Height int

	// Min is the smallest acceptable dimension, if applicable.
	Min int

	// Level is the pyramid level involved, or -1.
	Level int

	Err error
}

func (e *DimensionError) Error() string {
	switch {
	case e.Min > 0:
		return fmt.Sprintf("%s: %v: %dx%d, need more than %d", e.Op, e.Err, e.Width, e.Height, e.Min)
	case e.Level >= 0:
		return fmt.Sprintf("%s: %v: level %d", e.Op, e.Err, e.Level)
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
}

func (e *DimensionError) Unwrap() error { return e.Err }

func tooSmall(op string, w, h, size int) error {
	return &DimensionError{Op: op, Width: w, Height: h, Min: size, Level: -1, Err: ErrImageTooSmall}
}

func levelError(op string, level int, err error) error {
	return &DimensionError{Op: op, Level: level, Err: err}
}
