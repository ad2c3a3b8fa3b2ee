package pyramid

import (
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-vecmath"
)

// KernelType selects a square smoothing kernel by its width in pixels.
type KernelType int

const (
	// Gaussian3 is a 3x3 Gaussian kernel.
	Gaussian3 KernelType = 3

	// Gaussian5 is a 5x5 Gaussian kernel.
	Gaussian5 KernelType = 5

	// Gaussian7 is a 7x7 Gaussian kernel.
	Gaussian7 KernelType = 7
)

// DefaultSigma is the standard deviation the constant tables were built for.
const DefaultSigma = 0.84089642

// IsValid reports whether t is one of the supported kernel widths.
func (t KernelType) IsValid() bool {
	return t == Gaussian3 || t == Gaussian5 || t == Gaussian7
}

// String returns e.g. "gaussian5".
func (t KernelType) String() string {
	if !t.IsValid() {
		return fmt.Sprintf("KernelType(%d)", int(t))
	}
	return fmt.Sprintf("gaussian%d", int(t))
}

// Precomputed Gaussian weights for DefaultSigma, normalized to sum to 1.
var (
	gaussianTable3 = []float64{
		0.06163058, 0.12499391, 0.06163058,
		0.12499391, 0.25350202, 0.12499391,
		0.06163058, 0.12499391, 0.06163058,
	}

	gaussianTable5 = []float64{
		0.00078890, 0.00658115, 0.01334732, 0.00658115, 0.00078890,
		0.00658115, 0.05490089, 0.11134531, 0.05490089, 0.00658115,
		0.01334732, 0.11134531, 0.22582110, 0.11134531, 0.01334732,
		0.00658115, 0.05490089, 0.11134531, 0.05490089, 0.00658115,
		0.00078890, 0.00658115, 0.01334732, 0.00658115, 0.00078890,
	}

	gaussianTable7 = []float64{
		0.00000067, 0.00002292, 0.00019117, 0.00038771, 0.00019117, 0.00002292, 0.00000067,
		0.00002292, 0.00078633, 0.00655965, 0.01330373, 0.00655965, 0.00078633, 0.00002292,
		0.00019117, 0.00655965, 0.05472157, 0.11098164, 0.05472157, 0.00655965, 0.00019117,
		0.00038771, 0.01330373, 0.11098164, 0.22508352, 0.11098164, 0.01330373, 0.00038771,
		0.00019117, 0.00655965, 0.05472157, 0.11098164, 0.05472157, 0.00655965, 0.00019117,
		0.00002292, 0.00078633, 0.00655965, 0.01330373, 0.00655965, 0.00078633, 0.00002292,
		0.00000067, 0.00002292, 0.00019117, 0.00038771, 0.00019117, 0.00002292, 0.00000067,
	}
)

// Kernel is a square 2D weight matrix for smoothing a Raster.
//
// A Kernel is built once, optionally normalized or rescaled, and then used
// read-only; convolution never mutates it, so one Kernel may serve many
// concurrent Convolve calls.
type Kernel struct {
	size    int
	sigma   float64
	weights []float64 // row-major, size*size
}

// NewKernel returns a kernel initialized from the precomputed table for t.
// The table weights already sum to 1. Returns a *ConstructionError for any
// type other than Gaussian3, Gaussian5 or Gaussian7.
func NewKernel(t KernelType) (*Kernel, error) {
	var table []float64
	switch t {
	case Gaussian3:
		table = gaussianTable3
	case Gaussian5:
		table = gaussianTable5
	case Gaussian7:
		table = gaussianTable7
	default:
		return nil, &ConstructionError{Type: t, Err: ErrUnsupportedKernel}
	}

	k := &Kernel{
		size:    int(t),
		sigma:   DefaultSigma,
		weights: make([]float64, len(table)),
	}
	copy(k.weights, table)
	return k, nil
}

// NewGaussianKernel evaluates a Gaussian with the given sigma over a kernel of
// type t and normalizes it. Returns a *ConstructionError for an unsupported
// type or a non-positive sigma.
func NewGaussianKernel(t KernelType, sigma float64) (*Kernel, error) {
	if !(sigma > 0) || math.IsInf(sigma, 0) {
		return nil, &ConstructionError{Type: t, Sigma: sigma, Err: ErrUnsupportedKernel}
	}
	k, err := NewKernel(t)
	if err != nil {
		return nil, err
	}
	k.sigma = sigma
	k.Normalize()
	return k, nil
}

// Normalize recomputes every weight from the continuous Gaussian density
//
//	w(i, j) = 1/(2πσ²) · exp(-(i² + j²) / (2σ²))
//
// for offsets (i, j) from the center cell, then divides by the total so the
// weights sum to 1.
func (k *Kernel) Normalize() {
	sigmaSq := k.sigma * k.sigma
	fract := 1 / (2 * math.Pi * sigmaSq)
	c := k.size / 2

	var sum float64
	for i := -c; i <= c; i++ {
		for j := -c; j <= c; j++ {
			w := fract * math.Exp(-float64(i*i+j*j)/(2*sigmaSq))
			k.weights[(i+c)*k.size+j+c] = w
			sum += w
		}
	}
	vecmath.ScaleBlock(k.weights, k.weights, 1/sum)

	Logger().Debug("kernel normalized", "size", k.size, "sigma", k.sigma, "sum", k.Sum())
}

// ScaleUp4 multiplies every weight by 4. Used for passes over an
// interleaved lattice where only a quarter of the samples are non-zero.
func (k *Kernel) ScaleUp4() {
	vecmath.ScaleBlock(k.weights, k.weights, 4)
}

// ScaleDown4 divides every weight by 4, undoing ScaleUp4 exactly.
func (k *Kernel) ScaleDown4() {
	vecmath.ScaleBlock(k.weights, k.weights, 0.25)
}

// Clone returns an independent copy of k.
func (k *Kernel) Clone() *Kernel {
	w := make([]float64, len(k.weights))
	copy(w, k.weights)
	return &Kernel{size: k.size, sigma: k.sigma, weights: w}
}

// Size returns the kernel width (and height) in pixels.
func (k *Kernel) Size() int {
	return k.size
}

// Type returns the KernelType matching the kernel size.
func (k *Kernel) Type() KernelType {
	return KernelType(k.size)
}

// Sigma returns the Gaussian standard deviation.
func (k *Kernel) Sigma() float64 {
	return k.sigma
}

// Weight returns the weight at (row, col), both in [0, Size()).
func (k *Kernel) Weight(row, col int) float64 {
	return k.weights[row*k.size+col]
}

// Weights returns a copy of the weight matrix.
func (k *Kernel) Weights() [][]float64 {
	out := make([][]float64, k.size)
	for i := range out {
		out[i] = make([]float64, k.size)
		copy(out[i], k.weights[i*k.size:(i+1)*k.size])
	}
	return out
}

// Sum returns the sum of all weights.
func (k *Kernel) Sum() float64 {
	var sum float64
	for _, w := range k.weights {
		sum += w
	}
	return sum
}

// String prints the matrix one row per line followed by its sum.
func (k *Kernel) String() string {
	var sb strings.Builder
	for i := range k.size {
		for j := range k.size {
			if j > 0 {
				sb.WriteString("  ")
			}
			fmt.Fprintf(&sb, "%.8f", k.Weight(i, j))
		}
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "sum = %.8f", k.Sum())
	return sb.String()
}
