// Command pyramid builds a Gaussian/Laplacian pyramid from an image, writes
// every level and the reconstruction to disk.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/pyramid"
)

// buildEnv holds the flags of the build command.
type buildEnv struct {
	input     string
	outDir    string
	format    string
	levels    int
	kernel    int
	sigma     float64
	upsampler string
	from      int
	workers   int
	verbose   bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "pyramid",
		Short:        "Gaussian and Laplacian image pyramids",
		SilenceUsage: true,
	}
	root.AddCommand(newBuildCmd(), newKernelCmd())
	return root
}

func newBuildCmd() *cobra.Command {
	env := &buildEnv{}
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a pyramid, save all levels and the reconstruction",
		Long: `
Loads the input image, builds the Gaussian pyramid and the Laplacian pyramid,
writes every level into the output directory, then collapses the pyramid from
the requested Gaussian level and writes the result as reconstructed.<ext>.
`,
		RunE: env.run,
	}

	cmd.Flags().StringVar(&env.input, "input", "", "path to the source image")
	cmd.Flags().StringVar(&env.outDir, "out-dir", "pyramid-out", "directory that receives the levels")
	cmd.Flags().StringVar(&env.format, "format", "png", "output format: png, jpeg, bmp or tiff")
	cmd.Flags().IntVar(&env.levels, "levels", pyramid.DefaultLevels, "number of Gaussian levels (1-9)")
	cmd.Flags().IntVar(&env.kernel, "kernel", 5, "kernel width: 3, 5 or 7")
	cmd.Flags().Float64Var(&env.sigma, "sigma", 0, "evaluate the kernel at this sigma instead of the table")
	cmd.Flags().StringVar(&env.upsampler, "upsampler", "nearest", "nearest, bilinear or expand")
	cmd.Flags().IntVar(&env.from, "from", -1, "reconstruct from this level (default: coarsest)")
	cmd.Flags().IntVar(&env.workers, "workers", 0, "convolution workers (default: GOMAXPROCS)")
	cmd.Flags().BoolVarP(&env.verbose, "verbose", "v", false, "log each build step")
	must(cmd.MarkFlagRequired("input"))

	return cmd
}

func (e *buildEnv) run(cmd *cobra.Command, _ []string) error {
	if e.verbose {
		pyramid.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
		defer pyramid.SetLogger(nil)
	}

	from := e.from
	if from < 0 {
		from = e.levels - 1
	}
	if from >= e.levels {
		return fmt.Errorf("%w: --from %d with %d levels", pyramid.ErrLevelOutOfRange, from, e.levels)
	}

	format, err := pyramid.ParseFormat(e.format)
	if err != nil {
		return err
	}
	up, err := pyramid.ParseUpsampler(e.upsampler)
	if err != nil {
		return err
	}

	src, err := pyramid.LoadRaster(e.input)
	if err != nil {
		return err
	}

	p, err := pyramid.New(src,
		pyramid.WithLevels(e.levels),
		pyramid.WithKernelType(pyramid.KernelType(e.kernel)),
		pyramid.WithSigma(e.sigma),
		pyramid.WithUpsampler(up),
		pyramid.WithWorkers(e.workers),
	)
	if err != nil {
		return err
	}
	defer p.Release()

	if err := p.BuildGaussianPyramid(); err != nil {
		return err
	}
	if err := p.BuildLaplacePyramid(); err != nil {
		return err
	}
	if err := p.SaveAll(cmd.Context(), e.outDir, format); err != nil {
		return err
	}

	out, err := p.Reconstruct(from)
	if err != nil {
		return err
	}
	if err := out.Save(filepath.Join(e.outDir, "reconstructed"+format.Ext())); err != nil {
		return err
	}

	maxErr, err := out.MaxAbsDiff(src)
	if err != nil {
		return err
	}

	pr := message.NewPrinter(language.English)
	w := cmd.OutOrStdout()
	for i := range p.Levels() {
		g, _ := p.Gaussian(i)
		dims := fmt.Sprintf("%dx%d", g.Width, g.Height)
		pr.Fprintf(w, "level %d: %s (%d pixels)\n", i, dims, g.Width*g.Height)
	}
	pr.Fprintf(w, "reconstructed from level %d, max channel error %d\n", from, maxErr)
	return nil
}

func newKernelCmd() *cobra.Command {
	var (
		size  int
		sigma float64
	)
	cmd := &cobra.Command{
		Use:   "kernel",
		Short: "Print a kernel's weight matrix",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				k   *pyramid.Kernel
				err error
			)
			if sigma != 0 {
				k, err = pyramid.NewGaussianKernel(pyramid.KernelType(size), sigma)
			} else {
				k, err = pyramid.NewKernel(pyramid.KernelType(size))
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), k)
			return nil
		},
	}
	cmd.Flags().IntVar(&size, "size", 5, "kernel width: 3, 5 or 7")
	cmd.Flags().Float64Var(&sigma, "sigma", 0, "evaluate at this sigma instead of using the table")
	return cmd
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
