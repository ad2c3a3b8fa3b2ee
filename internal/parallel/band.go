package parallel

// MinBandRows is the smallest band handed to a worker. Below this the
// scheduling overhead outweighs the per-row convolution cost.
const MinBandRows = 16

// Band is a half-open range of rows [Y0, Y1).
type Band struct {
	Y0, Y1 int
}

// Rows returns the number of rows in the band.
func (b Band) Rows() int {
	return b.Y1 - b.Y0
}

// SplitRows partitions [0, height) into at most n contiguous bands of
// near-equal size, each at least MinBandRows tall unless height itself is
// smaller. Returns nil for a non-positive height.
func SplitRows(height, n int) []Band {
	if height <= 0 {
		return nil
	}
	n = max(1, min(n, height/MinBandRows))

	bands := make([]Band, 0, n)
	base, extra := height/n, height%n
	y := 0
	for i := range n {
		rows := base
		if i < extra {
			rows++
		}
		bands = append(bands, Band{Y0: y, Y1: y + rows})
		y += rows
	}
	return bands
}

// ForRows runs fn once per band of [0, height) and waits for completion.
// Bands are disjoint, so fn may write its own rows of a shared destination
// without synchronization. A nil pool runs fn over the full range inline.
func ForRows(p *WorkerPool, height int, fn func(y0, y1 int)) {
	if height <= 0 {
		return
	}
	if p == nil || p.Workers() == 1 {
		fn(0, height)
		return
	}

	bands := SplitRows(height, p.Workers()*2)
	if len(bands) == 1 {
		fn(0, height)
		return
	}

	work := make([]func(), len(bands))
	for i, b := range bands {
		work[i] = func() { fn(b.Y0, b.Y1) }
	}
	p.ExecuteAll(work)
}
