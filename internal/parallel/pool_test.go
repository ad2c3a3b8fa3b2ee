package parallel

import (
	"runtime"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWorkerPool_Create(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	if pool.Workers() != 4 {
		t.Errorf("Workers() = %d, want 4", pool.Workers())
	}
	if !pool.IsRunning() {
		t.Error("pool should be running after creation")
	}
}

func TestWorkerPool_CreateDefaultWorkers(t *testing.T) {
	for _, n := range []int{0, -3} {
		pool := NewWorkerPool(n)
		if got, want := pool.Workers(), runtime.GOMAXPROCS(0); got != want {
			t.Errorf("NewWorkerPool(%d).Workers() = %d, want %d", n, got, want)
		}
		pool.Close()
	}
}

func TestWorkerPool_ExecuteAll(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	var counter atomic.Int64
	work := make([]func(), 100)
	for i := range work {
		work[i] = func() { counter.Add(1) }
	}

	pool.ExecuteAll(work)

	if counter.Load() != 100 {
		t.Errorf("counter = %d, want 100", counter.Load())
	}
}

func TestWorkerPool_ExecuteAllEmpty(t *testing.T) {
	pool := NewWorkerPool(2)
	defer pool.Close()

	// Should not block.
	pool.ExecuteAll(nil)
	pool.ExecuteAll([]func(){})
}

func TestWorkerPool_ExecuteAllAfterClose(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Close()

	var counter atomic.Int64
	pool.ExecuteAll([]func(){
		func() { counter.Add(1) },
		func() { counter.Add(1) },
	})

	if counter.Load() != 2 {
		t.Errorf("closed pool ran %d items, want 2 (inline)", counter.Load())
	}
}

func TestWorkerPool_CloseIdempotent(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Close()
	pool.Close()

	if pool.IsRunning() {
		t.Error("pool should not be running after Close")
	}
}

func TestSplitRows(t *testing.T) {
	tests := []struct {
		name   string
		height int
		n      int
		want   []Band
	}{
		{"zero height", 0, 4, nil},
		{"single band when short", 10, 4, []Band{{0, 10}}},
		{"even split", 64, 4, []Band{{0, 16}, {16, 32}, {32, 48}, {48, 64}}},
		{"remainder goes first", 50, 3, []Band{{0, 17}, {17, 34}, {34, 50}}},
		{"capped by min rows", 40, 8, []Band{{0, 20}, {20, 40}}},
		{"n below one", 20, 0, []Band{{0, 20}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitRows(tt.height, tt.n)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("SplitRows(%d, %d) mismatch (-want +got):\n%s", tt.height, tt.n, diff)
			}

			total := 0
			for _, b := range got {
				if b.Rows() < MinBandRows && len(got) > 1 {
					t.Errorf("band %v has %d rows, below MinBandRows", b, b.Rows())
				}
				total += b.Rows()
			}
			if total != max(tt.height, 0) {
				t.Errorf("bands cover %d rows, want %d", total, tt.height)
			}
		})
	}
}

func TestForRowsCoversEveryRowOnce(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	const height = 257
	hits := make([]int32, height)

	ForRows(pool, height, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			atomic.AddInt32(&hits[y], 1)
		}
	})

	for y, h := range hits {
		if h != 1 {
			t.Fatalf("row %d visited %d times, want 1", y, h)
		}
	}
}

func TestForRowsNilPool(t *testing.T) {
	calls := 0
	ForRows(nil, 30, func(y0, y1 int) {
		calls++
		if y0 != 0 || y1 != 30 {
			t.Errorf("band = [%d, %d), want [0, 30)", y0, y1)
		}
	})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func BenchmarkForRows(b *testing.B) {
	pool := NewWorkerPool(0)
	defer pool.Close()

	row := make([]float64, 1024)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ForRows(pool, 1024, func(y0, y1 int) {
			var sum float64
			for y := y0; y < y1; y++ {
				for _, v := range row {
					sum += v * float64(y)
				}
			}
			_ = sum
		})
	}
}
