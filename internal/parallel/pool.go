// Package parallel provides the worker pool used to spread convolution work
// across row bands.
//
// A convolution reads an immutable source raster and writes a destination
// buffer whose rows are partitioned into disjoint bands. Each band is an
// independent work item, so the only shared state between workers is
// read-only (kernel weights and source pixels).
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// WorkerPool is a fixed set of goroutines that execute work items.
//
// Each worker owns a queue. A worker whose queue is empty steals from the
// other queues before blocking, which keeps bands of uneven cost balanced.
//
// Thread safety: WorkerPool is safe for concurrent use.
type WorkerPool struct {
	workers int

	// queues holds one buffered queue per worker.
	queues []chan func()

	done    chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool
}

// NewWorkerPool creates a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	queueSize := max(workers*4, 8)

	p := &WorkerPool{
		workers: workers,
		queues:  make([]chan func(), workers),
		done:    make(chan struct{}),
	}
	for i := range workers {
		p.queues[i] = make(chan func(), queueSize)
	}

	p.running.Store(true)

	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}

	return p
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	own := p.queues[id]

	for {
		select {
		case <-p.done:
			drain(own)
			return
		case work := <-own:
			work()
		default:
			if stolen := p.steal(id); stolen != nil {
				stolen()
				continue
			}
			select {
			case <-p.done:
				drain(own)
				return
			case work := <-own:
				work()
			}
		}
	}
}

// drain runs whatever is left in queue without blocking.
func drain(queue chan func()) {
	for {
		select {
		case work := <-queue:
			work()
		default:
			return
		}
	}
}

// steal takes one item from another worker's queue, or returns nil.
func (p *WorkerPool) steal(self int) func() {
	for i := range p.workers {
		if i == self {
			continue
		}
		select {
		case work := <-p.queues[i]:
			return work
		default:
		}
	}
	return nil
}

// ExecuteAll runs every item and waits for all of them to finish.
// Items are distributed round-robin across worker queues. On a closed
// pool the items run on the calling goroutine, so the work is never lost.
func (p *WorkerPool) ExecuteAll(work []func()) {
	if len(work) == 0 {
		return
	}
	if !p.running.Load() {
		for _, fn := range work {
			fn()
		}
		return
	}

	var pending sync.WaitGroup
	pending.Add(len(work))

	for i, fn := range work {
		wrapped := func() {
			defer pending.Done()
			fn()
		}

		select {
		case p.queues[i%p.workers] <- wrapped:
		case <-p.done:
			wrapped()
		}
	}

	pending.Wait()
}

// Close stops the workers after draining queued work. It must not race with
// an ExecuteAll call on the same pool. Close is safe to call multiple times.
func (p *WorkerPool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *WorkerPool) Workers() int {
	return p.workers
}

// IsRunning reports whether the pool still accepts work.
func (p *WorkerPool) IsRunning() bool {
	return p.running.Load()
}
