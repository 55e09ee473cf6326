package deform

import (
	"runtime"
	"sync"
)

// DefaultParallelThreshold is the vertex count below which Parallel runs
// single-threaded; goroutine handoff costs more than the work itself.
const DefaultParallelThreshold = 4096

// workChunk is a contiguous vertex range for one worker.
type workChunk struct {
	start, end int
	fn         func(lo, hi int)
}

// Parallel is an Executor backed by a persistent worker pool.
// Workers start lazily on the first dispatch above the threshold.
type Parallel struct {
	numWorkers int
	threshold  int

	workChan chan workChunk // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool
	mu       sync.Mutex // serializes Dispatch and Close
}

// NewParallel creates a pool with the given worker count (0 = GOMAXPROCS)
// and serial threshold (0 = DefaultParallelThreshold).
func NewParallel(workers, threshold int) *Parallel {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if threshold <= 0 {
		threshold = DefaultParallelThreshold
	}
	return &Parallel{
		numWorkers: workers,
		threshold:  threshold,
	}
}

// Workers returns the pool size.
func (p *Parallel) Workers() int {
	return p.numWorkers
}

// startWorkers launches persistent worker goroutines.
func (p *Parallel) startWorkers() {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// stopWorkers signals all workers to exit and waits for them.
func (p *Parallel) stopWorkers() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

// worker processes chunks until stopped.
func (p *Parallel) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			chunk.fn(chunk.start, chunk.end)
			p.doneChan <- struct{}{}
		}
	}
}

// Dispatch implements Executor. It blocks until every chunk has finished.
func (p *Parallel) Dispatch(n int, fn func(lo, hi int)) {
	if n <= 0 {
		return
	}
	if n < p.threshold || p.numWorkers == 1 {
		fn(0, n)
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		p.startWorkers()
	}

	chunkSize := (n + p.numWorkers - 1) / p.numWorkers

	chunksDispatched := 0
	for w := 0; w < p.numWorkers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}

		p.workChan <- workChunk{start: start, end: end, fn: fn}
		chunksDispatched++
	}

	for i := 0; i < chunksDispatched; i++ {
		<-p.doneChan
	}
}

// Close stops the worker pool. The executor may be reused afterwards;
// workers restart on the next parallel dispatch.
func (p *Parallel) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopWorkers()
}
