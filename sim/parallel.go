package sim

import (
	"fmt"
	"runtime"
	"sync"
)

// parallelThreshold is the minimum item count to use parallel processing.
// Below this, single-threaded is faster due to goroutine overhead.
const parallelThreshold = 64

// workChunk represents a range of items for a worker to process.
type workChunk struct {
	start, end int
	fn         func(lo, hi int)
	run        *stageRun
}

// stageRun tracks the chunks of one stage until all of them finish.
type stageRun struct {
	wg      sync.WaitGroup
	mu      sync.Mutex
	failure any // first recovered panic
}

func (r *stageRun) exec(fn func(lo, hi int), lo, hi int) {
	defer func() {
		if v := recover(); v != nil {
			r.mu.Lock()
			if r.failure == nil {
				r.failure = v
			}
			r.mu.Unlock()
		}
	}()
	fn(lo, hi)
}

// workerPool runs data-parallel stages on persistent goroutines.
type workerPool struct {
	numWorkers int
	workUnit   int

	// Worker pool channels
	workChan chan workChunk // sends work to workers
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool           // true if workers are running
}

// newWorkerPool sizes a pool. workers <= 0 means GOMAXPROCS.
func newWorkerPool(workers, workUnit int) *workerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workUnit < 1 {
		workUnit = 1
	}
	return &workerPool{
		numWorkers: workers,
		workUnit:   workUnit,
	}
}

// startWorkers launches persistent worker goroutines.
func (p *workerPool) startWorkers() {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// stopWorkers signals all workers to exit and waits for them.
func (p *workerPool) stopWorkers() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	p.running = false
}

// worker runs in a goroutine, processing chunks until stopped.
func (p *workerPool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			chunk.run.exec(chunk.fn, chunk.start, chunk.end)
			chunk.run.wg.Done()
		}
	}
}

// run applies fn to [0, n) in workUnit-sized chunks and returns only when
// every chunk has finished, so consecutive calls are barrier-separated.
// A panic inside fn is re-raised here, tagged with the stage name.
func (p *workerPool) run(stage string, n int, fn func(lo, hi int)) {
	if n <= 0 {
		return
	}

	r := &stageRun{}
	if n < parallelThreshold || p.numWorkers == 1 {
		r.exec(fn, 0, n)
	} else {
		if !p.running {
			p.startWorkers()
		}
		for start := 0; start < n; start += p.workUnit {
			end := min(start+p.workUnit, n)
			r.wg.Add(1)
			p.workChan <- workChunk{start: start, end: end, fn: fn, run: r}
		}
		r.wg.Wait()
	}

	if r.failure != nil {
		panic(fmt.Errorf("sim: stage %s: %v", stage, r.failure))
	}
}
