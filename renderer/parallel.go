package renderer

import (
	"runtime"
	"sync"
)

// parallelThreshold is the minimum number of block rows worth splitting.
// Below this, single-threaded is faster due to goroutine overhead.
const parallelThreshold = 16

// band is a range of block rows for a worker to process.
type band struct {
	start, end int
	fn         func(start, end int)
}

// bandPool runs row bands on persistent worker goroutines. Bands write
// disjoint rows of the frame, so no locking is needed around the pixels.
type bandPool struct {
	numWorkers int

	workChan chan band     // sends work to workers
	doneChan chan struct{} // workers signal completion
	stopChan chan struct{} // signals workers to exit
	wg       sync.WaitGroup
	running  bool
}

func newBandPool(workers int) *bandPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &bandPool{numWorkers: workers}
}

// start launches the worker goroutines.
func (p *bandPool) start() {
	if p.running {
		return
	}

	p.workChan = make(chan band, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// stop signals all workers to exit and waits for them.
func (p *bandPool) stop() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

func (p *bandPool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.stopChan:
			return
		case b, ok := <-p.workChan:
			if !ok {
				return
			}
			b.fn(b.start, b.end)
			p.doneChan <- struct{}{}
		}
	}
}

// run calls fn over [0, n) split into one band per worker and returns once
// every band has finished.
func (p *bandPool) run(n int, fn func(start, end int)) {
	if n < parallelThreshold || p.numWorkers < 2 {
		fn(0, n)
		return
	}

	p.start()

	chunkSize := (n + p.numWorkers - 1) / p.numWorkers
	dispatched := 0
	for w := 0; w < p.numWorkers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, n)
		if start >= end {
			continue
		}
		p.workChan <- band{start: start, end: end, fn: fn}
		dispatched++
	}

	for i := 0; i < dispatched; i++ {
		<-p.doneChan
	}
}
