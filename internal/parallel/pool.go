// Package parallel runs per-row image work on a shared worker pool.
//
// Image operations split a buffer into horizontal bands and hand each band
// to a worker. Bands are independent: each writes a disjoint range of rows
// of its destination, so no locking is needed inside a band.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a fixed set of goroutines with one queue per worker. An idle
// worker takes tasks from other workers' queues before blocking on its own.
//
// Pool is safe for concurrent use.
type Pool struct {
	workers int
	queues  []chan func()
	done    chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool
	next    atomic.Uint32
}

// NewPool starts a pool with n workers. If n <= 0, GOMAXPROCS is used.
func NewPool(n int) *Pool {
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	depth := max(8, n*4)

	p := &Pool{
		workers: n,
		queues:  make([]chan func(), n),
		done:    make(chan struct{}),
	}
	for i := range p.queues {
		p.queues[i] = make(chan func(), depth)
	}
	p.running.Store(true)

	p.wg.Add(n)
	for i := range n {
		go p.loop(i)
	}
	return p
}

func (p *Pool) loop(id int) {
	defer p.wg.Done()
	own := p.queues[id]
	for {
		select {
		case task := <-own:
			task()
			continue
		case <-p.done:
			drain(own)
			return
		default:
		}

		if task := p.steal(id); task != nil {
			task()
			continue
		}

		select {
		case task := <-own:
			task()
		case <-p.done:
			drain(own)
			return
		}
	}
}

func drain(q chan func()) {
	for {
		select {
		case task := <-q:
			task()
		default:
			return
		}
	}
}

func (p *Pool) steal(id int) func() {
	for i := 1; i < p.workers; i++ {
		select {
		case task := <-p.queues[(id+i)%p.workers]:
			return task
		default:
		}
	}
	return nil
}

// Run executes every task and waits for all of them. Tasks submitted
// after Close run on the calling goroutine.
func (p *Pool) Run(tasks []func()) {
	if len(tasks) == 0 {
		return
	}
	if len(tasks) == 1 || !p.running.Load() {
		for _, task := range tasks {
			task()
		}
		return
	}

	var wg sync.WaitGroup
	wg.Add(len(tasks))
	start := int(p.next.Add(1))
	for i, task := range tasks {
		wrapped := func() {
			defer wg.Done()
			task()
		}
		select {
		case p.queues[(start+i)%p.workers] <- wrapped:
		case <-p.done:
			wrapped()
		}
	}
	wg.Wait()
}

// Close stops the workers after the queued tasks finish. Close is
// idempotent.
func (p *Pool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}

// Workers returns the number of worker goroutines.
func (p *Pool) Workers() int {
	return p.workers
}

var (
	defaultOnce sync.Once
	defaultPool *Pool
)

// Default returns the process-wide pool, started on first use. It is never
// closed.
func Default() *Pool {
	defaultOnce.Do(func() {
		defaultPool = NewPool(0)
	})
	return defaultPool
}
