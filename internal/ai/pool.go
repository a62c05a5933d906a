package ai

import "sync"

// Runner executes submitted tasks. The production implementation is a
// bounded Pool; tests and the terminal client use SyncRunner. Components
// receive a Runner at construction so the concurrency limit is injectable,
// never a package-level singleton.
type Runner interface {
	Run(task func())
}

// Pool executes tasks on a fixed set of workers created once at startup and
// never resized. The queue is an unbounded FIFO: submissions never block,
// which also means there is no backpressure when the backend is slow.
type Pool struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []func()
	closed bool
	wg     sync.WaitGroup
}

// NewPool creates a pool with the given number of workers.
func NewPool(workers int) *Pool {
	p := &Pool{}
	p.cond = sync.NewCond(&p.mu)
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

// Run implements Runner. Tasks submitted after Close are dropped.
func (p *Pool) Run(task func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.queue = append(p.queue, task)
	p.cond.Signal()
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		p.mu.Lock()
		for len(p.queue) == 0 && !p.closed {
			p.cond.Wait()
		}
		if len(p.queue) == 0 && p.closed {
			p.mu.Unlock()
			return
		}
		task := p.queue[0]
		p.queue = p.queue[1:]
		p.mu.Unlock()

		task()
	}
}

// Close stops the workers after the queue drains and waits for them.
func (p *Pool) Close() {
	p.mu.Lock()
	p.closed = true
	p.cond.Broadcast()
	p.mu.Unlock()
	p.wg.Wait()
}

// SyncRunner runs each task on the calling goroutine.
type SyncRunner struct{}

// Run implements Runner.
func (SyncRunner) Run(task func()) {
	task()
}
