package ai

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestPoolRunsAllTasks(t *testing.T) {
	p := NewPool(4)

	var count int64
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		p.Run(func() {
			defer wg.Done()
			atomic.AddInt64(&count, 1)
		})
	}
	wg.Wait()
	p.Close()

	if count != 50 {
		t.Errorf("ran %d tasks, want 50", count)
	}
}

func TestPoolBoundsConcurrency(t *testing.T) {
	const workers = 2
	p := NewPool(workers)
	defer p.Close()

	var active, peak int64
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		p.Run(func() {
			defer wg.Done()
			n := atomic.AddInt64(&active, 1)
			for {
				old := atomic.LoadInt64(&peak)
				if n <= old || atomic.CompareAndSwapInt64(&peak, old, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			atomic.AddInt64(&active, -1)
		})
	}
	wg.Wait()

	if peak > workers {
		t.Errorf("peak concurrency = %d, want at most %d", peak, workers)
	}
}

func TestPoolSubmitNeverBlocks(t *testing.T) {
	p := NewPool(1)
	defer p.Close()

	block := make(chan struct{})
	p.Run(func() { <-block })

	// The single worker is busy; further submissions must still return
	// immediately because the queue is unbounded.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			p.Run(func() {})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run blocked while the worker was busy")
	}
	close(block)
}

func TestPoolCloseDrainsQueue(t *testing.T) {
	p := NewPool(2)

	var count int64
	for i := 0; i < 20; i++ {
		p.Run(func() {
			time.Sleep(time.Millisecond)
			atomic.AddInt64(&count, 1)
		})
	}
	p.Close()

	if count != 20 {
		t.Errorf("Close returned with %d of 20 tasks done", count)
	}
}

func TestPoolDropsAfterClose(t *testing.T) {
	p := NewPool(1)
	p.Close()

	ran := make(chan struct{}, 1)
	p.Run(func() { ran <- struct{}{} })

	select {
	case <-ran:
		t.Fatal("task ran after Close")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSyncRunnerRunsInline(t *testing.T) {
	ran := false
	SyncRunner{}.Run(func() { ran = true })
	if !ran {
		t.Error("SyncRunner did not run the task inline")
	}
}
