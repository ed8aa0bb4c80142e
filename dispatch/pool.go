package dispatch

import (
	"errors"
	"fmt"
	"log"
	"runtime/debug"
	"sync"
)

// ErrPoolClosed is returned when work is submitted after Close.
var ErrPoolClosed = errors.New("dispatch: pool closed")

// Job is a unit of background work.
type Job func()

// Pool runs jobs on a fixed set of worker goroutines.
//
// Submit never blocks: when the queue is full the job gets its own
// goroutine. A panicking job is logged and does not take the worker down.
type Pool struct {
	c  chan Job
	wg sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewPool starts workerCount workers sharing a queue of queueSize jobs.
func NewPool(workerCount, queueSize int) *Pool {
	if workerCount <= 0 {
		panic("workerCount must be at least 1")
	}
	if queueSize < 0 {
		queueSize = 0
	}

	p := &Pool{c: make(chan Job, queueSize)}
	for n := 0; n < workerCount; n++ {
		go func() {
			for job := range p.c {
				p.run(job)
			}
		}()
	}
	return p
}

func (p *Pool) run(job Job) {
	defer p.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Warning: background job panicked: %v\n%s", r, debug.Stack())
		}
	}()
	job()
}

// Submit queues job. It returns ErrPoolClosed after Close.
func (p *Pool) Submit(job Job) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}

	p.wg.Add(1)
	select {
	case p.c <- job:
	default:
		go p.run(job)
	}
	return nil
}

// Wait blocks until every submitted job has finished.
func (p *Pool) Wait() {
	p.wg.Wait()
}

// Close stops accepting jobs. Queued jobs still run.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	close(p.c)
}

// Go runs work on the pool and hands its result to done on the loop.
// If the pool is closed, done receives the zero value and ErrPoolClosed.
// A panic in work is reported to done as an error.
func Go[T any](pool *Pool, loop *Loop, work func() (T, error), done func(T, error)) {
	err := pool.Submit(func() {
		var (
			v   T
			err error
		)
		func() {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("dispatch: job panicked: %v", r)
				}
			}()
			v, err = work()
		}()
		loop.Post(func() { done(v, err) })
	})
	if err != nil {
		var zero T
		loop.Post(func() { done(zero, err) })
	}
}
