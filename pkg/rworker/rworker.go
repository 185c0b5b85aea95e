// Package rworker runs jobs with a bounded number of them in flight.
package rworker

import (
	"sync"
)

type Pool struct {
	wg   sync.WaitGroup
	rate chan struct{}

	mtx sync.Mutex
	err error
}

// New returns a pool running at most workers jobs at once. Values below one
// are treated as one.
func New(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{rate: make(chan struct{}, workers)}
}

// Job starts fn once a slot frees up. Job itself does not block.
func (p *Pool) Job(fn func() error) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.rate <- struct{}{}
		defer func() { <-p.rate }()
		if err := fn(); err != nil {
			p.mtx.Lock()
			if p.err == nil {
				p.err = err
			}
			p.mtx.Unlock()
		}
	}()
}

// Wait blocks until every started job returned and reports the first error.
func (p *Pool) Wait() error {
	p.wg.Wait()
	p.mtx.Lock()
	defer p.mtx.Unlock()
	return p.err
}
