package gatepass

import (
	"context"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps concurrent LibreOffice processes (~150MB each).
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for the soffice.bin child processes.
	cpuDivisor = 2
)

// Pool bounds the number of pipeline runs in flight. Each run holds one
// slot from Acquire to Release.
type Pool struct {
	size   int
	sem    chan struct{}
	done   chan struct{}
	mu     sync.Mutex
	closed bool
}

// NewPool creates a pool with n slots (at least one).
func NewPool(n int) *Pool {
	if n < MinPoolSize {
		n = MinPoolSize
	}

	return &Pool{
		size: n,
		sem:  make(chan struct{}, n),
		done: make(chan struct{}),
	}
}

// Acquire takes a slot, blocking while all slots are in use.
// Returns ctx.Err() if ctx is done first and ErrPoolClosed after Close.
func (p *Pool) Acquire(ctx context.Context) error {
	select {
	case <-p.done:
		return ErrPoolClosed
	default:
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	select {
	case p.sem <- struct{}{}:
	case <-p.done:
		return ErrPoolClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	// Close may have won the race while we were taking the slot.
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		<-p.sem
		return ErrPoolClosed
	}
	return nil
}

// Release returns a slot taken by Acquire.
func (p *Pool) Release() {
	select {
	case <-p.sem:
	default:
	}
}

// Close rejects further Acquire calls and wakes blocked ones.
// Runs holding a slot finish normally.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	close(p.done)
	return nil
}

// Size returns the pool capacity.
func (p *Pool) Size() int {
	return p.size
}

// InUse returns the number of slots currently held.
func (p *Pool) InUse() int {
	return len(p.sem)
}

// ResolvePoolSize determines the optimal pool size.
// Priority: explicit workers > GOMAXPROCS-based calculation.
// Exported for use by servers and CLIs.
func ResolvePoolSize(workers int) int {
	// Explicit value takes priority
	if workers > 0 {
		return workers
	}

	// Auto-calculate based on GOMAXPROCS (adjusted by automaxprocs for containers)
	available := runtime.GOMAXPROCS(0)
	n := available / cpuDivisor

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
