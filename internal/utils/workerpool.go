package utils

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// PermitPool bounds how many jobs may execute at the same time.
// Every job must hold one permit while it runs.
type PermitPool struct {
	sem   *semaphore.Weighted
	size  int
	inUse atomic.Int64
	peak  atomic.Int64
}

// NewPermitPool creates a pool with n permits. n < 1 is treated as 1;
// range validation against the configured cap happens before this point.
func NewPermitPool(n int) *PermitPool {
	if n < 1 {
		n = 1
	}
	return &PermitPool{
		sem:  semaphore.NewWeighted(int64(n)),
		size: n,
	}
}

// Size returns the number of permits
func (p *PermitPool) Size() int {
	return p.size
}

// InUse returns the number of permits currently held
func (p *PermitPool) InUse() int {
	return int(p.inUse.Load())
}

// Peak returns the highest number of permits held at once
func (p *PermitPool) Peak() int {
	return int(p.peak.Load())
}

// Do blocks until a permit is free, runs fn while holding it, and releases
// the permit however fn exits. A panic in fn is recovered and returned as
// an error so the permit is never leaked.
func (p *PermitPool) Do(ctx context.Context, fn func(context.Context) error) (err error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	p.hold()
	defer p.release()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()

	return fn(ctx)
}

func (p *PermitPool) hold() {
	n := p.inUse.Add(1)
	for {
		peak := p.peak.Load()
		if n <= peak || p.peak.CompareAndSwap(peak, n) {
			return
		}
	}
}

func (p *PermitPool) release() {
	p.inUse.Add(-1)
	p.sem.Release(1)
}

// ForEach runs fn once for every item, each call holding one permit from
// pool. It returns after all calls have finished; errs[i] belongs to
// items[i]. Calls complete in no particular order.
func ForEach[T any](ctx context.Context, pool *PermitPool, items []T, fn func(ctx context.Context, idx int, item T) error) []error {
	errs := make([]error, len(items))

	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = pool.Do(ctx, func(ctx context.Context) error {
				return fn(ctx, i, item)
			})
		}()
	}
	wg.Wait()

	return errs
}

// CollectErrors collects all non-nil errors from a slice
func CollectErrors(errors []error) []error {
	var result []error
	for _, err := range errors {
		if err != nil {
			result = append(result, err)
		}
	}
	return result
}
