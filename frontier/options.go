package frontier

import (
	"fmt"

	"parfront/forkjoin"
)

type config struct {
	width    int
	pool     *forkjoin.Pool
	capacity int
}

type Option func(*config)

// WithWidth sets the number of shards. Values below 1 are raised to 1.
func WithWidth(n int) Option {
	return func(c *config) {
		if n < 1 {
			n = 1
		}
		c.width = n
	}
}

// WithPool scopes the frontier to p: only workers of p (or code outside any pool) may push and pop.
// Unless WithWidth is also given, the frontier gets one shard per slot of p.
func WithPool(p *forkjoin.Pool) Option {
	return func(c *config) {
		c.pool = p
	}
}

// WithCapacity reserves total/width elements in every shard.
func WithCapacity(total int) Option {
	return func(c *config) {
		if total < 0 {
			total = 0
		}
		c.capacity = total
	}
}

func newConfig(opts []Option) config {
	var c config
	for _, opt := range opts {
		opt(&c)
	}
	if c.width == 0 {
		if c.pool != nil {
			c.width = c.pool.Width()
		} else {
			c.width = forkjoin.CurrentWorkerCount()
		}
	}
	return c
}

func (c config) resolver() resolver {
	return resolver{pool: c.pool, width: c.width}
}

// resolver maps a worker to one of width slots.
type resolver struct {
	pool  *forkjoin.Pool
	width int
}

func (r resolver) resolve(w forkjoin.Worker) (int, error) {
	idx, managed := w.Index()
	switch {
	case !managed:
		return 0, nil
	case r.pool != nil && w.Pool() != r.pool:
		return 0, fmt.Errorf("%w: %s is not a worker of %s", ErrForeignContext, w, r.pool)
	case idx >= r.width:
		return 0, fmt.Errorf("%w: %s has no shard among %d", ErrForeignContext, w, r.width)
	}
	return idx, nil
}
