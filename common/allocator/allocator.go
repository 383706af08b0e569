// Package allocator provides tools for centralized management
// of a node's cores and memory by multiple jobs.
package allocator

import (
	"fmt"
	"sync"
)

// Resources is an amount of cores and memory.
type Resources struct {
	Cores  int
	Memory int
}

func (r Resources) String() string {
	return fmt.Sprintf("{cores:%d, mem:%d}", r.Cores, r.Memory)
}

// Fits reports whether r can be carved out of avail.
func (r Resources) Fits(avail Resources) bool {
	return avail.Cores >= r.Cores && avail.Memory >= r.Memory
}

// ResourcePool controls access to a node's cores and memory of a specified capacity.
// Every check-then-act sequence runs under the pool's lock, so concurrent callers
// can never push availability below zero or above capacity.
type ResourcePool struct {
	mu        sync.Mutex
	capacity  Resources
	allocated Resources
}

// NewResourcePool returns a new *ResourcePool initialized with a set capacity.
// Returns an error if either capacity is <= 0. Typical usage of this pool:
//	p, _ := NewResourcePool(Resources{Cores: 24, Memory: 64})
//	g, err := p.Alloc(Resources{Cores: 4, Memory: 8})
//	// handle err
//	defer g.Release()
func NewResourcePool(c Resources) (*ResourcePool, error) {
	if c.Cores <= 0 || c.Memory <= 0 {
		return nil, fmt.Errorf("invalid capacity %s, cores and memory must be > 0", c)
	}
	return &ResourcePool{capacity: c}, nil
}

// Alloc returns a Grant of the indicated size or an error.
// If error is nil, a non-nil *Grant is returned, which the client must
// Release when finished, or a resource leak will result.
func (p *ResourcePool) Alloc(size Resources) (*Grant, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if size.Cores < 0 || size.Memory < 0 {
		return nil, fmt.Errorf("invalid size %s < 0", size)
	}
	if !size.Fits(p.available()) {
		return nil, fmt.Errorf(
			"alloc request: %s exceeds capacity: %s (current allocation: %s)", size, p.capacity, p.allocated)
	}
	p.allocated.Cores += size.Cores
	p.allocated.Memory += size.Memory
	return &Grant{size: size, p: p}, nil
}

// Available returns the unallocated cores and memory.
func (p *ResourcePool) Available() Resources {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.available()
}

// Capacity returns the pool's fixed totals.
func (p *ResourcePool) Capacity() Resources {
	return p.capacity
}

// Allocated returns the cores and memory currently held by grants.
func (p *ResourcePool) Allocated() Resources {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.allocated
}

func (p *ResourcePool) available() Resources {
	return Resources{
		Cores:  p.capacity.Cores - p.allocated.Cores,
		Memory: p.capacity.Memory - p.allocated.Memory,
	}
}

// Releasing a nil or previously released grant does nothing.
func (p *ResourcePool) release(g *Grant) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if g != nil {
		p.allocated.Cores -= g.size.Cores
		p.allocated.Memory -= g.size.Memory
		if p.allocated.Cores < 0 {
			p.allocated.Cores = 0
		}
		if p.allocated.Memory < 0 {
			p.allocated.Memory = 0
		}
		// unset the grant to prevent accidental double-releasing
		g.size = Resources{}
		g.released = true
	}
}

// Grant represents some amount of resources granted
// by a ResourcePool and held by a job.
type Grant struct {
	size     Resources
	released bool
	p        *ResourcePool
}

// Size returns what the grant holds, zero once released.
func (g *Grant) Size() Resources {
	if g == nil || g.p == nil {
		return Resources{}
	}
	g.p.mu.Lock()
	defer g.p.mu.Unlock()
	return g.size
}

// Released reports whether Release has already returned the grant's resources.
func (g *Grant) Released() bool {
	if g == nil || g.p == nil {
		return true
	}
	g.p.mu.Lock()
	defer g.p.mu.Unlock()
	return g.released
}

// Release returns a given grant back to the pool that created it.
// Releasing a nil or previously released grant does nothing.
func (g *Grant) Release() {
	if g != nil && g.p != nil {
		g.p.release(g)
	}
}
