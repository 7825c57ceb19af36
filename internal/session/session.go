// Package session implements the per-client handle table: a name -> result
// binding that operators read from and write to via caller-supplied handles
// (spec §4.8), grounded on the source's client_context.c (add_result_to_context,
// lookup_vec).
package session

import (
	"fmt"
	"sync"

	"github.com/Hareesh108/haruDB/internal/engine"
)

// Context is one client's handle table. Put is the only mutator and is the
// single point requiring synchronization (spec §4.8): a batch's parallel
// select workers may all be installing results into the same context at
// once, while the session's own command loop reads and writes sequentially.
type Context struct {
	mu      sync.Mutex
	names   []string
	results []*engine.Vector
	cap     int
}

// New creates an empty context with the given initial handle-table capacity.
func New(initialCapacity int) *Context {
	if initialCapacity <= 0 {
		initialCapacity = 1
	}
	return &Context{cap: initialCapacity}
}

// Get returns the result bound to name, or an error if nothing is bound.
// The returned vector is borrowed: callers must not mutate it in place.
func (c *Context) Get(name string) (*engine.Vector, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, n := range c.names {
		if n == name {
			return c.results[i], nil
		}
	}
	return nil, fmt.Errorf("variable %s not found", name)
}

// Put binds name to result, replacing (and discarding) any prior binding.
// The handle table doubles its capacity when it would otherwise overflow
// (spec §4.8 "Growth").
func (c *Context) Put(name string, result *engine.Vector) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, n := range c.names {
		if n == name {
			c.results[i] = result
			return
		}
	}

	if len(c.names) == c.cap {
		c.cap *= 2
	}
	c.names = append(c.names, name)
	c.results = append(c.results, result)
}

// Len reports the number of live bindings.
func (c *Context) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.names)
}

// Capacity reports the handle table's current nominal capacity (for
// reporting/testing; Go slices grow themselves, this tracks the spec's
// doubling-schedule semantics).
func (c *Context) Capacity() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cap
}
