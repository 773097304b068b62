package blas

import (
	"fmt"
	"strings"
	"sync"

	"github.com/openfluke/blast/device"
)

type cacheKey struct {
	device    string
	precision device.Precision
	fragments string
}

type cacheEntry struct {
	ready   chan struct{}
	program device.Program
	err     error
}

// ProgramCache guarantees at most one compilation per {device, precision,
// fragment-set} key. Compilation dominates the cost of a short-vector
// operation by orders of magnitude, so every routine sharing a key reuses
// the same immutable program. Build failures are cached too: the same key
// keeps failing deterministically until the process restarts with corrected
// fragments under a new identity.
type ProgramCache struct {
	mu      sync.Mutex
	entries map[cacheKey]*cacheEntry
}

func NewProgramCache() *ProgramCache {
	return &ProgramCache{entries: map[cacheKey]*cacheEntry{}}
}

// GetOrBuild returns the cached program for the key, compiling it exactly
// once per key even under concurrent callers. Racing callers block on the
// winner's build slot and observe the identical result.
func (c *ProgramCache) GetOrBuild(dev device.Device, p device.Precision, fragments []device.Fragment) (device.Program, error) {
	names := make([]string, len(fragments))
	for i, f := range fragments {
		names[i] = f.Name
	}
	key := cacheKey{device: dev.ID(), precision: p, fragments: strings.Join(names, "\x00")}

	c.mu.Lock()
	entry, ok := c.entries[key]
	if !ok {
		entry = &cacheEntry{ready: make(chan struct{})}
		c.entries[key] = entry
		c.mu.Unlock()
		entry.build(dev, p, fragments)
	} else {
		c.mu.Unlock()
	}

	<-entry.ready
	return entry.program, entry.err
}

// build runs the compile inside the entry's slot. The slot is always closed,
// even when the backend panics mid-build: the panic becomes the entry's
// cached error, so later callers see a failed build instead of blocking on a
// slot that will never open.
func (e *cacheEntry) build(dev device.Device, p device.Precision, fragments []device.Fragment) {
	defer close(e.ready)
	defer func() {
		if r := recover(); r != nil {
			e.program = nil
			e.err = fmt.Errorf("blas: program build panicked: %v", r)
		}
	}()
	e.program, e.err = dev.Compile(p, fragments)
}

// Len reports the number of resolved keys, successful or failed.
func (c *ProgramCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
