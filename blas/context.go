package blas

import (
	"github.com/openfluke/blast/device"
	"github.com/openfluke/blast/tuning"
)

// Context ties one device, its queue, the program cache, and the tuning
// database together. Construct one per device at startup and inject it into
// every routine; the cache it owns is the only state shared between
// concurrent routine invocations.
type Context struct {
	dev   device.Device
	queue device.Queue
	cache *ProgramCache
	db    *tuning.Database
}

// NewContext wraps a device. A nil database selects the built-in defaults.
func NewContext(dev device.Device, db *tuning.Database) *Context {
	if db == nil {
		db = tuning.NewDatabase()
	}
	return &Context{dev: dev, queue: dev.Queue(), cache: NewProgramCache(), db: db}
}

// Device returns the underlying device.
func (c *Context) Device() device.Device { return c.dev }

// Cache returns the program cache owned by this context.
func (c *Context) Cache() *ProgramCache { return c.cache }
