// Package tuning holds the per-device tuning parameter database: for each
// {device vendor, operation, precision} triple, a set of named integer
// parameters (work-group size, work per thread, vector width) produced by an
// offline tuner. Routines resolve their parameters once at construction; the
// resolved set is read-only afterwards.
package tuning

import (
	"fmt"
	"strings"

	"github.com/openfluke/blast/device"
)

// Params maps a parameter name to its tuned value.
type Params map[string]int

// Require fetches a parameter the caller cannot run without. A missing name
// is a configuration error, not a recoverable runtime condition.
func (p Params) Require(name string) (int, error) {
	v, ok := p[name]
	if !ok {
		return 0, fmt.Errorf("tuning: parameter %q missing from database entry", name)
	}
	if v < 1 {
		return 0, fmt.Errorf("tuning: parameter %q is %d, must be positive", name, v)
	}
	return v, nil
}

type entryKey struct {
	vendor    string
	op        string
	precision device.Precision
}

// Database is the full parameter table. Populate it (Add, ReadSnapshot)
// before handing it to routines; lookups after that point are read-only and
// need no synchronization.
type Database struct {
	entries map[entryKey]Params
}

// NewDatabase returns a database seeded with the built-in defaults, which
// cover every operation and precision under the "default" vendor.
func NewDatabase() *Database {
	db := &Database{entries: map[entryKey]Params{}}
	for _, op := range []string{"AXPY", "SCAL", "COPY"} {
		for _, p := range []device.Precision{device.Single, device.Double, device.ComplexSingle, device.ComplexDouble} {
			db.Add("default", op, p, Params{"WGS": 64, "WPT": 4, "VW": 2})
			db.Add("nvidia", op, p, Params{"WGS": 128, "WPT": 1, "VW": 4})
			db.Add("amd", op, p, Params{"WGS": 256, "WPT": 1, "VW": 2})
			db.Add("intel", op, p, Params{"WGS": 64, "WPT": 1, "VW": 4})
			db.Add("simdevice", op, p, Params{"WGS": 64, "WPT": 2, "VW": 2})
		}
	}
	return db
}

// Add installs one entry, replacing any previous one for the same triple.
// The vendor is matched as a case-insensitive substring of the device name.
func (db *Database) Add(vendor, op string, p device.Precision, params Params) {
	cp := make(Params, len(params))
	for k, v := range params {
		cp[k] = v
	}
	db.entries[entryKey{strings.ToLower(vendor), op, p}] = cp
}

// Lookup resolves the parameter set for a device by name. The most specific
// vendor entry wins; unmatched devices fall back to the "default" entry.
// The returned map must be treated as read-only.
func (db *Database) Lookup(deviceName, op string, p device.Precision) Params {
	name := strings.ToLower(deviceName)
	var best Params
	bestLen := -1
	for key, params := range db.entries {
		if key.op != op || key.precision != p {
			continue
		}
		if key.vendor == "default" && bestLen < 0 {
			best, bestLen = params, 0
			continue
		}
		if strings.Contains(name, key.vendor) && len(key.vendor) > bestLen {
			best, bestLen = params, len(key.vendor)
		}
	}
	return best
}
