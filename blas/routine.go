package blas

import (
	"fmt"

	"github.com/openfluke/blast/device"
	"github.com/openfluke/blast/tuning"
)

// routine is the per-operation orchestrator every Xop type embeds. Its
// precision, fragment list, and tuning parameters are fixed at construction;
// Do may be called any number of times with different operands.
type routine struct {
	ctx       *Context
	op        string
	precision device.Precision
	fragments []device.Fragment
	params    tuning.Params
	wgs       int
	wpt       int
	vw        int
	event     device.Event
}

// newRoutine resolves the tuning parameters for {device, op, precision} and
// bakes the fragment list. A missing parameter is a configuration error and
// fails construction; it is never reported as a Status.
func newRoutine(ctx *Context, op string, p device.Precision, build func(device.Precision, int) []device.Fragment) (*routine, error) {
	params := ctx.db.Lookup(ctx.dev.Name(), op, p)
	if params == nil {
		return nil, fmt.Errorf("blas: no tuning entry for %s/%s on %q", op, p, ctx.dev.Name())
	}
	wgs, err := params.Require("WGS")
	if err != nil {
		return nil, err
	}
	wpt, err := params.Require("WPT")
	if err != nil {
		return nil, err
	}
	vw, err := params.Require("VW")
	if err != nil {
		return nil, err
	}
	return &routine{
		ctx:       ctx,
		op:        op,
		precision: p,
		fragments: build(p, wgs),
		params:    params,
		wgs:       wgs,
		wpt:       wpt,
		vw:        vw,
	}, nil
}

// program fetches the compiled program through the shared cache.
func (r *routine) program() (device.Program, error) {
	return r.ctx.cache.GetOrBuild(r.ctx.dev, r.precision, r.fragments)
}

// useFastKernel selects the specialized variant: every operand fully
// contiguous and the length an exact multiple of WGS*WPT*VW. The fast
// variant drops offset/stride arithmetic from the inner loop; the general
// variant must stay correct for every valid input.
func (r *routine) useFastKernel(n int, views ...Vector) bool {
	for _, v := range views {
		if v.Offset != 0 || v.Inc != 1 {
			return false
		}
	}
	return isMultiple(n, r.wgs*r.wpt*r.vw)
}

// fastGeometry: one thread per WPT*VW elements. The divisibility
// precondition makes the global size an exact multiple of WGS.
func (r *routine) fastGeometry(n int) (global, local uint64) {
	return uint64(ceilDiv(n, r.wpt*r.vw)), uint64(r.wgs)
}

// generalGeometry rounds the length up to a whole number of work-groups so
// every element is covered; tail threads fall out of range inside the
// kernel. Ceiling division, never truncation.
func (r *routine) generalGeometry(n int) (global, local uint64) {
	return uint64(ceil(n, r.wgs*r.wpt) / r.wpt), uint64(r.wgs)
}

// runKernel submits with the given geometry and blocks until the queue has
// drained. Each Do call is synchronous from the caller's point of view.
func (r *routine) runKernel(k device.Kernel, global, local uint64) error {
	event, err := r.ctx.queue.Launch(k, global, local)
	if err != nil {
		return err
	}
	r.event = event
	return r.ctx.queue.Finish()
}

// LastEvent returns the completion signal of the most recent submission, or
// nil before the first launch. Do already waits on the queue; the event lets
// callers observe the submission itself.
func (r *routine) LastEvent() device.Event { return r.event }

// guard converts any panic out of the backend into the invalid-kernel
// status. Unrecognized faults never leak past the routine boundary.
func guard(status *Status) {
	if r := recover(); r != nil {
		*status = StatusInvalidKernel
	}
}

// argBinder sets kernel arguments in order, capturing the first failure.
type argBinder struct {
	kernel device.Kernel
	index  int
	err    error
}

func (b *argBinder) arg(v any) {
	if b.err == nil {
		b.err = b.kernel.SetArg(b.index, v)
	}
	b.index++
}

func ceilDiv(x, y int) int { return (x + y - 1) / y }

func ceil(x, y int) int { return ceilDiv(x, y) * y }

func isMultiple(x, y int) bool { return y > 0 && x%y == 0 }
