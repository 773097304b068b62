package blas

import (
	"github.com/openfluke/blast/kernels"
)

// Xscal computes x = alpha*x over a device-resident vector.
type Xscal[T Element] struct {
	*routine
}

func NewXscal[T Element](ctx *Context) (*Xscal[T], error) {
	r, err := newRoutine(ctx, "SCAL", precisionOf[T](), kernels.Scal)
	if err != nil {
		return nil, err
	}
	return &Xscal[T]{r}, nil
}

func (x *Xscal[T]) Do(n int, alpha T, xv Vector) (status Status) {
	if n == 0 {
		return StatusInvalidDimension
	}
	if st := testVector(n, xv, x.precision.Size()); st != StatusSuccess {
		return st
	}

	defer guard(&status)

	fast := x.useFastKernel(n, xv)
	entry := "Xscal"
	if fast {
		entry = "XscalFast"
	}

	program, err := x.program()
	if err != nil {
		return StatusBuildError
	}
	kernel, err := program.Kernel(entry)
	if err != nil {
		return StatusInvalidKernel
	}

	b := argBinder{kernel: kernel}
	b.arg(int32(n))
	b.arg(alpha)
	b.arg(xv.Buffer)
	if !fast {
		b.arg(int32(xv.Offset))
		b.arg(int32(xv.Inc))
	}
	if b.err != nil {
		return StatusInvalidKernel
	}

	var global, local uint64
	if fast {
		global, local = x.fastGeometry(n)
	} else {
		global, local = x.generalGeometry(n)
	}
	if err := x.runKernel(kernel, global, local); err != nil {
		return StatusInvalidKernel
	}
	return StatusSuccess
}
