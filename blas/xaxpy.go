package blas

import (
	"github.com/openfluke/blast/kernels"
)

// Xaxpy computes y = alpha*x + y over device-resident vectors.
type Xaxpy[T Element] struct {
	*routine
}

// NewXaxpy builds the AXPY routine for one element kind on the context's
// device, resolving its tuning parameters once.
func NewXaxpy[T Element](ctx *Context) (*Xaxpy[T], error) {
	r, err := newRoutine(ctx, "AXPY", precisionOf[T](), kernels.Axpy)
	if err != nil {
		return nil, err
	}
	return &Xaxpy[T]{r}, nil
}

// Do validates the operands, selects the kernel variant, and runs it to
// completion. No device work happens if validation fails.
func (x *Xaxpy[T]) Do(n int, alpha T, xv, yv Vector) (status Status) {
	if n == 0 {
		return StatusInvalidDimension
	}
	if st := testVector(n, xv, x.precision.Size()); st != StatusSuccess {
		return st
	}
	if st := testVector(n, yv, x.precision.Size()); st != StatusSuccess {
		return st
	}

	defer guard(&status)

	fast := x.useFastKernel(n, xv, yv)
	entry := "Xaxpy"
	if fast {
		entry = "XaxpyFast"
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
	if fast {
		b.arg(int32(n))
		b.arg(alpha)
		b.arg(xv.Buffer)
		b.arg(yv.Buffer)
	} else {
		b.arg(int32(n))
		b.arg(alpha)
		b.arg(xv.Buffer)
		b.arg(int32(xv.Offset))
		b.arg(int32(xv.Inc))
		b.arg(yv.Buffer)
		b.arg(int32(yv.Offset))
		b.arg(int32(yv.Inc))
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
