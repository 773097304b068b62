package blas

import (
	"github.com/openfluke/blast/kernels"
)

// Xcopy copies x into y over device-resident vectors.
type Xcopy[T Element] struct {
	*routine
}

func NewXcopy[T Element](ctx *Context) (*Xcopy[T], error) {
	r, err := newRoutine(ctx, "COPY", precisionOf[T](), kernels.Copy)
	if err != nil {
		return nil, err
	}
	return &Xcopy[T]{r}, nil
}

func (x *Xcopy[T]) Do(n int, xv, yv Vector) (status Status) {
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
	entry := "Xcopy"
	if fast {
		entry = "XcopyFast"
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
	b.arg(xv.Buffer)
	if !fast {
		b.arg(int32(xv.Offset))
		b.arg(int32(xv.Inc))
	}
	b.arg(yv.Buffer)
	if !fast {
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
