// Package device defines the interface between the BLAS routine layer and an
// accelerator backend: a Device compiles kernel source fragments into Programs,
// owns Buffers, and exposes a Queue that launches Kernels with an explicit
// global/local geometry. Two implementations exist: the webgpu package (real
// hardware via WebGPU) and the in-process SimDevice in this package.
package device

import "errors"

var (
	ErrUnsupportedPrecision = errors.New("precision not supported by this device")
	ErrEntryNotFound        = errors.New("kernel entry point not found in program")
	ErrInvalidGeometry      = errors.New("global work size must be a positive multiple of the local size")
	ErrBadArgument          = errors.New("kernel argument has an unsupported type")
	ErrOutOfRange           = errors.New("buffer access out of range")
)

// Precision identifies the numeric element kind a program is compiled for.
// It is fixed per routine at construction time.
type Precision int

const (
	Single Precision = iota
	Double
	ComplexSingle
	ComplexDouble
)

// Size returns the size of one element in bytes.
func (p Precision) Size() int {
	switch p {
	case Single:
		return 4
	case Double, ComplexSingle:
		return 8
	case ComplexDouble:
		return 16
	}
	return 0
}

func (p Precision) String() string {
	switch p {
	case Single:
		return "single"
	case Double:
		return "double"
	case ComplexSingle:
		return "complex-single"
	case ComplexDouble:
		return "complex-double"
	}
	return "unknown"
}

// Fragment is a named kernel source blob. Programs are compiled from an
// ordered list of fragments: shared definitions first, operation body last.
// The routine layer treats the source text as opaque.
type Fragment struct {
	Name   string
	Source string
}

// Device is one accelerator. ID must be stable for the process lifetime; it
// keys the compiled-program cache together with precision and fragment names.
type Device interface {
	ID() string
	Name() string
	NewBuffer(size uint64) (Buffer, error)
	Compile(p Precision, fragments []Fragment) (Program, error)
	Queue() Queue
}

// Buffer is a device-resident allocation. Capacity is in bytes. The caller
// owns the buffer and must keep it alive for the duration of any launch that
// references it.
type Buffer interface {
	Size() uint64
	Write(offset uint64, data []byte) error
	Read(offset uint64, dst []byte) error
	Release()
}

// Program is a compiled, device-bound artifact. It is immutable once built
// and may be shared by any number of routines.
type Program interface {
	Kernel(entry string) (Kernel, error)
}

// Kernel is a named entry point with bound arguments. Arguments must be set
// in increasing index order; supported values are int32, uint32, the scalar
// element types, and Buffer handles.
type Kernel interface {
	SetArg(index int, value any) error
}

// Queue submits kernels to one device. Launch enqueues; Finish blocks until
// every previously enqueued submission has completed.
type Queue interface {
	Launch(k Kernel, global, local uint64) (Event, error)
	Finish() error
}

// Event is the completion signal of one submission.
type Event interface {
	Wait() error
}
