// Package blas is the host-side dispatch engine: per-operation routines that
// validate device-resident operands, pick a kernel variant from the tuning
// database, bind arguments, compute launch geometry, and submit to the
// device queue. Every public operation reports its outcome as a Status; no
// panic and no backend error type crosses this boundary.
package blas

// Status is the closed set of outcome codes.
type Status int

const (
	// StatusSuccess: the operation was validated, launched, and its
	// completion observed.
	StatusSuccess Status = iota
	// StatusInvalidDimension: a problem size or operand count is zero or
	// otherwise structurally invalid.
	StatusInvalidDimension
	// StatusInsufficientBufferSize: an operand's index range exceeds its
	// buffer capacity.
	StatusInsufficientBufferSize
	// StatusInvalidKernel: the selected kernel could not be retrieved,
	// bound, or launched, or the backend faulted during dispatch.
	StatusInvalidKernel
	// StatusBuildError: the program cache failed to compile the requested
	// fragment set for this device and precision.
	StatusBuildError
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusInvalidDimension:
		return "invalid dimension"
	case StatusInsufficientBufferSize:
		return "insufficient buffer size"
	case StatusInvalidKernel:
		return "invalid kernel"
	case StatusBuildError:
		return "build error"
	}
	return "unknown status"
}

// OK reports whether the operation completed.
func (s Status) OK() bool { return s == StatusSuccess }
