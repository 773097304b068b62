package blas

import "github.com/openfluke/blast/device"

// Vector is a logical 1-D view over a device buffer. Offset and Inc are in
// elements. The buffer is caller-owned and must outlive the invocation.
type Vector struct {
	Buffer device.Buffer
	Offset int
	Inc    int
}

// testVector checks that n elements of the view fit inside the buffer. It is
// a pure shape check and never touches the device. A zero count is an
// invalid dimension, not a no-op: a zero-length launch has no geometry, and
// callers depend on the error signal.
func testVector(n int, v Vector, elemSize int) Status {
	if n < 1 || v.Inc < 1 || v.Offset < 0 || v.Buffer == nil {
		return StatusInvalidDimension
	}
	required := uint64(v.Offset+(n-1)*v.Inc+1) * uint64(elemSize)
	if required > v.Buffer.Size() {
		return StatusInsufficientBufferSize
	}
	return StatusSuccess
}
