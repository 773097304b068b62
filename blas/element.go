package blas

import "github.com/openfluke/blast/device"

// Element is the closed set of numeric kinds routines are instantiated for.
type Element interface {
	float32 | float64 | complex64 | complex128
}

func precisionOf[T Element]() device.Precision {
	var z T
	switch any(z).(type) {
	case float32:
		return device.Single
	case float64:
		return device.Double
	case complex64:
		return device.ComplexSingle
	default:
		return device.ComplexDouble
	}
}
