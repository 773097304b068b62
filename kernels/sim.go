package kernels

import "github.com/openfluke/blast/device"

// element mirrors the four precisions the routine layer instantiates.
type element interface {
	float32 | float64 | complex64 | complex128
}

func init() {
	registerLevel1[float32](device.Single)
	registerLevel1[float64](device.Double)
	registerLevel1[complex64](device.ComplexSingle)
	registerLevel1[complex128](device.ComplexDouble)
}

// registerLevel1 installs the host bodies the SimDevice executes. Each body
// follows the same grid-stride coverage as its WGSL counterpart and asserts
// the exact argument order the routines bind.
func registerLevel1[T element](p device.Precision) {
	device.RegisterSimKernel("xaxpy", "XaxpyFast", p, func(inv device.Invocation, args []any) {
		n := uint64(args[0].(int32))
		alpha := args[1].(T)
		x := device.SimData[T](args[2].(*device.SimBuffer))
		y := device.SimData[T](args[3].(*device.SimBuffer))
		for i := inv.GlobalID; i < n; i += inv.GlobalSize {
			y[i] += alpha * x[i]
		}
	})
	device.RegisterSimKernel("xaxpy", "Xaxpy", p, func(inv device.Invocation, args []any) {
		n := uint64(args[0].(int32))
		alpha := args[1].(T)
		x := device.SimData[T](args[2].(*device.SimBuffer))
		xOffset, xInc := uint64(args[3].(int32)), uint64(args[4].(int32))
		y := device.SimData[T](args[5].(*device.SimBuffer))
		yOffset, yInc := uint64(args[6].(int32)), uint64(args[7].(int32))
		for i := inv.GlobalID; i < n; i += inv.GlobalSize {
			y[yOffset+i*yInc] += alpha * x[xOffset+i*xInc]
		}
	})

	device.RegisterSimKernel("xscal", "XscalFast", p, func(inv device.Invocation, args []any) {
		n := uint64(args[0].(int32))
		alpha := args[1].(T)
		x := device.SimData[T](args[2].(*device.SimBuffer))
		for i := inv.GlobalID; i < n; i += inv.GlobalSize {
			x[i] *= alpha
		}
	})
	device.RegisterSimKernel("xscal", "Xscal", p, func(inv device.Invocation, args []any) {
		n := uint64(args[0].(int32))
		alpha := args[1].(T)
		x := device.SimData[T](args[2].(*device.SimBuffer))
		xOffset, xInc := uint64(args[3].(int32)), uint64(args[4].(int32))
		for i := inv.GlobalID; i < n; i += inv.GlobalSize {
			x[xOffset+i*xInc] *= alpha
		}
	})

	device.RegisterSimKernel("xcopy", "XcopyFast", p, func(inv device.Invocation, args []any) {
		n := uint64(args[0].(int32))
		x := device.SimData[T](args[1].(*device.SimBuffer))
		y := device.SimData[T](args[2].(*device.SimBuffer))
		for i := inv.GlobalID; i < n; i += inv.GlobalSize {
			y[i] = x[i]
		}
	})
	device.RegisterSimKernel("xcopy", "Xcopy", p, func(inv device.Invocation, args []any) {
		n := uint64(args[0].(int32))
		x := device.SimData[T](args[1].(*device.SimBuffer))
		xOffset, xInc := uint64(args[2].(int32)), uint64(args[3].(int32))
		y := device.SimData[T](args[4].(*device.SimBuffer))
		yOffset, yInc := uint64(args[5].(int32)), uint64(args[6].(int32))
		for i := inv.GlobalID; i < n; i += inv.GlobalSize {
			y[yOffset+i*yInc] = x[xOffset+i*xInc]
		}
	})
}
