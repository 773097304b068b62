package blas

import (
	"errors"
	"testing"

	"github.com/openfluke/blast/device"
	"github.com/openfluke/blast/tuning"
)

func uploadVector[T Element](t *testing.T, dev device.Device, data []T) Vector {
	t.Helper()
	raw := device.Bytes(data)
	buf, err := dev.NewBuffer(uint64(len(raw)))
	if err != nil {
		t.Fatalf("NewBuffer: %v", err)
	}
	if err := buf.Write(0, raw); err != nil {
		t.Fatalf("Write: %v", err)
	}
	return Vector{Buffer: buf, Offset: 0, Inc: 1}
}

func downloadVector[T Element](t *testing.T, v Vector, n int) []T {
	t.Helper()
	out := make([]T, n)
	if err := v.Buffer.Read(0, device.Bytes(out)); err != nil {
		t.Fatalf("Read: %v", err)
	}
	return out
}

func TestAxpyFastPathEndToEnd(t *testing.T) {
	dev := device.NewSimDevice()
	ctx := NewContext(dev, nil)
	axpy, err := NewXaxpy[float32](ctx)
	if err != nil {
		t.Fatalf("NewXaxpy: %v", err)
	}

	n := axpy.wgs * axpy.wpt * axpy.vw * 4
	x := make([]float32, n)
	y := make([]float32, n)
	for i := range x {
		x[i] = 1
	}
	xv := uploadVector(t, dev, x)
	yv := uploadVector(t, dev, y)

	if !axpy.useFastKernel(n, xv, yv) {
		t.Fatal("fast variant preconditions should hold")
	}
	if status := axpy.Do(n, 2.0, xv, yv); status != StatusSuccess {
		t.Fatalf("Do: %s", status)
	}
	for i, got := range downloadVector[float32](t, yv, n) {
		if got != 2 {
			t.Fatalf("y[%d] = %v, want 2", i, got)
		}
	}
	if event := axpy.LastEvent(); event == nil {
		t.Error("no completion event recorded after a successful launch")
	} else if err := event.Wait(); err != nil {
		t.Errorf("event wait after completion: %v", err)
	}
}

func TestAxpyGeneralPathStrided(t *testing.T) {
	dev := device.NewSimDevice()
	ctx := NewContext(dev, nil)
	axpy, err := NewXaxpy[float32](ctx)
	if err != nil {
		t.Fatalf("NewXaxpy: %v", err)
	}

	const n = 10
	x := make([]float32, 32)
	y := make([]float32, 32)
	for i := range x {
		x[i] = float32(i)
		y[i] = float32(100 + i)
	}
	xv := uploadVector(t, dev, x)
	yv := uploadVector(t, dev, y)
	xv.Offset, xv.Inc = 5, 2
	yv.Offset, yv.Inc = 1, 3

	if status := axpy.Do(n, 3.0, xv, yv); status != StatusSuccess {
		t.Fatalf("Do: %s", status)
	}

	want := append([]float32(nil), y...)
	for i := 0; i < n; i++ {
		want[1+i*3] += 3 * x[5+i*2]
	}
	got := downloadVector[float32](t, yv, len(y))
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("y[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestAxpyZeroLengthTouchesNothing(t *testing.T) {
	dev := &countingDevice{SimDevice: device.NewSimDevice()}
	ctx := NewContext(dev, nil)
	axpy, err := NewXaxpy[float32](ctx)
	if err != nil {
		t.Fatalf("NewXaxpy: %v", err)
	}

	x := uploadVector(t, dev, make([]float32, 8))
	y := uploadVector(t, dev, make([]float32, 8))
	if status := axpy.Do(0, 1.0, x, y); status != StatusInvalidDimension {
		t.Fatalf("Do(0) = %s, want %s", status, StatusInvalidDimension)
	}
	if dev.compiles != 0 {
		t.Errorf("rejected request compiled %d programs", dev.compiles)
	}
	if queue := dev.Queue().(*device.SimQueue); queue.Launches() != 0 {
		t.Errorf("rejected request submitted %d launches", queue.Launches())
	}
}

func TestAxpyInsufficientBuffer(t *testing.T) {
	dev := &countingDevice{SimDevice: device.NewSimDevice()}
	ctx := NewContext(dev, nil)
	axpy, err := NewXaxpy[float32](ctx)
	if err != nil {
		t.Fatalf("NewXaxpy: %v", err)
	}

	xv := uploadVector(t, dev, make([]float32, 23))
	yv := uploadVector(t, dev, make([]float32, 32))
	xv.Offset, xv.Inc = 5, 2 // needs element 23 of a 23-element buffer
	if status := axpy.Do(10, 1.0, xv, yv); status != StatusInsufficientBufferSize {
		t.Fatalf("Do = %s, want %s", status, StatusInsufficientBufferSize)
	}
	if queue := dev.Queue().(*device.SimQueue); queue.Launches() != 0 {
		t.Errorf("invalid request submitted %d launches", queue.Launches())
	}
}

func TestAxpyOtherPrecisions(t *testing.T) {
	dev := device.NewSimDevice()
	ctx := NewContext(dev, nil)

	t.Run("double", func(t *testing.T) {
		axpy, err := NewXaxpy[float64](ctx)
		if err != nil {
			t.Fatalf("NewXaxpy: %v", err)
		}
		const n = 7 // general path
		x := []float64{1, 2, 3, 4, 5, 6, 7}
		y := make([]float64, n)
		xv := uploadVector(t, dev, x)
		yv := uploadVector(t, dev, y)
		if status := axpy.Do(n, 0.5, xv, yv); status != StatusSuccess {
			t.Fatalf("Do: %s", status)
		}
		for i, got := range downloadVector[float64](t, yv, n) {
			if got != 0.5*x[i] {
				t.Errorf("y[%d] = %v, want %v", i, got, 0.5*x[i])
			}
		}
	})

	t.Run("complex single", func(t *testing.T) {
		axpy, err := NewXaxpy[complex64](ctx)
		if err != nil {
			t.Fatalf("NewXaxpy: %v", err)
		}
		const n = 5
		x := []complex64{1, 1i, 2 + 2i, 3, 4i}
		y := make([]complex64, n)
		xv := uploadVector(t, dev, x)
		yv := uploadVector(t, dev, y)
		alpha := complex64(1 + 2i)
		if status := axpy.Do(n, alpha, xv, yv); status != StatusSuccess {
			t.Fatalf("Do: %s", status)
		}
		for i, got := range downloadVector[complex64](t, yv, n) {
			if got != alpha*x[i] {
				t.Errorf("y[%d] = %v, want %v", i, got, alpha*x[i])
			}
		}
	})
}

// buildErrorDevice fakes a driver that rejects every compilation.
type buildErrorDevice struct {
	*device.SimDevice
}

func (d *buildErrorDevice) Compile(device.Precision, []device.Fragment) (device.Program, error) {
	return nil, errors.New("driver rejected source")
}

// faultyQueue fails or faults at launch time.
type faultyQueue struct {
	panics bool
}

func (q *faultyQueue) Launch(device.Kernel, uint64, uint64) (device.Event, error) {
	if q.panics {
		panic("queue fault")
	}
	return nil, errors.New("launch rejected")
}

func (q *faultyQueue) Finish() error { return nil }

type faultyQueueDevice struct {
	*device.SimDevice
	queue *faultyQueue
}

func (d *faultyQueueDevice) Queue() device.Queue { return d.queue }

// Backend faults never escape Do: build failures and panics come back as the
// build-error status, dispatch failures and panics as invalid-kernel.
func TestDoNormalizesBackendFaults(t *testing.T) {
	vectors := func(t *testing.T, dev device.Device) (Vector, Vector) {
		return uploadVector(t, dev, make([]float32, 8)), uploadVector(t, dev, make([]float32, 8))
	}

	t.Run("build error", func(t *testing.T) {
		ctx := NewContext(&buildErrorDevice{SimDevice: device.NewSimDevice()}, nil)
		axpy, err := NewXaxpy[float32](ctx)
		if err != nil {
			t.Fatalf("NewXaxpy: %v", err)
		}
		xv, yv := vectors(t, ctx.Device())
		if status := axpy.Do(8, 1.0, xv, yv); status != StatusBuildError {
			t.Fatalf("Do = %s, want %s", status, StatusBuildError)
		}
		if ctx.Cache().Len() != 1 {
			t.Errorf("failed build not cached: %d keys", ctx.Cache().Len())
		}
	})

	t.Run("build panic", func(t *testing.T) {
		ctx := NewContext(&panicDevice{SimDevice: device.NewSimDevice()}, nil)
		axpy, err := NewXaxpy[float32](ctx)
		if err != nil {
			t.Fatalf("NewXaxpy: %v", err)
		}
		xv, yv := vectors(t, ctx.Device())
		if status := axpy.Do(8, 1.0, xv, yv); status != StatusBuildError {
			t.Fatalf("Do = %s, want %s", status, StatusBuildError)
		}
		// Same key, same cached failure, no second fault.
		if status := axpy.Do(8, 1.0, xv, yv); status != StatusBuildError {
			t.Fatalf("repeat Do = %s, want %s", status, StatusBuildError)
		}
	})

	t.Run("launch error", func(t *testing.T) {
		dev := &faultyQueueDevice{SimDevice: device.NewSimDevice(), queue: &faultyQueue{}}
		ctx := NewContext(dev, nil)
		axpy, err := NewXaxpy[float32](ctx)
		if err != nil {
			t.Fatalf("NewXaxpy: %v", err)
		}
		xv, yv := vectors(t, ctx.Device())
		if status := axpy.Do(8, 1.0, xv, yv); status != StatusInvalidKernel {
			t.Fatalf("Do = %s, want %s", status, StatusInvalidKernel)
		}
	})

	t.Run("launch panic", func(t *testing.T) {
		dev := &faultyQueueDevice{SimDevice: device.NewSimDevice(), queue: &faultyQueue{panics: true}}
		ctx := NewContext(dev, nil)
		axpy, err := NewXaxpy[float32](ctx)
		if err != nil {
			t.Fatalf("NewXaxpy: %v", err)
		}
		xv, yv := vectors(t, ctx.Device())
		if status := axpy.Do(8, 1.0, xv, yv); status != StatusInvalidKernel {
			t.Fatalf("Do = %s, want %s", status, StatusInvalidKernel)
		}
	})
}

func TestRoutineMissingTuningParameter(t *testing.T) {
	dev := device.NewSimDevice()
	db := tuning.NewDatabase()
	db.Add("simdevice", "AXPY", device.Single, tuning.Params{"WGS": 64}) // no WPT/VW
	ctx := NewContext(dev, db)
	if _, err := NewXaxpy[float32](ctx); err == nil {
		t.Fatal("expected construction to fail on missing tuning parameter")
	}
}
