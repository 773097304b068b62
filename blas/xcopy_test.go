package blas

import (
	"testing"

	"github.com/openfluke/blast/device"
)

func TestCopyFastAndGeneral(t *testing.T) {
	dev := device.NewSimDevice()
	ctx := NewContext(dev, nil)
	cp, err := NewXcopy[float32](ctx)
	if err != nil {
		t.Fatalf("NewXcopy: %v", err)
	}

	t.Run("fast", func(t *testing.T) {
		n := cp.wgs * cp.wpt * cp.vw
		x := make([]float32, n)
		for i := range x {
			x[i] = float32(i) * 0.25
		}
		xv := uploadVector(t, dev, x)
		yv := uploadVector(t, dev, make([]float32, n))
		if status := cp.Do(n, xv, yv); status != StatusSuccess {
			t.Fatalf("Do: %s", status)
		}
		for i, got := range downloadVector[float32](t, yv, n) {
			if got != x[i] {
				t.Fatalf("y[%d] = %v, want %v", i, got, x[i])
			}
		}
	})

	t.Run("strided gather", func(t *testing.T) {
		x := []float32{0, 10, 20, 30, 40, 50, 60, 70}
		xv := uploadVector(t, dev, x)
		yv := uploadVector(t, dev, make([]float32, 4))
		xv.Offset, xv.Inc = 1, 2
		if status := cp.Do(4, xv, yv); status != StatusSuccess {
			t.Fatalf("Do: %s", status)
		}
		want := []float32{10, 30, 50, 70}
		got := downloadVector[float32](t, yv, 4)
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("y[%d] = %v, want %v", i, got[i], want[i])
			}
		}
	})

	t.Run("insufficient destination", func(t *testing.T) {
		xv := uploadVector(t, dev, make([]float32, 8))
		yv := uploadVector(t, dev, make([]float32, 4))
		if status := cp.Do(8, xv, yv); status != StatusInsufficientBufferSize {
			t.Errorf("Do = %s, want %s", status, StatusInsufficientBufferSize)
		}
	})
}
