package webgpu

import (
	"fmt"
	"time"

	"github.com/openfluke/webgpu/wgpu"

	"github.com/openfluke/blast/device"
)

type gpuBuffer struct {
	ctx  *Context
	buf  *wgpu.Buffer
	size uint64
}

func (b *gpuBuffer) Size() uint64 { return b.size }

func (b *gpuBuffer) Write(offset uint64, data []byte) error {
	if offset+uint64(len(data)) > b.size {
		return fmt.Errorf("webgpu: write [%d,%d) of %d: %w", offset, offset+uint64(len(data)), b.size, device.ErrOutOfRange)
	}
	b.ctx.Queue.WriteBuffer(b.buf, offset, data)
	return nil
}

// Read copies through a staging buffer and maps it on the host. The map wait
// polls the device with a timeout so a wedged driver cannot hang the caller
// forever.
func (b *gpuBuffer) Read(offset uint64, dst []byte) error {
	size := uint64(len(dst))
	if offset+size > b.size {
		return fmt.Errorf("webgpu: read [%d,%d) of %d: %w", offset, offset+size, b.size, device.ErrOutOfRange)
	}
	if size == 0 {
		return nil
	}

	staging, err := b.ctx.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "blast_staging",
		Size:  size,
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("webgpu: create staging buffer: %w", err)
	}
	defer staging.Destroy()

	encoder, err := b.ctx.Device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("webgpu: command encoder: %w", err)
	}
	encoder.CopyBufferToBuffer(b.buf, offset, staging, 0, size)
	cmd, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("webgpu: encode copy: %w", err)
	}
	b.ctx.Queue.Submit(cmd)

	done := make(chan struct{})
	var mapErr error
	err = staging.MapAsync(wgpu.MapModeRead, 0, size, func(status wgpu.BufferMapAsyncStatus) {
		if status != wgpu.BufferMapAsyncStatusSuccess {
			mapErr = fmt.Errorf("webgpu: map failed: %v", status)
		}
		close(done)
	})
	if err != nil {
		return fmt.Errorf("webgpu: MapAsync: %w", err)
	}

	timeout := time.After(2 * time.Second)
Loop:
	for {
		b.ctx.Device.Poll(false, nil)
		select {
		case <-done:
			break Loop
		case <-timeout:
			return fmt.Errorf("webgpu: buffer read timed out after 2s")
		default:
			time.Sleep(time.Millisecond)
		}
	}
	if mapErr != nil {
		return mapErr
	}

	data := staging.GetMappedRange(0, uint(size))
	if data == nil {
		return fmt.Errorf("webgpu: failed to get mapped range")
	}
	copy(dst, data)
	staging.Unmap()
	return nil
}

func (b *gpuBuffer) Release() { b.buf.Destroy() }

var _ device.Buffer = (*gpuBuffer)(nil)
