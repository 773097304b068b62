package webgpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/openfluke/webgpu/wgpu"

	"github.com/openfluke/blast/device"
)

type gpuProgram struct {
	ctx    *Context
	module *wgpu.ShaderModule
}

// Kernel builds a compute pipeline for one entry point. Pipelines are cheap
// next to shader compilation, so they are created per invocation like the
// OpenCL kernel objects they mirror.
func (p *gpuProgram) Kernel(entry string) (device.Kernel, error) {
	pipeline, err := p.ctx.Device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label: entry,
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     p.module,
			EntryPoint: entry,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("webgpu: %q: %w: %v", entry, device.ErrEntryNotFound, err)
	}
	return &gpuKernel{ctx: p.ctx, pipeline: pipeline, entry: entry}, nil
}

// uniformSlot is the padded size of the scalar-argument uniform buffer. It
// covers the largest level-1 argument struct, so a variant binding fewer
// scalars still satisfies the struct's minimum binding size.
const uniformSlot = 32

// gpuKernel packs arguments for one dispatch. Scalars are appended in SetArg
// order into the binding-0 uniform; buffers take bindings 1..N in SetArg
// order. The WGSL fragments declare their bindings to match.
type gpuKernel struct {
	ctx      *Context
	pipeline *wgpu.ComputePipeline
	entry    string
	scalars  []byte
	buffers  []*gpuBuffer
}

func (k *gpuKernel) SetArg(index int, value any) error {
	switch v := value.(type) {
	case int32:
		k.scalars = binary.LittleEndian.AppendUint32(k.scalars, uint32(v))
	case uint32:
		k.scalars = binary.LittleEndian.AppendUint32(k.scalars, v)
	case float32:
		k.scalars = binary.LittleEndian.AppendUint32(k.scalars, math.Float32bits(v))
	case *gpuBuffer:
		k.buffers = append(k.buffers, v)
	case device.Buffer:
		gb, ok := v.(*gpuBuffer)
		if !ok {
			return fmt.Errorf("webgpu: arg %d is a foreign buffer %T: %w", index, v, device.ErrBadArgument)
		}
		k.buffers = append(k.buffers, gb)
	default:
		return fmt.Errorf("webgpu: arg %d is %T: %w", index, value, device.ErrBadArgument)
	}
	return nil
}

type gpuQueue struct {
	ctx *Context
}

func (q *gpuQueue) Launch(dk device.Kernel, global, local uint64) (device.Event, error) {
	k, ok := dk.(*gpuKernel)
	if !ok {
		return nil, fmt.Errorf("webgpu: foreign kernel %T: %w", dk, device.ErrBadArgument)
	}
	if global == 0 || local == 0 || global%local != 0 {
		return nil, fmt.Errorf("webgpu: global %d local %d: %w", global, local, device.ErrInvalidGeometry)
	}

	params := make([]byte, uniformSlot)
	if len(k.scalars) > uniformSlot {
		params = make([]byte, (len(k.scalars)+15)/16*16)
	}
	copy(params, k.scalars)
	ubuf, err := q.ctx.Device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Contents: params,
		Usage:    wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("webgpu: argument upload: %w", err)
	}
	defer ubuf.Destroy()

	entries := []wgpu.BindGroupEntry{
		{Binding: 0, Buffer: ubuf, Size: uint64(len(params))},
	}
	for i, b := range k.buffers {
		entries = append(entries, wgpu.BindGroupEntry{
			Binding: uint32(i + 1),
			Buffer:  b.buf,
			Size:    b.buf.GetSize(),
		})
	}
	bindGroup, err := q.ctx.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   k.entry,
		Layout:  k.pipeline.GetBindGroupLayout(0),
		Entries: entries,
	})
	if err != nil {
		return nil, fmt.Errorf("webgpu: bind group: %w", err)
	}

	encoder, err := q.ctx.Device.CreateCommandEncoder(nil)
	if err != nil {
		return nil, fmt.Errorf("webgpu: command encoder: %w", err)
	}
	pass := encoder.BeginComputePass(nil)
	pass.SetPipeline(k.pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.DispatchWorkgroups(uint32(global/local), 1, 1)
	pass.End()

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return nil, fmt.Errorf("webgpu: encode: %w", err)
	}
	q.ctx.Queue.Submit(cmd)
	return &gpuEvent{ctx: q.ctx}, nil
}

// Finish blocks until every submitted command has completed on the device.
func (q *gpuQueue) Finish() error {
	q.ctx.Device.Poll(true, nil)
	return nil
}

type gpuEvent struct {
	ctx *Context
}

func (e *gpuEvent) Wait() error {
	e.ctx.Device.Poll(true, nil)
	return nil
}
