package webgpu

import (
	"fmt"
	"strings"

	"github.com/openfluke/webgpu/wgpu"

	"github.com/openfluke/blast/device"
)

// GPU implements device.Device over one WebGPU context.
type GPU struct {
	ctx   *Context
	id    string
	name  string
	queue *gpuQueue
}

// New creates a context and wraps it. The caller owns the returned device
// and should Release it at shutdown.
func New() (*GPU, error) {
	ctx, err := NewContext()
	if err != nil {
		return nil, err
	}
	return Wrap(ctx), nil
}

// Wrap adopts an existing context without taking ownership of it.
func Wrap(ctx *Context) *GPU {
	info := ctx.Adapter.GetInfo()
	return &GPU{
		ctx:   ctx,
		id:    fmt.Sprintf("wgpu:%04x:%04x", info.VendorId, info.DeviceId),
		name:  ctx.AdapterLabel(),
		queue: &gpuQueue{ctx: ctx},
	}
}

func (g *GPU) ID() string          { return g.id }
func (g *GPU) Name() string        { return g.name }
func (g *GPU) Queue() device.Queue { return g.queue }
func (g *GPU) Context() *Context   { return g.ctx }

func (g *GPU) NewBuffer(size uint64) (device.Buffer, error) {
	buf, err := g.ctx.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "blast",
		Size:  size,
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst | wgpu.BufferUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("webgpu: create buffer: %w", err)
	}
	return &gpuBuffer{ctx: g.ctx, buf: buf, size: size}, nil
}

// Compile concatenates the fragments in order and builds one shader module.
// WGSL has no f64 and no complex types, so everything but single precision
// is rejected here, before the driver sees any source.
func (g *GPU) Compile(p device.Precision, fragments []device.Fragment) (device.Program, error) {
	if p != device.Single {
		return nil, fmt.Errorf("webgpu: %s: %w", p, device.ErrUnsupportedPrecision)
	}
	var sb strings.Builder
	names := make([]string, len(fragments))
	for i, f := range fragments {
		names[i] = f.Name
		sb.WriteString(f.Source)
		sb.WriteByte('\n')
	}
	module, err := g.ctx.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          strings.Join(names, "+"),
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: sb.String()},
	})
	if err != nil {
		return nil, fmt.Errorf("webgpu: shader build %v: %w", names, err)
	}
	return &gpuProgram{ctx: g.ctx, module: module}, nil
}

var _ device.Device = (*GPU)(nil)
