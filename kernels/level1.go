// Package kernels holds the level-1 kernel source fragments and their
// simulated host bodies. The routine layer treats fragment source as opaque
// text; only the fragment names and entry-point names are contracts.
//
// Binding convention shared with the webgpu backend: binding 0 is a uniform
// struct holding the scalar arguments in SetArg order, storage buffers follow
// at bindings 1..N in SetArg order. Every operation ships two entry points: a
// Fast variant assuming offset-0, unit-stride operands and tuned-multiple
// length, and a general variant taking explicit per-operand offset and
// stride. Both cover the full range with a grid-stride loop, so any geometry
// that satisfies global >= ceil(n / (WPT*VW)) touches each element once.
package kernels

import (
	"fmt"

	"github.com/openfluke/blast/device"
)

// Level1 is the shared header fragment, always first in a fragment list.
func Level1(p device.Precision) device.Fragment {
	src := "// level1: precision " + p.String() + " has no WGSL mapping\n"
	if p == device.Single {
		src = "alias real = f32;\n"
	}
	return device.Fragment{Name: "level1", Source: src}
}

// Axpy returns the fragment list for y = alpha*x + y.
func Axpy(p device.Precision, wgs int) []device.Fragment {
	return []device.Fragment{Level1(p), {Name: "xaxpy", Source: fmt.Sprintf(axpySource, wgs)}}
}

// Scal returns the fragment list for x = alpha*x.
func Scal(p device.Precision, wgs int) []device.Fragment {
	return []device.Fragment{Level1(p), {Name: "xscal", Source: fmt.Sprintf(scalSource, wgs)}}
}

// Copy returns the fragment list for y = x.
func Copy(p device.Precision, wgs int) []device.Fragment {
	return []device.Fragment{Level1(p), {Name: "xcopy", Source: fmt.Sprintf(copySource, wgs)}}
}

const axpySource = `
struct AxpyArgs {
    n : u32,
    alpha : real,
    x_offset : u32,
    x_inc : u32,
    y_offset : u32,
    y_inc : u32,
}

@group(0) @binding(0) var<uniform> args : AxpyArgs;
@group(0) @binding(1) var<storage, read> xvec : array<real>;
@group(0) @binding(2) var<storage, read_write> yvec : array<real>;

@compute @workgroup_size(%[1]d)
fn XaxpyFast(@builtin(global_invocation_id) gid : vec3<u32>,
             @builtin(num_workgroups) groups : vec3<u32>) {
    let total = groups.x * %[1]du;
    var i = gid.x;
    while (i < args.n) {
        yvec[i] = yvec[i] + args.alpha * xvec[i];
        i = i + total;
    }
}

@compute @workgroup_size(%[1]d)
fn Xaxpy(@builtin(global_invocation_id) gid : vec3<u32>,
         @builtin(num_workgroups) groups : vec3<u32>) {
    let total = groups.x * %[1]du;
    var i = gid.x;
    while (i < args.n) {
        let xi = args.x_offset + i * args.x_inc;
        let yi = args.y_offset + i * args.y_inc;
        yvec[yi] = yvec[yi] + args.alpha * xvec[xi];
        i = i + total;
    }
}
`

const scalSource = `
struct ScalArgs {
    n : u32,
    alpha : real,
    x_offset : u32,
    x_inc : u32,
}

@group(0) @binding(0) var<uniform> args : ScalArgs;
@group(0) @binding(1) var<storage, read_write> xvec : array<real>;

@compute @workgroup_size(%[1]d)
fn XscalFast(@builtin(global_invocation_id) gid : vec3<u32>,
             @builtin(num_workgroups) groups : vec3<u32>) {
    let total = groups.x * %[1]du;
    var i = gid.x;
    while (i < args.n) {
        xvec[i] = args.alpha * xvec[i];
        i = i + total;
    }
}

@compute @workgroup_size(%[1]d)
fn Xscal(@builtin(global_invocation_id) gid : vec3<u32>,
         @builtin(num_workgroups) groups : vec3<u32>) {
    let total = groups.x * %[1]du;
    var i = gid.x;
    while (i < args.n) {
        let xi = args.x_offset + i * args.x_inc;
        xvec[xi] = args.alpha * xvec[xi];
        i = i + total;
    }
}
`

const copySource = `
struct CopyArgs {
    n : u32,
    x_offset : u32,
    x_inc : u32,
    y_offset : u32,
    y_inc : u32,
}

@group(0) @binding(0) var<uniform> args : CopyArgs;
@group(0) @binding(1) var<storage, read> xvec : array<real>;
@group(0) @binding(2) var<storage, read_write> yvec : array<real>;

@compute @workgroup_size(%[1]d)
fn XcopyFast(@builtin(global_invocation_id) gid : vec3<u32>,
             @builtin(num_workgroups) groups : vec3<u32>) {
    let total = groups.x * %[1]du;
    var i = gid.x;
    while (i < args.n) {
        yvec[i] = xvec[i];
        i = i + total;
    }
}

@compute @workgroup_size(%[1]d)
fn Xcopy(@builtin(global_invocation_id) gid : vec3<u32>,
         @builtin(num_workgroups) groups : vec3<u32>) {
    let total = groups.x * %[1]du;
    var i = gid.x;
    while (i < args.n) {
        yvec[args.y_offset + i * args.y_inc] = xvec[args.x_offset + i * args.x_inc];
        i = i + total;
    }
}
`
