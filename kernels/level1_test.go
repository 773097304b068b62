package kernels

import (
	"strings"
	"testing"

	"github.com/openfluke/blast/device"
)

func TestFragmentShape(t *testing.T) {
	tests := []struct {
		name    string
		build   func(device.Precision, int) []device.Fragment
		frag    string
		entries []string
	}{
		{"axpy", Axpy, "xaxpy", []string{"fn XaxpyFast", "fn Xaxpy"}},
		{"scal", Scal, "xscal", []string{"fn XscalFast", "fn Xscal"}},
		{"copy", Copy, "xcopy", []string{"fn XcopyFast", "fn Xcopy"}},
	}
	for _, tt := range tests {
		fragments := tt.build(device.Single, 128)
		if len(fragments) != 2 || fragments[0].Name != "level1" || fragments[1].Name != tt.frag {
			t.Errorf("%s: fragment order %v, want [level1 %s]", tt.name, []string{fragments[0].Name, fragments[1].Name}, tt.frag)
			continue
		}
		body := fragments[1].Source
		if !strings.Contains(body, "@workgroup_size(128)") {
			t.Errorf("%s: work-group size not baked into source", tt.name)
		}
		for _, entry := range tt.entries {
			if !strings.Contains(body, entry) {
				t.Errorf("%s: entry %q missing from source", tt.name, entry)
			}
		}
	}
}

func TestSimBodiesRegisteredForAllPrecisions(t *testing.T) {
	dev := device.NewSimDevice()
	for _, p := range []device.Precision{device.Single, device.Double, device.ComplexSingle, device.ComplexDouble} {
		for _, build := range []func(device.Precision, int) []device.Fragment{Axpy, Scal, Copy} {
			if _, err := dev.Compile(p, build(p, 64)); err != nil {
				t.Errorf("%s: %v", p, err)
			}
		}
	}
}
