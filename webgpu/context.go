// Package webgpu backs the device interfaces with real hardware through the
// WebGPU API. Kernel source fragments are WGSL; only single precision is
// supported, double and complex builds fail with an unsupported-precision
// error from Compile.
package webgpu

import (
	"fmt"
	"strings"

	"github.com/openfluke/webgpu/wgpu"
)

// Context holds the WebGPU instance, adapter, device, and queue for one GPU.
// Unlike a process-wide singleton, contexts are explicit: create one at
// startup, inject it, and Release it at shutdown.
type Context struct {
	Instance *wgpu.Instance
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Queue    *wgpu.Queue
}

// NewContext probes for an adapter, preferring a discrete high-performance
// GPU and falling back to whatever the platform offers.
func NewContext() (*Context, error) {
	c := &Context{}
	c.Instance = wgpu.CreateInstance(nil)
	if c.Instance == nil {
		return nil, fmt.Errorf("webgpu: failed to create instance")
	}

	// Prefer a discrete adapter when the platform can enumerate one.
	for _, a := range c.Instance.EnumerateAdapters(nil) {
		info := a.GetInfo()
		name := strings.ToLower(info.Name + " " + info.VendorName)
		if strings.Contains(name, "nvidia") || strings.Contains(name, "radeon") {
			c.Adapter = a
			break
		}
	}

	tryInit := func(opts *wgpu.RequestAdapterOptions) error {
		if c.Adapter != nil {
			return nil
		}
		var err error
		c.Adapter, err = c.Instance.RequestAdapter(opts)
		return err
	}

	initErr := tryInit(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if initErr != nil && c.Adapter == nil {
		initErr = tryInit(&wgpu.RequestAdapterOptions{
			PowerPreference: wgpu.PowerPreferenceLowPower,
		})
	}
	if initErr != nil && c.Adapter == nil {
		initErr = tryInit(nil)
	}
	if c.Adapter == nil {
		return nil, fmt.Errorf("webgpu: all adapter attempts failed: %v", initErr)
	}

	var err error
	c.Device, err = c.Adapter.RequestDevice(nil)
	if err != nil {
		return nil, fmt.Errorf("webgpu: request device: %w", err)
	}
	c.Queue = c.Device.GetQueue()
	if c.Device == nil || c.Queue == nil {
		return nil, fmt.Errorf("webgpu: device or queue not initialized")
	}
	return c, nil
}

// AdapterLabel returns a human-readable "Name (Vendor)" string.
func (c *Context) AdapterLabel() string {
	info := c.Adapter.GetInfo()
	name := strings.TrimSpace(info.Name)
	if info.VendorName != "" {
		return fmt.Sprintf("%s (%s)", name, info.VendorName)
	}
	return name
}

// Release frees the context. Programs and buffers created from it must not
// be used afterwards.
func (c *Context) Release() {
	if c.Device != nil {
		c.Device.Release()
	}
	if c.Adapter != nil {
		c.Adapter.Release()
	}
	if c.Instance != nil {
		c.Instance.Release()
	}
}
