package device

import (
	"fmt"
	"runtime"
	"sync"
	"unsafe"

	"golang.org/x/sys/cpu"
)

// Invocation describes one simulated kernel thread.
type Invocation struct {
	GlobalID   uint64
	GlobalSize uint64
	LocalID    uint64
	GroupID    uint64
}

// SimKernelFunc is the host-side body of one kernel entry point. It is called
// once per global thread with the arguments bound through Kernel.SetArg.
type SimKernelFunc func(inv Invocation, args []any)

type simKey struct {
	fragment  string
	entry     string
	precision Precision
}

var (
	simRegistryMu sync.RWMutex
	simRegistry   = map[simKey]SimKernelFunc{}
)

// RegisterSimKernel registers a host body for the given entry point so that a
// SimDevice can "compile" a fragment of that name. Kernel packages register
// their bodies from init; registering the same triple twice panics.
func RegisterSimKernel(fragment, entry string, p Precision, fn SimKernelFunc) {
	simRegistryMu.Lock()
	defer simRegistryMu.Unlock()
	key := simKey{fragment, entry, p}
	if _, dup := simRegistry[key]; dup {
		panic(fmt.Sprintf("device: duplicate sim kernel %s/%s (%s)", fragment, entry, p))
	}
	simRegistry[key] = fn
}

// SimDevice executes kernels on the host with real launch geometry. It exists
// so the dispatch layer can be exercised end to end without hardware.
type SimDevice struct {
	name  string
	queue *SimQueue
}

// NewSimDevice creates a simulated device. The reported name carries the best
// available SIMD level so tuning lookups can distinguish host classes.
func NewSimDevice() *SimDevice {
	return &SimDevice{name: "SimDevice " + simdLevel(), queue: &SimQueue{}}
}

func simdLevel() string {
	switch {
	case cpu.X86.HasAVX512F:
		return "(avx512)"
	case cpu.X86.HasAVX2:
		return "(avx2)"
	case cpu.ARM64.HasASIMD:
		return "(neon)"
	}
	return "(scalar)"
}

func (d *SimDevice) ID() string   { return "sim:0" }
func (d *SimDevice) Name() string { return d.name }
func (d *SimDevice) Queue() Queue { return d.queue }

func (d *SimDevice) NewBuffer(size uint64) (Buffer, error) {
	return &SimBuffer{data: make([]byte, size)}, nil
}

// Compile resolves every entry point registered for the named fragments at
// the requested precision. A fragment set with no registered entries fails
// the build, mirroring a driver rejecting malformed source.
func (d *SimDevice) Compile(p Precision, fragments []Fragment) (Program, error) {
	entries := map[string]SimKernelFunc{}
	simRegistryMu.RLock()
	for key, fn := range simRegistry {
		if key.precision != p {
			continue
		}
		for _, f := range fragments {
			if f.Name == key.fragment {
				entries[key.entry] = fn
			}
		}
	}
	simRegistryMu.RUnlock()
	if len(entries) == 0 {
		return nil, fmt.Errorf("sim: build failed: no entry points for fragments %v at %s precision", fragmentNames(fragments), p)
	}
	return &simProgram{queue: d.queue, entries: entries}, nil
}

func fragmentNames(fragments []Fragment) []string {
	names := make([]string, len(fragments))
	for i, f := range fragments {
		names[i] = f.Name
	}
	return names
}

type simProgram struct {
	queue   *SimQueue
	entries map[string]SimKernelFunc
}

func (p *simProgram) Kernel(entry string) (Kernel, error) {
	fn, ok := p.entries[entry]
	if !ok {
		return nil, fmt.Errorf("sim: %q: %w", entry, ErrEntryNotFound)
	}
	return &simKernel{fn: fn}, nil
}

type simKernel struct {
	fn   SimKernelFunc
	args []any
}

func (k *simKernel) SetArg(index int, value any) error {
	for len(k.args) <= index {
		k.args = append(k.args, nil)
	}
	switch value.(type) {
	case int32, uint32, float32, float64, complex64, complex128, Buffer:
	default:
		return fmt.Errorf("sim: arg %d is %T: %w", index, value, ErrBadArgument)
	}
	k.args[index] = value
	return nil
}

// SimQueue runs launches synchronously, spreading global threads over the
// host CPUs. It counts submissions so tests can assert that a rejected
// request never reached the queue.
type SimQueue struct {
	mu       sync.Mutex
	launches int
}

// Launches reports how many kernels have been submitted.
func (q *SimQueue) Launches() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.launches
}

func (q *SimQueue) Launch(k Kernel, global, local uint64) (Event, error) {
	sk, ok := k.(*simKernel)
	if !ok {
		return nil, fmt.Errorf("sim: foreign kernel %T: %w", k, ErrBadArgument)
	}
	if global == 0 || local == 0 || global%local != 0 {
		return nil, fmt.Errorf("sim: global %d local %d: %w", global, local, ErrInvalidGeometry)
	}
	q.mu.Lock()
	q.launches++
	q.mu.Unlock()

	workers := uint64(runtime.GOMAXPROCS(0))
	if workers > global {
		workers = global
	}
	chunk := (global + workers - 1) / workers
	var wg sync.WaitGroup
	for w := uint64(0); w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > global {
			hi = global
		}
		if lo >= hi {
			break
		}
		wg.Add(1)
		go func(lo, hi uint64) {
			defer wg.Done()
			for gid := lo; gid < hi; gid++ {
				sk.fn(Invocation{
					GlobalID:   gid,
					GlobalSize: global,
					LocalID:    gid % local,
					GroupID:    gid / local,
				}, sk.args)
			}
		}(lo, hi)
	}
	wg.Wait()
	return simEvent{}, nil
}

func (q *SimQueue) Finish() error { return nil }

type simEvent struct{}

func (simEvent) Wait() error { return nil }

// SimBuffer is host memory standing in for a device allocation.
type SimBuffer struct {
	data []byte
}

func (b *SimBuffer) Size() uint64 { return uint64(len(b.data)) }

func (b *SimBuffer) Write(offset uint64, data []byte) error {
	if offset+uint64(len(data)) > uint64(len(b.data)) {
		return fmt.Errorf("sim: write [%d,%d) of %d: %w", offset, offset+uint64(len(data)), len(b.data), ErrOutOfRange)
	}
	copy(b.data[offset:], data)
	return nil
}

func (b *SimBuffer) Read(offset uint64, dst []byte) error {
	if offset+uint64(len(dst)) > uint64(len(b.data)) {
		return fmt.Errorf("sim: read [%d,%d) of %d: %w", offset, offset+uint64(len(dst)), len(b.data), ErrOutOfRange)
	}
	copy(dst, b.data[offset:])
	return nil
}

func (b *SimBuffer) Release() { b.data = nil }

// SimData reinterprets a simulated buffer as a typed slice. Kernel bodies use
// it for element access; the backing array is shared, not copied.
func SimData[T any](b *SimBuffer) []T {
	if len(b.data) == 0 {
		return nil
	}
	var z T
	return unsafe.Slice((*T)(unsafe.Pointer(&b.data[0])), uintptr(len(b.data))/unsafe.Sizeof(z))
}

// Bytes reinterprets a typed slice as raw bytes for buffer uploads.
func Bytes[T any](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	var z T
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), uintptr(len(s))*unsafe.Sizeof(z))
}

var _ Device = (*SimDevice)(nil)
