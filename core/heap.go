package core

import "errors"

var (
	// ErrNoMemory is returned when an allocation does not fit the heap
	ErrNoMemory = errors.New("out of memory")

	// ErrBusy is returned when a resource is already taken
	ErrBusy = errors.New("resource busy")
)

// DefaultMallocLen is the size of the default heap arena
const DefaultMallocLen = 4 << 20

// Allocator hands out and takes back memory blocks
type Allocator interface {
	Alloc(size int) ([]byte, error)
	Free(buf []byte)
}

// Heap is a bounded arena in the manner of the firmware malloc pool.
// Allocation fails once the arena is exhausted; freeing a block twice
// is a corruption and panics.
type Heap struct {
	capacity int
	used     int
	live     map[*byte]int
}

// NewHeap creates a heap of the given capacity in bytes
func NewHeap(capacity int) *Heap {
	return &Heap{
		capacity: capacity,
		live:     make(map[*byte]int),
	}
}

// Alloc reserves size bytes
func (h *Heap) Alloc(size int) ([]byte, error) {
	if size <= 0 || size > h.capacity-h.used {
		DebugPrintln("heap: cannot allocate " + itoa(size) + " bytes, " + itoa(h.capacity-h.used) + " free")
		return nil, ErrNoMemory
	}
	buf := make([]byte, size)
	h.live[&buf[0]] = size
	h.used += size
	return buf, nil
}

// Free returns a block obtained from Alloc
func (h *Heap) Free(buf []byte) {
	if len(buf) == 0 {
		return
	}
	size, ok := h.live[&buf[0]]
	if !ok {
		panic("heap: free of unallocated or already freed block")
	}
	delete(h.live, &buf[0])
	h.used -= size
}

// Used returns the number of bytes currently allocated
func (h *Heap) Used() int {
	return h.used
}

// Available returns the number of bytes left in the arena
func (h *Heap) Available() int {
	return h.capacity - h.used
}

// Blocks returns the number of live allocations
func (h *Heap) Blocks() int {
	return len(h.live)
}
