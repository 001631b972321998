package console

import (
	"io"
	"sync"

	"bootsched/core"
)

// DefaultFlushPeriodUS is how often the console task drains the buffer
const DefaultFlushPeriodUS = 10000

// Console buffers log output and drains it from a cyclic task, so that
// writers never block on a slow serial line.
type Console struct {
	mu      sync.Mutex // Guards fifo and counters
	outMu   sync.Mutex // Serializes drains through scratch
	fifo    *FifoBuffer
	out     io.Writer
	scratch []byte
	cyclic  core.Cyclic
	reg     *core.CyclicRegistry

	Dropped     uint64 // Bytes lost to a full buffer
	WriteErrors uint64
}

// New creates a console draining into out through a bufferSize byte FIFO
func New(out io.Writer, bufferSize int) *Console {
	fifo := NewFifoBuffer(bufferSize)
	return &Console{
		fifo:    fifo,
		out:     out,
		scratch: make([]byte, fifo.size),
	}
}

// Write queues p. Bytes that do not fit are dropped and counted; the
// returned count is always len(p).
func (c *Console) Write(p []byte) (int, error) {
	c.mu.Lock()
	n := c.fifo.Write(p)
	c.Dropped += uint64(len(p) - n)
	c.mu.Unlock()
	return len(p), nil
}

// Puts queues s
func (c *Console) Puts(s string) {
	c.mu.Lock()
	n := c.fifo.WriteString(s)
	c.Dropped += uint64(len(s) - n)
	c.mu.Unlock()
}

// Writer returns a DebugWriter that queues one line per call
func (c *Console) Writer() core.DebugWriter {
	return func(s string) {
		c.Puts(s + "\n")
	}
}

// Pending returns the number of queued bytes
func (c *Console) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fifo.Available()
}

// Start registers the drain task on reg, running every periodUS
func (c *Console) Start(reg *core.CyclicRegistry, periodUS uint64) {
	if periodUS == 0 {
		periodUS = DefaultFlushPeriodUS
	}
	c.reg = reg
	reg.Register(&c.cyclic, c.poll, periodUS, "console")
}

// Stop unregisters the drain task and writes out whatever is left
func (c *Console) Stop() error {
	if c.reg != nil {
		c.reg.Unregister(&c.cyclic)
		c.reg = nil
	}
	return c.Flush()
}

// Flush drains the whole buffer synchronously
func (c *Console) Flush() error {
	for {
		n, err := c.drain()
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
	}
}

func (c *Console) poll(*core.Cyclic) {
	// Errors are counted; the next run tries again with fresh data
	c.drain()
}

// drain moves one buffer's worth of bytes to the output
func (c *Console) drain() (int, error) {
	c.outMu.Lock()
	defer c.outMu.Unlock()

	c.mu.Lock()
	n := c.fifo.Read(c.scratch)
	c.mu.Unlock()
	if n == 0 {
		return 0, nil
	}

	if _, err := c.out.Write(c.scratch[:n]); err != nil {
		c.mu.Lock()
		c.WriteErrors++
		c.mu.Unlock()
		return n, err
	}
	return n, nil
}
