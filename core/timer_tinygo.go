//go:build tinygo || !linux

package core

import "time"

var epoch = time.Now()

// systemCounter reads the runtime monotonic clock as a 1MHz counter.
// Board targets normally replace it with their timer peripheral.
type systemCounter struct {
	width uint8
}

func (c *systemCounter) Count() uint64 {
	return uint64(time.Since(epoch) / time.Microsecond)
}

func (c *systemCounter) Info() CounterInfo {
	return CounterInfo{Width: c.width, Rate: 1000000}
}

// defaultTickSource returns the tick source used by the default dispatcher
func defaultTickSource() TickSource {
	return &systemCounter{width: 64}
}

// NewHostCounter returns the best host counter of the given width
func NewHostCounter(width uint8) TickSource {
	if width == 0 || width > 64 {
		width = 64
	}
	return &systemCounter{width: width}
}
