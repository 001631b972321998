//go:build !tinygo && linux

package core

import "golang.org/x/sys/unix"

// MonotonicCounter exposes CLOCK_MONOTONIC_RAW as a 1MHz counter truncated
// to a fixed width, so hosts exercise the same wrap handling as hardware.
type MonotonicCounter struct {
	width uint8
}

// NewMonotonicCounter creates a host counter of the given width in bits
func NewMonotonicCounter(width uint8) *MonotonicCounter {
	if width == 0 || width > 64 {
		width = 64
	}
	return &MonotonicCounter{width: width}
}

// Count returns the current microsecond count
func (c *MonotonicCounter) Count() uint64 {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC_RAW, &ts); err != nil {
		return 0
	}
	return uint64(ts.Sec)*1000000 + uint64(ts.Nsec)/1000
}

// Info describes the counter
func (c *MonotonicCounter) Info() CounterInfo {
	return CounterInfo{Width: c.width, Rate: 1000000}
}

// defaultTickSource returns the tick source used by the default dispatcher
func defaultTickSource() TickSource {
	return NewMonotonicCounter(64)
}

// NewHostCounter returns the best host counter of the given width
func NewHostCounter(width uint8) TickSource {
	return NewMonotonicCounter(width)
}
