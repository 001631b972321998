//go:build rp2040

package main

import (
	"runtime/volatile"
	"unsafe"

	"bootsched/core"
)

// RP2040 Timer peripheral memory map
const (
	timerBase     = 0x40054000
	timerTIMERAWL = timerBase + 0x0C // Raw timer low word
)

var timerRAWL = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWL)))

// TimerCounter is the low word of the RP2040 1MHz timer. It wraps every
// ~71 minutes; core.Timer extends it to 64 bits.
type TimerCounter struct{}

// Count reads TIMERAWL
func (TimerCounter) Count() uint64 {
	return uint64(timerRAWL.Get())
}

// Info describes the counter
func (TimerCounter) Info() core.CounterInfo {
	return core.CounterInfo{Width: 32, Rate: 1000000}
}
