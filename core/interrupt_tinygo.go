//go:build tinygo

package core

import "runtime/interrupt"

type interruptState = interrupt.State

// disableInterrupts masks interrupts around list splices so an ISR that
// registers or removes a cyclic task never sees a half-linked node
func disableInterrupts() interruptState {
	return interrupt.Disable()
}

// restoreInterrupts restores the interrupt mask saved by disableInterrupts
func restoreInterrupts(state interruptState) {
	interrupt.Restore(state)
}
