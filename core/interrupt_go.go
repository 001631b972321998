//go:build !tinygo

package core

// interruptState is the saved interrupt mask; hosts have none to save
type interruptState uintptr

// disableInterrupts masks nothing on a host build; list splices there are
// only ever made from the single cooperative context.
func disableInterrupts() interruptState {
	return 0
}

func restoreInterrupts(interruptState) {}
