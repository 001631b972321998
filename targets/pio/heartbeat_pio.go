//go:build rp2040

package pio

import (
	"machine"

	"bootsched/core"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"
)

// buildHeartbeatProgram creates the LED program using AssemblerV0.
// Each word pulled from the TX FIFO sets the pin to its low bit.
func buildHeartbeatProgram() []uint16 {
	asm := rp2pio.AssemblerV0{SidesetBits: 0}
	return []uint16{
		// .wrap_target
		asm.Pull(false, true).Encode(),          // 0: pull block
		asm.Out(rp2pio.OutDestPins, 1).Encode(), // 1: out pins, 1
		// .wrap
	}
}

const heartbeatPIOOrigin = 0

// Heartbeat blinks a status LED through a PIO state machine. A cyclic task
// pushes the next level, so the LED stops blinking when the scheduler does.
type Heartbeat struct {
	pio    *rp2pio.PIO
	sm     rp2pio.StateMachine
	pin    machine.Pin
	offset uint8
	level  bool
	cyclic core.Cyclic

	Toggles uint32
	Skipped uint32 // FIFO was full when the task ran
}

// NewHeartbeat creates a heartbeat on state machine smNum of PIO pioNum
func NewHeartbeat(pioNum, smNum uint8) *Heartbeat {
	var pioHW *rp2pio.PIO
	if pioNum == 0 {
		pioHW = rp2pio.PIO0
	} else {
		pioHW = rp2pio.PIO1
	}

	return &Heartbeat{
		pio: pioHW,
		sm:  pioHW.StateMachine(smNum),
	}
}

// Init loads the program and hands pin to the state machine
func (h *Heartbeat) Init(pin machine.Pin) error {
	h.pin = pin

	// Claim the state machine before touching it
	h.sm.TryClaim()

	program := buildHeartbeatProgram()
	offset, err := h.pio.AddProgram(program, heartbeatPIOOrigin)
	if err != nil {
		return err
	}
	h.offset = offset

	h.pin.Configure(machine.PinConfig{Mode: h.pio.PinMode()})

	cfg := rp2pio.DefaultStateMachineConfig()
	cfg.SetOutPins(h.pin, 1)
	cfg.SetOutShift(true, false, 32)
	cfg.SetWrap(offset+uint8(len(program))-1, offset)
	cfg.SetClkDivIntFrac(1000, 0)

	// Pin directions must be set after Init
	h.sm.Init(offset, cfg)
	h.sm.SetPindirsConsecutive(h.pin, 1, true)
	h.sm.SetPinsConsecutive(h.pin, 1, false)

	h.sm.SetEnabled(true)
	return nil
}

// Start toggles the LED every periodUS from reg
func (h *Heartbeat) Start(reg *core.CyclicRegistry, periodUS uint64) {
	reg.Register(&h.cyclic, h.toggle, periodUS, "heartbeat")
}

// Stop unregisters the task and turns the LED off
func (h *Heartbeat) Stop(reg *core.CyclicRegistry) {
	reg.Unregister(&h.cyclic)
	h.level = false
	h.sm.SetEnabled(false)
	h.sm.ClearFIFOs()
	h.sm.Restart()
	h.sm.SetPinsConsecutive(h.pin, 1, false)
	h.sm.SetEnabled(true)
}

func (h *Heartbeat) toggle(*core.Cyclic) {
	// Never wait on the FIFO from a cyclic task
	if h.sm.IsTxFIFOFull() {
		h.Skipped++
		return
	}
	h.level = !h.level
	var word uint32
	if h.level {
		word = 1
	}
	h.sm.TxPut(word)
	h.Toggles++
}
