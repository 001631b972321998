package core

import "tinygo.org/x/drivers"

// I2CWatchdog is an external supervisor (PMIC or watchdog chip) kicked by
// writing a value to one of its registers over I2C
type I2CWatchdog struct {
	bus      drivers.I2C
	Address  uint16
	Register uint8
	Kick     uint8

	Kicks  uint32
	Errors uint32
	buf    [2]byte
}

// NewI2CWatchdog creates a watchdog at addr kicked by writing kick to reg
func NewI2CWatchdog(bus drivers.I2C, addr uint16, reg, kick uint8) *I2CWatchdog {
	return &I2CWatchdog{
		bus:      bus,
		Address:  addr,
		Register: reg,
		Kick:     kick,
	}
}

// Reset kicks the supervisor. Bus errors are counted and otherwise
// ignored; the next reset simply tries again.
func (w *I2CWatchdog) Reset() {
	w.buf[0] = w.Register
	w.buf[1] = w.Kick
	if err := w.bus.Tx(w.Address, w.buf[:], nil); err != nil {
		w.Errors++
		DebugPrintln("i2c watchdog: kick failed: " + err.Error())
		return
	}
	w.Kicks++
}
