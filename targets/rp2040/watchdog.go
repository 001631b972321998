//go:build rp2040

package main

import (
	"machine"

	"bootsched/core"
)

const (
	watchdogTimeoutMS = 2000

	// External I2C watchdog, kicked by writing extWatchdogKick to extWatchdogReg
	extWatchdogAddr = 0x68
	extWatchdogReg  = 0x01
	extWatchdogKick = 0xA5
)

// hwWatchdog is the RP2040 on-chip watchdog
type hwWatchdog struct{}

// Reset reloads the watchdog counter
func (hwWatchdog) Reset() {
	machine.Watchdog.Update()
}

// startWatchdogs arms the on-chip watchdog and, when one answers on I2C0,
// an external one. Both are serviced from cyclic tasks.
func startWatchdogs(d *core.Dispatcher) {
	err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: watchdogTimeoutMS})
	if err == nil {
		err = machine.Watchdog.Start()
	}
	if err != nil {
		core.ErrorPrintln("watchdog: " + err.Error())
	} else {
		core.NewWatchdogCyclic(d.Cyclic, hwWatchdog{}, "rp2040").Start()
	}

	if err := machine.I2C0.Configure(machine.I2CConfig{}); err != nil {
		return
	}
	ext := core.NewI2CWatchdog(machine.I2C0, extWatchdogAddr, extWatchdogReg, extWatchdogKick)
	ext.Reset()
	if ext.Errors != 0 {
		// Nothing on the bus
		return
	}
	core.NewWatchdogCyclic(d.Cyclic, ext, "i2c").Start()
}
