//go:build rp2040

package main

import (
	"machine"

	"bootsched/console"
	"bootsched/core"
	"bootsched/targets/pio"
)

const (
	heapSize        = 64 << 10
	threadStackSize = 4096
	consoleSize     = 1024
	heartbeatPeriod = 500000 // us
)

func main() {
	d := core.NewDispatcher(TimerCounter{}, core.NewHeap(heapSize))
	d.Uthreads.StackSize = threadStackSize
	core.SetDefault(d)

	// Console on USB CDC, drained from its own cyclic task
	con := console.New(machine.Serial, consoleSize)
	con.Start(d.Cyclic, console.DefaultFlushPeriodUS)
	core.SetDebugWriter(con.Writer())

	startWatchdogs(d)

	hb := pio.NewHeartbeat(0, 0)
	if err := hb.Init(machine.LED); err != nil {
		core.ErrorPrintln("heartbeat: " + err.Error())
	} else {
		hb.Start(d.Cyclic, heartbeatPeriod)
	}

	core.ErrorPrintln("bootsched: scheduler running")

	for {
		// A panicking callback must not take the heartbeat down with it
		func() {
			defer func() {
				if r := recover(); r != nil {
					core.ErrorPrintln("panic: " + panicString(r))
				}
			}()
			core.Schedule()
		}()
	}
}

func panicString(r any) string {
	switch v := r.(type) {
	case string:
		return v
	case error:
		return v.Error()
	default:
		return "unknown"
	}
}
