package core

import (
	"errors"
	"testing"
)

func TestWatchdogCyclic(t *testing.T) {
	d, counter := newTestDispatcher()
	dev := &recordingWatchdog{}

	w := NewWatchdogCyclic(d.Cyclic, dev, "wdt0")
	w.ResetPeriodMS = 10
	w.Start()

	if dev.resets != 1 {
		t.Errorf("Expected Start to reset the watchdog, got %d", dev.resets)
	}
	if !w.Running() || w.Cyclic().Name != "watchdog@wdt0" {
		t.Fatalf("Expected a running task named watchdog@wdt0, got %q", w.Cyclic().Name)
	}

	counter.Set(10000)
	d.Schedule()
	counter.Set(15000)
	d.Schedule()
	counter.Set(20000)
	d.Schedule()
	if dev.resets != 3 || w.Resets != 3 {
		t.Errorf("Expected 3 resets, got %d", dev.resets)
	}

	w.Stop()
	if w.Running() {
		t.Error("Expected the task to be stopped")
	}
	counter.Set(40000)
	d.Schedule()
	if dev.resets != 3 {
		t.Errorf("Stopped watchdog was reset, got %d", dev.resets)
	}
}

type fakeI2C struct {
	addr uint16
	w    []byte
	err  error
}

func (b *fakeI2C) Tx(addr uint16, w, r []byte) error {
	b.addr = addr
	b.w = append([]byte(nil), w...)
	return b.err
}

func (b *fakeI2C) ReadRegister(addr uint8, r uint8, buf []byte) error {
	return b.Tx(uint16(addr), []byte{r}, buf)
}

func (b *fakeI2C) WriteRegister(addr uint8, r uint8, buf []byte) error {
	return b.Tx(uint16(addr), append([]byte{r}, buf...), nil)
}

func TestI2CWatchdog(t *testing.T) {
	bus := &fakeI2C{}
	w := NewI2CWatchdog(bus, 0x32, 0x0a, 0x5a)

	w.Reset()
	if bus.addr != 0x32 || len(bus.w) != 2 || bus.w[0] != 0x0a || bus.w[1] != 0x5a {
		t.Errorf("Unexpected kick transfer addr=%#x w=%v", bus.addr, bus.w)
	}
	if w.Kicks != 1 || w.Errors != 0 {
		t.Errorf("Expected one kick, got kicks=%d errors=%d", w.Kicks, w.Errors)
	}

	bus.err = errors.New("nack")
	w.Reset()
	if w.Kicks != 1 || w.Errors != 1 {
		t.Errorf("Expected the failed kick to be counted, got kicks=%d errors=%d", w.Kicks, w.Errors)
	}
}

func TestI2CWatchdogAsHardwareHook(t *testing.T) {
	d, _ := newTestDispatcher()
	bus := &fakeI2C{}
	w := NewI2CWatchdog(bus, 0x32, 0x0a, 0x5a)
	d.Watchdog = w

	for i := 0; i < 4; i++ {
		d.Schedule()
	}
	if w.Kicks != 4 {
		t.Errorf("Expected a kick per schedule, got %d", w.Kicks)
	}
}
