package core

import (
	"strings"
	"testing"
)

func TestTimingRing(t *testing.T) {
	ClearTimingRing()
	t.Cleanup(ClearTimingRing)
	d, counter := newTestDispatcher()

	var c Cyclic
	d.Cyclic.Register(&c, func(*Cyclic) {}, 100, "ring")
	d.Uthreads.Create(nil, func(any) {}, nil, 0, 0)

	counter.Set(100)
	d.Schedule()
	d.Schedule()

	var types []uint8
	for _, evt := range TimingEvents() {
		types = append(types, evt.EventType)
	}
	want := []uint8{EvtThreadCreate, EvtCyclicRun, EvtThreadResume, EvtThreadDone, EvtThreadReap}
	if len(types) != len(want) {
		t.Fatalf("Expected events %v, got %v", want, types)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("event %d: expected %d, got %d", i, want[i], types[i])
		}
	}

	lines := captureLog(t)
	DumpTimingRing()
	dump := strings.Join(*lines, "\n")
	if !strings.Contains(dump, "CYCLIC_RUN name=ring") || !strings.Contains(dump, "UTHREAD_REAP id=") {
		t.Errorf("Dump missing events:\n%s", dump)
	}

	ClearTimingRing()
	if len(TimingEvents()) != 0 {
		t.Error("Ring not cleared")
	}
}

func TestTimingRingWraps(t *testing.T) {
	ClearTimingRing()
	t.Cleanup(ClearTimingRing)

	for i := 0; i < TimingRingSize+5; i++ {
		RecordTiming(EvtCyclicRun, 0, uint64(i), uint32(i), 0, "wrap")
	}
	events := TimingEvents()
	if len(events) != TimingRingSize {
		t.Fatalf("Expected %d events, got %d", TimingRingSize, len(events))
	}
	if events[0].Value1 != 5 || events[len(events)-1].Value1 != TimingRingSize+4 {
		t.Errorf("Expected the oldest events to be overwritten, first=%d", events[0].Value1)
	}
}

func TestDebugGate(t *testing.T) {
	lines := captureLog(t)
	SetDebugEnabled(false)
	DebugPrintln("hidden")
	ErrorPrintln("shown")
	SetDebugEnabled(true)
	DebugPrintln("visible")
	SetDebugEnabled(false)

	if strings.Join(*lines, ",") != "shown,visible" {
		t.Errorf("Unexpected output %v", *lines)
	}
}

func TestUtoa(t *testing.T) {
	if utoa64(0) != "0" || utoa64(18446744073709551615) != "18446744073709551615" {
		t.Error("utoa64 mismatch")
	}
	if itoa(-42) != "-42" || utoa(7) != "7" {
		t.Error("itoa/utoa mismatch")
	}
}
