package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// TimingEvent captures a scheduler event for post-mortem analysis
type TimingEvent struct {
	EventType uint8  // Event type code
	ID        uint32 // Thread id, 0 for cyclic events
	Clock     uint32 // Low 32 bits of the microsecond clock at the event
	Value1    uint32 // Context-dependent value
	Value2    uint32 // Context-dependent value
	Name      string // Cyclic name, empty for thread events
}

// Event type codes
const (
	EvtCyclicRun     = 1 // Cyclic callback ran (v1=run count, v2=cpu us)
	EvtCyclicOverrun = 2 // Cyclic callback exceeded its CPU budget
	EvtThreadCreate  = 3 // Uthread created (v1=group, v2=stack size)
	EvtThreadResume  = 4 // Uthread switched in
	EvtThreadDone    = 5 // Uthread entry function returned
	EvtThreadReap    = 6 // Uthread unlinked and stack freed
)

const (
	TimingRingSize = 32 // Keep last 32 events for post-mortem
)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether debug output is active
	debugEnabled bool = false

	// Timing capture ring buffer (non-blocking, for post-mortem)
	timingRing     [TimingRingSize]TimingEvent
	timingRingHead uint8        // Next write position
	timingEnabled  bool  = true // Always capture timing events
)

// SetDebugWriter sets the platform-specific debug output function
// This allows platforms to redirect debug output to UART, USB, etc.
func SetDebugWriter(writer DebugWriter) {
	if writer == nil {
		writer = func(s string) {}
	}
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// SetTimingEnabled enables or disables event capture in the timing ring
func SetTimingEnabled(enabled bool) {
	timingEnabled = enabled
}

// DebugPrintln writes a debug message using the platform-specific writer
func DebugPrintln(msg string) {
	if debugEnabled {
		debugPrintln(msg)
	}
}

// ErrorPrintln writes a message regardless of the debug switch
func ErrorPrintln(msg string) {
	debugPrintln(msg)
}

// RecordTiming captures a timing event in the ring buffer
func RecordTiming(eventType uint8, id uint32, clock uint64, value1, value2 uint32, name string) {
	if !timingEnabled {
		return
	}
	idx := timingRingHead
	timingRing[idx] = TimingEvent{
		EventType: eventType,
		ID:        id,
		Clock:     uint32(clock),
		Value1:    value1,
		Value2:    value2,
		Name:      name,
	}
	timingRingHead = (idx + 1) % TimingRingSize
}

// TimingEvents returns the captured events from oldest to newest
func TimingEvents() []TimingEvent {
	events := make([]TimingEvent, 0, TimingRingSize)
	start := timingRingHead
	for i := uint8(0); i < TimingRingSize; i++ {
		evt := timingRing[(start+i)%TimingRingSize]
		if evt.EventType == 0 {
			continue // Empty slot
		}
		events = append(events, evt)
	}
	return events
}

// DumpTimingRing outputs the timing ring buffer (call on shutdown/error)
func DumpTimingRing() {
	debugPrintln("[TIMING] === Timing Ring Dump ===")
	for _, evt := range TimingEvents() {
		var name string
		switch evt.EventType {
		case EvtCyclicRun:
			name = "CYCLIC_RUN"
		case EvtCyclicOverrun:
			name = "CYCLIC_OVERRUN!"
		case EvtThreadCreate:
			name = "UTHREAD_CREATE"
		case EvtThreadResume:
			name = "UTHREAD_RESUME"
		case EvtThreadDone:
			name = "UTHREAD_DONE"
		case EvtThreadReap:
			name = "UTHREAD_REAP"
		default:
			name = "UNKNOWN"
		}

		line := "[TIMING] " + name
		if evt.Name != "" {
			line += " name=" + evt.Name
		} else {
			line += " id=" + utoa(evt.ID)
		}
		debugPrintln(line +
			" clock=" + utoa(evt.Clock) +
			" v1=" + utoa(evt.Value1) +
			" v2=" + utoa(evt.Value2))
	}
	debugPrintln("[TIMING] === End Dump ===")
}

// ClearTimingRing clears the timing buffer
func ClearTimingRing() {
	for i := range timingRing {
		timingRing[i] = TimingEvent{}
	}
	timingRingHead = 0
}
