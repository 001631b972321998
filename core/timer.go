package core

// Timer frequencies for common MCUs
const (
	TimerFreq = 12000000 // 12MHz fallback when a source does not report its rate
)

// CounterInfo describes a free-running hardware counter
type CounterInfo struct {
	Width     uint8  // Counter width in bits (1-64), wraps at 2^Width
	Rate      uint64 // Count frequency in Hz, 0 if unknown
	CountDown bool   // True if the counter decrements
}

// TickSource is a free-running hardware counter
// Only the low Width bits of Count are meaningful.
type TickSource interface {
	Count() uint64
	Info() CounterInfo
}

// Starter is implemented by sources that must be programmed before they run
type Starter interface {
	Start() error
}

// Timer turns a raw counter of any width into a 64-bit monotonic tick count.
// It is not reentrant; all callers share the single cooperative context.
type Timer struct {
	src  TickSource
	info CounterInfo
	mask uint64

	last   uint64 // Last raw counter reading
	ticks  uint64 // Accumulated ticks
	baseUS uint64 // Time carried over from previous sources
}

// NewTimer creates a timer reading from src. src may be nil, in which case
// the timer never advances.
func NewTimer(src TickSource) *Timer {
	t := &Timer{}
	t.setSource(src)
	return t
}

func (t *Timer) setSource(src TickSource) {
	t.src = src
	t.info = CounterInfo{Width: 64}
	if src != nil {
		t.info = src.Info()
	}
	if t.info.Width == 0 || t.info.Width >= 64 {
		t.info.Width = 64
		t.mask = ^uint64(0)
	} else {
		t.mask = (uint64(1) << t.info.Width) - 1
	}
}

// Init starts the counter if needed and resets the accumulated state
func (t *Timer) Init() {
	if s, ok := t.src.(Starter); ok {
		// A source that fails to start simply never advances
		if err := s.Start(); err != nil {
			ErrorPrintln("timer: start failed: " + err.Error())
		}
	}
	t.last = 0
	t.ticks = 0
	t.baseUS = 0
}

// Retime switches the timer to src. Ticks restart from zero on the new
// source but US and MS carry on from their current value, so deadlines
// taken before the switch stay valid.
func (t *Timer) Retime(src TickSource) {
	now := t.US()
	t.setSource(src)
	t.Init()
	t.baseUS = now
}

// Source returns the underlying tick source
func (t *Timer) Source() TickSource {
	return t.src
}

// Ticks returns the 64-bit monotonic tick count (get_ticks)
func (t *Timer) Ticks() uint64 {
	if t.src == nil {
		return t.ticks
	}
	raw := t.src.Count() & t.mask
	var delta uint64
	if t.info.CountDown {
		delta = (t.last - raw) & t.mask
	} else {
		delta = (raw - t.last) & t.mask
	}
	t.last = raw
	t.ticks += delta
	return t.ticks
}

// Rate returns the tick frequency in Hz (get_tbclk)
func (t *Timer) Rate() uint64 {
	if t.info.Rate == 0 {
		return TimerFreq
	}
	return t.info.Rate
}

// Width returns the counter width in bits
func (t *Timer) Width() uint8 {
	return t.info.Width
}

// TicksToUS converts timer ticks to microseconds
func (t *Timer) TicksToUS(ticks uint64) uint64 {
	return scale(ticks, 1000000, t.Rate())
}

// TicksToMS converts timer ticks to milliseconds
func (t *Timer) TicksToMS(ticks uint64) uint64 {
	return scale(ticks, 1000, t.Rate())
}

// USToTicks converts microseconds to timer ticks, rounding up
func (t *Timer) USToTicks(us uint64) uint64 {
	rate := t.Rate()
	ticks := scale(us, rate, 1000000)
	if scale(ticks, 1000000, rate) < us {
		ticks++
	}
	return ticks
}

// US returns the current time in microseconds (timer_get_us)
func (t *Timer) US() uint64 {
	return t.baseUS + t.TicksToUS(t.Ticks())
}

// MS returns the current time in milliseconds
func (t *Timer) MS() uint64 {
	return t.US() / 1000
}

// Since returns the milliseconds elapsed since base (get_timer)
func (t *Timer) Since(base uint64) uint64 {
	return t.MS() - base
}

// SinceUS returns the microseconds elapsed since base (get_timer_us)
func (t *Timer) SinceUS(base uint64) uint64 {
	return t.US() - base
}

// scale computes v*mul/div without overflowing the intermediate product
// for any v, as long as (div-1)*mul fits in 64 bits.
func scale(v, mul, div uint64) uint64 {
	return (v/div)*mul + (v%div)*mul/div
}
