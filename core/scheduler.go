package core

// WatchdogPeriodUS is the longest busy-wait between two watchdog resets
const WatchdogPeriodUS = 100000

// Watchdog is a hardware watchdog that must be reset periodically
type Watchdog interface {
	Reset()
}

// Dispatcher is the cooperative heartbeat: every polling or delay loop
// calls Schedule, which resets the watchdog, runs due cyclic tasks and
// gives one other uthread a turn.
type Dispatcher struct {
	Timer    *Timer
	Cyclic   *CyclicRegistry
	Uthreads *Uthreads
	Watchdog Watchdog // Optional hardware watchdog
}

// NewDispatcher creates a dispatcher timed by src with uthread stacks
// taken from alloc. The timer is initialized.
func NewDispatcher(src TickSource, alloc Allocator) *Dispatcher {
	timer := NewTimer(src)
	timer.Init()

	threads := NewUthreads(alloc)
	threads.timer = timer

	return &Dispatcher{
		Timer:    timer,
		Cyclic:   NewCyclicRegistry(timer),
		Uthreads: threads,
	}
}

// Schedule runs one round of the heartbeat
func (d *Dispatcher) Schedule() {
	if d.Watchdog != nil {
		d.Watchdog.Reset()
	}

	// Registry may be absent on a dispatcher set up before the cyclic IF
	if d.Cyclic != nil {
		d.Cyclic.RunPending()
	}

	if d.Uthreads != nil {
		d.Uthreads.Schedule()
	}
}

// Udelay waits us microseconds, calling Schedule at least every
// WatchdogPeriodUS
func (d *Dispatcher) Udelay(us uint64) {
	for {
		d.Schedule()
		chunk := us
		if chunk > WatchdogPeriodUS {
			chunk = WatchdogPeriodUS
		}
		d.busyDelay(chunk)
		us -= chunk
		if us == 0 {
			return
		}
	}
}

// Mdelay waits ms milliseconds
func (d *Dispatcher) Mdelay(ms uint64) {
	for ; ms > 0; ms-- {
		d.Udelay(1000)
	}
}

// busyDelay spins on the tick counter without yielding
func (d *Dispatcher) busyDelay(us uint64) {
	end := d.Timer.Ticks() + d.Timer.USToTicks(us)
	for d.Timer.Ticks() < end {
	}
}

// Shutdown unregisters every cyclic task. Uthreads cannot be cancelled
// and are left as they are.
func (d *Dispatcher) Shutdown() {
	if d.Cyclic != nil {
		d.Cyclic.UnregisterAll()
	}
}
