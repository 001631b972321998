package core

import "math/bits"

// DefaultCyclicMaxCPUTimeUS is the CPU time a single cyclic run may take
// before it is reported as an overrun
const DefaultCyclicMaxCPUTimeUS = 1000

// CyclicFunc is called each time a cyclic task is due
type CyclicFunc func(c *Cyclic)

// Cyclic represents a periodic callback driven by Schedule.
// The caller owns the storage; it is typically embedded in a driver struct.
type Cyclic struct {
	Func          CyclicFunc
	Name          string
	DelayUS       uint64 // Period between runs
	StartUS       uint64 // Registration time
	NextCall      uint64 // Earliest time of the next run
	RunCount      uint64
	CPUTimeUS     uint64
	AlreadyWarned bool // Overrun reported, sticky

	registry *CyclicRegistry
	seq      uint64 // Registration this descriptor currently belongs to
	next     *Cyclic
	prev     *Cyclic
}

// Frequency returns the average run rate since registration in milli-Hz
func (c *Cyclic) Frequency(nowUS uint64) uint64 {
	if nowUS <= c.StartUS {
		return 0
	}
	elapsed := nowUS - c.StartUS
	hi, lo := bits.Mul64(c.RunCount, 1000000000)
	if hi >= elapsed {
		return ^uint64(0)
	}
	q, _ := bits.Div64(hi, lo, elapsed)
	return q
}

// CyclicRegistry holds the live cyclic tasks in registration order
type CyclicRegistry struct {
	timer   *Timer
	head    *Cyclic
	tail    *Cyclic
	count   int
	running bool      // Reentrancy guard for RunPending
	pass    []*Cyclic // Snapshot of the list for the current pass
	seq     uint64    // Last registration number handed out

	// MaxCPUTimeUS is the per-run budget above which an overrun is reported
	MaxCPUTimeUS uint64
}

// NewCyclicRegistry creates an empty registry timed by timer
func NewCyclicRegistry(timer *Timer) *CyclicRegistry {
	return &CyclicRegistry{
		timer:        timer,
		MaxCPUTimeUS: DefaultCyclicMaxCPUTimeUS,
	}
}

// Register makes c run every delayUS microseconds. Registering a live
// descriptor again replaces its previous registration.
func (r *CyclicRegistry) Register(c *Cyclic, fn CyclicFunc, delayUS uint64, name string) {
	if c.registry != nil {
		c.registry.Unregister(c)
	}

	now := r.timer.US()
	*c = Cyclic{
		Func:     fn,
		Name:     name,
		DelayUS:  delayUS,
		StartUS:  now,
		NextCall: now + delayUS,
	}

	state := disableInterrupts()
	defer restoreInterrupts(state)

	r.seq++
	c.registry = r
	c.seq = r.seq
	c.prev = r.tail
	if r.tail == nil {
		r.head = c
	} else {
		r.tail.next = c
	}
	r.tail = c
	r.count++
}

// Unregister removes c from the registry; a no-op if it is not registered
func (r *CyclicRegistry) Unregister(c *Cyclic) {
	if c == nil || c.registry != r {
		return
	}

	state := disableInterrupts()
	defer restoreInterrupts(state)

	if c.prev == nil {
		r.head = c.next
	} else {
		c.prev.next = c.next
	}
	if c.next == nil {
		r.tail = c.prev
	} else {
		c.next.prev = c.prev
	}
	c.next = nil
	c.prev = nil
	c.registry = nil
	r.count--
}

// IsRegistered reports whether c is live in this registry
func (r *CyclicRegistry) IsRegistered(c *Cyclic) bool {
	return c != nil && c.registry == r
}

// UnregisterAll drains the registry. It always returns 0.
func (r *CyclicRegistry) UnregisterAll() int {
	for r.head != nil {
		r.Unregister(r.head)
	}
	return 0
}

// Len returns the number of registered tasks
func (r *CyclicRegistry) Len() int {
	return r.count
}

// Running reports whether a RunPending pass is in progress
func (r *CyclicRegistry) Running() bool {
	return r.running
}

// Each calls fn for every registered task in registration order
func (r *CyclicRegistry) Each(fn func(c *Cyclic)) {
	for c := r.head; c != nil; {
		next := c.next
		fn(c)
		c = next
	}
}

// RunPending runs every task that is due, once, in registration order.
// Calls made while a pass is already running return immediately.
func (r *CyclicRegistry) RunPending() {
	if r.running {
		return
	}
	r.running = true
	defer func() { r.running = false }()

	r.pass = r.pass[:0]
	for c := r.head; c != nil; c = c.next {
		r.pass = append(r.pass, c)
	}

	for i, c := range r.pass {
		r.pass[i] = nil
		// Unregistered by an earlier callback in this pass
		if c.registry != r {
			continue
		}

		now := r.timer.US()
		if now < c.NextCall {
			continue
		}

		// Advance from the due time, not from now, so the period never drifts
		c.NextCall += c.DelayUS
		seq := c.seq
		c.Func(c)
		// Re-registered or dropped by its own callback: the run belongs
		// to a registration that no longer exists
		if c.registry != r || c.seq != seq {
			continue
		}
		c.RunCount++

		cpu := r.timer.US() - now
		c.CPUTimeUS += cpu
		RecordTiming(EvtCyclicRun, 0, now, uint32(c.RunCount), uint32(cpu), c.Name)

		if cpu > r.MaxCPUTimeUS && !c.AlreadyWarned {
			ErrorPrintln("cyclic function " + c.Name + " took too long: " +
				utoa64(cpu) + "us vs " + utoa64(r.MaxCPUTimeUS) + "us max")
			RecordTiming(EvtCyclicOverrun, 0, now, uint32(cpu), uint32(r.MaxCPUTimeUS), c.Name)
			c.AlreadyWarned = true
		}
	}
	r.pass = r.pass[:0]
}
