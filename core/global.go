package core

// defaultDispatcher backs the package-level API used by firmware code
var defaultDispatcher *Dispatcher

// Default returns the process-wide dispatcher, creating it on the host
// counter and a DefaultMallocLen heap on first use
func Default() *Dispatcher {
	if defaultDispatcher == nil {
		defaultDispatcher = NewDispatcher(defaultTickSource(), NewHeap(DefaultMallocLen))
	}
	return defaultDispatcher
}

// SetDefault installs d as the process-wide dispatcher. nil tears the
// current one down, unregistering its cyclic tasks.
func SetDefault(d *Dispatcher) {
	if d == nil && defaultDispatcher != nil {
		defaultDispatcher.Shutdown()
	}
	defaultDispatcher = d
}

// Schedule runs one heartbeat on the default dispatcher. Before one is set
// up there is nothing to run.
func Schedule() {
	if defaultDispatcher != nil {
		defaultDispatcher.Schedule()
	}
}

// SetTickSource re-times the default dispatcher from src. Registered
// cyclic tasks keep their schedule.
func SetTickSource(src TickSource) {
	Default().Timer.Retime(src)
}

// SetWatchdog installs the hardware watchdog reset by every Schedule
func SetWatchdog(w Watchdog) {
	Default().Watchdog = w
}

// GetTicks returns the monotonic tick count
func GetTicks() uint64 {
	return Default().Timer.Ticks()
}

// GetTbclk returns the tick rate in Hz
func GetTbclk() uint64 {
	return Default().Timer.Rate()
}

// GetTimer returns the milliseconds elapsed since base
func GetTimer(base uint64) uint64 {
	return Default().Timer.Since(base)
}

// GetTimerUS returns the microseconds elapsed since base
func GetTimerUS(base uint64) uint64 {
	return Default().Timer.SinceUS(base)
}

// TimerGetUS returns the current time in microseconds
func TimerGetUS() uint64 {
	return Default().Timer.US()
}

// Udelay waits us microseconds while keeping the heartbeat going
func Udelay(us uint64) {
	Default().Udelay(us)
}

// Mdelay waits ms milliseconds while keeping the heartbeat going
func Mdelay(ms uint64) {
	Default().Mdelay(ms)
}

// CyclicRegister registers c on the default dispatcher
func CyclicRegister(c *Cyclic, fn CyclicFunc, delayUS uint64, name string) {
	Default().Cyclic.Register(c, fn, delayUS, name)
}

// CyclicUnregister removes c from the default dispatcher
func CyclicUnregister(c *Cyclic) {
	Default().Cyclic.Unregister(c)
}

// CyclicUnregisterAll drains the default registry
func CyclicUnregisterAll() int {
	return Default().Cyclic.UnregisterAll()
}

// CyclicIsRegistered reports whether c is live on the default dispatcher
func CyclicIsRegistered(c *Cyclic) bool {
	return Default().Cyclic.IsRegistered(c)
}

// UthreadCreate creates a thread on the default dispatcher
func UthreadCreate(t *Thread, fn UthreadFunc, arg any, stackSize int, group uint32) error {
	return Default().Uthreads.Create(t, fn, arg, stackSize, group)
}

// UthreadSchedule gives one other thread a turn
func UthreadSchedule() bool {
	return Default().Uthreads.Schedule()
}

// UthreadGroupNewID returns a fresh group tag
func UthreadGroupNewID() uint32 {
	return Default().Uthreads.GroupNewID()
}

// UthreadGroupDone reports whether every thread tagged id has finished
func UthreadGroupDone(id uint32) bool {
	return Default().Uthreads.GroupDone(id)
}

// MutexLock takes m, yielding until it is free
func MutexLock(m *Mutex) error {
	return Default().Lock(m)
}

// MutexTryLock takes m or returns ErrBusy
func MutexTryLock(m *Mutex) error {
	return Default().TryLock(m)
}

// MutexUnlock releases m
func MutexUnlock(m *Mutex) error {
	return Default().Unlock(m)
}
