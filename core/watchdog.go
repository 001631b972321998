package core

// DefaultWatchdogResetPeriodMS is how often a started watchdog is reset
const DefaultWatchdogResetPeriodMS = 1000

// WatchdogCyclic keeps a watchdog alive from a cyclic task, the way
// watchdog devices are serviced once the boot reaches the cyclic IF
type WatchdogCyclic struct {
	cyclic   Cyclic
	dev      Watchdog
	registry *CyclicRegistry
	name     string

	// ResetPeriodMS is the period used by the next Start
	ResetPeriodMS uint64
	Resets        uint64
}

// NewWatchdogCyclic creates a stopped servicer for dev
func NewWatchdogCyclic(registry *CyclicRegistry, dev Watchdog, name string) *WatchdogCyclic {
	return &WatchdogCyclic{
		dev:           dev,
		registry:      registry,
		name:          name,
		ResetPeriodMS: DefaultWatchdogResetPeriodMS,
	}
}

// Start resets the watchdog now and then every ResetPeriodMS
func (w *WatchdogCyclic) Start() {
	w.reset(nil)
	w.registry.Register(&w.cyclic, w.reset, w.ResetPeriodMS*1000, "watchdog@"+w.name)
}

// Stop removes the cyclic task; the watchdog itself keeps counting
func (w *WatchdogCyclic) Stop() {
	w.registry.Unregister(&w.cyclic)
}

// Running reports whether the watchdog is being serviced
func (w *WatchdogCyclic) Running() bool {
	return w.registry.IsRegistered(&w.cyclic)
}

// Cyclic returns the underlying cyclic task
func (w *WatchdogCyclic) Cyclic() *Cyclic {
	return &w.cyclic
}

func (w *WatchdogCyclic) reset(*Cyclic) {
	w.dev.Reset()
	w.Resets++
}
