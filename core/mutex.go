package core

// Mutex is a cooperative lock between uthreads. It has no owner: any
// thread may unlock it, and nothing guards against interrupt handlers.
type Mutex struct {
	locked bool
}

// Locked reports whether the mutex is held
func (m *Mutex) Locked() bool {
	return m.locked
}

// Lock takes m, yielding through Schedule until it is free
func (d *Dispatcher) Lock(m *Mutex) error {
	for m.locked {
		d.Schedule()
	}
	m.locked = true
	return nil
}

// TryLock takes m if it is free and returns ErrBusy otherwise
func (d *Dispatcher) TryLock(m *Mutex) error {
	if m.locked {
		return ErrBusy
	}
	m.locked = true
	return nil
}

// Unlock releases m whether or not it is held
func (d *Dispatcher) Unlock(m *Mutex) error {
	m.locked = false
	return nil
}
