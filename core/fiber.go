package core

// fiber is one cooperative execution context. Each fiber except the root
// runs on its own goroutine, but only one of them is ever runnable: every
// other fiber is parked receiving on its wake channel. Handing the wake
// token over is the context switch.
type fiber struct {
	wake    chan struct{}
	entry   func()
	started bool
}

// newFiber creates a fiber that runs entry on its first resume
func newFiber(entry func()) *fiber {
	return &fiber{
		wake:  make(chan struct{}, 1),
		entry: entry,
	}
}

// rootFiber wraps whichever goroutine is driving the scheduler
func rootFiber() *fiber {
	return &fiber{
		wake:    make(chan struct{}, 1),
		started: true,
	}
}

// resume makes f runnable without parking the caller. Only valid as the
// last thing a fiber does before parking or exiting.
func (f *fiber) resume() {
	if !f.started {
		f.started = true
		go f.entry()
		return
	}
	f.wake <- struct{}{}
}

// switchTo saves the caller (f) and runs to. It returns once some fiber
// resumes f again.
func (f *fiber) switchTo(to *fiber) {
	to.resume()
	<-f.wake
}
