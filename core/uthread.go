package core

// DefaultStackSize is the stack reserved for a uthread when none is given
const DefaultStackSize = 32 * 1024

// UthreadFunc is the entry point of a uthread
type UthreadFunc func(arg any)

// Thread is a cooperatively scheduled thread of execution.
// The storage may be supplied by the caller of Create.
type Thread struct {
	fn    UthreadFunc
	arg   any
	stack []byte
	ctx   *fiber
	done  bool
	group uint32
	id    uint32

	sched *Uthreads
	next  *Thread
	prev  *Thread
}

// ID returns the thread number, unique per scheduler
func (t *Thread) ID() uint32 {
	return t.id
}

// Group returns the group tag given at creation
func (t *Thread) Group() uint32 {
	return t.group
}

// Done reports whether the entry function has returned
func (t *Thread) Done() bool {
	return t.done
}

// Uthreads schedules threads round-robin from a ring anchored at the main
// thread. The main thread is the goroutine that drives Schedule; it is
// never done and never reaped.
type Uthreads struct {
	main     Thread
	current  *Thread
	alloc    Allocator
	timer    *Timer // Optional, timestamps timing events
	count    int
	groupID  uint32
	threadID uint32
	panicked any // Panic value of a thread, re-raised on the main thread

	// StackSize is used when Create is called with a zero stack size
	StackSize int
}

// NewUthreads creates a scheduler whose stacks come from alloc
func NewUthreads(alloc Allocator) *Uthreads {
	s := &Uthreads{
		alloc:     alloc,
		StackSize: DefaultStackSize,
	}
	s.main.ctx = rootFiber()
	s.main.sched = s
	s.main.next = &s.main
	s.main.prev = &s.main
	s.current = &s.main
	return s
}

// Create starts a new thread running fn(arg). t may be nil, in which case
// the descriptor is allocated here. The thread is linked in behind the
// creating thread and first runs on a later Schedule.
func (s *Uthreads) Create(t *Thread, fn UthreadFunc, arg any, stackSize int, group uint32) error {
	if t != nil && t.sched != nil {
		return ErrBusy
	}
	if stackSize <= 0 {
		stackSize = s.StackSize
	}
	stack, err := s.alloc.Alloc(stackSize)
	if err != nil {
		return err
	}
	if t == nil {
		t = new(Thread)
	}

	s.threadID++
	*t = Thread{
		fn:    fn,
		arg:   arg,
		stack: stack,
		group: group,
		id:    s.threadID,
		sched: s,
	}
	t.ctx = newFiber(func() { s.trampoline(t) })

	cur := s.current
	t.next = cur
	t.prev = cur.prev
	cur.prev.next = t
	cur.prev = t
	s.count++

	RecordTiming(EvtThreadCreate, t.id, s.now(), group, uint32(stackSize), "")
	return nil
}

// trampoline is the first frame of every thread
func (s *Uthreads) trampoline(t *Thread) {
	defer func() {
		if r := recover(); r != nil {
			s.panicked = r
		}
		t.done = true
		RecordTiming(EvtThreadDone, t.id, s.now(), t.group, 0, "")
		s.current = &s.main
		s.main.ctx.resume()
	}()
	t.fn(t.arg)
}

// Schedule switches to the next runnable thread after the current one and
// returns true once control comes back. Done threads walked past are
// reaped. It returns false when no other thread can run.
func (s *Uthreads) Schedule() bool {
	cur := s.current
	for next := cur.next; next != cur; {
		after := next.next
		if !next.done {
			s.current = next
			RecordTiming(EvtThreadResume, next.id, s.now(), next.group, 0, "")
			cur.ctx.switchTo(next.ctx)

			if p := s.panicked; p != nil && cur == &s.main {
				s.panicked = nil
				panic(p)
			}
			return true
		}
		s.reap(next)
		next = after
	}
	return false
}

// reap unlinks a done thread and frees its stack
func (s *Uthreads) reap(t *Thread) {
	t.prev.next = t.next
	t.next.prev = t.prev
	t.next = nil
	t.prev = nil
	t.sched = nil
	t.ctx = nil

	s.alloc.Free(t.stack)
	t.stack = nil
	s.count--

	RecordTiming(EvtThreadReap, t.id, s.now(), t.group, 0, "")
}

// Current returns the running thread, the main thread included
func (s *Uthreads) Current() *Thread {
	return s.current
}

// Main returns the main thread sentinel
func (s *Uthreads) Main() *Thread {
	return &s.main
}

// Len returns the number of threads still linked, not counting main
func (s *Uthreads) Len() int {
	return s.count
}

// GroupNewID returns a fresh group tag
func (s *Uthreads) GroupNewID() uint32 {
	s.groupID++
	return s.groupID
}

// GroupDone reports whether every thread tagged id has finished.
// It is true for a tag no thread carries.
func (s *Uthreads) GroupDone(id uint32) bool {
	for t := s.main.next; t != &s.main; t = t.next {
		if t.group == id && !t.done {
			return false
		}
	}
	return true
}

func (s *Uthreads) now() uint64 {
	if s.timer == nil {
		return 0
	}
	return s.timer.US()
}
