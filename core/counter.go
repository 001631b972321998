package core

// ManualCounter is a software counter driven explicitly by its owner.
// It stands in for the hardware timer in simulations and tests.
type ManualCounter struct {
	info  CounterInfo
	mask  uint64
	value uint64
	step  uint64 // Advance applied after every read
}

// NewManualCounter creates a counter of the given width, rate and polarity
func NewManualCounter(width uint8, rate uint64, countDown bool) *ManualCounter {
	m := &ManualCounter{
		info: CounterInfo{Width: width, Rate: rate, CountDown: countDown},
		mask: ^uint64(0),
	}
	if width > 0 && width < 64 {
		m.mask = (uint64(1) << width) - 1
	}
	return m
}

// Count returns the raw counter value
func (m *ManualCounter) Count() uint64 {
	v := m.value
	if m.step != 0 {
		m.Advance(m.step)
	}
	return v
}

// Info describes the counter
func (m *ManualCounter) Info() CounterInfo {
	return m.info
}

// Set loads a raw value, truncated to the counter width
func (m *ManualCounter) Set(raw uint64) {
	m.value = raw & m.mask
}

// Advance moves the counter forward by n ticks in its counting direction
func (m *ManualCounter) Advance(n uint64) {
	if m.info.CountDown {
		m.value = (m.value - n) & m.mask
	} else {
		m.value = (m.value + n) & m.mask
	}
}

// SetAutoStep makes every read advance the counter by n ticks afterwards.
// Busy-wait loops need this to make progress on a virtual clock.
func (m *ManualCounter) SetAutoStep(n uint64) {
	m.step = n
}
