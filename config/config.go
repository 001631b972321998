package config

import (
	"encoding/json"
	"fmt"
	"os"

	"bootsched/core"
)

// ConsoleConfig describes where log output goes and how it is drained
type ConsoleConfig struct {
	Device        string `json:"device"`          // Serial device, empty for stdout
	Baud          int    `json:"baud"`            // Ignored for USB CDC
	FlushPeriodMS uint64 `json:"flush_period_ms"` // Console cyclic period
	BufferSize    int    `json:"buffer_size"`     // Console FIFO capacity in bytes
}

// Config holds the scheduler tunables
type Config struct {
	StackSize          int    `json:"stack_size"`             // Default uthread stack in bytes
	MallocLen          int    `json:"malloc_len"`             // Arena the stacks come from
	CyclicMaxCPUTimeUS uint64 `json:"cyclic_max_cpu_time_us"` // Overrun threshold per callback
	CounterWidth       uint8  `json:"counter_width"`          // Host counter width in bits

	WatchdogEnabled  bool   `json:"watchdog_enabled"`
	WatchdogPeriodMS uint64 `json:"watchdog_period_ms"`

	Console ConsoleConfig `json:"console"`
}

// LoadConfig parses a JSON configuration and fills in defaults
func LoadConfig(jsonData []byte) (*Config, error) {
	var config Config

	err := json.Unmarshal(jsonData, &config)
	if err != nil {
		return nil, err
	}

	applyDefaults(&config)

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadConfigFile reads and parses a JSON configuration file
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	config, err := LoadConfig(data)
	if err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return config, nil
}

// Default returns the configuration used when no file is given
func Default() *Config {
	var config Config
	applyDefaults(&config)
	return &config
}

// applyDefaults fills in missing configuration values
func applyDefaults(config *Config) {
	if config.StackSize == 0 {
		config.StackSize = core.DefaultStackSize
	}
	if config.MallocLen == 0 {
		config.MallocLen = core.DefaultMallocLen
	}
	if config.CyclicMaxCPUTimeUS == 0 {
		config.CyclicMaxCPUTimeUS = core.DefaultCyclicMaxCPUTimeUS
	}
	if config.CounterWidth == 0 {
		config.CounterWidth = 32
	}
	if config.WatchdogPeriodMS == 0 {
		config.WatchdogPeriodMS = core.DefaultWatchdogResetPeriodMS
	}

	if config.Console.Baud == 0 {
		config.Console.Baud = 115200
	}
	if config.Console.FlushPeriodMS == 0 {
		config.Console.FlushPeriodMS = 10
	}
	if config.Console.BufferSize == 0 {
		config.Console.BufferSize = 4096
	}
}

func (c *Config) validate() error {
	if c.CounterWidth > 64 {
		return fmt.Errorf("counter_width %d exceeds 64 bits", c.CounterWidth)
	}
	if c.StackSize < 0 || c.MallocLen < 0 {
		return fmt.Errorf("stack_size and malloc_len must be positive")
	}
	if c.StackSize > c.MallocLen {
		return fmt.Errorf("stack_size %d does not fit in malloc_len %d", c.StackSize, c.MallocLen)
	}
	if c.Console.BufferSize < 2 {
		return fmt.Errorf("console buffer_size %d too small", c.Console.BufferSize)
	}
	return nil
}

// NewDispatcher builds a dispatcher timed by src (the host counter of
// CounterWidth bits when nil) with the configured heap and limits
func (c *Config) NewDispatcher(src core.TickSource) *core.Dispatcher {
	if src == nil {
		src = core.NewHostCounter(c.CounterWidth)
	}
	d := core.NewDispatcher(src, core.NewHeap(c.MallocLen))
	d.Uthreads.StackSize = c.StackSize
	d.Cyclic.MaxCPUTimeUS = c.CyclicMaxCPUTimeUS
	return d
}

// StartWatchdog services dev from a cyclic task on d when the watchdog is
// enabled. It returns nil otherwise.
func (c *Config) StartWatchdog(d *core.Dispatcher, dev core.Watchdog, name string) *core.WatchdogCyclic {
	if !c.WatchdogEnabled || dev == nil {
		return nil
	}
	w := core.NewWatchdogCyclic(d.Cyclic, dev, name)
	w.ResetPeriodMS = c.WatchdogPeriodMS
	w.Start()
	return w
}
