package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bootsched/core"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig([]byte(`{}`))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.StackSize != 32768 {
		t.Errorf("Expected stack size 32768, got %d", cfg.StackSize)
	}
	if cfg.MallocLen != 4<<20 {
		t.Errorf("Expected 4MiB arena, got %d", cfg.MallocLen)
	}
	if cfg.CyclicMaxCPUTimeUS != 1000 {
		t.Errorf("Expected 1000us overrun threshold, got %d", cfg.CyclicMaxCPUTimeUS)
	}
	if cfg.CounterWidth != 32 || cfg.WatchdogPeriodMS != 1000 {
		t.Errorf("Unexpected defaults: width=%d wdt=%d", cfg.CounterWidth, cfg.WatchdogPeriodMS)
	}
	if cfg.WatchdogEnabled {
		t.Error("Watchdog must be off unless asked for")
	}
	if cfg.Console.Baud != 115200 || cfg.Console.BufferSize != 4096 || cfg.Console.FlushPeriodMS != 10 {
		t.Errorf("Unexpected console defaults: %+v", cfg.Console)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	cfg, err := LoadConfig([]byte(`{
		"stack_size": 8192,
		"malloc_len": 65536,
		"cyclic_max_cpu_time_us": 250,
		"counter_width": 24,
		"watchdog_enabled": true,
		"watchdog_period_ms": 500,
		"console": {"device": "/dev/ttyUSB0", "baud": 9600}
	}`))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.StackSize != 8192 || cfg.MallocLen != 65536 || cfg.CyclicMaxCPUTimeUS != 250 {
		t.Errorf("Overrides lost: %+v", cfg)
	}
	if cfg.CounterWidth != 24 || !cfg.WatchdogEnabled || cfg.WatchdogPeriodMS != 500 {
		t.Errorf("Overrides lost: %+v", cfg)
	}
	if cfg.Console.Device != "/dev/ttyUSB0" || cfg.Console.Baud != 9600 {
		t.Errorf("Console overrides lost: %+v", cfg.Console)
	}
	if cfg.Console.FlushPeriodMS != 10 || cfg.Console.BufferSize != 4096 {
		t.Errorf("Expected unset console fields to default, got %+v", cfg.Console)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	cases := []string{
		`{"counter_width": 65}`,
		`{"stack_size": 8192, "malloc_len": 4096}`,
		`{"console": {"buffer_size": 1}}`,
		`{"stack_size": "big"}`,
	}
	for _, data := range cases {
		if _, err := LoadConfig([]byte(data)); err == nil {
			t.Errorf("Expected %s to be rejected", data)
		}
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bootsched.json")
	if err := os.WriteFile(path, []byte(`{"stack_size": 2048}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile failed: %v", err)
	}
	if cfg.StackSize != 2048 {
		t.Errorf("Expected stack size 2048, got %d", cfg.StackSize)
	}

	_, err = LoadConfigFile(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil || !strings.Contains(err.Error(), "missing.json") {
		t.Errorf("Expected an error naming the file, got %v", err)
	}
}

func TestNewDispatcher(t *testing.T) {
	cfg := Default()
	cfg.StackSize = 1024
	cfg.MallocLen = 2048
	cfg.CyclicMaxCPUTimeUS = 42

	counter := core.NewManualCounter(32, 1000000, false)
	d := cfg.NewDispatcher(counter)

	if d.Uthreads.StackSize != 1024 || d.Cyclic.MaxCPUTimeUS != 42 {
		t.Errorf("Dispatcher limits not applied: stack=%d max=%d", d.Uthreads.StackSize, d.Cyclic.MaxCPUTimeUS)
	}
	if d.Timer.Source() != counter {
		t.Error("Expected the given tick source")
	}

	group := d.Uthreads.GroupNewID()
	for i := 0; i < 2; i++ {
		if err := d.Uthreads.Create(nil, func(any) {}, nil, 0, group); err != nil {
			t.Fatalf("Create %d failed: %v", i, err)
		}
	}
	if err := d.Uthreads.Create(nil, func(any) {}, nil, 0, group); err == nil {
		t.Error("Expected the configured arena to run out after two stacks")
	}
	for !d.Uthreads.GroupDone(group) {
		d.Schedule()
	}

	if d := Default().NewDispatcher(nil); d.Timer.Width() != 32 {
		t.Errorf("Expected a 32-bit host counter, got %d bits", d.Timer.Width())
	}
}

type countingWatchdog struct {
	resets int
}

func (w *countingWatchdog) Reset() {
	w.resets++
}

func TestStartWatchdog(t *testing.T) {
	cfg := Default()
	counter := core.NewManualCounter(64, 1000000, false)
	d := cfg.NewDispatcher(counter)
	dev := &countingWatchdog{}

	if w := cfg.StartWatchdog(d, dev, "soft"); w != nil {
		t.Fatal("Watchdog started while disabled")
	}

	cfg.WatchdogEnabled = true
	cfg.WatchdogPeriodMS = 5
	w := cfg.StartWatchdog(d, dev, "soft")
	if w == nil || !w.Running() {
		t.Fatal("Expected a running watchdog")
	}
	if w.Cyclic().Name != "watchdog@soft" || w.Cyclic().DelayUS != 5000 {
		t.Errorf("Unexpected watchdog task %q every %dus", w.Cyclic().Name, w.Cyclic().DelayUS)
	}

	counter.Set(5000)
	d.Schedule()
	if dev.resets != 2 {
		t.Errorf("Expected the start reset plus one periodic reset, got %d", dev.resets)
	}
}
