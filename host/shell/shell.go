package shell

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/google/shlex"

	"bootsched/core"
)

// ErrQuit is returned by Exec when the user asks to leave
var ErrQuit = errors.New("quit")

// demoCyclic is a cyclic task that burns delayUS every run
type demoCyclic struct {
	cyclic  core.Cyclic
	delayUS uint64
}

// SoftWatchdog stands in for a hardware watchdog on the host. It only
// counts resets.
type SoftWatchdog struct {
	Resets uint64
}

// Reset records a watchdog reset
func (w *SoftWatchdog) Reset() {
	w.Resets++
}

// Shell runs interactive commands against a dispatcher
type Shell struct {
	d     *core.Dispatcher
	out   io.Writer
	demos []*demoCyclic

	// Watchdog is reported by the wdt command when set
	Watchdog *core.WatchdogCyclic
}

// New creates a shell printing to out
func New(d *core.Dispatcher, out io.Writer) *Shell {
	return &Shell{d: d, out: out}
}

// Exec tokenizes and runs one command line
func (s *Shell) Exec(line string) error {
	args, err := shlex.Split(line)
	if err != nil {
		return fmt.Errorf("failed to parse %q: %w", line, err)
	}
	if len(args) == 0 {
		return nil
	}

	switch args[0] {
	case "quit", "exit", "q":
		return ErrQuit

	case "help", "?":
		s.printHelp()
		return nil

	case "cyclic":
		return s.cmdCyclic(args[1:])

	case "uthread":
		return s.cmdUthread(args[1:])

	case "run":
		return s.cmdRun(args[1:])

	case "timing":
		core.DumpTimingRing()
		return nil

	case "debug":
		return s.cmdDebug(args[1:])

	case "wdt":
		return s.cmdWatchdog()

	default:
		return fmt.Errorf("unknown command: %s (type 'help' for available commands)", args[0])
	}
}

func (s *Shell) cmdCyclic(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: cyclic list | demo <cycletime_ms> <delay_us> | clear")
	}

	switch args[0] {
	case "list":
		now := s.d.Timer.US()
		s.d.Cyclic.Each(func(c *core.Cyclic) {
			freq := c.Frequency(now)
			fmt.Fprintf(s.out, "function: %s, cpu-time: %d us, frequency: %d.%03d times/s\n",
				c.Name, c.CPUTimeUS, freq/1000, freq%1000)
		})
		return nil

	case "demo":
		if len(args) != 3 {
			return errors.New("usage: cyclic demo <cycletime_ms> <delay_us>")
		}
		cycletimeMS, err := parseUint(args[1])
		if err != nil {
			return err
		}
		delayUS, err := parseUint(args[2])
		if err != nil {
			return err
		}

		demo := &demoCyclic{delayUS: delayUS}
		s.d.Cyclic.Register(&demo.cyclic, s.runDemo(demo), cycletimeMS*1000, "cyclic_demo")
		s.demos = append(s.demos, demo)
		fmt.Fprintf(s.out, "Registered function \"%s\" to be executed all %dms\n", demo.cyclic.Name, cycletimeMS)
		return nil

	case "clear":
		for _, demo := range s.demos {
			s.d.Cyclic.Unregister(&demo.cyclic)
		}
		s.demos = nil
		return nil

	default:
		return fmt.Errorf("unknown cyclic subcommand: %s", args[0])
	}
}

// runDemo busy-waits on the timer without yielding, like a slow driver
func (s *Shell) runDemo(demo *demoCyclic) core.CyclicFunc {
	return func(*core.Cyclic) {
		start := s.d.Timer.US()
		for s.d.Timer.SinceUS(start) < demo.delayUS {
		}
	}
}

func (s *Shell) cmdUthread(args []string) error {
	if len(args) != 2 || args[0] != "demo" {
		return errors.New("usage: uthread demo <count>")
	}
	n, err := parseUint(args[1])
	if err != nil {
		return err
	}

	group := s.d.Uthreads.GroupNewID()
	for i := uint64(0); i < n; i++ {
		if err := s.d.Uthreads.Create(nil, s.demoThread, int(i), 0, group); err != nil {
			// Threads already created still run to completion below
			fmt.Fprintf(s.out, "uthread %d: %v\n", i, err)
			break
		}
	}

	for !s.d.Uthreads.GroupDone(group) {
		s.d.Schedule()
	}
	return nil
}

func (s *Shell) demoThread(arg any) {
	idx := arg.(int)
	for step := 0; step < 2; step++ {
		fmt.Fprintf(s.out, "uthread %d step %d\n", idx, step)
		s.d.Schedule()
	}
}

// cmdRun keeps the heartbeat going for the given number of milliseconds
func (s *Shell) cmdRun(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: run <ms>")
	}
	ms, err := parseUint(args[0])
	if err != nil {
		return err
	}

	start := s.d.Timer.Since(0)
	for s.d.Timer.Since(start) < ms {
		s.d.Schedule()
	}
	return nil
}

func (s *Shell) cmdDebug(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: debug on|off")
	}
	switch args[0] {
	case "on":
		core.SetDebugEnabled(true)
	case "off":
		core.SetDebugEnabled(false)
	default:
		return fmt.Errorf("expected on or off, got %s", args[0])
	}
	return nil
}

func (s *Shell) cmdWatchdog() error {
	if s.Watchdog == nil {
		return errors.New("watchdog not enabled")
	}
	state := "stopped"
	if s.Watchdog.Running() {
		state = "running"
	}
	fmt.Fprintf(s.out, "%s: %s, %d resets, period %dms\n",
		s.Watchdog.Cyclic().Name, state, s.Watchdog.Resets, s.Watchdog.ResetPeriodMS)
	return nil
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.out, "\nAvailable commands:")
	fmt.Fprintln(s.out, "  cyclic list                       - List registered cyclic functions")
	fmt.Fprintln(s.out, "  cyclic demo <cycletime_ms> <us>   - Register a demo function burning <us> per run")
	fmt.Fprintln(s.out, "  cyclic clear                      - Unregister the demo functions")
	fmt.Fprintln(s.out, "  uthread demo <n>                  - Run n uthreads until they finish")
	fmt.Fprintln(s.out, "  run <ms>                          - Keep the heartbeat going for <ms>")
	fmt.Fprintln(s.out, "  timing                            - Dump the timing event ring")
	fmt.Fprintln(s.out, "  debug on|off                      - Toggle debug output")
	fmt.Fprintln(s.out, "  wdt                               - Show watchdog state")
	fmt.Fprintln(s.out, "  help                              - Show this help message")
	fmt.Fprintln(s.out, "  quit/exit/q                       - Exit the program")
	fmt.Fprintln(s.out)
}

// parseUint accepts decimal, 0x hex and 0 octal like the firmware shell
func parseUint(arg string) (uint64, error) {
	v, err := strconv.ParseUint(arg, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", arg)
	}
	return v, nil
}
