package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"bootsched/config"
	"bootsched/console"
	"bootsched/core"
	"bootsched/host/serial"
	"bootsched/host/shell"
)

var (
	configPath = flag.String("config", "", "JSON configuration file")
	device     = flag.String("device", "", "Serial device for console output (default stdout)")
	baud       = flag.Int("baud", 0, "Console baud rate (ignored for USB CDC)")
	verbose    = flag.Bool("verbose", false, "Enable debug output")
	width      = flag.Uint("width", 0, "Host counter width in bits (1-64)")
	noTTY      = flag.Bool("no-tty", false, "Read commands from stdin instead of the terminal")
)

func main() {
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Console output goes to the serial line when one is given
	var out io.Writer = os.Stdout
	if cfg.Console.Device != "" {
		portCfg := serial.DefaultConfig(cfg.Console.Device)
		portCfg.Baud = cfg.Console.Baud
		port, err := serial.Open(portCfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer port.Close()
		out = port
	}

	d := cfg.NewDispatcher(nil)
	core.SetDefault(d)
	defer core.SetDefault(nil)

	con := console.New(out, cfg.Console.BufferSize)
	con.Start(d.Cyclic, cfg.Console.FlushPeriodMS*1000)
	defer con.Stop()
	core.SetDebugWriter(con.Writer())
	core.SetDebugEnabled(*verbose)

	sh := shell.New(d, os.Stdout)
	sh.Watchdog = cfg.StartWatchdog(d, &shell.SoftWatchdog{}, "soft")

	fmt.Println("bootsched - cooperative scheduler shell")
	fmt.Printf("Timer: %d-bit counter at %d Hz\n", d.Timer.Width(), d.Timer.Rate())
	fmt.Println("Enter commands (type 'help' for available commands, 'quit' to exit):")

	input := newLineReader(!*noTTY)
	defer input.Close()

	for {
		line, err := input.ReadLine("=> ")
		if err != nil {
			if !errors.Is(err, io.EOF) {
				fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
			}
			break
		}

		err = sh.Exec(line)
		if errors.Is(err, shell.ErrQuit) {
			break
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}

		// Anything logged while the command ran is written before the next prompt
		con.Flush()
	}

	if con.Dropped > 0 {
		fmt.Fprintf(os.Stderr, "console dropped %d bytes\n", con.Dropped)
	}
}

func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadConfigFile(*configPath)
		if err != nil {
			return nil, err
		}
	}

	if *device != "" {
		cfg.Console.Device = *device
	}
	if *baud != 0 {
		cfg.Console.Baud = *baud
	}
	if *width != 0 {
		if *width > 64 {
			return nil, fmt.Errorf("counter width %d exceeds 64 bits", *width)
		}
		cfg.CounterWidth = uint8(*width)
	}
	return cfg, nil
}
