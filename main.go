// main.go - Main entry point for the 3B2 system board emulator

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"
)

func boilerPlate() {
	fmt.Println("sysdev3b2: AT&T 3B2/400 system board peripherals")
	fmt.Println("(c) 2024 - 2026 Zayn Otley")
	fmt.Println("License: GPLv3 or later")
}

// runOptions holds the parsed command line.
type runOptions struct {
	imageDir  string
	nvramName string
	diskName  string
	diskWP    bool
	portB     string
	hz        int
	maxTicks  uint64
	uartStep  int
	trace     TraceMask
	script    string
	paste     bool
	dump      bool
	features  bool
}

func newFlagSet(opts *runOptions, traceSpec *string) *flag.FlagSet {
	flagSet := flag.NewFlagSet("sysdev3b2", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVar(&opts.imageDir, "dir", ".", "Directory holding NVRAM and floppy images")
	flagSet.StringVar(&opts.nvramName, "nvram", "nvram.bin", "NVRAM image name inside -dir")
	flagSet.StringVar(&opts.diskName, "floppy", "", "Floppy image name inside -dir")
	flagSet.BoolVar(&opts.diskWP, "wp", false, "Mount the floppy write-protected")
	flagSet.StringVar(&opts.portB, "portb", "", "Capture serial port B output to this file inside -dir")
	flagSet.IntVar(&opts.hz, "hz", 100, "Service ticks per second")
	flagSet.Uint64Var(&opts.maxTicks, "ticks", 0, "Stop after this many ticks (0 = until interrupted)")
	flagSet.IntVar(&opts.uartStep, "uart-step", UART_COUNTER_STEP, "UART counter decrement per tick")
	flagSet.StringVar(traceSpec, "trace", "", "Trace categories: init,read,write,execute,all")
	flagSet.StringVar(&opts.script, "script", "", "Run a Lua script instead of the interactive console")
	flagSet.BoolVar(&opts.paste, "paste", false, "Paste the host clipboard into the console at start")
	flagSet.BoolVar(&opts.dump, "dump", false, "Print every device's registers at exit")
	flagSet.BoolVar(&opts.features, "features", false, "Print compiled features and exit")
	flagSet.Usage = func() {
		flagSet.SetOutput(os.Stdout)
		fmt.Println("Usage: ./sysdev3b2 [-dir .] [-nvram nvram.bin] [-floppy disk.img [-wp]] [-script file.lua] [-trace list]")
		flagSet.PrintDefaults()
	}
	return flagSet
}

// parseOptions parses and validates the command line.
func parseOptions(args []string) (*runOptions, error) {
	opts := &runOptions{}
	var traceSpec string
	flagSet := newFlagSet(opts, &traceSpec)
	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			flagSet.Usage()
		}
		return nil, err
	}
	if flagSet.NArg() > 0 {
		return nil, fmt.Errorf("unexpected argument %q", flagSet.Arg(0))
	}
	if opts.hz < 1 {
		return nil, fmt.Errorf("-hz must be at least 1, got %d", opts.hz)
	}
	if opts.uartStep < 1 {
		return nil, fmt.Errorf("-uart-step must be at least 1, got %d", opts.uartStep)
	}
	if opts.diskWP && opts.diskName == "" {
		return nil, fmt.Errorf("-wp needs -floppy")
	}
	if traceSpec != "" {
		mask, err := ParseTraceMask(traceSpec)
		if err != nil {
			return nil, fmt.Errorf("invalid -trace: %w", err)
		}
		opts.trace = mask
	}
	return opts, nil
}

func main() {
	opts, err := parseOptions(os.Args[1:])
	if err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if opts.features {
		printFeatures()
		return
	}

	boilerPlate()

	cfg := SystemConfig{UARTCounterStep: opts.uartStep}
	if opts.trace != 0 {
		cfg.Tracer = NewTextTracer(os.Stderr, opts.trace)
	}

	store := NewImageStore(opts.imageDir)
	var disk *DiskImage
	if opts.diskName != "" {
		disk, err = store.LoadDisk(opts.diskName, opts.diskWP)
		if err != nil {
			fmt.Printf("Error loading floppy: %v\n", err)
			os.Exit(1)
		}
		cfg.Disk = disk
	}
	cfg.Console = NewConsoleIO()

	var capture *PortCapture
	if opts.portB != "" {
		capture, err = store.CreateCapture(opts.portB)
		if err != nil {
			fmt.Printf("Error opening port B capture: %v\n", err)
			os.Exit(1)
		}
		cfg.PortB = capture
	}

	sys, err := NewSystem(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Fatal: %v\n", err)
		os.Exit(1)
	}
	if err := store.LoadNVRAM(opts.nvramName, sys.NVRAM); err != nil {
		fmt.Printf("Error loading NVRAM: %v\n", err)
		os.Exit(1)
	}

	if opts.paste {
		if n, err := PasteClipboard(sys.Console); err != nil {
			fmt.Fprintf(os.Stderr, "paste: %v\n", err)
		} else {
			fmt.Printf("Pasted %d bytes\n", n)
		}
	}

	if opts.script != "" {
		host := NewScriptHost(sys)
		err := host.RunFile(opts.script)
		host.Close()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			shutdown(sys, store, opts, disk, capture)
			os.Exit(1)
		}
	} else {
		runInteractive(sys, opts.hz, opts.maxTicks)
	}

	shutdown(sys, store, opts, disk, capture)
}

// runInteractive runs the clock with the host terminal attached to the
// console port until the tick limit, a signal or the escape key.
func runInteractive(sys *System, hz int, maxTicks uint64) {
	sys.Console.SetCharOutputCallback(func(b byte) {
		os.Stdout.Write([]byte{b})
	})

	quit := make(chan struct{}, 1)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	var host *TerminalHost
	if term.IsTerminal(int(os.Stdin.Fd())) {
		host = NewTerminalHost(sys.Console)
		host.OnEscape(func() {
			select {
			case quit <- struct{}{}:
			default:
			}
		})
		fmt.Println("Console attached. Press Ctrl-] to quit.")
		host.Start()
	}

	clock := NewClock(sys, hz, maxTicks)
	clock.Start()

	select {
	case <-clock.Done():
	case <-sigCh:
	case <-quit:
	}

	clock.Stop()
	if host != nil {
		host.Stop()
	}
	fmt.Println()
}

func shutdown(sys *System, store *ImageStore, opts *runOptions, disk *DiskImage, capture *PortCapture) {
	if capture != nil {
		if err := capture.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing port B capture: %v\n", err)
		}
	}

	if opts.dump {
		for _, name := range listIODevices() {
			for _, line := range sys.Dump(name) {
				fmt.Println(line)
			}
		}
	}

	if err := store.SaveNVRAM(opts.nvramName, sys.NVRAM); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving NVRAM: %v\n", err)
	}
	if disk != nil {
		if err := store.SaveDisk(opts.diskName, disk); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving floppy: %v\n", err)
		}
	}
}
