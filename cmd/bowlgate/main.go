package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/noriah/bowlgate"
	"github.com/noriah/bowlgate/config"
	"github.com/noriah/bowlgate/input"

	_ "github.com/noriah/bowlgate/input/all"

	"github.com/integrii/flaggy"
)

// AppSite is the app website
const AppSite = "https://github.com/noriah/bowlgate"

var version = "unknown"

// flags holds command line overrides. Zero values leave the file alone.
type flags struct {
	configPath string
	backend    string
	device     string
	sampleRate float64
	threshold  uint32
	pollMs     int
	verbose    bool

	checkSize int
	checkTone int
}

type command int

const (
	cmdRun command = iota
	cmdMonitor
	cmdCalibrate
	cmdCheck
	cmdDone
)

func main() {
	log.SetFlags(0)

	var fl flags
	cmd := doFlags(&fl)
	if cmd == cmdDone {
		return
	}

	if cmd == cmdCheck {
		chk(runCheck(os.Stdout, fl.checkSize, fl.checkTone), "check failed")
		return
	}

	cfg, err := loadConfig(&fl)
	chk(err, "invalid config")

	// Root Context
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	switch cmd {
	case cmdMonitor:
		chk(runMonitor(ctx, cfg), "failed to run monitor")

	case cmdCalibrate:
		chk(runCalibrate(ctx, cfg, os.Stdout), "failed to calibrate")

	default:
		cfg.Logger = newLogger(os.Stderr, fl.verbose)
		chk(bowlgate.Run(ctx, cfg), "failed to run bowlgate")
	}
}

func doFlags(fl *flags) command {

	parser := flaggy.NewParser(bowlgate.AppName)
	parser.Description = bowlgate.AppDesc
	parser.AdditionalHelpPrepend = AppSite
	parser.Version = version

	listBackendsCmd := flaggy.Subcommand{
		Name:                 "list-backends",
		ShortName:            "lb",
		Description:          "list all supported backends",
		AdditionalHelpAppend: "\nuse the full name after the '-'",
	}

	parser.AttachSubcommand(&listBackendsCmd, 1)

	listDevicesCmd := flaggy.Subcommand{
		Name:                 "list-devices",
		ShortName:            "ld",
		Description:          "list all devices for a backend",
		AdditionalHelpAppend: "\nuse the full name after the '-'",
	}

	parser.AttachSubcommand(&listDevicesCmd, 1)

	monitorCmd := flaggy.Subcommand{
		Name:        "monitor",
		ShortName:   "mon",
		Description: "run with the spectrum monitor on the terminal",
	}

	parser.AttachSubcommand(&monitorCmd, 1)

	calibrateCmd := flaggy.Subcommand{
		Name:                 "calibrate",
		ShortName:            "cal",
		Description:          "capture one bark and print it as a signature key",
		AdditionalHelpAppend: "\npaste the output into the config file",
	}

	parser.AttachSubcommand(&calibrateCmd, 1)

	checkCmd := flaggy.Subcommand{
		Name:        "check",
		ShortName:   "ck",
		Description: "compare the fixed point transform against a float reference",
	}

	fl.checkSize = 64
	checkCmd.Int(&fl.checkSize, "n", "samples", "transform size")
	checkCmd.Int(&fl.checkTone, "t", "tone", "cycles of a test tone (0 for an impulse)")

	parser.AttachSubcommand(&checkCmd, 1)

	parser.String(&fl.configPath, "c", "config", "config file")
	parser.String(&fl.backend, "b", "backend", "backend name")
	parser.String(&fl.device, "d", "device", "device name")
	parser.Float64(&fl.sampleRate, "r", "rate", "sample rate")
	parser.UInt32(&fl.threshold, "th", "threshold", "match threshold")
	parser.Int(&fl.pollMs, "p", "poll", "control loop period in ms")
	parser.Bool(&fl.verbose, "v", "verbose", "log state changes")

	chk(parser.Parse(), "failed to parse arguments")

	switch {
	case listBackendsCmd.Used:
		for _, name := range input.Names() {
			fmt.Printf("- %s\n", name)
		}

		return cmdDone

	case listDevicesCmd.Used:
		name := fl.backend
		if name == "" {
			name = input.DefaultBackend()
		}

		backend, err := input.InitBackend(name)
		chk(err, "failed to init backend")

		devices, err := backend.Devices()
		chk(err, "failed to get devices")

		// We don't really need the default device to be indicated.
		defaultDevice, _ := backend.DefaultDevice()

		fmt.Printf("all devices for %q backend. '*' marks default\n", name)

		for idx := range devices {
			star := ' '
			if defaultDevice != nil && devices[idx].String() == defaultDevice.String() {
				star = '*'
			}

			fmt.Printf("- %v %c\n", devices[idx], star)
		}

		return cmdDone

	case monitorCmd.Used:
		return cmdMonitor

	case calibrateCmd.Used:
		return cmdCalibrate

	case checkCmd.Used:
		return cmdCheck
	}

	return cmdRun
}

// loadConfig reads the config file, if any, and applies the flag overrides.
func loadConfig(fl *flags) (bowlgate.Config, error) {
	file := config.NewZeroConfig()

	if fl.configPath != "" {
		var err error
		if file, err = config.Load(fl.configPath); err != nil {
			return bowlgate.Config{}, err
		}
	}

	if fl.backend != "" {
		file.Input.Backend = fl.backend
	}

	if fl.device != "" {
		file.Input.Device = fl.device
	}

	if fl.sampleRate > 0 {
		file.Input.SampleRate = fl.sampleRate
	}

	if fl.threshold > 0 {
		file.Signature.Threshold = fl.threshold
	}

	if fl.pollMs > 0 {
		file.Control.PollIntervalMs = fl.pollMs
	}

	config.Sanitize(&file)

	if err := config.Validate(&file); err != nil {
		return bowlgate.Config{}, err
	}

	return bowlgate.Config{File: file}, nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func chk(err error, wrap string) {
	if err != nil {
		log.Fatalln(wrap+": ", err)
	}
}
