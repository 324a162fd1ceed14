package linklab

/*------------------------------------------------------------------
 *
 * Purpose:	Receiver program.
 *
 * Description:	Waits for link messages from emitters over TCP and,
 *		optionally, WebSocket and a serial port.  Prints one line
 *		per frame saying what the link layer made of it.
 *
 *		With -i there is no network at all; a frame is typed in
 *		by hand instead.
 *
 * Usage:	receptor  [ options ]
 *
 *		Default is to listen on TCP port 9000.
 *
 *---------------------------------------------------------------*/

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
)

func ReceptorMain() {
	var configFile = pflag.StringP("config", "c", "", "Configuration file, .yaml or .toml.")
	var listen = pflag.StringP("listen", "l", DEFAULT_LISTEN, "TCP address to listen on.  Empty to disable.")
	var websocketAddr = pflag.StringP("websocket", "w", "", "Also accept WebSocket emitters on this address, path "+WEBSOCKET_PATH+".")
	var serial = pflag.StringP("serial", "s", "", "Also read frames from this serial port, e.g. /dev/ttyUSB0.")
	var serialSpeed = pflag.IntP("serial-speed", "b", DEFAULT_SERIAL_SPEED, "Serial port speed.")
	var dnsSD = pflag.Bool("dns-sd", false, "Announce the TCP receiver with DNS-SD.")
	var dnsSDName = pflag.String("dns-sd-name", "", "DNS-SD service name.  Default is based on the host name.")
	var defaultN = pflag.IntP("default-n", "n", DEFAULT_HAMMING_N, "Hamming block length when the frame does not say.")
	var logLevel = pflag.StringP("log-level", "L", DEFAULT_LOG_LEVEL, "Log level: debug, info, warn or error.")
	var timestampFormat = pflag.StringP("timestamp-format", "T", "", "Precede result lines with 'strftime' format time stamp.")
	var interactive = pflag.BoolP("interactive", "i", false, "Type in a single frame instead of listening.")
	var verbose = pflag.BoolP("verbose", "v", false, "Interactive mode: also list the Hamming blocks.")
	var version = pflag.Bool("version", false, "Print version and exit.")
	var help = pflag.Bool("help", false, "Display help text.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s - Link layer receiver with Hamming correction and CRC-32 detection.\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\n")
		pflag.PrintDefaults()
	}

	pflag.Parse()

	if *help {
		pflag.Usage()
		os.Exit(0)
	}

	if *version {
		printVersion(os.Stdout, "receptor", *verbose)
		os.Exit(0)
	}

	if *interactive {
		if err := RunPrompt(os.Stdin, os.Stdout, *verbose); err != nil {
			os.Exit(1)
		}

		return
	}

	var cfg = DefaultReceiverConfig()

	if *configFile != "" {
		var fileCfg, err = LoadReceiverConfig(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", err)
			os.Exit(1)
		}

		cfg = fileCfg
	}

	// Explicit command line options win over the file.
	var flags = pflag.CommandLine

	if flags.Changed("listen") {
		cfg.Listen = *listen
	}

	if flags.Changed("websocket") {
		cfg.WebSocket = *websocketAddr
	}

	if flags.Changed("serial") {
		cfg.Serial = *serial
	}

	if flags.Changed("serial-speed") {
		cfg.SerialSpeed = *serialSpeed
	}

	if flags.Changed("dns-sd") {
		cfg.DNSSD = *dnsSD
	}

	if flags.Changed("dns-sd-name") {
		cfg.DNSSDName = *dnsSDName
	}

	if flags.Changed("default-n") {
		cfg.DefaultN = *defaultN
	}

	if flags.Changed("log-level") {
		cfg.LogLevel = *logLevel
	}

	if flags.Changed("timestamp-format") {
		cfg.TimestampFormat = *timestampFormat
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}

	var logger, logErr = NewLogger(os.Stderr, cfg.LogLevel, "receptor")
	if logErr != nil {
		fmt.Fprintf(os.Stderr, "%s\n", logErr)
		os.Exit(1)
	}

	var rx, rxErr = NewReceiver(cfg, os.Stdout, logger)
	if rxErr != nil {
		logger.Fatal("receiver", "err", rxErr)
	}

	var ctx, stop = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := Serve(ctx, cfg, rx, logger); err != nil {
		logger.Error("receiver stopped", "err", err)
		stop()
		os.Exit(1) //nolint:gocritic
	}

	logger.Info("shut down")
}
