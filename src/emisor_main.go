package linklab

/*------------------------------------------------------------------
 *
 * Purpose:	Emitter program.
 *
 * Description:	Encode a text message with Hamming or CRC-32, optionally
 *		add channel noise, and send it to a receiver.
 *
 * Usage:	emisor  [ options ]  text ...
 *
 *		Several words are joined with single spaces.
 *
 *---------------------------------------------------------------*/

import (
	"context"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

func EmisorMain() {
	var algo = pflag.StringP("algo", "a", ALGO_HAMMING, "Algorithm: HAMMING or CRC32.")
	var n = pflag.IntP("block-length", "n", DEFAULT_HAMMING_N, "Hamming block length n, 3 or more.")
	var ber = pflag.Float64P("ber", "e", 0, "Bit error rate for the simulated channel, 0 to 1.")
	var seed = pflag.Uint64("seed", 0, "Noise seed.  0 picks one from the clock.")
	var hostname = pflag.StringP("hostname", "h", "localhost", "Receiver host name or address.")
	var port = pflag.IntP("port", "p", 9000, "Receiver TCP port.")
	var wsURL = pflag.StringP("websocket", "w", "", "Send over WebSocket to this URL instead, e.g. ws://host:9001"+WEBSOCKET_PATH)
	var timeout = pflag.Duration("timeout", 5*time.Second, "Give up sending after this long.")
	var dryRun = pflag.Bool("dry-run", false, "Print the link message instead of sending it.")
	var verbose = pflag.BoolP("verbose", "v", false, "List the Hamming blocks before noise.")
	var logLevel = pflag.StringP("log-level", "L", DEFAULT_LOG_LEVEL, "Log level: debug, info, warn or error.")
	var version = pflag.Bool("version", false, "Print version and exit.")
	var help = pflag.Bool("help", false, "Display help text.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s - Link layer emitter.\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [options] text ...\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\n")
		pflag.PrintDefaults()
	}

	pflag.Parse()

	if *help {
		pflag.Usage()
		os.Exit(0)
	}

	if *version {
		printVersion(os.Stdout, "emisor", *verbose)
		os.Exit(0)
	}

	if pflag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "Supply the text to send on the command line.\n")
		pflag.Usage()
		os.Exit(1)
	}

	var logger, logErr = NewLogger(os.Stderr, *logLevel, "emisor")
	if logErr != nil {
		fmt.Fprintf(os.Stderr, "%s\n", logErr)
		os.Exit(1)
	}

	var text = strings.Join(pflag.Args(), " ")

	var tx, err = BuildTransmission(text, *algo, *n)
	if err != nil {
		logger.Fatal("encoding", "err", err)
	}

	if *verbose && tx.Message.Algo == ALGO_HAMMING {
		blockDump(os.Stdout, tx.Clean, *n)
	}

	if *seed == 0 {
		*seed = uint64(time.Now().UnixNano()) //nolint:gosec
	}

	if err := tx.AddNoise(*ber, NewNoiseSource(*seed)); err != nil {
		logger.Fatal("noise", "err", err)
	}

	logger.Debug("encoded", "algo", tx.Message.Algo, "param", tx.Message.Params, "bits", len(tx.Clean), "flips", tx.Flips, "seed", *seed)

	if tx.Message.Algo == ALGO_CRC32 {
		logger.Debug("checksum", "crc", fmt.Sprintf("%08X", tx.Checksum))
	}

	if *dryRun {
		if _, err := tx.Message.WriteTo(os.Stdout); err != nil {
			logger.Fatal("writing", "err", err)
		}
	} else {
		var ctx, cancel = context.WithTimeout(context.Background(), *timeout)
		defer cancel()

		var sendErr error

		if *wsURL != "" {
			sendErr = SendWebSocket(ctx, *wsURL, tx.Message)
		} else {
			sendErr = SendTCP(ctx, net.JoinHostPort(*hostname, strconv.Itoa(*port)), tx.Message)
		}

		if sendErr != nil {
			logger.Error("send failed", "err", sendErr)
			cancel()
			os.Exit(1) //nolint:gocritic
		}
	}

	fmt.Printf("OK %s -> bits=%d flips=%d\n", tx.Message.Algo, len(tx.Clean), tx.Flips)
}
