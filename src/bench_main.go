package linklab

/*------------------------------------------------------------------
 *
 * Purpose:	Bench program.
 *
 * Description:	Run the trial grid, write the CSV files and optionally
 *		a SQLite database, then print a summary table.
 *
 * Usage:	linkbench  [ options ]
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

func BenchMain() {
	var defaults = DefaultBenchConfig()

	var algos = pflag.StringSliceP("algo", "a", defaults.Algorithms, "Algorithms to test.")
	var bers = pflag.Float64SliceP("ber", "e", defaults.BERs, "Bit error rates.")
	var msgBytes = pflag.IntSliceP("msg-bytes", "m", defaults.MsgBytes, "Message sizes in bytes.")
	var ns = pflag.IntSliceP("block-length", "n", defaults.HammingNs, "Hamming block lengths.")
	var trials = pflag.IntP("trials", "t", defaults.Trials, "Trials per combination.")
	var seed = pflag.Uint64("seed", defaults.Seed, "Random seed.  The same seed gives the same results.")
	var workers = pflag.IntP("workers", "j", defaults.Workers, "Combinations run at the same time.")
	var outDir = pflag.StringP("out-dir", "o", defaults.OutDir, "Directory for the CSV files.  Empty for none.")
	var dbPath = pflag.String("db", defaults.DBPath, "Also store every trial in this SQLite database.")
	var logLevel = pflag.StringP("log-level", "L", DEFAULT_LOG_LEVEL, "Log level: debug, info, warn or error.")
	var version = pflag.Bool("version", false, "Print version and exit.")
	var help = pflag.Bool("help", false, "Display help text.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s - Hamming and CRC-32 over a simulated noisy channel.\n", os.Args[0])
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
		printVersion(os.Stdout, "linkbench", false)
		os.Exit(0)
	}

	var logger, logErr = NewLogger(os.Stderr, *logLevel, "linkbench")
	if logErr != nil {
		fmt.Fprintf(os.Stderr, "%s\n", logErr)
		os.Exit(1)
	}

	var cfg = &BenchConfig{
		Algorithms: *algos,
		BERs:       *bers,
		MsgBytes:   *msgBytes,
		HammingNs:  *ns,
		Trials:     *trials,
		Seed:       *seed,
		Workers:    *workers,
		OutDir:     *outDir,
		DBPath:     *dbPath,
	}

	var ctx, stop = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var res, err = RunBench(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("bench", "err", err)
	}

	if cfg.OutDir != "" {
		var files, csvErr = WriteBenchCSV(cfg.OutDir, res)
		if csvErr != nil {
			logger.Fatal("results", "err", csvErr)
		}

		for _, f := range files {
			logger.Info("wrote", "file", f)
		}
	}

	if cfg.DBPath != "" {
		var db, dbErr = openBenchDB(cfg.DBPath)
		if dbErr != nil {
			logger.Fatal("database", "err", dbErr)
		}

		if err := db.insert(ctx, res, cfg.Seed); err != nil {
			db.Close()
			logger.Fatal("database", "err", err)
		}

		if err := db.Close(); err != nil {
			logger.Fatal("database", "err", err)
		}

		logger.Info("wrote", "database", cfg.DBPath)
	}

	for _, s := range res.Summaries {
		logger.Info("summary", "combo", s.BenchCombo.String(),
			"delivery", s.DeliveryRate(), "correction", s.CorrectionRate(), "undetected", s.UndetectedRate())
	}

	printSummary(os.Stdout, res.Summaries)
}
