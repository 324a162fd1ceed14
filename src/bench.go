package linklab

/*------------------------------------------------------------------
 *
 * Purpose:	Measure how the two codecs cope with a noisy channel.
 *
 * Description:	Every combination of algorithm, bit error rate, message
 *		size and Hamming block length gets a number of trials.
 *		Each trial makes a random upper case message, encodes it,
 *		runs it through the noise and hands it to the receiver
 *		core.  No network is involved so a large grid is quick.
 *
 *		Combinations run in parallel.  Each one has its own random
 *		source derived from the seed so results do not depend on
 *		scheduling.
 *
 *------------------------------------------------------------------*/

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

type BenchConfig struct {
	Algorithms []string
	BERs       []float64
	MsgBytes   []int
	HammingNs  []int
	Trials     int
	Seed       uint64
	Workers    int
	OutDir     string // CSV files go here.  Empty for none.
	DBPath     string // SQLite file.  Empty for none.
}

func DefaultBenchConfig() *BenchConfig {
	return &BenchConfig{
		Algorithms: []string{ALGO_HAMMING, ALGO_CRC32},
		BERs:       []float64{0, 0.01, 0.02},
		MsgBytes:   []int{1, 8},
		HammingNs:  []int{7, 15},
		Trials:     1000,
		Seed:       1,
		Workers:    runtime.NumCPU(),
		OutDir:     ".",
		DBPath:     "",
	}
}

func (cfg *BenchConfig) Validate() error {
	if cfg.Trials < 1 {
		return fmt.Errorf("trials %d must be at least 1", cfg.Trials)
	}

	if cfg.Workers < 1 {
		return fmt.Errorf("workers %d must be at least 1", cfg.Workers)
	}

	if len(cfg.Algorithms) == 0 || len(cfg.BERs) == 0 || len(cfg.MsgBytes) == 0 {
		return errors.New("empty parameter grid")
	}

	for _, algo := range cfg.Algorithms {
		switch strings.ToUpper(algo) {
		case ALGO_HAMMING:
			if len(cfg.HammingNs) == 0 {
				return fmt.Errorf("%s needs at least one block length", ALGO_HAMMING)
			}
		case ALGO_CRC32:
		default:
			return fmt.Errorf("unknown algorithm %q", algo)
		}
	}

	for _, ber := range cfg.BERs {
		if ber < 0 || ber > 1 {
			return fmt.Errorf("bit error rate %g out of range 0 to 1", ber)
		}
	}

	for _, size := range cfg.MsgBytes {
		if size < 1 {
			return fmt.Errorf("message size %d must be at least 1 byte", size)
		}
	}

	for _, n := range cfg.HammingNs {
		if _, _, err := HammingLayout(n); err != nil {
			return fmt.Errorf("block length %d: %w", n, err)
		}
	}

	return nil
}

type BenchCombo struct {
	Algo     string
	N        int // 0 for CRC32.
	BER      float64
	MsgBytes int
}

func (c BenchCombo) String() string {
	if c.Algo == ALGO_HAMMING {
		return fmt.Sprintf("%s n=%d ber=%g msg=%dB", c.Algo, c.N, c.BER, c.MsgBytes)
	}

	return fmt.Sprintf("%s ber=%g msg=%dB", c.Algo, c.BER, c.MsgBytes)
}

// Combos lists the grid in the order results are written.
func (cfg *BenchConfig) Combos() []BenchCombo {
	var combos []BenchCombo

	for _, algo := range cfg.Algorithms {
		algo = strings.ToUpper(algo)

		for _, size := range cfg.MsgBytes {
			for _, ber := range cfg.BERs {
				if algo != ALGO_HAMMING {
					combos = append(combos, BenchCombo{Algo: algo, N: 0, BER: ber, MsgBytes: size})
					continue
				}

				for _, n := range cfg.HammingNs {
					combos = append(combos, BenchCombo{Algo: algo, N: n, BER: ber, MsgBytes: size})
				}
			}
		}
	}

	return combos
}

type TrialRecord struct {
	BenchCombo

	Index          int // From 1 within the combo.
	Original       string
	Received       string
	Accepted       bool // Receiver handed text to the application.
	Intact         bool // ... and it was the text that was sent.
	Corrected      bool
	CorrectedCount int
	BitsSent       int
	UsefulBits     int
}

type BenchSummary struct {
	BenchCombo

	Trials     int
	Delivered  int // Intact.
	Corrected  int
	Undetected int // Accepted but wrong.
	BitsSent   int
	UsefulBits int
}

func ratio(a, b int) float64 {
	if b == 0 {
		return 0
	}

	return float64(a) / float64(b)
}

func (s BenchSummary) DeliveryRate() float64   { return ratio(s.Delivered, s.Trials) }
func (s BenchSummary) CorrectionRate() float64 { return ratio(s.Corrected, s.Trials) }
func (s BenchSummary) UndetectedRate() float64 { return ratio(s.Undetected, s.Trials) }

// Efficiency is useful bits delivered per bit sent.
func (s BenchSummary) Efficiency() float64 { return ratio(s.UsefulBits, s.BitsSent) }

type BenchResult struct {
	Combos    []BenchCombo
	Trials    [][]TrialRecord // Same order as Combos.
	Summaries []BenchSummary
}

const upperCase = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

func randomMessage(size int, rng *rand.Rand) string {
	var b = make([]byte, size)
	for i := range b {
		b[i] = upperCase[rng.IntN(len(upperCase))]
	}

	return string(b)
}

func comboSeed(seed uint64, index int) uint64 {
	return seed + uint64(index)*0x9E3779B97F4A7C15 //nolint:gosec
}

func runCombo(ctx context.Context, rx *Receiver, combo BenchCombo, trials int, rng *rand.Rand) ([]TrialRecord, error) {
	var records = make([]TrialRecord, 0, trials)

	for i := 1; i <= trials; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var original = randomMessage(combo.MsgBytes, rng)

		var tx, err = BuildTransmission(original, combo.Algo, combo.N)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", combo, err)
		}

		if err := tx.AddNoise(combo.BER, rng); err != nil {
			return nil, fmt.Errorf("%s: %w", combo, err)
		}

		var rep = rx.Process(tx.Message)

		var rec = TrialRecord{ //nolint:exhaustruct
			BenchCombo:     combo,
			Index:          i,
			Original:       original,
			Accepted:       rep.Delivered(),
			Corrected:      rep.Outcome == OutcomeCorrected,
			CorrectedCount: len(rep.Corrections),
			BitsSent:       len(tx.Clean),
		}

		if rec.Accepted {
			rec.Received = rep.Text
			rec.Intact = rep.Text == original
		}

		if rec.Intact {
			rec.UsefulBits = 8 * combo.MsgBytes
		}

		records = append(records, rec)
	}

	return records, nil
}

func summarize(combo BenchCombo, records []TrialRecord) BenchSummary {
	var s = BenchSummary{BenchCombo: combo, Trials: len(records)} //nolint:exhaustruct

	for _, rec := range records {
		if rec.Intact {
			s.Delivered++
		}

		if rec.Corrected {
			s.Corrected++
		}

		if rec.Accepted && !rec.Intact {
			s.Undetected++
		}

		s.BitsSent += rec.BitsSent
		s.UsefulBits += rec.UsefulBits
	}

	return s
}

/*------------------------------------------------------------------
 *
 * Name:	RunBench
 *
 * Purpose:	Run the whole grid.
 *
 * Inputs:	cfg	- Grid, trial count, seed, parallelism.
 *			  OutDir and DBPath are not used here.
 *
 * Returns:	Every trial and a summary per combination.
 *
 *------------------------------------------------------------------*/

func RunBench(ctx context.Context, cfg *BenchConfig, logger *log.Logger) (*BenchResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if logger == nil {
		logger = discardLogger()
	}

	var rxCfg = DefaultReceiverConfig()

	var rx, rxErr = NewReceiver(rxCfg, io.Discard, logger)
	if rxErr != nil {
		return nil, rxErr
	}

	var combos = cfg.Combos()
	var res = &BenchResult{
		Combos:    combos,
		Trials:    make([][]TrialRecord, len(combos)),
		Summaries: make([]BenchSummary, len(combos)),
	}

	var g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)

	for i, combo := range combos {
		g.Go(func() error {
			var rng = NewNoiseSource(comboSeed(cfg.Seed, i))

			var records, err = runCombo(gctx, rx, combo, cfg.Trials, rng)
			if err != nil {
				return err
			}

			res.Trials[i] = records
			res.Summaries[i] = summarize(combo, records)

			logger.Debug("combination done", "combo", combo.String(), "delivery", res.Summaries[i].DeliveryRate())

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return res, nil
}

var csvHeader = []string{
	"trial_idx", "original", "received", "accepted", "intact",
	"corrected", "corrected_count", "algorithm", "hamming_n", "ber",
	"msg_bytes", "bits_sent", "useful_bits_delivered",
}

func (rec TrialRecord) csvRow() []string {
	var n = ""
	if rec.Algo == ALGO_HAMMING {
		n = strconv.Itoa(rec.N)
	}

	return []string{
		strconv.Itoa(rec.Index),
		rec.Original,
		rec.Received,
		strconv.FormatBool(rec.Accepted),
		strconv.FormatBool(rec.Intact),
		strconv.FormatBool(rec.Corrected),
		strconv.Itoa(rec.CorrectedCount),
		rec.Algo,
		n,
		strconv.FormatFloat(rec.BER, 'g', -1, 64),
		strconv.Itoa(rec.MsgBytes),
		strconv.Itoa(rec.BitsSent),
		strconv.Itoa(rec.UsefulBits),
	}
}

func CSVFileName(algo string) string {
	return "results_algo=" + algo + ".csv"
}

/*------------------------------------------------------------------
 *
 * Name:	WriteBenchCSV
 *
 * Purpose:	One CSV file per algorithm in dir.
 *
 * Returns:	The files written.
 *
 *------------------------------------------------------------------*/

func WriteBenchCSV(dir string, res *BenchResult) ([]string, error) {
	var files = map[string]*csv.Writer{}
	var closers = map[string]*os.File{}
	var written []string

	defer func() {
		for _, f := range closers {
			f.Close()
		}
	}()

	for i, combo := range res.Combos {
		var w, ok = files[combo.Algo]
		if !ok {
			var path = filepath.Join(dir, CSVFileName(combo.Algo))

			var f, err = os.Create(path)
			if err != nil {
				return nil, fmt.Errorf("results file: %w", err)
			}

			closers[combo.Algo] = f
			written = append(written, path)

			w = csv.NewWriter(f)
			files[combo.Algo] = w

			if err := w.Write(csvHeader); err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
		}

		for _, rec := range res.Trials[i] {
			if err := w.Write(rec.csvRow()); err != nil {
				return nil, fmt.Errorf("%s: %w", CSVFileName(combo.Algo), err)
			}
		}
	}

	for algo, w := range files {
		w.Flush()

		if err := w.Error(); err != nil {
			return nil, fmt.Errorf("%s: %w", CSVFileName(algo), err)
		}

		if err := closers[algo].Close(); err != nil {
			return nil, fmt.Errorf("%s: %w", CSVFileName(algo), err)
		}

		delete(closers, algo)
	}

	return written, nil
}

// printSummary writes a fixed width table, one line per combination.
func printSummary(w io.Writer, summaries []BenchSummary) {
	fmt.Fprintf(w, "%-8s %3s %7s %5s %7s %9s %9s %10s %10s\n",
		"algo", "n", "ber", "bytes", "trials", "delivered", "corrected", "undetected", "efficiency")

	for _, s := range summaries {
		var n = "-"
		if s.Algo == ALGO_HAMMING {
			n = strconv.Itoa(s.N)
		}

		fmt.Fprintf(w, "%-8s %3s %7.4f %5d %7d %9.4f %9.4f %10.4f %10.4f\n",
			s.Algo, n, s.BER, s.MsgBytes, s.Trials,
			s.DeliveryRate(), s.CorrectionRate(), s.UndetectedRate(), s.Efficiency())
	}
}
