package linklab

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallBench() *BenchConfig {
	var cfg = DefaultBenchConfig()
	cfg.BERs = []float64{0, 0.02}
	cfg.MsgBytes = []int{1, 4}
	cfg.HammingNs = []int{7, 15}
	cfg.Trials = 50
	cfg.Workers = 3

	return cfg
}

func TestBenchConfig_Combos(t *testing.T) {
	var cfg = smallBench()
	var combos = cfg.Combos()

	// Hamming: 2 sizes x 2 BERs x 2 n.  CRC: 2 sizes x 2 BERs.
	require.Len(t, combos, 12)
	assert.Equal(t, BenchCombo{Algo: ALGO_HAMMING, N: 7, BER: 0, MsgBytes: 1}, combos[0])
	assert.Equal(t, BenchCombo{Algo: ALGO_HAMMING, N: 15, BER: 0, MsgBytes: 1}, combos[1])
	assert.Equal(t, BenchCombo{Algo: ALGO_CRC32, N: 0, BER: 0.02, MsgBytes: 4}, combos[11])
	assert.Equal(t, "CRC32 ber=0.02 msg=4B", combos[11].String())
	assert.Equal(t, "HAMMING n=15 ber=0 msg=1B", combos[1].String())
}

func TestBenchConfig_Validate(t *testing.T) {
	require.NoError(t, DefaultBenchConfig().Validate())

	var tests = []struct {
		name   string
		modify func(*BenchConfig)
	}{
		{"trials", func(c *BenchConfig) { c.Trials = 0 }},
		{"workers", func(c *BenchConfig) { c.Workers = 0 }},
		{"algorithm", func(c *BenchConfig) { c.Algorithms = []string{"PARITY"} }},
		{"no algorithms", func(c *BenchConfig) { c.Algorithms = nil }},
		{"ber", func(c *BenchConfig) { c.BERs = []float64{1.2} }},
		{"size", func(c *BenchConfig) { c.MsgBytes = []int{0} }},
		{"n", func(c *BenchConfig) { c.HammingNs = []int{2} }},
		{"huge n", func(c *BenchConfig) { c.HammingNs = []int{7, HAMMING_MAX_N + 1} }},
		{"no n", func(c *BenchConfig) { c.HammingNs = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg = DefaultBenchConfig()
			tt.modify(cfg)

			assert.Error(t, cfg.Validate())
		})
	}

	// CRC alone does not need block lengths.
	var cfg = DefaultBenchConfig()
	cfg.Algorithms = []string{"crc32"}
	cfg.HammingNs = nil
	require.NoError(t, cfg.Validate())
}

func TestRunBench(t *testing.T) {
	var cfg = smallBench()

	var res, err = RunBench(context.Background(), cfg, nil)
	require.NoError(t, err)
	require.Len(t, res.Summaries, len(res.Combos))

	for i, s := range res.Summaries {
		assert.Equal(t, res.Combos[i], s.BenchCombo)
		assert.Equal(t, cfg.Trials, s.Trials)
		require.Len(t, res.Trials[i], cfg.Trials)

		if s.BER == 0 {
			assert.Equal(t, cfg.Trials, s.Delivered, s.BenchCombo.String())
			assert.Zero(t, s.Corrected)
			assert.Zero(t, s.Undetected)
		}

		if s.Algo == ALGO_CRC32 {
			assert.Zero(t, s.Corrected)
		}

		for j, rec := range res.Trials[i] {
			assert.Equal(t, j+1, rec.Index)
			assert.Len(t, rec.Original, s.MsgBytes)
			assert.Regexp(t, `^[A-Z]+$`, rec.Original)

			if rec.Intact {
				assert.Equal(t, rec.Original, rec.Received)
				assert.Equal(t, 8*s.MsgBytes, rec.UsefulBits)
			} else {
				assert.Zero(t, rec.UsefulBits)
			}
		}
	}

	// One byte in two (7,4) blocks.  Four bytes plus 32 CRC bits.
	assert.Equal(t, 14, res.Trials[0][0].BitsSent)
	assert.Equal(t, 64, res.Trials[len(res.Trials)-1][0].BitsSent)
}

func TestRunBench_Deterministic(t *testing.T) {
	var cfg = smallBench()
	cfg.Workers = 1

	var first, err = RunBench(context.Background(), cfg, nil)
	require.NoError(t, err)

	cfg.Workers = 8

	var second, err2 = RunBench(context.Background(), cfg, nil)
	require.NoError(t, err2)

	assert.Equal(t, first.Trials, second.Trials)

	cfg.Seed++

	var third, err3 = RunBench(context.Background(), cfg, nil)
	require.NoError(t, err3)

	assert.NotEqual(t, first.Trials, third.Trials)
}

func TestRunBench_Cancelled(t *testing.T) {
	var ctx, cancel = context.WithCancel(context.Background())
	cancel()

	var _, err = RunBench(ctx, smallBench(), nil)
	require.ErrorIs(t, err, context.Canceled)
}

func TestWriteBenchCSV(t *testing.T) {
	var cfg = smallBench()
	cfg.Trials = 3

	var res, err = RunBench(context.Background(), cfg, nil)
	require.NoError(t, err)

	var dir = t.TempDir()

	var files, writeErr = WriteBenchCSV(dir, res)
	require.NoError(t, writeErr)
	assert.Equal(t, []string{
		filepath.Join(dir, "results_algo=HAMMING.csv"),
		filepath.Join(dir, "results_algo=CRC32.csv"),
	}, files)

	var f, openErr = os.Open(files[1])
	require.NoError(t, openErr)
	defer f.Close()

	var rows, readErr = csv.NewReader(f).ReadAll()
	require.NoError(t, readErr)
	require.Len(t, rows, 1+4*3)

	var first = rows[1]
	assert.Equal(t, "1", first[0])
	assert.Equal(t, "true", first[3])
	assert.Equal(t, "CRC32", first[7])
	assert.Empty(t, first[8], "no block length for CRC32")
	assert.Equal(t, "0", first[9])
	assert.Equal(t, "40", first[11])
	assert.Equal(t, "8", first[12])

	_, err = WriteBenchCSV(filepath.Join(dir, "missing"), res)
	require.Error(t, err)
}

func TestBenchDB(t *testing.T) {
	var cfg = smallBench()
	cfg.Trials = 4

	var res, err = RunBench(context.Background(), cfg, nil)
	require.NoError(t, err)

	var path = filepath.Join(t.TempDir(), "trials.db")

	var db, openErr = openBenchDB(path)
	require.NoError(t, openErr)
	require.NoError(t, db.insert(context.Background(), res, cfg.Seed))
	require.NoError(t, db.Close())

	// Opening again keeps what is there.
	db, openErr = openBenchDB(path)
	require.NoError(t, openErr)
	require.NoError(t, db.Close())

	var conn, connErr = sql.Open("sqlite3", path)
	require.NoError(t, connErr)
	defer conn.Close()

	var total, crcWithN int
	require.NoError(t, conn.QueryRow("select count(*) from trials").Scan(&total))
	require.NoError(t, conn.QueryRow("select count(*) from trials where algorithm = 'CRC32' and hamming_n is not null").Scan(&crcWithN))

	assert.Equal(t, 12*4, total)
	assert.Zero(t, crcWithN)

	var delivered int
	require.NoError(t, conn.QueryRow("select sum(intact) from trials where ber = 0").Scan(&delivered))
	assert.Equal(t, 6*4, delivered)
}

func TestPrintSummary(t *testing.T) {
	var out bytes.Buffer

	printSummary(&out, []BenchSummary{{
		BenchCombo: BenchCombo{Algo: ALGO_HAMMING, N: 7, BER: 0.01, MsgBytes: 8},
		Trials:     100,
		Delivered:  90,
		Corrected:  30,
		Undetected: 2,
		BitsSent:   11200,
		UsefulBits: 5760,
	}})

	assert.Equal(t,
		"algo       n     ber bytes  trials delivered corrected undetected efficiency\n"+
			"HAMMING    7  0.0100     8     100    0.9000    0.3000     0.0200     0.5143\n",
		out.String())
}
