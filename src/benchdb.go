package linklab

// Bench trials in SQLite, for looking at with SQL instead of a
// spreadsheet.  One row per trial in table "trials".

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	_ "github.com/mattn/go-sqlite3"
)

type benchDB struct {
	db *sql.DB
}

func openBenchDB(path string) (*benchDB, error) {
	var params = url.Values{}
	params.Add("_journal", "wal")
	params.Add("_sync", "normal")
	params.Add("_timeout", "5000")

	var dsn = "file:" + path + "?" + params.Encode()

	var db, err = sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	db.SetMaxOpenConns(1)

	if _, err := db.Exec(
		`
		create table if not exists trials (
			id              integer primary key autoincrement,
			trial_idx       int not null,
			original        text not null,
			received        text not null,
			accepted        int not null,
			intact          int not null,
			corrected       int not null,
			corrected_count int not null,
			algorithm       text not null,
			hamming_n       int,
			ber             real not null,
			msg_bytes       int not null,
			bits_sent       int not null,
			useful_bits     int not null,
			seed            int not null
		)
		`,
	); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	return &benchDB{db: db}, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}

	return 0
}

// insert stores every trial of res in one transaction.
func (b *benchDB) insert(ctx context.Context, res *BenchResult, seed uint64) error {
	var tx, err = b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var stmt, prepErr = tx.PrepareContext(ctx,
		`
		insert into trials (
			trial_idx, original, received, accepted, intact,
			corrected, corrected_count, algorithm, hamming_n, ber,
			msg_bytes, bits_sent, useful_bits, seed
		) values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
	)
	if prepErr != nil {
		return fmt.Errorf("prepare: %w", prepErr)
	}
	defer stmt.Close()

	for _, records := range res.Trials {
		for _, rec := range records {
			var n sql.NullInt64
			if rec.Algo == ALGO_HAMMING {
				n = sql.NullInt64{Int64: int64(rec.N), Valid: true}
			}

			if _, err := stmt.ExecContext(ctx,
				rec.Index, rec.Original, rec.Received, boolInt(rec.Accepted), boolInt(rec.Intact),
				boolInt(rec.Corrected), rec.CorrectedCount, rec.Algo, n, rec.BER,
				rec.MsgBytes, rec.BitsSent, rec.UsefulBits, int64(seed), //nolint:gosec
			); err != nil {
				return fmt.Errorf("insert: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}

func (b *benchDB) Close() error {
	return b.db.Close()
}
