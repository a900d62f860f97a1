// Package history archives batch balance reports in a local SQLite database
// so earlier runs can be listed and re-read.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dmagro/btc-rpc-toolkit/internal/balance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	_ "modernc.org/sqlite"
)

// ErrRunNotFound is returned by Get for an unknown run id.
var ErrRunNotFound = errors.New("batch run not found")

const schema = `
CREATE TABLE IF NOT EXISTS batch_runs (
	run_id            TEXT PRIMARY KEY,
	created_at        INTEGER NOT NULL,
	source            TEXT NOT NULL DEFAULT '',
	addresses_checked INTEGER NOT NULL,
	successful        INTEGER NOT NULL,
	total_balance     TEXT NOT NULL,
	report_json       TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_batch_runs_created_at ON batch_runs(created_at);
`

// Run is the summary row of one archived batch.
type Run struct {
	ID               string          `json:"run_id"`
	CreatedAt        time.Time       `json:"created_at"`
	Source           string          `json:"source"`
	AddressesChecked int             `json:"addresses_checked"`
	Successful       int             `json:"successful"`
	TotalBalance     decimal.Decimal `json:"total_balance"`
}

// Store reads and writes archived runs.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open opens (creating if needed) the database at path and applies the schema.
func Open(ctx context.Context, path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	logger.Debug("Opened batch archive", zap.String("path", path))
	return &Store{db: db, logger: logger}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save archives rep and returns the new run id. source names the address
// list the batch was read from and may be empty.
func (s *Store) Save(ctx context.Context, rep balance.BatchReport, source string) (string, error) {
	doc, err := json.Marshal(rep)
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}

	id := uuid.New().String()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO batch_runs(run_id, created_at, source, addresses_checked, successful, total_balance, report_json)
		VALUES(?, ?, ?, ?, ?, ?, ?)
	`, id, time.Now().UnixNano(), source, rep.AddressesChecked, rep.Successful, rep.TotalBalance.String(), string(doc))
	if err != nil {
		return "", fmt.Errorf("insert batch run: %w", err)
	}

	s.logger.Info("Archived batch run",
		zap.String("run_id", id),
		zap.Int("addresses_checked", rep.AddressesChecked))
	return id, nil
}

// List returns up to limit runs, newest first. A non-positive limit
// defaults to 20.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, created_at, source, addresses_checked, successful, total_balance
		FROM batch_runs
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query batch runs: %w", err)
	}
	defer rows.Close()

	out := []Run{}
	for rows.Next() {
		var (
			run     Run
			created int64
			total   string
		)
		if err := rows.Scan(&run.ID, &created, &run.Source, &run.AddressesChecked, &run.Successful, &total); err != nil {
			return nil, fmt.Errorf("scan batch run: %w", err)
		}
		run.CreatedAt = time.Unix(0, created)
		if run.TotalBalance, err = decimal.NewFromString(total); err != nil {
			return nil, fmt.Errorf("parse total balance of run %s: %w", run.ID, err)
		}
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate batch runs: %w", err)
	}
	return out, nil
}

// Get returns the full report of run id.
func (s *Store) Get(ctx context.Context, id string) (balance.BatchReport, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, `
		SELECT report_json FROM batch_runs WHERE run_id = ? LIMIT 1
	`, id).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return balance.BatchReport{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
		}
		return balance.BatchReport{}, fmt.Errorf("query batch run %s: %w", id, err)
	}

	var rep balance.BatchReport
	if err := json.Unmarshal([]byte(doc), &rep); err != nil {
		return balance.BatchReport{}, fmt.Errorf("decode batch run %s: %w", id, err)
	}
	return rep, nil
}
