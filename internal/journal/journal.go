// Package journal persists a local record of every transaction the
// client submits, so restarts can show what was sent and how it ended.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ethereum/go-ethereum/common"
	_ "modernc.org/sqlite"

	"github.com/agentbet/gopredict/chain/client"
	"github.com/agentbet/gopredict/chain/types"
	"github.com/agentbet/gopredict/pkg/logger"
	"github.com/sirupsen/logrus"
)

// Entry is one journalled transaction.
type Entry struct {
	Hash        string
	Function    string
	To          string
	Value       string // base units, decimal string
	State       types.TxState
	Error       string
	SubmittedAt time.Time
	SettledAt   *time.Time
}

// Journal records transaction lifecycles in SQLite. It implements the
// chain client's Recorder capability; recording is best-effort and a
// storage failure never disturbs the transaction itself.
type Journal struct {
	db  *sql.DB
	log *logrus.Entry
}

// Open creates or opens the journal database at path.
func Open(path string) (*Journal, error) {
	if path == "" {
		return nil, fmt.Errorf("journal path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir journal dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	j := &Journal{db: db, log: logger.WithComponent("journal")}
	if err := j.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return j, nil
}

func (j *Journal) migrate() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stmts := []string{
		`PRAGMA journal_mode=WAL;`,
		`
CREATE TABLE IF NOT EXISTS transactions (
  hash TEXT PRIMARY KEY,
  function TEXT NOT NULL,
  to_address TEXT NOT NULL,
  value TEXT NOT NULL,
  state TEXT NOT NULL,
  error TEXT,
  submitted_at TEXT NOT NULL,
  settled_at TEXT
);`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_submitted_at ON transactions(submitted_at);`,
	}
	for _, stmt := range stmts {
		if _, err := j.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate journal: %w", err)
		}
	}
	return nil
}

// Close releases the database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// RecordSubmitted inserts the transaction in the submitted state.
func (j *Journal) RecordSubmitted(hash common.Hash, desc *client.CallDescriptor) {
	_, err := j.db.Exec(`
INSERT OR REPLACE INTO transactions (hash, function, to_address, value, state, submitted_at)
VALUES (?,?,?,?,?,?)
`, hash.Hex(), desc.Function, desc.To.Hex(), desc.AttachedValue().String(),
		string(types.TxStateSubmitted), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		j.log.WithError(err).WithField("hash", hash.Hex()).Warn("record submission failed")
	}
}

// RecordSettled marks the transaction terminal.
func (j *Journal) RecordSettled(hash common.Hash, state types.TxState, settleErr error) {
	errMsg := ""
	if settleErr != nil {
		errMsg = settleErr.Error()
	}
	_, err := j.db.Exec(`
UPDATE transactions SET state=?, error=?, settled_at=? WHERE hash=?
`, string(state), errMsg, time.Now().UTC().Format(time.RFC3339Nano), hash.Hex())
	if err != nil {
		j.log.WithError(err).WithField("hash", hash.Hex()).Warn("record settlement failed")
	}
}

// Get returns the journalled entry for a hash, or sql.ErrNoRows.
func (j *Journal) Get(ctx context.Context, hash string) (*Entry, error) {
	row := j.db.QueryRowContext(ctx, `
SELECT hash, function, to_address, value, state, error, submitted_at, settled_at
FROM transactions WHERE hash=?
`, hash)
	return scanEntry(row.Scan)
}

// List returns the most recent entries, newest first.
func (j *Journal) List(ctx context.Context, limit int) ([]*Entry, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	rows, err := j.db.QueryContext(ctx, `
SELECT hash, function, to_address, value, state, error, submitted_at, settled_at
FROM transactions
ORDER BY submitted_at DESC
LIMIT ?
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Entry
	for rows.Next() {
		entry, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

func scanEntry(scan func(dest ...any) error) (*Entry, error) {
	var (
		e           Entry
		state       string
		errStr      sql.NullString
		submittedAt string
		settledAt   sql.NullString
	)
	if err := scan(&e.Hash, &e.Function, &e.To, &e.Value, &state, &errStr, &submittedAt, &settledAt); err != nil {
		return nil, err
	}
	e.State = types.TxState(state)
	if errStr.Valid {
		e.Error = errStr.String
	}
	if t, err := time.Parse(time.RFC3339Nano, submittedAt); err == nil {
		e.SubmittedAt = t
	}
	if settledAt.Valid {
		if t, err := time.Parse(time.RFC3339Nano, settledAt.String); err == nil {
			e.SettledAt = &t
		}
	}
	return &e, nil
}
