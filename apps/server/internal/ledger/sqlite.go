package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const defaultLocalDBName = "belote_local.db"

type SQLiteService struct {
	db          *sql.DB
	recentLimit int
}

func NewSQLiteService(dbPath string, recentLimit int) (*SQLiteService, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, fmt.Errorf("empty sqlite database path")
	}
	if dbPath != ":memory:" {
		parent := filepath.Dir(dbPath)
		if parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, err
			}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, pragma := range []string{
		`PRAGMA busy_timeout = 5000;`,
		`PRAGMA journal_mode = WAL;`,
		`PRAGMA foreign_keys = ON;`,
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSQLiteLedgerSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if recentLimit <= 0 {
		recentLimit = defaultRecentLimit
	}
	return &SQLiteService{db: db, recentLimit: recentLimit}, nil
}

func (s *SQLiteService) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteService) RecordRound(ctx context.Context, rec RoundRecord) error {
	if err := validateRecord(&rec); err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
INSERT INTO ledger_rounds (
    round_id, table_id, deal, dealer, outcome, halt_reason, trump, taker,
    score_ns, score_ew, total_ns, total_ew, tricks_ns, tricks_ew, capot, match_over, played_at_ms
)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (round_id) DO NOTHING
`, rec.RoundID, rec.TableID, int64(rec.Deal), rec.Dealer, string(rec.Outcome), rec.HaltReason, rec.Trump, rec.Taker,
		rec.RoundScores[0], rec.RoundScores[1], rec.MatchTotals[0], rec.MatchTotals[1],
		rec.TricksWon[0], rec.TricksWon[1], boolToInt(rec.Capot), boolToInt(rec.MatchOver), rec.PlayedAt.UTC().UnixMilli()); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
DELETE FROM ledger_rounds
WHERE table_id = ?
  AND id IN (
      SELECT id
      FROM ledger_rounds
      WHERE table_id = ?
      ORDER BY played_at_ms DESC, id DESC
      LIMIT -1 OFFSET ?
  )
`, rec.TableID, rec.TableID, s.recentLimit); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteService) ListRounds(ctx context.Context, tableID string, limit int) ([]RoundRecord, error) {
	if limit <= 0 || limit > s.recentLimit {
		limit = s.recentLimit
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT round_id, table_id, deal, dealer, outcome, halt_reason, trump, taker,
       score_ns, score_ew, total_ns, total_ew, tricks_ns, tricks_ew, capot, match_over, played_at_ms
FROM ledger_rounds
WHERE table_id = ?
ORDER BY played_at_ms DESC, id DESC
LIMIT ?
`, tableID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]RoundRecord, 0, limit)
	for rows.Next() {
		var (
			rec              RoundRecord
			deal, playedAtMs int64
			capot, matchOver int
			outcome          string
		)
		if err := rows.Scan(
			&rec.RoundID, &rec.TableID, &deal, &rec.Dealer, &outcome, &rec.HaltReason, &rec.Trump, &rec.Taker,
			&rec.RoundScores[0], &rec.RoundScores[1], &rec.MatchTotals[0], &rec.MatchTotals[1],
			&rec.TricksWon[0], &rec.TricksWon[1], &capot, &matchOver, &playedAtMs,
		); err != nil {
			return nil, err
		}
		rec.Deal = uint32(deal)
		rec.Outcome = Outcome(outcome)
		rec.Capot = capot != 0
		rec.MatchOver = matchOver != 0
		rec.PlayedAt = time.UnixMilli(playedAtMs).UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}

func ensureSQLiteLedgerSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`
CREATE TABLE IF NOT EXISTS ledger_rounds (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    round_id TEXT NOT NULL UNIQUE,
    table_id TEXT NOT NULL,
    deal INTEGER NOT NULL,
    dealer TEXT NOT NULL,
    outcome TEXT NOT NULL,
    halt_reason TEXT NOT NULL DEFAULT '',
    trump TEXT NOT NULL DEFAULT '',
    taker TEXT NOT NULL DEFAULT '',
    score_ns INTEGER NOT NULL DEFAULT 0,
    score_ew INTEGER NOT NULL DEFAULT 0,
    total_ns INTEGER NOT NULL DEFAULT 0,
    total_ew INTEGER NOT NULL DEFAULT 0,
    tricks_ns INTEGER NOT NULL DEFAULT 0,
    tricks_ew INTEGER NOT NULL DEFAULT 0,
    capot INTEGER NOT NULL DEFAULT 0,
    match_over INTEGER NOT NULL DEFAULT 0,
    played_at_ms INTEGER NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS idx_ledger_rounds_table_recent ON ledger_rounds(table_id, played_at_ms DESC)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func defaultLocalDatabasePath() (string, error) {
	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(userConfigDir, "BeloteLite", defaultLocalDBName), nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
