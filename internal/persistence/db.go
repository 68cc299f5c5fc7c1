// Package persistence provides a SQLite audit journal of committed
// transactions and production ticks. The journal is append-only; game state
// is never restored from it.
package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/cookie-world/internal/economy"
	"github.com/talgya/cookie-world/internal/effects"
	"github.com/talgya/cookie-world/internal/engine"
)

// DB wraps a SQLite connection used as the game journal.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// One writer; also keeps ":memory:" databases on a single connection.
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Amounts are stored as TEXT: uint64 values above MaxInt64 do not fit an
// SQLite INTEGER.
func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS transactions (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		action TEXT NOT NULL,
		item TEXT NOT NULL,
		quantity TEXT NOT NULL,
		currency TEXT NOT NULL,
		amount TEXT NOT NULL,
		luck_effect TEXT,
		luck_granted INTEGER,
		at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS ticks (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		tick TEXT NOT NULL,
		lucky INTEGER NOT NULL,
		produced_json TEXT NOT NULL,
		by_factory_json TEXT NOT NULL,
		at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS journal_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_transactions_action ON transactions(action);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// RecordTransaction appends a committed receipt.
func (db *DB) RecordTransaction(ctx context.Context, r engine.Receipt) error {
	var luckEffect *string
	var luckGranted *int
	if r.Luck != nil {
		granted := 0
		if r.Luck.Granted {
			granted = 1
		}
		luckGranted = &granted
		if r.Luck.Effect != nil {
			name := r.Luck.Effect.String()
			luckEffect = &name
		}
	}

	_, err := db.conn.ExecContext(ctx, `INSERT INTO transactions
		(id, action, item, quantity, currency, amount, luck_effect, luck_granted, at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID.String(), string(r.Action), r.Item,
		strconv.FormatUint(r.Quantity, 10), r.Currency.String(),
		strconv.FormatUint(r.Amount, 10),
		luckEffect, luckGranted, r.At.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert transaction %s: %w", r.ID, err)
	}
	return nil
}

// RecordTick appends a committed production cycle.
func (db *DB) RecordTick(ctx context.Context, t engine.TickReport) error {
	produced, err := json.Marshal(yieldNames(t.Produced))
	if err != nil {
		return fmt.Errorf("encode tick %d: %w", t.Tick, err)
	}
	perFactory := make(map[string]map[string]uint64, len(t.ByFactory))
	for kind, y := range t.ByFactory {
		perFactory[kind.String()] = yieldNames(y)
	}
	byFactory, err := json.Marshal(perFactory)
	if err != nil {
		return fmt.Errorf("encode tick %d: %w", t.Tick, err)
	}

	lucky := 0
	if t.Lucky {
		lucky = 1
	}
	_, err = db.conn.ExecContext(ctx,
		"INSERT INTO ticks (tick, lucky, produced_json, by_factory_json, at) VALUES (?, ?, ?, ?, ?)",
		strconv.FormatUint(t.Tick, 10), lucky, string(produced), string(byFactory),
		t.At.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert tick %d: %w", t.Tick, err)
	}
	return nil
}

func yieldNames(y economy.Yield) map[string]uint64 {
	out := make(map[string]uint64, len(y))
	for c, v := range y {
		out[c.String()] = v
	}
	return out
}

type transactionRow struct {
	ID          string  `db:"id"`
	Action      string  `db:"action"`
	Item        string  `db:"item"`
	Quantity    string  `db:"quantity"`
	Currency    string  `db:"currency"`
	Amount      string  `db:"amount"`
	LuckEffect  *string `db:"luck_effect"`
	LuckGranted *int    `db:"luck_granted"`
	At          string  `db:"at"`
}

// RecentTransactions returns the most recent receipts, newest first.
func (db *DB) RecentTransactions(ctx context.Context, limit int) ([]engine.Receipt, error) {
	var rows []transactionRow
	err := db.conn.SelectContext(ctx, &rows, `SELECT
		id, action, item, quantity, currency, amount, luck_effect, luck_granted, at
		FROM transactions ORDER BY seq DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("select transactions: %w", err)
	}

	out := make([]engine.Receipt, 0, len(rows))
	for _, row := range rows {
		r, err := row.receipt()
		if err != nil {
			return nil, fmt.Errorf("decode transaction %s: %w", row.ID, err)
		}
		out = append(out, r)
	}
	return out, nil
}

func (row transactionRow) receipt() (engine.Receipt, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return engine.Receipt{}, err
	}
	qty, err := strconv.ParseUint(row.Quantity, 10, 64)
	if err != nil {
		return engine.Receipt{}, err
	}
	amount, err := strconv.ParseUint(row.Amount, 10, 64)
	if err != nil {
		return engine.Receipt{}, err
	}
	cur, err := economy.ParseCurrency(row.Currency)
	if err != nil {
		return engine.Receipt{}, err
	}
	at, err := time.Parse(time.RFC3339Nano, row.At)
	if err != nil {
		return engine.Receipt{}, err
	}

	r := engine.Receipt{
		ID:       id,
		Action:   engine.Action(row.Action),
		Item:     row.Item,
		Quantity: qty,
		Currency: cur,
		Amount:   amount,
		At:       at,
	}
	if row.LuckGranted != nil {
		r.Luck = &engine.LuckResult{Granted: *row.LuckGranted == 1}
		if row.LuckEffect != nil {
			kind, err := effects.Parse(*row.LuckEffect)
			if err != nil {
				return engine.Receipt{}, err
			}
			r.Luck.Effect = &kind
		}
	}
	return r, nil
}

// TickCount returns how many production ticks have been journaled.
func (db *DB) TickCount(ctx context.Context) (int, error) {
	var n int
	if err := db.conn.GetContext(ctx, &n, "SELECT COUNT(*) FROM ticks"); err != nil {
		return 0, fmt.Errorf("count ticks: %w", err)
	}
	return n, nil
}

// SaveMeta stores a key-value pair in journal metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO journal_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM journal_meta WHERE key = ?", key)
	return value, err
}
