// Package cache keeps a local sqlite snapshot of the confirmed remote
// transactions. The snapshot makes reads work offline: list, report and
// reconcile commands fall back to it when the remote store is
// unreachable. It is read-only from the app's perspective between
// refreshes; mutations always go through the gateway.
package cache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tawahcm/soquy/internal/models"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS transactions (
    id INTEGER PRIMARY KEY,
    client_id TEXT NOT NULL DEFAULT '',
    user_id TEXT NOT NULL,
    type TEXT NOT NULL,
    amount INTEGER NOT NULL,
    category TEXT NOT NULL DEFAULT '',
    wallet TEXT NOT NULL DEFAULT '',
    from_wallet TEXT NOT NULL DEFAULT '',
    to_wallet TEXT NOT NULL DEFAULT '',
    note TEXT NOT NULL DEFAULT '',
    created_at DATETIME NOT NULL,
    updated_at DATETIME
);
CREATE INDEX IF NOT EXISTS idx_transactions_user ON transactions(user_id, created_at);

CREATE TABLE IF NOT EXISTS meta (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// Cache is the sqlite-backed snapshot store.
type Cache struct {
	conn *sql.DB
}

// Open opens (or creates) the cache database at path.
func Open(path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}

	// WAL lets a refresh write while another process reads the snapshot.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA busy_timeout=500"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	conn.Exec("PRAGMA synchronous=NORMAL")

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("create cache schema: %w", err)
	}
	return &Cache{conn: conn}, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.conn.Close()
}

// Refresh replaces the user's snapshot with the given confirmed rows in
// one transaction and stamps the refresh time.
func (c *Cache) Refresh(userID string, txs []models.Transaction, at time.Time) error {
	dbTx, err := c.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin refresh: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.Exec("DELETE FROM transactions WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("clear snapshot: %w", err)
	}

	stmt, err := dbTx.Prepare(`INSERT INTO transactions
		(id, client_id, user_id, type, amount, category, wallet, from_wallet, to_wallet, note, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, tx := range txs {
		var updatedAt any
		if tx.UpdatedAt != nil {
			updatedAt = tx.UpdatedAt.UTC()
		}
		if _, err := stmt.Exec(tx.ID, tx.ClientID, tx.UserID, string(tx.Type), tx.Amount,
			tx.Category, tx.Wallet, tx.FromWallet, tx.ToWallet, tx.Note,
			tx.CreatedAt.UTC(), updatedAt); err != nil {
			return fmt.Errorf("insert snapshot row %d: %w", tx.ID, err)
		}
	}

	if _, err := dbTx.Exec(
		"INSERT INTO meta (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		refreshKey(userID), at.UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("stamp refresh time: %w", err)
	}

	return dbTx.Commit()
}

// List returns the cached confirmed transactions for a user, newest
// first, matching the remote list ordering.
func (c *Cache) List(userID string) ([]models.Transaction, error) {
	rows, err := c.conn.Query(`SELECT id, client_id, user_id, type, amount, category,
		wallet, from_wallet, to_wallet, note, created_at, updated_at
		FROM transactions WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query snapshot: %w", err)
	}
	defer rows.Close()

	var out []models.Transaction
	for rows.Next() {
		var tx models.Transaction
		var txType string
		var updatedAt sql.NullTime
		if err := rows.Scan(&tx.ID, &tx.ClientID, &tx.UserID, &txType, &tx.Amount,
			&tx.Category, &tx.Wallet, &tx.FromWallet, &tx.ToWallet, &tx.Note,
			&tx.CreatedAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}
		tx.Type = models.TxType(txType)
		if updatedAt.Valid {
			t := updatedAt.Time
			tx.UpdatedAt = &t
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}

// LastRefreshed returns when the user's snapshot was last refreshed, or
// the zero time if it never was.
func (c *Cache) LastRefreshed(userID string) (time.Time, error) {
	var value string
	err := c.conn.QueryRow("SELECT value FROM meta WHERE key = ?", refreshKey(userID)).Scan(&value)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("read refresh time: %w", err)
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse refresh time: %w", err)
	}
	return t, nil
}

func refreshKey(userID string) string {
	return "refreshed_at:" + userID
}
