package cache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"
	_ "modernc.org/sqlite"
)

// ResultCache is the persistent, content-addressed store for merge-group
// results. Keys hash the operation, its arguments and the merge-logic
// version string, so a hit short-circuits the whole recomputation and any
// policy change anywhere in the merge graph invalidates the entry.
type ResultCache struct {
	db      *sql.DB
	recency time.Duration
	now     func() time.Time
}

const resultSchema = `
CREATE TABLE IF NOT EXISTS results (
	key        TEXT PRIMARY KEY,
	payload    BLOB NOT NULL,
	created_at INTEGER NOT NULL
);`

// OpenResultCache opens (creating if needed) the on-disk cache at path.
// recency is the window inside which event-dated records are always
// recomputed: recent data may still change upstream.
func OpenResultCache(path string, recency time.Duration) (*ResultCache, error) {
	if path == "" {
		return nil, errors.New("result cache path is required")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open result cache: %w", err)
	}
	if _, err := db.Exec(resultSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init result cache schema: %w", err)
	}
	return &ResultCache{db: db, recency: recency, now: time.Now}, nil
}

func (c *ResultCache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Key derives the content address for one cached computation.
func (c *ResultCache) Key(op, version string, args any) (string, error) {
	encoded, err := sonic.Marshal(args)
	if err != nil {
		return "", fmt.Errorf("encode cache key args: %w", err)
	}
	h := sha256.New()
	h.Write([]byte(op))
	h.Write([]byte{0})
	h.Write([]byte(version))
	h.Write([]byte{0})
	h.Write(encoded)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Bypass reports whether a record dated eventDate is too recent to trust
// the cache for.
func (c *ResultCache) Bypass(eventDate time.Time) bool {
	if c == nil || c.recency <= 0 {
		return false
	}
	return c.now().Sub(eventDate) < c.recency
}

// Get loads a cached payload into out. A decode failure is treated as a
// miss: the entry is stale garbage and will be overwritten.
func (c *ResultCache) Get(ctx context.Context, key string, out any) (bool, error) {
	if c == nil {
		return false, nil
	}
	var payload []byte
	err := c.db.QueryRowContext(ctx, `SELECT payload FROM results WHERE key = ?`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read result cache: %w", err)
	}
	if err := sonic.Unmarshal(payload, out); err != nil {
		return false, nil
	}
	return true, nil
}

// Put stores a computed payload under key, replacing any previous entry.
func (c *ResultCache) Put(ctx context.Context, key string, value any) error {
	if c == nil {
		return nil
	}
	payload, err := sonic.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode result cache payload: %w", err)
	}
	_, err = c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO results (key, payload, created_at) VALUES (?, ?, ?)`,
		key, payload, c.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("write result cache: %w", err)
	}
	return nil
}
