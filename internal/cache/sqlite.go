package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"StockLens/internal/model"
)

// SQLiteCache keeps one row per symbol with the series encoded as JSON.
// Survives restarts, unlike MemoryCache.
type SQLiteCache struct {
	db  *sql.DB
	mu  sync.Mutex
	log *logrus.Entry
	now func() time.Time
}

// NewSQLiteCache opens (or creates) the database at dbPath.
func NewSQLiteCache(dbPath string, log *logrus.Logger) (*SQLiteCache, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	c := &SQLiteCache{db: db, log: log.WithField("component", "cache"), now: time.Now}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	c.log.WithField("path", dbPath).Info("sqlite cache opened")
	return c, nil
}

func (c *SQLiteCache) migrate() error {
	_, err := c.db.Exec(`CREATE TABLE IF NOT EXISTS series_cache (
		symbol    TEXT PRIMARY KEY,
		stored_at INTEGER NOT NULL,
		payload   TEXT NOT NULL
	)`)
	return err
}

func (c *SQLiteCache) Get(ctx context.Context, symbol string) (*Entry, error) {
	var (
		storedAt int64
		payload  string
	)
	err := c.db.QueryRowContext(ctx,
		`SELECT stored_at, payload FROM series_cache WHERE symbol = ?`, key(symbol),
	).Scan(&storedAt, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query cache: %w", err)
	}

	var series model.PriceSeries
	if err := json.Unmarshal([]byte(payload), &series); err != nil {
		return nil, fmt.Errorf("decode cached series: %w", err)
	}
	return &Entry{Series: series, StoredAt: time.UnixMilli(storedAt)}, nil
}

func (c *SQLiteCache) Set(ctx context.Context, symbol string, series model.PriceSeries) error {
	payload, err := json.Marshal(series)
	if err != nil {
		return fmt.Errorf("encode series: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	_, err = c.db.ExecContext(ctx, `INSERT INTO series_cache (symbol, stored_at, payload)
		VALUES (?, ?, ?)
		ON CONFLICT(symbol) DO UPDATE SET stored_at = excluded.stored_at, payload = excluded.payload`,
		key(symbol), c.now().UnixMilli(), string(payload),
	)
	if err != nil {
		return fmt.Errorf("upsert cache row: %w", err)
	}
	return nil
}

func (c *SQLiteCache) Name() string { return "sqlite" }

func (c *SQLiteCache) Close() error {
	c.log.Info("closing sqlite cache")
	return c.db.Close()
}
