// Package sqlite реализует хранилища поверх встраиваемой базы SQLite.
// Это основной backend для настольного режима работы: файл базы лежит
// рядом с данными приложения и не требует внешнего сервера.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const (
	defaultConnTimeout = 5 * time.Second
	opTimeout          = 5 * time.Second
)

// Store оборачивает SQL-подключение к файлу SQLite.
type Store struct {
	db *sql.DB
}

// Open открывает (при необходимости создаёт) файл базы и проверяет доступность.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// Драйвер без cgo не поддерживает конкурентную запись в один файл.
	db.SetMaxOpenConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, defaultConnTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.ExecContext(pingCtx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}

	return &Store{db: db}, nil
}

// DB возвращает raw SQL DB, когда нужен низкоуровневый доступ.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Ping проверяет доступность подключения.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlite store is not initialized")
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultConnTimeout)
	defer cancel()
	return s.db.PingContext(pingCtx)
}

// EnsureSchema создаёт таблицы, если их ещё нет. DDL идемпотентен,
// поэтому вызов безопасен при каждом старте.
func (s *Store) EnsureSchema(ctx context.Context) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS products (
			id         TEXT PRIMARY KEY,
			sku        TEXT NOT NULL DEFAULT '',
			name       TEXT NOT NULL,
			stock      INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS customers (
			id                 TEXT PRIMARY KEY,
			name               TEXT NOT NULL,
			email              TEXT NOT NULL DEFAULT '',
			store_credit_minor INTEGER NOT NULL DEFAULT 0,
			created_at         TIMESTAMP NOT NULL,
			updated_at         TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id           TEXT PRIMARY KEY,
			customer_id  TEXT NOT NULL,
			status       TEXT NOT NULL,
			notes        TEXT NOT NULL DEFAULT '',
			amount_minor INTEGER NOT NULL DEFAULT 0,
			version      INTEGER NOT NULL DEFAULT 1,
			created_at   TIMESTAMP NOT NULL,
			updated_at   TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			id          TEXT PRIMARY KEY,
			order_id    TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			product_id  TEXT NOT NULL,
			qty         INTEGER NOT NULL,
			price_minor INTEGER NOT NULL,
			created_at  TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id)`,
		`CREATE TABLE IF NOT EXISTS returns (
			id                  TEXT PRIMARY KEY,
			order_id            TEXT NOT NULL DEFAULT '',
			customer_id         TEXT NOT NULL,
			status              TEXT NOT NULL,
			refund_method       TEXT NOT NULL,
			refund_amount_minor INTEGER NOT NULL DEFAULT 0,
			reason              TEXT NOT NULL DEFAULT '',
			version             INTEGER NOT NULL DEFAULT 1,
			created_at          TIMESTAMP NOT NULL,
			updated_at          TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS return_items (
			id         TEXT PRIMARY KEY,
			return_id  TEXT NOT NULL REFERENCES returns(id) ON DELETE CASCADE,
			product_id TEXT NOT NULL,
			qty        INTEGER NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_return_items_return_id ON return_items(return_id)`,
	}

	for _, stmt := range ddl {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement: %w", err)
		}
	}

	return nil
}

// Close закрывает подключение к БД.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
