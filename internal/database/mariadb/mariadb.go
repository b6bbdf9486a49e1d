package mariadb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/kozaktomas/facegate/internal/config"
)

// Pool manages a MariaDB connection pool.
type Pool struct {
	db *sql.DB
}

// prepareDSN forces ClientFoundRows so that RowsAffected reports matched
// rows. Without it an UPDATE that writes an unchanged name reports zero.
func prepareDSN(dsn string) (string, error) {
	parsed, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parse MariaDB DSN: %w", err)
	}
	parsed.ClientFoundRows = true
	parsed.ParseTime = true
	return parsed.FormatDSN(), nil
}

// NewPool creates a new MariaDB connection pool.
func NewPool(cfg *config.DatabaseConfig) (*Pool, error) {
	if cfg == nil || cfg.URL == "" {
		return nil, errors.New("MariaDB DSN is required")
	}

	dsn, err := prepareDSN(cfg.URL)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MariaDB: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping MariaDB: %w", err)
	}

	return &Pool{db: db}, nil
}

const createNeighborhoods = `
	CREATE TABLE IF NOT EXISTS neighborhoods (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX idx_neighborhoods_name (name)
	) DEFAULT CHARSET = utf8mb4`

// Migrate creates the schema if it does not exist yet.
func (p *Pool) Migrate(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, createNeighborhoods); err != nil {
		return fmt.Errorf("create neighborhoods table: %w", err)
	}
	slog.Info("schema ready", "driver", "mysql")
	return nil
}

// Initialize opens the pool and ensures the schema exists.
func Initialize(cfg *config.DatabaseConfig) (*Pool, error) {
	pool, err := NewPool(cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Migrate(context.Background()); err != nil {
		_ = pool.Close()
		return nil, err
	}
	return pool, nil
}

// Close closes the connection pool.
func (p *Pool) Close() error {
	if p.db != nil {
		if err := p.db.Close(); err != nil {
			return fmt.Errorf("closing database connection: %w", err)
		}
	}
	return nil
}
