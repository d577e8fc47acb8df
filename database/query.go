package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"restoran_server/structs"
	"strconv"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
)

// DB wraps the bun database handle with additional functionality
type DB struct {
	*bun.DB
}

// DSN builds a postgres:// URL from the configuration; DATABASE_URL wins when set.
func DSN(cfg *structs.DatabaseConfig) string {
	if cfg.URL != "" {
		return cfg.URL
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   cfg.Host + ":" + strconv.Itoa(cfg.Port),
		Path:   "/" + cfg.Name,
	}
	q := u.Query()
	q.Set("sslmode", cfg.SSLMode)
	u.RawQuery = q.Encode()

	return u.String()
}

// Connect opens the pool through the pgx stdlib driver and verifies it with a ping
func Connect(ctx context.Context, cfg *structs.DatabaseConfig, logger *gecho.Logger) (*DB, error) {
	sqldb, err := sql.Open("pgx", DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Apply pool settings from configuration
	sqldb.SetMaxOpenConns(cfg.MaxConns)
	sqldb.SetMaxIdleConns(cfg.MinConns)
	sqldb.SetConnMaxLifetime(cfg.MaxLifetime)
	sqldb.SetConnMaxIdleTime(cfg.MaxIdleTime)

	db := bun.NewDB(sqldb, pgdialect.New())

	// Add query hook to log slow queries and dropped connections
	db.AddQueryHook(&connectionHealthHook{logger: logger, slow: cfg.SlowQueryLog})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Connected to database successfully",
		gecho.Field("host", cfg.Host),
		gecho.Field("database", cfg.Name),
	)

	return &DB{db}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}

// Health checks the database connection health
func (db *DB) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return db.PingContext(ctx)
}

// GetStats returns connection pool statistics for monitoring
func (db *DB) GetStats() sql.DBStats {
	return db.DB.DB.Stats()
}

// connectionHealthHook implements bun.QueryHook to monitor connection health
type connectionHealthHook struct {
	logger *gecho.Logger
	slow   time.Duration
}

func (h *connectionHealthHook) BeforeQuery(ctx context.Context, event *bun.QueryEvent) context.Context {
	return ctx
}

func (h *connectionHealthHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	duration := time.Since(event.StartTime)
	if h.slow > 0 && duration > h.slow {
		h.logger.Warn("Slow database query detected",
			gecho.Field("query", event.Query),
			gecho.Field("duration", duration),
		)
	}

	// Handle EOF errors specifically
	if event.Err != nil && strings.Contains(event.Err.Error(), "EOF") {
		h.logger.Error("Database connection EOF error - connection may have been closed by server",
			gecho.Field("error", event.Err),
			gecho.Field("query", event.Query),
		)
	}
}
