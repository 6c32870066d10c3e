// Package local is the self-hosted identity/data collaborator. It stores
// users, sessions and recipes in PostgreSQL or SQLite and issues its own
// access tokens.
package local

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/recipebox/internal/backend"
	"github.com/dmitrijs2005/recipebox/internal/backend/local/repomanager"
	"github.com/dmitrijs2005/recipebox/internal/common"
	"github.com/dmitrijs2005/recipebox/internal/dbx"
	"github.com/dmitrijs2005/recipebox/internal/logging"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

type Settings struct {
	DSN        string
	SecretKey  string
	SessionTTL time.Duration
}

// DialectForDSN picks the SQL dialect from a DSN and returns the DSN in the
// form the driver expects. postgres:// URLs and key=value strings go to
// pgx, everything else is treated as a SQLite path (an optional sqlite://
// or sqlite: scheme is stripped).
func DialectForDSN(dsn string) (dbx.Dialect, string) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"), strings.Contains(dsn, "host="):
		return dbx.Postgres, dsn
	case strings.HasPrefix(dsn, "sqlite://"):
		return dbx.SQLite, strings.TrimPrefix(dsn, "sqlite://")
	case strings.HasPrefix(dsn, "sqlite:"):
		return dbx.SQLite, strings.TrimPrefix(dsn, "sqlite:")
	default:
		return dbx.SQLite, dsn
	}
}

// Open connects, migrates and returns a client backed by the database.
func Open(ctx context.Context, st Settings, logger logging.Logger) (*backend.Client, error) {
	if st.DSN == "" {
		return nil, fmt.Errorf("%w: database DSN is empty", common.ErrConfiguration)
	}
	if st.SecretKey == "" {
		return nil, fmt.Errorf("%w: secret key is empty", common.ErrConfiguration)
	}

	dialect, dsn := DialectForDSN(st.DSN)

	db, err := sql.Open(dialect.Driver(), dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if dialect == dbx.SQLite {
		// One writer keeps SQLite from reporting SQLITE_BUSY.
		db.SetMaxOpenConns(1)
		if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("db init error: %w", err)
		}
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := repomanager.NewSQLRepositoryManager(dialect)
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	logger.Info(ctx, "local backend ready", "dialect", string(dialect))

	svc := NewService(db, rm, logger, st.SecretKey, st.SessionTTL)
	return backend.NewClient(svc, svc, db.Close), nil
}
