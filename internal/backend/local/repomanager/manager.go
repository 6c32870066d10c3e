// Package repomanager vends the SQL repositories of the self-hosted backend
// for a given dialect and runs the embedded goose migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/recipebox/internal/backend/local/migrations"
	"github.com/dmitrijs2005/recipebox/internal/backend/local/repositories/recipes"
	"github.com/dmitrijs2005/recipebox/internal/backend/local/repositories/sessions"
	"github.com/dmitrijs2005/recipebox/internal/backend/local/repositories/users"
	"github.com/dmitrijs2005/recipebox/internal/dbx"
	"github.com/pressly/goose/v3"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Sessions(db dbx.DBTX) sessions.Repository
	Recipes(db dbx.DBTX) recipes.Repository
}

// SQLRepositoryManager binds repositories to one SQL dialect.
type SQLRepositoryManager struct {
	dialect dbx.Dialect
}

func NewSQLRepositoryManager(dialect dbx.Dialect) *SQLRepositoryManager {
	return &SQLRepositoryManager{dialect: dialect}
}

func (m *SQLRepositoryManager) Dialect() dbx.Dialect { return m.dialect }

func (m *SQLRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLRepository(db, m.dialect)
}

func (m *SQLRepositoryManager) Sessions(db dbx.DBTX) sessions.Repository {
	return sessions.NewSQLRepository(db, m.dialect)
}

func (m *SQLRepositoryManager) Recipes(db dbx.DBTX) recipes.Repository {
	return recipes.NewSQLRepository(db, m.dialect)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// gooseDialect maps a dbx dialect to the name goose expects.
func gooseDialect(d dbx.Dialect) string {
	if d == dbx.SQLite {
		return "sqlite3"
	}
	return "postgres"
}

// RunMigrations applies the embedded migrations to db.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(gooseDialect(m.dialect)); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}
