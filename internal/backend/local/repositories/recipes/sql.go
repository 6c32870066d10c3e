package recipes

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/recipebox/internal/backend"
	"github.com/dmitrijs2005/recipebox/internal/dbx"
	"github.com/dmitrijs2005/recipebox/internal/models"
)

type SQLRepository struct {
	db      dbx.DBTX
	dialect dbx.Dialect
}

func NewSQLRepository(db dbx.DBTX, dialect dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect}
}

func (r *SQLRepository) Create(ctx context.Context, rec *models.Recipe) (*models.Recipe, error) {
	query :=
		`INSERT INTO recipes (id, user_id, name, ingredients, instructions, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, dbx.Rebind(r.dialect, query),
		rec.ID, rec.OwnerID, rec.Name, rec.Ingredients, rec.Instructions, rec.CreatedAt.Unix())
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rec, nil
}

func (r *SQLRepository) List(ctx context.Context, ownerID, prefix string) ([]models.Recipe, error) {
	query :=
		`SELECT id, user_id, name, ingredients, instructions, created_at
		 FROM recipes
		 WHERE user_id = $1`
	args := []any{ownerID}

	if prefix != "" {
		query += ` AND lower(name) LIKE lower($2) ESCAPE '\'`
		args = append(args, strings.ToLower(backend.EscapeLike(prefix))+"%")
	}
	query += ` ORDER BY name ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, dbx.Rebind(r.dialect, query), args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Recipe{}
	for rows.Next() {
		var rec models.Recipe
		var created int64
		if err := rows.Scan(&rec.ID, &rec.OwnerID, &rec.Name, &rec.Ingredients, &rec.Instructions, &created); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		rec.CreatedAt = time.Unix(created, 0).UTC()
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
