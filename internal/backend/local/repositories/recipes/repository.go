// Package recipes is the SQL-backed recipe table of the self-hosted backend.
package recipes

import (
	"context"

	"github.com/dmitrijs2005/recipebox/internal/models"
)

type Repository interface {
	Create(ctx context.Context, r *models.Recipe) (*models.Recipe, error)
	// List returns the owner's recipes ordered by name. A non-empty prefix
	// keeps only names starting with it, compared case-insensitively.
	List(ctx context.Context, ownerID, prefix string) ([]models.Recipe, error)
}
