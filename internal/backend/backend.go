// Package backend describes the identity/data collaborator RecipeBox runs
// against. The collaborator owns authentication and row storage; RecipeBox
// consumes it through these two capabilities only.
package backend

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/recipebox/internal/models"
)

// Identity answers "who is signed in" and manages sessions.
type Identity interface {
	// GetUser resolves an access token to its user. An empty, expired or
	// revoked token yields an error wrapping common.ErrorUnauthorized.
	GetUser(ctx context.Context, accessToken string) (*models.User, error)

	SignInWithPassword(ctx context.Context, email, password string) (*models.Session, error)

	SignUp(ctx context.Context, email, password string) (*models.User, error)

	SignOut(ctx context.Context, accessToken string) error
}

// Query selects recipe rows. OwnerID is mandatory; NamePrefix, when set,
// matches the start of the name case-insensitively. Rows come back ordered
// by name ascending.
type Query struct {
	OwnerID    string
	NamePrefix string
}

// RecipeTable is the collaborator's recipes table, accessed with the
// caller's credentials.
type RecipeTable interface {
	Insert(ctx context.Context, accessToken string, recipe *models.Recipe) (*models.Recipe, error)
	Select(ctx context.Context, accessToken string, q Query) ([]models.Recipe, error)
}

// Client is a constructed collaborator handle. It is created once at
// application start and passed to the guard and the facade.
type Client struct {
	Auth    Identity
	Recipes RecipeTable

	closers []func() error
}

func NewClient(auth Identity, recipes RecipeTable, closers ...func() error) *Client {
	return &Client{Auth: auth, Recipes: recipes, closers: closers}
}

// Close releases connections held by the adapter.
func (c *Client) Close() error {
	var errs []error
	for _, fn := range c.closers {
		if err := fn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
