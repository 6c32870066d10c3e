// Package recipes is the single gateway between the application and the
// collaborator's recipes table. It scopes every read to the session owner
// and validates every write.
package recipes

import (
	"context"
	"errors"
	"reflect"
	"strings"

	"github.com/dmitrijs2005/recipebox/internal/backend"
	"github.com/dmitrijs2005/recipebox/internal/common"
	"github.com/dmitrijs2005/recipebox/internal/logging"
	"github.com/dmitrijs2005/recipebox/internal/metrics"
	"github.com/dmitrijs2005/recipebox/internal/models"
	"github.com/go-playground/validator/v10"
)

// NewRecipe is the user's input for a recipe. All three fields are
// required after trimming.
type NewRecipe struct {
	Name         string `form:"name" validate:"required"`
	Ingredients  string `form:"ingredients" validate:"required"`
	Instructions string `form:"instructions" validate:"required"`
}

// Trimmed returns a copy with surrounding whitespace removed.
func (n NewRecipe) Trimmed() NewRecipe {
	return NewRecipe{
		Name:         strings.TrimSpace(n.Name),
		Ingredients:  strings.TrimSpace(n.Ingredients),
		Instructions: strings.TrimSpace(n.Instructions),
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("form"); name != "" {
			return name
		}
		return strings.ToLower(f.Name)
	})
	return v
}

// Validate trims n and checks the required fields. It makes no network
// call. The returned error is a *common.ValidationError.
func Validate(n NewRecipe) (NewRecipe, error) {
	n = n.Trimmed()
	err := validate.Struct(n)
	if err == nil {
		return n, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return n, &common.ValidationError{}
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return n, &common.ValidationError{Fields: fields}
}

// NormalizeLetter turns a filter argument into a single uppercase A-Z
// letter, or "" for no filter.
func NormalizeLetter(s string) string {
	s = strings.TrimSpace(s)
	if len(s) != 1 {
		return ""
	}
	c := s[0]
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	if c < 'A' || c > 'Z' {
		return ""
	}
	return string(c)
}

// Service is the recipe facade. It holds the collaborator's table handle;
// the session is passed per call and never stored.
type Service struct {
	table  backend.RecipeTable
	logger logging.Logger
}

func NewService(table backend.RecipeTable, logger logging.Logger) *Service {
	return &Service{table: table, logger: logger.With("module", "recipes")}
}

// ListRecipes returns the owner's recipes, optionally restricted to names
// starting with prefix. It never fails: a missing session or a
// collaborator error yields an empty slice.
func (s *Service) ListRecipes(ctx context.Context, sess *models.Session, prefix string) []models.Recipe {
	rows, err := s.FetchRecipes(ctx, sess, prefix)
	if err != nil {
		return []models.Recipe{}
	}
	return rows
}

// FetchRecipes is ListRecipes with the failure surfaced.
func (s *Service) FetchRecipes(ctx context.Context, sess *models.Session, prefix string) ([]models.Recipe, error) {
	if sess == nil || sess.UserID() == "" {
		s.logger.Warn(ctx, "recipe list requested without a session")
		metrics.RecipeReads.WithLabelValues(metrics.ResultUnauthorized).Inc()
		return []models.Recipe{}, common.ErrorUnauthorized
	}

	owner := sess.UserID()
	rows, err := s.table.Select(ctx, sess.AccessToken, backend.Query{OwnerID: owner, NamePrefix: prefix})
	if err != nil {
		s.logger.Error(ctx, "error fetching recipes", "user_id", owner, "prefix", prefix, "error", err)
		metrics.RecipeReads.WithLabelValues(metrics.ResultError).Inc()
		return []models.Recipe{}, err
	}

	out := make([]models.Recipe, 0, len(rows))
	for _, r := range rows {
		if r.OwnerID != owner {
			s.logger.Error(ctx, "discarding recipe of another owner", "user_id", owner, "recipe_id", r.ID)
			metrics.OwnershipViolations.Inc()
			continue
		}
		out = append(out, r)
	}

	metrics.RecipeReads.WithLabelValues(metrics.ResultOK).Inc()
	return out, nil
}

// GetRecipe finds one of the owner's recipes by ID.
func (s *Service) GetRecipe(ctx context.Context, sess *models.Session, id string) (*models.Recipe, error) {
	rows, err := s.FetchRecipes(ctx, sess, "")
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].ID == id {
			return &rows[i], nil
		}
	}
	return nil, common.ErrorNotFound
}

// CreateRecipe validates n and inserts it for the session's user. A
// validation failure returns before any collaborator call. There is no
// retry.
func (s *Service) CreateRecipe(ctx context.Context, sess *models.Session, n NewRecipe) (*models.Recipe, error) {
	n, err := Validate(n)
	if err != nil {
		metrics.RecipeWrites.WithLabelValues(metrics.ResultInvalid).Inc()
		return nil, err
	}
	if sess == nil || sess.UserID() == "" {
		metrics.RecipeWrites.WithLabelValues(metrics.ResultUnauthorized).Inc()
		return nil, common.ErrorUnauthorized
	}

	rec := &models.Recipe{
		OwnerID:      sess.UserID(),
		Name:         n.Name,
		Ingredients:  n.Ingredients,
		Instructions: n.Instructions,
	}
	saved, err := s.table.Insert(ctx, sess.AccessToken, rec)
	if err != nil {
		s.logger.Error(ctx, "error saving recipe", "user_id", rec.OwnerID, "error", err)
		metrics.RecipeWrites.WithLabelValues(metrics.ResultError).Inc()
		var de *common.DataError
		if errors.As(err, &de) {
			return nil, de
		}
		return nil, common.NewDataError(err.Error())
	}

	s.logger.Info(ctx, "recipe saved", "user_id", rec.OwnerID, "recipe_id", saved.ID)
	metrics.RecipeWrites.WithLabelValues(metrics.ResultOK).Inc()
	return saved, nil
}
