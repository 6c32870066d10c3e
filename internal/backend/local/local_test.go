package local

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/recipebox/internal/backend"
	"github.com/dmitrijs2005/recipebox/internal/common"
	"github.com/dmitrijs2005/recipebox/internal/dbx"
	"github.com/dmitrijs2005/recipebox/internal/logging"
	"github.com/dmitrijs2005/recipebox/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func openSQLite(t *testing.T) (*backend.Client, *Service) {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	c, err := Open(context.Background(), Settings{
		DSN:        "sqlite://file:" + name + "?mode=memory&cache=shared",
		SecretKey:  "test-secret",
		SessionTTL: time.Hour,
	}, logging.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	svc := c.Auth.(*Service)
	svc.hashCost = bcrypt.MinCost
	return c, svc
}

func TestDialectForDSN(t *testing.T) {
	tests := []struct {
		dsn     string
		dialect dbx.Dialect
		out     string
	}{
		{"postgres://u:p@localhost:5432/db", dbx.Postgres, "postgres://u:p@localhost:5432/db"},
		{"postgresql://localhost/db", dbx.Postgres, "postgresql://localhost/db"},
		{"host=localhost user=u dbname=db", dbx.Postgres, "host=localhost user=u dbname=db"},
		{"sqlite://recipes.db", dbx.SQLite, "recipes.db"},
		{"sqlite:recipes.db", dbx.SQLite, "recipes.db"},
		{"/var/lib/recipebox.db", dbx.SQLite, "/var/lib/recipebox.db"},
	}
	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			d, out := DialectForDSN(tt.dsn)
			assert.Equal(t, tt.dialect, d)
			assert.Equal(t, tt.out, out)
		})
	}
}

func TestOpen_ConfigurationErrors(t *testing.T) {
	_, err := Open(context.Background(), Settings{SecretKey: "k"}, logging.NewNopLogger())
	assert.ErrorIs(t, err, common.ErrConfiguration)

	_, err = Open(context.Background(), Settings{DSN: "sqlite::memory:"}, logging.NewNopLogger())
	assert.ErrorIs(t, err, common.ErrConfiguration)
}

func TestSQLite_SignUpSignInGetUser(t *testing.T) {
	c, _ := openSQLite(t)
	ctx := context.Background()

	u, err := c.Auth.SignUp(ctx, " Cook@Example.com ", "secret")
	require.NoError(t, err)
	assert.Equal(t, "cook@example.com", u.Email)

	_, err = c.Auth.SignUp(ctx, "cook@example.com", "other")
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)

	_, err = c.Auth.SignInWithPassword(ctx, "cook@example.com", "wrong")
	var ae *common.AuthError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "Invalid login credentials", ae.Message)

	_, err = c.Auth.SignInWithPassword(ctx, "nobody@example.com", "secret")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	sess, err := c.Auth.SignInWithPassword(ctx, "cook@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, u.ID, sess.UserID())
	assert.NotEmpty(t, sess.AccessToken)

	got, err := c.Auth.GetUser(ctx, sess.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}

func TestSQLite_GetUserRejectsBadTokens(t *testing.T) {
	c, _ := openSQLite(t)
	ctx := context.Background()

	_, err := c.Auth.GetUser(ctx, "")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	_, err = c.Auth.GetUser(ctx, "not-a-jwt")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestSQLite_SignOutRevokes(t *testing.T) {
	c, _ := openSQLite(t)
	ctx := context.Background()

	_, err := c.Auth.SignUp(ctx, "cook@example.com", "secret")
	require.NoError(t, err)
	sess, err := c.Auth.SignInWithPassword(ctx, "cook@example.com", "secret")
	require.NoError(t, err)

	require.NoError(t, c.Auth.SignOut(ctx, sess.AccessToken))

	_, err = c.Auth.GetUser(ctx, sess.AccessToken)
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestSQLite_SessionExpiry(t *testing.T) {
	c, svc := openSQLite(t)
	ctx := context.Background()

	_, err := c.Auth.SignUp(ctx, "cook@example.com", "secret")
	require.NoError(t, err)
	sess, err := c.Auth.SignInWithPassword(ctx, "cook@example.com", "secret")
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	_, err = c.Auth.GetUser(ctx, sess.AccessToken)
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
	assert.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestSQLite_RecipesScopedAndOrdered(t *testing.T) {
	c, _ := openSQLite(t)
	ctx := context.Background()

	alice, err := c.Auth.SignUp(ctx, "alice@example.com", "pw")
	require.NoError(t, err)
	bob, err := c.Auth.SignUp(ctx, "bob@example.com", "pw")
	require.NoError(t, err)
	as, err := c.Auth.SignInWithPassword(ctx, "alice@example.com", "pw")
	require.NoError(t, err)
	bs, err := c.Auth.SignInWithPassword(ctx, "bob@example.com", "pw")
	require.NoError(t, err)

	for _, name := range []string{"Carrot Cake", "apple pie", "Banana Bread", "Apricot Jam"} {
		_, err := c.Recipes.Insert(ctx, as.AccessToken, &models.Recipe{OwnerID: alice.ID, Name: name, Ingredients: "i", Instructions: "s"})
		require.NoError(t, err)
	}
	_, err = c.Recipes.Insert(ctx, bs.AccessToken, &models.Recipe{OwnerID: bob.ID, Name: "Anchovy Toast", Ingredients: "i", Instructions: "s"})
	require.NoError(t, err)

	all, err := c.Recipes.Select(ctx, as.AccessToken, backend.Query{OwnerID: alice.ID})
	require.NoError(t, err)
	names := make([]string, 0, len(all))
	for _, r := range all {
		names = append(names, r.Name)
		assert.Equal(t, alice.ID, r.OwnerID)
		assert.NotEmpty(t, r.ID)
	}
	assert.Equal(t, []string{"Apricot Jam", "Banana Bread", "Carrot Cake", "apple pie"}, names)

	a, err := c.Recipes.Select(ctx, as.AccessToken, backend.Query{OwnerID: alice.ID, NamePrefix: "a"})
	require.NoError(t, err)
	require.Len(t, a, 2)
	assert.Equal(t, "Apricot Jam", a[0].Name)
	assert.Equal(t, "apple pie", a[1].Name)

	foreign, err := c.Recipes.Select(ctx, as.AccessToken, backend.Query{OwnerID: bob.ID})
	require.NoError(t, err)
	assert.Empty(t, foreign)

	_, err = c.Recipes.Insert(ctx, as.AccessToken, &models.Recipe{OwnerID: bob.ID, Name: "x", Ingredients: "i", Instructions: "s"})
	assert.ErrorIs(t, err, common.ErrData)
}

func TestSQLite_PrefixWithLikeMetacharacters(t *testing.T) {
	c, _ := openSQLite(t)
	ctx := context.Background()

	u, err := c.Auth.SignUp(ctx, "cook@example.com", "pw")
	require.NoError(t, err)
	s, err := c.Auth.SignInWithPassword(ctx, "cook@example.com", "pw")
	require.NoError(t, err)

	for _, name := range []string{"100% Rye", "1000 Island"} {
		_, err := c.Recipes.Insert(ctx, s.AccessToken, &models.Recipe{OwnerID: u.ID, Name: name, Ingredients: "i", Instructions: "s"})
		require.NoError(t, err)
	}

	got, err := c.Recipes.Select(ctx, s.AccessToken, backend.Query{OwnerID: u.ID, NamePrefix: "100%"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "100% Rye", got[0].Name)
}

func TestSQLite_InsertRequiresSession(t *testing.T) {
	c, _ := openSQLite(t)

	_, err := c.Recipes.Insert(context.Background(), "", &models.Recipe{Name: "x"})
	assert.True(t, errors.Is(err, common.ErrorUnauthorized))
}
