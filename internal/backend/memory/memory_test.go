package memory

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/recipebox/internal/backend"
	"github.com/dmitrijs2005/recipebox/internal/common"
	"github.com/dmitrijs2005/recipebox/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedIn(t *testing.T, s *Store, email string) *models.Session {
	t.Helper()
	ctx := context.Background()
	_, err := s.SignUp(ctx, email, "secret")
	require.NoError(t, err)
	sess, err := s.SignInWithPassword(ctx, email, "secret")
	require.NoError(t, err)
	return sess
}

func TestSignUpAndSignIn(t *testing.T) {
	s := New(time.Hour)
	ctx := context.Background()

	u, err := s.SignUp(ctx, " Cook@Example.com ", "secret")
	require.NoError(t, err)
	assert.Equal(t, "cook@example.com", u.Email)
	assert.NotEmpty(t, u.ID)

	_, err = s.SignUp(ctx, "cook@example.com", "other")
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)

	_, err = s.SignInWithPassword(ctx, "cook@example.com", "wrong")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
	assert.EqualError(t, err, "Invalid login credentials")

	sess, err := s.SignInWithPassword(ctx, "COOK@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, u.ID, sess.User.ID)

	got, err := s.GetUser(ctx, sess.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}

func TestGetUser_Failures(t *testing.T) {
	s := New(time.Minute)
	ctx := context.Background()
	sess := signedIn(t, s, "a@example.com")

	_, err := s.GetUser(ctx, "")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	_, err = s.GetUser(ctx, "bogus")
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	s.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = s.GetUser(ctx, sess.AccessToken)
	assert.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestSignOut_RevokesToken(t *testing.T) {
	s := New(time.Hour)
	ctx := context.Background()
	sess := signedIn(t, s, "a@example.com")

	require.NoError(t, s.SignOut(ctx, sess.AccessToken))

	_, err := s.GetUser(ctx, sess.AccessToken)
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
	assert.Error(t, s.SignOut(ctx, sess.AccessToken))
}

func TestInsertAndSelect_ScopedAndOrdered(t *testing.T) {
	s := New(time.Hour)
	ctx := context.Background()
	alice := signedIn(t, s, "alice@example.com")
	bob := signedIn(t, s, "bob@example.com")

	for _, name := range []string{"Carrot Cake", "apple pie", "Banana Bread"} {
		_, err := s.Insert(ctx, alice.AccessToken, &models.Recipe{OwnerID: alice.User.ID, Name: name, Ingredients: "i", Instructions: "s"})
		require.NoError(t, err)
	}
	_, err := s.Insert(ctx, bob.AccessToken, &models.Recipe{OwnerID: bob.User.ID, Name: "Brownies"})
	require.NoError(t, err)

	all, err := s.Select(ctx, alice.AccessToken, backend.Query{OwnerID: alice.User.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{"Banana Bread", "Carrot Cake", "apple pie"}, names(all))

	bs, err := s.Select(ctx, alice.AccessToken, backend.Query{OwnerID: alice.User.ID, NamePrefix: "b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Banana Bread"}, names(bs))

	other, err := s.Select(ctx, alice.AccessToken, backend.Query{OwnerID: bob.User.ID})
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestInsert_RejectsForeignOwner(t *testing.T) {
	s := New(time.Hour)
	ctx := context.Background()
	alice := signedIn(t, s, "alice@example.com")

	_, err := s.Insert(ctx, alice.AccessToken, &models.Recipe{OwnerID: "someone-else", Name: "x"})
	assert.ErrorIs(t, err, common.ErrData)
}

func names(rs []models.Recipe) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.Name)
	}
	return out
}
