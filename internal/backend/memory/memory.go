// Package memory is an in-process identity/data collaborator. It keeps
// users, sessions and recipes in maps and mirrors the semantics of the
// hosted backend: tokens are opaque, reads are scoped to the token's user.
package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/recipebox/internal/backend"
	"github.com/dmitrijs2005/recipebox/internal/common"
	"github.com/dmitrijs2005/recipebox/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type account struct {
	user models.User
	hash []byte
}

type session struct {
	userID  string
	expires time.Time
}

// Store implements backend.Identity and backend.RecipeTable.
type Store struct {
	mu         sync.RWMutex
	accounts   map[string]*account // by lowercased email
	sessions   map[string]session  // by token
	recipes    map[string]models.Recipe
	sessionTTL time.Duration
	now        func() time.Time
}

func New(sessionTTL time.Duration) *Store {
	if sessionTTL <= 0 {
		sessionTTL = time.Hour
	}
	return &Store{
		accounts:   make(map[string]*account),
		sessions:   make(map[string]session),
		recipes:    make(map[string]models.Recipe),
		sessionTTL: sessionTTL,
		now:        time.Now,
	}
}

// NewClient wraps a fresh Store into a backend.Client.
func NewClient(sessionTTL time.Duration) (*backend.Client, *Store) {
	s := New(sessionTTL)
	return backend.NewClient(s, s), s
}

func (s *Store) SignUp(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, &common.AuthError{Message: "Signup requires a valid email and password"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[email]; ok {
		return nil, fmt.Errorf("%w: User already registered", common.ErrorAlreadyExists)
	}
	u := models.User{ID: uuid.NewString(), Email: email, CreatedAt: s.now().UTC()}
	s.accounts[email] = &account{user: u, hash: hash}
	return &u, nil
}

func (s *Store) SignInWithPassword(ctx context.Context, email, password string) (*models.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	s.mu.RLock()
	acc, ok := s.accounts[email]
	s.mu.RUnlock()

	if !ok || bcrypt.CompareHashAndPassword(acc.hash, []byte(password)) != nil {
		return nil, &common.AuthError{Message: "Invalid login credentials"}
	}

	token, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrorInternal
	}
	expires := s.now().Add(s.sessionTTL)

	s.mu.Lock()
	s.sessions[token] = session{userID: acc.user.ID, expires: expires}
	s.mu.Unlock()

	return &models.Session{User: acc.user, AccessToken: token, ExpiresAt: expires}, nil
}

func (s *Store) GetUser(ctx context.Context, accessToken string) (*models.User, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("%w: missing token", common.ErrorUnauthorized)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[accessToken]
	if !ok {
		return nil, fmt.Errorf("%w: %w", common.ErrorUnauthorized, common.ErrInvalidToken)
	}
	if !sess.expires.After(s.now()) {
		return nil, fmt.Errorf("%w: %w", common.ErrorUnauthorized, common.ErrTokenExpired)
	}
	for _, acc := range s.accounts {
		if acc.user.ID == sess.userID {
			u := acc.user
			return &u, nil
		}
	}
	return nil, fmt.Errorf("%w: user not found", common.ErrorUnauthorized)
}

func (s *Store) SignOut(ctx context.Context, accessToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[accessToken]; !ok {
		return fmt.Errorf("%w: %w", common.ErrorUnauthorized, common.ErrInvalidToken)
	}
	delete(s.sessions, accessToken)
	return nil
}

func (s *Store) Insert(ctx context.Context, accessToken string, recipe *models.Recipe) (*models.Recipe, error) {
	u, err := s.GetUser(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	if recipe.OwnerID != u.ID {
		return nil, common.NewDataError(`new row violates row-level security policy for table "recipes"`)
	}

	r := *recipe
	r.ID = uuid.NewString()
	r.CreatedAt = s.now().UTC()

	s.mu.Lock()
	s.recipes[r.ID] = r
	s.mu.Unlock()

	return &r, nil
}

func (s *Store) Select(ctx context.Context, accessToken string, q backend.Query) ([]models.Recipe, error) {
	u, err := s.GetUser(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	// Row-level security: a token only ever sees its own rows.
	if q.OwnerID != u.ID {
		return []models.Recipe{}, nil
	}

	s.mu.RLock()
	out := make([]models.Recipe, 0, len(s.recipes))
	for _, r := range s.recipes {
		if r.OwnerID != q.OwnerID {
			continue
		}
		if q.NamePrefix != "" && !backend.HasPrefixFold(r.Name, q.NamePrefix) {
			continue
		}
		out = append(out, r)
	}
	s.mu.RUnlock()

	slices.SortStableFunc(out, func(a, b models.Recipe) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}
