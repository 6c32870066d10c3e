package local

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/recipebox/internal/backend"
	"github.com/dmitrijs2005/recipebox/internal/backend/local/auth"
	"github.com/dmitrijs2005/recipebox/internal/backend/local/repomanager"
	"github.com/dmitrijs2005/recipebox/internal/backend/local/repositories/sessions"
	"github.com/dmitrijs2005/recipebox/internal/backend/local/repositories/users"
	"github.com/dmitrijs2005/recipebox/internal/common"
	"github.com/dmitrijs2005/recipebox/internal/dbx"
	"github.com/dmitrijs2005/recipebox/internal/logging"
	"github.com/dmitrijs2005/recipebox/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const invalidCredentials = "Invalid login credentials"

// Service implements backend.Identity and backend.RecipeTable on top of a
// SQL database. Access tokens are HS256 JWTs whose ID claim names a row in
// the sessions table.
type Service struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
	jwtSecret   []byte
	sessionTTL  time.Duration
	hashCost    int
	now         func() time.Time

	dummyOnce sync.Once
	dummy     []byte
}

func NewService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger, secretKey string, sessionTTL time.Duration) *Service {
	if sessionTTL <= 0 {
		sessionTTL = time.Hour
	}
	return &Service{
		db:          db,
		repomanager: m,
		logger:      logger,
		jwtSecret:   []byte(secretKey),
		sessionTTL:  sessionTTL,
		hashCost:    bcrypt.DefaultCost,
		now:         time.Now,
	}
}

func (s *Service) SignUp(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, &common.AuthError{Message: "Signup requires a valid email and password"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	acc := &users.Account{
		User:         models.User{ID: uuid.NewString(), Email: email, CreatedAt: s.now().UTC().Truncate(time.Second)},
		PasswordHash: string(hash),
	}
	created, err := s.repomanager.Users(s.db).Create(ctx, acc)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, fmt.Errorf("%w: User already registered", common.ErrorAlreadyExists)
		}
		s.logger.Error(ctx, "sign up failed", "error", err)
		return nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "user registered", "user_id", created.User.ID)
	return &created.User, nil
}

func (s *Service) SignInWithPassword(ctx context.Context, email, password string) (*models.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	acc, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// Keep the miss path as slow as a wrong password.
			_ = bcrypt.CompareHashAndPassword(s.dummyHash(), []byte(password))
			return nil, &common.AuthError{Message: invalidCredentials}
		}
		s.logger.Error(ctx, "sign in lookup failed", "error", err)
		return nil, common.ErrorInternal
	}
	if bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)) != nil {
		return nil, &common.AuthError{Message: invalidCredentials}
	}

	now := s.now()
	sess := &sessions.Session{ID: uuid.NewString(), UserID: acc.User.ID, ExpiresAt: now.Add(s.sessionTTL).Truncate(time.Second)}

	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Sessions(tx)
		if _, err := repo.DeleteExpired(ctx, now); err != nil {
			return err
		}
		return repo.Create(ctx, sess)
	}); err != nil {
		s.logger.Error(ctx, "session create failed", "error", err)
		return nil, common.ErrorInternal
	}

	token, err := auth.GenerateToken(acc.User.ID, sess.ID, s.jwtSecret, sess.ExpiresAt)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &models.Session{User: acc.User, AccessToken: token, ExpiresAt: sess.ExpiresAt}, nil
}

func (s *Service) GetUser(ctx context.Context, accessToken string) (*models.User, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("%w: missing token", common.ErrorUnauthorized)
	}

	claims, err := auth.ParseToken(accessToken, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorUnauthorized, err)
	}

	sess, err := s.repomanager.Sessions(s.db).Find(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: session revoked", common.ErrorUnauthorized)
		}
		return nil, err
	}
	if !sess.ExpiresAt.After(s.now()) {
		return nil, fmt.Errorf("%w: %w", common.ErrorUnauthorized, common.ErrTokenExpired)
	}
	if sess.UserID != claims.UserID {
		return nil, fmt.Errorf("%w: %w", common.ErrorUnauthorized, common.ErrInvalidToken)
	}

	u, err := s.repomanager.Users(s.db).GetByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: user not found", common.ErrorUnauthorized)
		}
		return nil, err
	}
	return u, nil
}

// SignOut revokes the session behind the token. An expired token is a
// no-op; its row goes away with the next DeleteExpired sweep.
func (s *Service) SignOut(ctx context.Context, accessToken string) error {
	claims, err := auth.ParseToken(accessToken, s.jwtSecret)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return nil
		}
		return fmt.Errorf("%w: %w", common.ErrorUnauthorized, err)
	}
	return s.repomanager.Sessions(s.db).Delete(ctx, claims.ID)
}

func (s *Service) Insert(ctx context.Context, accessToken string, recipe *models.Recipe) (*models.Recipe, error) {
	u, err := s.GetUser(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	if recipe.OwnerID != u.ID {
		return nil, common.NewDataError(`new row violates row-level security policy for table "recipes"`)
	}

	r := *recipe
	r.ID = uuid.NewString()
	r.CreatedAt = s.now().UTC().Truncate(time.Second)

	created, err := s.repomanager.Recipes(s.db).Create(ctx, &r)
	if err != nil {
		return nil, common.NewDataError(err.Error())
	}
	return created, nil
}

func (s *Service) Select(ctx context.Context, accessToken string, q backend.Query) ([]models.Recipe, error) {
	u, err := s.GetUser(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	if q.OwnerID != u.ID {
		return []models.Recipe{}, nil
	}

	rows, err := s.repomanager.Recipes(s.db).List(ctx, q.OwnerID, q.NamePrefix)
	if err != nil {
		return nil, common.NewDataError(err.Error())
	}
	return rows, nil
}

func (s *Service) dummyHash() []byte {
	s.dummyOnce.Do(func() {
		s.dummy, _ = bcrypt.GenerateFromPassword(common.GenerateRandByteArray(16), s.hashCost)
	})
	return s.dummy
}
