// Package connect builds the backend.Client selected by configuration.
package connect

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/recipebox/internal/backend"
	"github.com/dmitrijs2005/recipebox/internal/backend/local"
	"github.com/dmitrijs2005/recipebox/internal/backend/memory"
	"github.com/dmitrijs2005/recipebox/internal/backend/supabase"
	"github.com/dmitrijs2005/recipebox/internal/common"
	"github.com/dmitrijs2005/recipebox/internal/logging"
)

const (
	KindSupabase = "supabase"
	KindLocal    = "local"
	KindMemory   = "memory"

	placeholderURL = "YOUR_SUPABASE_URL"
	placeholderKey = "YOUR_SUPABASE_ANON_KEY"
)

// Settings selects and parameterises a collaborator.
type Settings struct {
	Kind            string
	SupabaseURL     string
	SupabaseAnonKey string
	DatabaseDSN     string
	SecretKey       string
	SessionTTL      time.Duration
}

// Validate reports missing or placeholder credentials. Every error wraps
// common.ErrConfiguration.
func (s Settings) Validate() error {
	switch s.Kind {
	case KindSupabase:
		if s.SupabaseURL == "" || s.SupabaseURL == placeholderURL {
			return fmt.Errorf("%w: Supabase URL is missing or invalid", common.ErrConfiguration)
		}
		if u, err := url.Parse(s.SupabaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%w: Supabase URL is missing or invalid", common.ErrConfiguration)
		}
		if s.SupabaseAnonKey == "" || s.SupabaseAnonKey == placeholderKey {
			return fmt.Errorf("%w: Supabase anon key is missing or invalid", common.ErrConfiguration)
		}
	case KindLocal:
		if s.DatabaseDSN == "" {
			return fmt.Errorf("%w: database DSN is missing", common.ErrConfiguration)
		}
		if s.SecretKey == "" {
			return fmt.Errorf("%w: secret key is missing", common.ErrConfiguration)
		}
	case KindMemory:
	default:
		return fmt.Errorf("%w: unknown backend %q", common.ErrConfiguration, s.Kind)
	}
	return nil
}

// Open validates s and constructs the client. It is called once at
// application start.
func Open(ctx context.Context, s Settings, logger logging.Logger) (*backend.Client, error) {
	s.Kind = strings.ToLower(strings.TrimSpace(s.Kind))
	if err := s.Validate(); err != nil {
		return nil, err
	}

	switch s.Kind {
	case KindSupabase:
		logger.Info(ctx, "using hosted backend", "url", s.SupabaseURL)
		return supabase.NewClient(s.SupabaseURL, s.SupabaseAnonKey, &http.Client{}), nil
	case KindLocal:
		return local.Open(ctx, local.Settings{DSN: s.DatabaseDSN, SecretKey: s.SecretKey, SessionTTL: s.SessionTTL}, logger)
	default:
		logger.Warn(ctx, "using in-memory backend; data is lost on exit")
		c, _ := memory.NewClient(s.SessionTTL)
		return c, nil
	}
}
