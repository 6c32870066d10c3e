// Package config handles configuration for the web server, including
// defaults, environment (.env), a JSON overlay and command-line flags.
package config

import (
	"time"

	"github.com/dmitrijs2005/recipebox/internal/backend/connect"
)

// Config holds runtime settings for the RecipeBox web server.
//
// Fields:
//   - HTTPAddr: bind address for the HTTP listener.
//   - Backend: collaborator kind, one of supabase, local, memory.
//   - SupabaseURL / SupabaseAnonKey: hosted project credentials.
//   - DatabaseDSN: DSN for the local backend (postgres:// or a SQLite path).
//   - SecretKey: HMAC secret for local access tokens.
//   - SessionTTL: lifetime of local and in-memory sessions.
//   - SaveRedirect: delay before returning to the list after a save; 0 disables.
//   - CookieSecure: mark the session cookie Secure.
//   - LogLevel / LogFormat: slog settings.
type Config struct {
	HTTPAddr        string
	Backend         string
	SupabaseURL     string
	SupabaseAnonKey string
	DatabaseDSN     string
	SecretKey       string
	SessionTTL      time.Duration
	SaveRedirect    time.Duration
	CookieSecure    bool
	LogLevel        string
	LogFormat       string
}

// LoadDefaults populates Config with development defaults. The Supabase
// credentials are placeholders and fail validation until replaced.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":8080"
	c.Backend = connect.KindSupabase
	c.SupabaseURL = "YOUR_SUPABASE_URL"
	c.SupabaseAnonKey = "YOUR_SUPABASE_ANON_KEY"
	c.DatabaseDSN = "sqlite://recipebox.db"
	c.SecretKey = ""
	c.SessionTTL = time.Hour
	c.SaveRedirect = 0
	c.CookieSecure = false
	c.LogLevel = "info"
	c.LogFormat = "json"
}

// LoadConfig builds a Config from defaults, then the environment, then an
// optional JSON file, then command-line flags. args excludes the program
// name.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	loadDotenv()
	if err := parseEnv(cfg, osLookup); err != nil {
		return cfg, err
	}
	if err := parseJson(cfg, args); err != nil {
		return cfg, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// BackendSettings returns the collaborator selection for connect.Open.
func (c *Config) BackendSettings() connect.Settings {
	return connect.Settings{
		Kind:            c.Backend,
		SupabaseURL:     c.SupabaseURL,
		SupabaseAnonKey: c.SupabaseAnonKey,
		DatabaseDSN:     c.DatabaseDSN,
		SecretKey:       c.SecretKey,
		SessionTTL:      c.SessionTTL,
	}
}

// Validate reports missing or placeholder credentials as
// common.ErrConfiguration.
func (c *Config) Validate() error {
	return c.BackendSettings().Validate()
}
