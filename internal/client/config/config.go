package config

import (
	"time"

	"github.com/dmitrijs2005/recipebox/internal/backend/connect"
)

// Config holds runtime settings for the RecipeBox CLI.
//
// Backend selection mirrors the web server. SessionDir is where the access
// token is kept between runs. The S3* fields configure the export target;
// an empty S3Bucket disables export.
type Config struct {
	Backend         string
	SupabaseURL     string
	SupabaseAnonKey string
	DatabaseDSN     string
	SecretKey       string
	SessionTTL      time.Duration
	SessionDir      string

	S3BaseEndpoint string
	S3Region       string
	S3Bucket       string
	S3AccessKey    string
	S3SecretKey    string

	LogLevel string
}

// LoadDefaults populates c with development defaults.
func (c *Config) LoadDefaults() {
	c.Backend = connect.KindSupabase
	c.SupabaseURL = "YOUR_SUPABASE_URL"
	c.SupabaseAnonKey = "YOUR_SUPABASE_ANON_KEY"
	c.DatabaseDSN = "sqlite://recipebox.db"
	c.SecretKey = ""
	c.SessionTTL = time.Hour
	c.SessionDir = ".recipebox"
	c.S3BaseEndpoint = "http://localhost:9000"
	c.S3Region = "us-east-1"
	c.S3Bucket = ""
	c.S3AccessKey = ""
	c.S3SecretKey = ""
	c.LogLevel = "warn"
}

// LoadConfig constructs a Config from defaults, the environment, an
// optional JSON file and flags, later sources taking precedence. args
// excludes the program name.
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

// ExportEnabled reports whether a bucket has been configured.
func (c *Config) ExportEnabled() bool {
	return c.S3Bucket != ""
}
