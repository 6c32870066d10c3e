package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/recipebox/internal/flagx"
	"github.com/dmitrijs2005/recipebox/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations
// accept both "15s" strings and integer nanoseconds. Absent fields leave
// the current value alone.
type JsonConfig struct {
	HTTPAddr        string          `json:"http_addr"`
	Backend         string          `json:"backend"`
	SupabaseURL     string          `json:"supabase_url"`
	SupabaseAnonKey string          `json:"supabase_anon_key"`
	DatabaseDSN     string          `json:"database_dsn"`
	SecretKey       string          `json:"secret_key"`
	SessionTTL      *timex.Duration `json:"session_ttl"`
	SaveRedirect    *timex.Duration `json:"save_redirect"`
	CookieSecure    *bool           `json:"cookie_secure"`
	LogLevel        string          `json:"log_level"`
	LogFormat       string          `json:"log_format"`
}

// parseJson loads the file named by -c or -config, if any, into cfg.
func parseJson(cfg *Config, args []string) error {
	path := flagx.JsonConfigFlags(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.HTTPAddr, c.HTTPAddr)
	set(&cfg.Backend, c.Backend)
	set(&cfg.SupabaseURL, c.SupabaseURL)
	set(&cfg.SupabaseAnonKey, c.SupabaseAnonKey)
	set(&cfg.DatabaseDSN, c.DatabaseDSN)
	set(&cfg.SecretKey, c.SecretKey)
	set(&cfg.LogLevel, c.LogLevel)
	set(&cfg.LogFormat, c.LogFormat)
	if c.SessionTTL != nil {
		cfg.SessionTTL = c.SessionTTL.Duration
	}
	if c.SaveRedirect != nil {
		cfg.SaveRedirect = c.SaveRedirect.Duration
	}
	if c.CookieSecure != nil {
		cfg.CookieSecure = *c.CookieSecure
	}
	return nil
}
