package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// EnvPrefix is prepended to every environment key.
const EnvPrefix = "RECIPEBOX_"

type lookupFunc func(string) (string, bool)

func osLookup(key string) (string, bool) {
	return os.LookupEnv(key)
}

// loadDotenv copies .env from the working directory into the process
// environment. Variables that are already set win.
func loadDotenv() {
	_ = godotenv.Load()
}

// parseEnv overlays RECIPEBOX_* variables. SUPABASE_URL and
// SUPABASE_ANON_KEY are accepted unprefixed as well.
func parseEnv(cfg *Config, lookup lookupFunc) error {
	str := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v, ok := lookup(k); ok && v != "" {
				*dst = v
				return
			}
		}
	}

	str(&cfg.HTTPAddr, EnvPrefix+"HTTP_ADDR")
	str(&cfg.Backend, EnvPrefix+"BACKEND")
	str(&cfg.SupabaseURL, EnvPrefix+"SUPABASE_URL", "SUPABASE_URL")
	str(&cfg.SupabaseAnonKey, EnvPrefix+"SUPABASE_ANON_KEY", "SUPABASE_ANON_KEY")
	str(&cfg.DatabaseDSN, EnvPrefix+"DATABASE_DSN")
	str(&cfg.SecretKey, EnvPrefix+"SECRET_KEY")
	str(&cfg.LogLevel, EnvPrefix+"LOG_LEVEL")
	str(&cfg.LogFormat, EnvPrefix+"LOG_FORMAT")

	for key, dst := range map[string]*time.Duration{
		EnvPrefix + "SESSION_TTL":   &cfg.SessionTTL,
		EnvPrefix + "SAVE_REDIRECT": &cfg.SaveRedirect,
	} {
		if v, ok := lookup(key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = d
		}
	}

	if v, ok := lookup(EnvPrefix + "COOKIE_SECURE"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sCOOKIE_SECURE: %w", EnvPrefix, err)
		}
		cfg.CookieSecure = b
	}
	return nil
}
