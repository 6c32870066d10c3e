package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// EnvPrefix is shared with the web server so one .env serves both.
const EnvPrefix = "RECIPEBOX_"

type lookupFunc func(string) (string, bool)

func osLookup(key string) (string, bool) {
	return os.LookupEnv(key)
}

func loadDotenv() {
	_ = godotenv.Load()
}

// parseEnv overlays RECIPEBOX_* variables onto cfg.
func parseEnv(cfg *Config, lookup lookupFunc) error {
	str := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v, ok := lookup(k); ok && v != "" {
				*dst = v
				return
			}
		}
	}

	str(&cfg.Backend, EnvPrefix+"BACKEND")
	str(&cfg.SupabaseURL, EnvPrefix+"SUPABASE_URL", "SUPABASE_URL")
	str(&cfg.SupabaseAnonKey, EnvPrefix+"SUPABASE_ANON_KEY", "SUPABASE_ANON_KEY")
	str(&cfg.DatabaseDSN, EnvPrefix+"DATABASE_DSN")
	str(&cfg.SecretKey, EnvPrefix+"SECRET_KEY")
	str(&cfg.SessionDir, EnvPrefix+"SESSION_DIR")
	str(&cfg.S3BaseEndpoint, EnvPrefix+"S3_BASE_ENDPOINT")
	str(&cfg.S3Region, EnvPrefix+"S3_REGION")
	str(&cfg.S3Bucket, EnvPrefix+"S3_BUCKET")
	str(&cfg.S3AccessKey, EnvPrefix+"S3_ACCESS_KEY")
	str(&cfg.S3SecretKey, EnvPrefix+"S3_SECRET_KEY")
	str(&cfg.LogLevel, EnvPrefix+"CLI_LOG_LEVEL")

	if v, ok := lookup(EnvPrefix + "SESSION_TTL"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sSESSION_TTL: %w", EnvPrefix, err)
		}
		cfg.SessionTTL = d
	}
	return nil
}
