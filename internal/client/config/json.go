package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/recipebox/internal/flagx"
	"github.com/dmitrijs2005/recipebox/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Empty
// fields leave the current value untouched.
type JsonConfig struct {
	Backend         string          `json:"backend"`
	SupabaseURL     string          `json:"supabase_url"`
	SupabaseAnonKey string          `json:"supabase_anon_key"`
	DatabaseDSN     string          `json:"database_dsn"`
	SecretKey       string          `json:"secret_key"`
	SessionTTL      *timex.Duration `json:"session_ttl"`
	SessionDir      string          `json:"session_dir"`
	S3BaseEndpoint  string          `json:"s3_base_endpoint"`
	S3Region        string          `json:"s3_region"`
	S3Bucket        string          `json:"s3_bucket"`
	S3AccessKey     string          `json:"s3_access_key"`
	S3SecretKey     string          `json:"s3_secret_key"`
	LogLevel        string          `json:"log_level"`
}

func parseJson(cfg *Config, args []string) error {
	path := flagx.JsonConfigFlags(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	for dst, v := range map[*string]string{
		&cfg.Backend:         jc.Backend,
		&cfg.SupabaseURL:     jc.SupabaseURL,
		&cfg.SupabaseAnonKey: jc.SupabaseAnonKey,
		&cfg.DatabaseDSN:     jc.DatabaseDSN,
		&cfg.SecretKey:       jc.SecretKey,
		&cfg.SessionDir:      jc.SessionDir,
		&cfg.S3BaseEndpoint:  jc.S3BaseEndpoint,
		&cfg.S3Region:        jc.S3Region,
		&cfg.S3Bucket:        jc.S3Bucket,
		&cfg.S3AccessKey:     jc.S3AccessKey,
		&cfg.S3SecretKey:     jc.S3SecretKey,
		&cfg.LogLevel:        jc.LogLevel,
	} {
		if v != "" {
			*dst = v
		}
	}
	if jc.SessionTTL != nil {
		cfg.SessionTTL = jc.SessionTTL.Duration
	}
	return nil
}
