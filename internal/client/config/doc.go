// Package config loads runtime configuration for the RecipeBox terminal
// client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment: RECIPEBOX_* keys, with a .env file in the working
//     directory loaded first.
//  3. Optional JSON file selected via -c or -config.
//  4. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-b string   backend: supabase, local or memory
//	-u string   Supabase project URL
//	-k string   Supabase anon key
//	-d string   local backend DSN
//	-s string   secret key for local access tokens
//	-t int      session lifetime (minutes)
//	-e string   S3 endpoint used by export
//	-l string   log level
//
// # JSON schema
//
//	{
//	  "backend": "local",
//	  "database_dsn": "sqlite://recipebox.db",
//	  "secret_key": "dev-secret",
//	  "session_ttl": "1h",
//	  "session_dir": ".recipebox",
//	  "s3_base_endpoint": "http://localhost:9000",
//	  "s3_bucket": "recipebox",
//	  "s3_region": "us-east-1"
//	}
package config
