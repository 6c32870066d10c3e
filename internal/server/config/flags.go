package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/recipebox/internal/flagx"
)

// parseFlags overlays the short command-line flags:
//
//	-a string   HTTP bind address (e.g. ":8080")
//	-b string   backend: supabase, local or memory
//	-u string   Supabase project URL
//	-k string   Supabase anon key
//	-d string   local backend DSN
//	-s string   secret key for local access tokens
//	-t int      session lifetime, minutes
//	-w int      redirect delay after saving a recipe, seconds (0 disables)
//	-l string   log level
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-b", "-u", "-k", "-d", "-s", "-t", "-w", "-l"})

	fs := flag.NewFlagSet("recipebox", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.HTTPAddr, "a", cfg.HTTPAddr, "address and port to run server")
	fs.StringVar(&cfg.Backend, "b", cfg.Backend, "backend (supabase, local, memory)")
	fs.StringVar(&cfg.SupabaseURL, "u", cfg.SupabaseURL, "Supabase URL")
	fs.StringVar(&cfg.SupabaseAnonKey, "k", cfg.SupabaseAnonKey, "Supabase anon key")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "secret key")
	sessionTTL := fs.Int("t", int(cfg.SessionTTL.Minutes()), "session lifetime (in minutes)")
	saveRedirect := fs.Int("w", int(cfg.SaveRedirect.Seconds()), "redirect delay after save (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			cfg.SessionTTL = time.Duration(*sessionTTL) * time.Minute
		case "w":
			cfg.SaveRedirect = time.Duration(*saveRedirect) * time.Second
		}
	})
	return nil
}
