package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/recipebox/internal/common"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "supabase", c.Backend)
	assert.Equal(t, ".recipebox", c.SessionDir)
	assert.Equal(t, time.Hour, c.SessionTTL)
	assert.False(t, c.ExportEnabled())
	assert.ErrorIs(t, c.BackendSettings().Validate(), common.ErrConfiguration)
}

func TestParseEnv(t *testing.T) {
	env := map[string]string{
		"RECIPEBOX_BACKEND":       "memory",
		"RECIPEBOX_SESSION_DIR":   "/tmp/rb",
		"RECIPEBOX_SESSION_TTL":   "10m",
		"RECIPEBOX_S3_BUCKET":     "exports",
		"RECIPEBOX_S3_ACCESS_KEY": "minio",
		"RECIPEBOX_S3_SECRET_KEY": "minio123",
		"RECIPEBOX_CLI_LOG_LEVEL": "debug",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	var c Config
	c.LoadDefaults()
	require.NoError(t, parseEnv(&c, lookup))

	assert.Equal(t, "memory", c.Backend)
	assert.Equal(t, "/tmp/rb", c.SessionDir)
	assert.Equal(t, 10*time.Minute, c.SessionTTL)
	assert.True(t, c.ExportEnabled())
	assert.Equal(t, "minio", c.S3AccessKey)
	assert.Equal(t, "minio123", c.S3SecretKey)
	assert.Equal(t, "debug", c.LogLevel)
}

func TestParseEnv_BadDuration(t *testing.T) {
	var c Config
	err := parseEnv(&c, func(k string) (string, bool) {
		if k == "RECIPEBOX_SESSION_TTL" {
			return "soon", true
		}
		return "", false
	})
	assert.ErrorContains(t, err, "RECIPEBOX_SESSION_TTL")
}

func TestParseJson(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"backend": "local",
		"database_dsn": "sqlite://cli.db",
		"secret_key": "k",
		"session_ttl": "2h",
		"s3_bucket": "b",
		"s3_region": "eu-west-1"
	}`), 0o600))

	var c Config
	c.LoadDefaults()
	require.NoError(t, parseJson(&c, []string{"-c", path}))

	assert.Equal(t, "local", c.Backend)
	assert.Equal(t, "sqlite://cli.db", c.DatabaseDSN)
	assert.Equal(t, 2*time.Hour, c.SessionTTL)
	assert.Equal(t, "eu-west-1", c.S3Region)
	assert.Equal(t, ".recipebox", c.SessionDir)
}

func TestParseJson_Errors(t *testing.T) {
	var c Config
	assert.Error(t, parseJson(&c, []string{"-config", filepath.Join(t.TempDir(), "missing.json")}))

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))
	assert.Error(t, parseJson(&c, []string{"-c", path}))
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    func(c *Config)
		wantErr bool
	}{
		{
			name: "backend and ttl",
			args: []string{"-b", "memory", "-t", "5", "-a", ":9999"},
			want: func(c *Config) {
				c.Backend = "memory"
				c.SessionTTL = 5 * time.Minute
			},
		},
		{
			name: "endpoint and log level",
			args: []string{"-e=http://minio:9000", "-l", "debug"},
			want: func(c *Config) {
				c.S3BaseEndpoint = "http://minio:9000"
				c.LogLevel = "debug"
			},
		},
		{
			name:    "bad ttl",
			args:    []string{"-t", "abc"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Config
			got.LoadDefaults()
			err := parseFlags(&got, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			var want Config
			want.LoadDefaults()
			tt.want(&want)
			assert.Empty(t, cmp.Diff(want, got))
		})
	}
}
