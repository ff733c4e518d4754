package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvVars = []string{
	"SALESDASH_SERVER_PORT",
	"SALESDASH_SERVER_READ_TIMEOUT",
	"SALESDASH_LOGGING_LEVEL",
	"SALESDASH_LOGGING_OUTPUT",
	"SALESDASH_ANALYTICS_DEFAULT_TOP_LIMIT",
	"SALESDASH_ANALYTICS_MAX_TOP_LIMIT",
	"SALESDASH_ANALYTICS_MAX_UPLOAD_BYTES",
	"SALESDASH_TELEMETRY_METRIC_EXPORTER",
	"SALESDASH_CONFIG",
}

// clearConfigEnv unsets every variable the tests touch and restores them afterwards.
func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, name := range configEnvVars {
		if val, ok := os.LookupEnv(name); ok {
			t.Cleanup(func() { os.Setenv(name, val) })
		} else {
			t.Cleanup(func() { os.Unsetenv(name) })
		}
		os.Unsetenv(name)
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFrom(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		file        string
		wantErr     string
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults with no env and no file",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format)
				assert.Equal(t, 5, cfg.Analytics.DefaultTopLimit)
				assert.Equal(t, 100, cfg.Analytics.MaxTopLimit)
				assert.Equal(t, int64(32<<20), cfg.Analytics.MaxUploadBytes)
				assert.True(t, cfg.Security.RateLimit.Enabled)
				assert.Equal(t, "prometheus", cfg.Telemetry.MetricExporter)
			},
		},
		{
			name: "environment overrides defaults",
			env: map[string]string{
				"SALESDASH_SERVER_PORT":                 "9090",
				"SALESDASH_LOGGING_LEVEL":               "debug",
				"SALESDASH_ANALYTICS_DEFAULT_TOP_LIMIT": "10",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, 10, cfg.Analytics.DefaultTopLimit)
			},
		},
		{
			name: "file overrides defaults",
			file: `
server:
  port: 7070
  read_timeout: 5s
logging:
  level: warn
analytics:
  default_top_limit: 3
  max_top_limit: 20
telemetry:
  metric_exporter: none
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 7070, cfg.Server.Port)
				assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, "warn", cfg.Logging.Level)
				assert.Equal(t, 3, cfg.Analytics.DefaultTopLimit)
				assert.Equal(t, 20, cfg.Analytics.MaxTopLimit)
				assert.Equal(t, "none", cfg.Telemetry.MetricExporter)
			},
		},
		{
			name: "explicit env beats file",
			env:  map[string]string{"SALESDASH_SERVER_PORT": "9191"},
			file: "server:\n  port: 7070\nlogging:\n  level: error\n",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9191, cfg.Server.Port)
				assert.Equal(t, "error", cfg.Logging.Level)
			},
		},
		{
			name:    "invalid port",
			env:     map[string]string{"SALESDASH_SERVER_PORT": "70000"},
			wantErr: "invalid server port",
		},
		{
			name:    "default top limit above max",
			env:     map[string]string{"SALESDASH_ANALYTICS_DEFAULT_TOP_LIMIT": "50", "SALESDASH_ANALYTICS_MAX_TOP_LIMIT": "10"},
			wantErr: "default top limit 50 must be in 1..10",
		},
		{
			name:    "non-positive upload cap",
			env:     map[string]string{"SALESDASH_ANALYTICS_MAX_UPLOAD_BYTES": "0"},
			wantErr: "max upload bytes must be positive",
		},
		{
			name:    "unparseable env",
			env:     map[string]string{"SALESDASH_SERVER_PORT": "eighty"},
			wantErr: "failed to load config from env",
		},
		{
			name:    "malformed yaml",
			file:    "server: [unterminated\n",
			wantErr: "failed to load config from file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearConfigEnv(t)
			for k, v := range tt.env {
				os.Setenv(k, v)
			}

			path := ""
			if tt.file != "" {
				path = writeConfigFile(t, tt.file)
			}

			cfg, err := LoadFrom(path)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestLoadFrom_MissingFileIgnored(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoad_ConfigEnvVar(t *testing.T) {
	clearConfigEnv(t)
	os.Setenv("SALESDASH_CONFIG", writeConfigFile(t, "server:\n  port: 6060\n"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 6060, cfg.Server.Port)
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.validate())
	assert.Equal(t, 5, cfg.Analytics.DefaultTopLimit)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
}

func TestValidate_NormalizesLogging(t *testing.T) {
	cfg := Default()
	cfg.Logging.Format = "text"
	cfg.Logging.FilePath = ""

	require.NoError(t, cfg.validate())
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "logs/salesdash.log", cfg.Logging.FilePath)
}
