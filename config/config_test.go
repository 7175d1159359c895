package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTTL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    time.Duration
		wantErr bool
	}{
		{name: "seconds", raw: "30s", want: 30 * time.Second},
		{name: "minutes", raw: "15m", want: 15 * time.Minute},
		{name: "hours", raw: "2h", want: 2 * time.Hour},
		{name: "days", raw: "7d", want: 7 * 24 * time.Hour},
		{name: "single day", raw: "1d", want: 24 * time.Hour},
		{name: "zero is valid", raw: "0s", want: 0},
		{name: "surrounding whitespace", raw: " 15m ", want: 15 * time.Minute},
		{name: "missing unit", raw: "15", wantErr: true},
		{name: "missing value", raw: "m", wantErr: true},
		{name: "unknown unit", raw: "15x", wantErr: true},
		{name: "fractional value", raw: "1.5h", wantErr: true},
		{name: "compound literal", raw: "1h30m", wantErr: true},
		{name: "negative value", raw: "-5m", wantErr: true},
		{name: "empty string", raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTTL(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func validTestConfig() *Config {
	return &Config{
		Environment: "development",
		LogLevel:    "info",
		Database: DatabaseConfig{
			Host:     "localhost",
			User:     "postgres",
			Database: "sevacare",
		},
		Auth: AuthConfig{
			AccessSecret:  "access-secret",
			RefreshSecret: "refresh-secret",
			AccessTTLRaw:  "15m",
			RefreshTTLRaw: "7d",
			Issuer:        "sevacare",
		},
		RateLimit: RateLimitConfig{
			MaxRequests:      100,
			Window:           15 * time.Minute,
			LoginMaxRequests: 5,
			LoginWindow:      15 * time.Minute,
			SweepInterval:    time.Minute,
		},
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Run("valid config resolves TTLs", func(t *testing.T) {
		cfg := validTestConfig()
		require.NoError(t, cfg.Validate())
		assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTTL)
		assert.Equal(t, 7*24*time.Hour, cfg.Auth.RefreshTTL)
	})

	tests := []struct {
		name     string
		mutate   func(*Config)
		wantText string
	}{
		{
			name:     "missing database",
			mutate:   func(c *Config) { c.Database.Host = "" },
			wantText: "database configuration required",
		},
		{
			name:     "missing database user",
			mutate:   func(c *Config) { c.Database.User = "" },
			wantText: "database user is required",
		},
		{
			name:     "missing access secret",
			mutate:   func(c *Config) { c.Auth.AccessSecret = "" },
			wantText: "JWT_ACCESS_SECRET is required",
		},
		{
			name:     "missing refresh secret",
			mutate:   func(c *Config) { c.Auth.RefreshSecret = "" },
			wantText: "JWT_REFRESH_SECRET is required",
		},
		{
			name:     "identical secrets",
			mutate:   func(c *Config) { c.Auth.RefreshSecret = c.Auth.AccessSecret },
			wantText: "must differ",
		},
		{
			name:     "malformed access ttl",
			mutate:   func(c *Config) { c.Auth.AccessTTLRaw = "15" },
			wantText: "JWT_ACCESS_TTL",
		},
		{
			name:     "malformed refresh ttl",
			mutate:   func(c *Config) { c.Auth.RefreshTTLRaw = "7days" },
			wantText: "JWT_REFRESH_TTL",
		},
		{
			name:     "non-positive rate limit",
			mutate:   func(c *Config) { c.RateLimit.MaxRequests = 0 },
			wantText: "rate limit max requests",
		},
		{
			name:     "non-positive window",
			mutate:   func(c *Config) { c.RateLimit.Window = 0 },
			wantText: "rate limit window",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTestConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantText)
		})
	}

	t.Run("connection string alone is enough", func(t *testing.T) {
		cfg := validTestConfig()
		cfg.Database = DatabaseConfig{ConnectionString: "postgres://u:p@localhost/db"}
		assert.NoError(t, cfg.Validate())
	})
}

func TestConfig_Environment(t *testing.T) {
	cfg := validTestConfig()
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())

	cfg.Environment = "production"
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())
}

func TestDatabaseConfig_LogStringHidesPassword(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "hunter2",
		Database: "sevacare",
	}
	assert.NotContains(t, cfg.LogString(), "hunter2")
	assert.Contains(t, cfg.DSN(), "hunter2")
}
