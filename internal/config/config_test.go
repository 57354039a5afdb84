package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kalongo/booking-pricing/internal/service"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, service.DefaultRatesUrl, cfg.RatesApiUrl)
	assert.Equal(t, time.Hour, cfg.RatesTTL)
	assert.Equal(t, time.Duration(0), cfg.CatalogTTL)
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.True(t, cfg.Logging)
	assert.Empty(t, cfg.RedisUrl)
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	file := filepath.Join(dir, "pricing.env")
	require.NoError(t, os.WriteFile(file, []byte(
		"PRICING_API_URL=https://site.example/api\n"+
			"PRICING_API_AUTH=site:secret\n"+
			"RATES_TTL=30m\n"+
			"LOGGING=false\n",
	), 0o600))

	t.Setenv("RATES_TTL", "2h")
	t.Setenv("REDIS_URL", "tcp://localhost:6379/1")

	cfg, err := Load(file)
	require.NoError(t, err)

	assert.Equal(t, "https://site.example/api", cfg.PricingApiUrl)
	assert.Equal(t, "site:secret", cfg.PricingApiAuth)
	assert.Equal(t, 2*time.Hour, cfg.RatesTTL, "environment wins over the file")
	assert.Equal(t, "tcp://localhost:6379/1", cfg.RedisUrl)
	assert.False(t, cfg.Logging)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LISTEN_ADDR=:9090\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("LISTEN_ADDR") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.ListenAddr)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := Load("does-not-exist.env")
	assert.Error(t, err)
}

func TestConfig_ServiceOptions(t *testing.T) {
	cfg := Config{RatesApiUrl: "http://rates", RatesTTL: time.Minute, HTTPTimeout: time.Second}
	opts := service.DefaultServiceOptions()
	for _, apply := range cfg.ServiceOptions() {
		apply(opts)
	}

	assert.Equal(t, "http://rates", opts.RatesUrl)
	assert.Equal(t, time.Minute, opts.RatesTTL)
	assert.Equal(t, time.Second, opts.RequestTimeout)
	assert.Empty(t, opts.RedisAddr)
	assert.False(t, opts.EnableLogging)

	cfg.RedisUrl = "tcp://localhost:6379"
	assert.Len(t, cfg.ServiceOptions(), 8)
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })
}
