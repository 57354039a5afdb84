package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kalongo/booking-pricing/internal/service"
)

type Config struct {
	PricingApiUrl          string        `mapstructure:"PRICING_API_URL"`
	PricingApiAuth         string        `mapstructure:"PRICING_API_AUTH"`
	RatesApiUrl            string        `mapstructure:"RATES_API_URL"`
	RedisUrl               string        `mapstructure:"REDIS_URL"`
	RatesTTL               time.Duration `mapstructure:"RATES_TTL"`
	CatalogTTL             time.Duration `mapstructure:"CATALOG_TTL"`
	CatalogRefreshInterval time.Duration `mapstructure:"CATALOG_REFRESH_INTERVAL"`
	HTTPTimeout            time.Duration `mapstructure:"HTTP_TIMEOUT"`
	ListenAddr             string        `mapstructure:"LISTEN_ADDR"`
	Logging                bool          `mapstructure:"LOGGING"`
}

var defaults = map[string]any{
	"PRICING_API_URL":          "",
	"PRICING_API_AUTH":         "",
	"RATES_API_URL":            service.DefaultRatesUrl,
	"REDIS_URL":                "",
	"RATES_TTL":                "1h",
	"CATALOG_TTL":              "0s",
	"CATALOG_REFRESH_INTERVAL": "0s",
	"HTTP_TIMEOUT":             "15s",
	"LISTEN_ADDR":              ":8080",
	"LOGGING":                  true,
}

// Load reads configuration from the environment, a .env file in the working
// directory and config.env. configFile replaces config.env and, unlike it,
// must exist.
func Load(configFile string) (Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return Config{}, err
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// loadDotEnv exports the variables of files that exist, without overriding
// variables already set.
func loadDotEnv(files ...string) error {
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", file, err)
		}
	}
	return nil
}

// ServiceOptions turns the configuration into pricing service options.
func (c Config) ServiceOptions() []service.ServiceOption {
	opts := []service.ServiceOption{
		service.WithCatalogBaseUrl(c.PricingApiUrl, c.PricingApiAuth),
		service.WithRatesUrl(c.RatesApiUrl),
		service.WithRatesTTL(c.RatesTTL),
		service.WithCatalogTTL(c.CatalogTTL),
		service.WithCatalogRefreshInterval(c.CatalogRefreshInterval),
		service.WithRequestTimeout(c.HTTPTimeout),
		service.WithLogging(c.Logging),
	}
	if c.RedisUrl != "" {
		opts = append(opts, service.WithRedisConfig(c.RedisUrl))
	}
	return opts
}
