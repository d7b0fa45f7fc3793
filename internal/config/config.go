package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const dateLayout = "2006-01-02"

type Config struct {
	Port               string
	BrentURL           string
	WTIURL             string
	NaturalGasURL      string
	HealthcheckURL     string
	MinDate            string
	MaxDate            string
	UpstreamTimeout    time.Duration
	HealthcheckTimeout time.Duration
	TransportRetries   int
	RateLimitPerMin    int
	RedisURL           string
	CORSOrigins        []string
	ServiceVersion     string
}

// ConfigurationError lists every required setting that is missing or invalid.
// Price endpoints cannot serve without their upstream URL, so callers treat it as fatal.
type ConfigurationError struct {
	Problems []string
}

func (e *ConfigurationError) Error() string {
	return "configuration: " + strings.Join(e.Problems, "; ")
}

// Load reads settings from the environment and an optional config.yaml.
// The file is looked up in ./config, or taken from PRICEPROXY_CONFIG when set.
// Environment variables override file values.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path := os.Getenv("PRICEPROXY_CONFIG"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := Config{
		Port:               getString(v, "PORT"),
		BrentURL:           getString(v, "COMMODITIES_BRENT"),
		WTIURL:             getString(v, "COMMODITIES_WTI"),
		NaturalGasURL:      getString(v, "COMMODITIES_NATURAL_GAS"),
		HealthcheckURL:     getString(v, "HEALTHCHECK_URL"),
		MinDate:            getString(v, "PRICE_MIN_DATE"),
		MaxDate:            getString(v, "PRICE_MAX_DATE"),
		UpstreamTimeout:    getDuration(v, "UPSTREAM_TIMEOUT", 12*time.Second),
		HealthcheckTimeout: getDuration(v, "HEALTHCHECK_TIMEOUT", 5*time.Second),
		TransportRetries:   clamp(getInt(v, "UPSTREAM_TRANSPORT_RETRIES", 0), 0, 1),
		RateLimitPerMin:    getInt(v, "RATE_LIMIT_PER_MIN", 120),
		RedisURL:           getString(v, "REDIS_URL"),
		CORSOrigins:        splitList(getString(v, "CORS_ORIGINS")),
		ServiceVersion:     getString(v, "SERVICE_VERSION"),
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("PRICE_MIN_DATE", "2020-01-01")
	v.SetDefault("PRICE_MAX_DATE", "2025-05-19")
	v.SetDefault("CORS_ORIGINS", "*")
}

// Validate reports missing upstream URLs and unusable date bounds.
func (c Config) Validate() error {
	var problems []string
	required := []struct {
		key string
		val string
	}{
		{"COMMODITIES_BRENT", c.BrentURL},
		{"COMMODITIES_WTI", c.WTIURL},
		{"COMMODITIES_NATURAL_GAS", c.NaturalGasURL},
	}
	for _, r := range required {
		if strings.TrimSpace(r.val) == "" {
			problems = append(problems, fmt.Sprintf("missing environment variable %s", r.key))
		}
	}

	minDate, minErr := time.Parse(dateLayout, c.MinDate)
	if minErr != nil {
		problems = append(problems, fmt.Sprintf("PRICE_MIN_DATE %q is not YYYY-MM-DD", c.MinDate))
	}
	maxDate, maxErr := time.Parse(dateLayout, c.MaxDate)
	if maxErr != nil {
		problems = append(problems, fmt.Sprintf("PRICE_MAX_DATE %q is not YYYY-MM-DD", c.MaxDate))
	}
	if minErr == nil && maxErr == nil && minDate.After(maxDate) {
		problems = append(problems, fmt.Sprintf("PRICE_MIN_DATE %s is after PRICE_MAX_DATE %s", c.MinDate, c.MaxDate))
	}

	if len(problems) > 0 {
		return &ConfigurationError{Problems: problems}
	}
	return nil
}

func getString(v *viper.Viper, key string) string {
	return strings.TrimSpace(v.GetString(key))
}

func getInt(v *viper.Viper, key string, def int) int {
	raw := getString(v, key)
	if raw == "" {
		return def
	}
	i, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return i
}

// getDuration accepts whole seconds ("12") or a Go duration ("1500ms").
func getDuration(v *viper.Viper, key string, def time.Duration) time.Duration {
	raw := getString(v, key)
	if raw == "" {
		return def
	}
	if i, err := strconv.Atoi(raw); err == nil {
		if i <= 0 {
			return def
		}
		return time.Duration(i) * time.Second
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
