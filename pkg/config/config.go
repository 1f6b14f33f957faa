package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App     AppConfig
	Backend BackendConfig
	Auth    AuthConfig
	Sale    SaleConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Backend.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"FIELDSALE_APP_ENV" default:"dev"`
	LogLevel     string `envconfig:"FIELDSALE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FIELDSALE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type BackendConfig struct {
	BaseURL        string        `envconfig:"FIELDSALE_BACKEND_BASE_URL" required:"true"`
	RequestTimeout time.Duration `envconfig:"FIELDSALE_BACKEND_TIMEOUT" default:"15s"`
}

type AuthConfig struct {
	// Token holds the bearer credential minted at sign-in. Persistence of the
	// credential between runs belongs to the hosting app, not this engine.
	Token string `envconfig:"FIELDSALE_BEARER_TOKEN"`
}

type SaleConfig struct {
	DefaultInstallmentMonths int `envconfig:"FIELDSALE_INSTALLMENT_MONTHS" default:"6"`
}

func (b *BackendConfig) validate() error {
	raw := strings.TrimSpace(b.BaseURL)
	if raw == "" {
		return fmt.Errorf("%s is required", EnvBackendBaseURL)
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s must be an absolute URL, got %q", EnvBackendBaseURL, raw)
	}
	b.BaseURL = strings.TrimRight(raw, "/")
	if b.RequestTimeout <= 0 {
		return fmt.Errorf("backend timeout must be positive")
	}
	return nil
}
