package config

import (
	"fmt"
	"strings"
	"time"

	ierr "github.com/flexprice/stripe-migrate/internal/errors"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Configuration struct {
	Deployment DeploymentConfig `mapstructure:"deployment"`
	Stripe     StripeConfig     `mapstructure:"stripe"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Sentry     SentryConfig     `mapstructure:"sentry"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Report     ReportConfig     `mapstructure:"report"`
	Migration  MigrationConfig  `mapstructure:"migration"`
}

type DeploymentConfig struct {
	Mode string `mapstructure:"mode"`
}

type StripeConfig struct {
	SourceKey         string        `mapstructure:"source_key" validate:"required"`
	TargetKey         string        `mapstructure:"target_key" validate:"required"`
	PageSize          int           `mapstructure:"page_size" validate:"min=1,max=100"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second" validate:"gte=0"`
	Burst             int           `mapstructure:"burst" validate:"gte=0"`
	Timeout           time.Duration `mapstructure:"timeout"`
}

type LoggingConfig struct {
	Level          string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
	FluentdEnabled bool   `mapstructure:"fluentd_enabled"`
	FluentdHost    string `mapstructure:"fluentd_host"`
	FluentdPort    int    `mapstructure:"fluentd_port"`
}

type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn" validate:"required_if=Enabled true"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate" validate:"gte=0,lte=1"`
}

type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Expiry  time.Duration `mapstructure:"expiry"`
}

type ReportConfig struct {
	S3Enabled         bool   `mapstructure:"s3_enabled"`
	S3Bucket          string `mapstructure:"s3_bucket" validate:"required_if=S3Enabled true"`
	S3Region          string `mapstructure:"s3_region"`
	S3Prefix          string `mapstructure:"s3_prefix"`
	S3Endpoint        string `mapstructure:"s3_endpoint"`
	S3AccessKeyID     string `mapstructure:"s3_access_key_id"`
	S3SecretAccessKey string `mapstructure:"s3_secret_access_key"`
}

type MigrationConfig struct {
	DryRun bool `mapstructure:"dry_run"`
}

// NewConfig loads configuration from defaults, an optional config.yaml, an
// optional .env file and the environment, then validates it. Missing
// credentials are reported as ierr.ErrConfiguration.
func NewConfig() (*Configuration, error) {
	// .env is optional; real environment variables take precedence.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("MIGRATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Credentials keep their historical names.
	_ = v.BindEnv("stripe.source_key", "SOURCE_STRIPE_KEY", "MIGRATE_STRIPE_SOURCE_KEY")
	_ = v.BindEnv("stripe.target_key", "TARGET_STRIPE_KEY", "MIGRATE_STRIPE_TARGET_KEY")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, ierr.WithError(err).
				WithHint("Failed to read config file").
				Mark(ierr.ErrConfiguration)
		}
	}

	var cfg Configuration
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to decode configuration").
			Mark(ierr.ErrConfiguration)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// GetDefaultConfig returns the configuration defaults without reading files
// or the environment. Credentials are empty.
func GetDefaultConfig() *Configuration {
	v := viper.New()
	setDefaults(v)

	var cfg Configuration
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", "local")
	v.SetDefault("stripe.page_size", 100)
	v.SetDefault("stripe.requests_per_second", 20)
	v.SetDefault("stripe.burst", 5)
	v.SetDefault("stripe.timeout", 80*time.Second)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.fluentd_enabled", false)
	v.SetDefault("logging.fluentd_host", "")
	v.SetDefault("logging.fluentd_port", 24224)
	v.SetDefault("sentry.enabled", false)
	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.sample_rate", 1.0)
	v.SetDefault("sentry.environment", "local")
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.expiry", 30*time.Minute)
	v.SetDefault("report.s3_enabled", false)
	v.SetDefault("report.s3_bucket", "")
	v.SetDefault("report.s3_region", "us-east-1")
	v.SetDefault("report.s3_prefix", "stripe-migrate/reports")
	v.SetDefault("report.s3_endpoint", "")
	v.SetDefault("report.s3_access_key_id", "")
	v.SetDefault("report.s3_secret_access_key", "")
	v.SetDefault("migration.dry_run", false)
}

// Validate checks credentials first so the operator sees the historical
// message, then the struct tags.
func (c *Configuration) Validate() error {
	if c.Stripe.SourceKey == "" || c.Stripe.TargetKey == "" {
		return ierr.NewError("API keys not found").
			WithHint("Please make sure SOURCE_STRIPE_KEY and TARGET_STRIPE_KEY are set in your .env file").
			WithReportableDetails(map[string]interface{}{
				"source_key_set": c.Stripe.SourceKey != "",
				"target_key_set": c.Stripe.TargetKey != "",
			}).
			Mark(ierr.ErrConfiguration)
	}

	if err := validator.New().Struct(c); err != nil {
		return ierr.WithError(err).
			WithHint(fmt.Sprintf("Invalid configuration: %s", err.Error())).
			Mark(ierr.ErrConfiguration)
	}

	return nil
}
