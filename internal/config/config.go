package config

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port               string `envconfig:"PORT" default:"8080"`
	Environment        string `envconfig:"ENVIRONMENT" default:"development"`
	DBConnectionString string `envconfig:"DB_CONNECTION_STRING" required:"true"`
	JWTSecret          string `envconfig:"JWT_SECRET" required:"true"`

	// Generation backend settings
	OpenAIAPIKey string `envconfig:"OPENAI_API_KEY" required:"true"`
	OpenAIModel  string `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`

	// URL extraction service settings
	ExtractorServiceBaseURL string `envconfig:"EXTRACTOR_SERVICE_BASE_URL" required:"true"`

	// Abuse throttling settings
	RateLimitPerMinute int `envconfig:"RATE_LIMIT_PER_MINUTE" default:"10"`
	RateLimitBurst     int `envconfig:"RATE_LIMIT_BURST" default:"5"`

	// Stripe settings
	StripeSecretKey       string `envconfig:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret   string `envconfig:"STRIPE_WEBHOOK_SECRET"`
	StripePriceMonthly    string `envconfig:"STRIPE_PRICE_MONTHLY"`
	StripePriceAnnual     string `envconfig:"STRIPE_PRICE_ANNUAL"`
	StripePortalReturnURL string `envconfig:"STRIPE_PORTAL_RETURN_URL" default:"http://localhost:3000/dashboard"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
