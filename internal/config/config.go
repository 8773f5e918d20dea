package config

import (
	"flag"
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Addr                 string `env:"RUN_ADDRESS" env-default:"localhost:8080"`
	DatabaseURL          string `env:"DATABASE_URL"`
	BotToken             string `env:"BOT_TOKEN"`
	PaymentProviderToken string `env:"PAYMENT_PROVIDER_TOKEN"`
	WebhookURL           string `env:"WEBHOOK_URL"`
	WebhookSecret        string `env:"WEBHOOK_SECRET"`
	PrivateKey           string `env:"PRIVATE_KEY" env-default:"privatekey"`
	AdminLogin           string `env:"ADMIN_LOGIN" env-default:"admin"`
	AdminPasswordHash    string `env:"ADMIN_PASSWORD_HASH"`
}

func Load() (*Config, error) {
	cfg := &Config{}

	flag.StringVar(&cfg.Addr, "a", "localhost:8080", "HTTP server address")
	flag.StringVar(&cfg.DatabaseURL, "d", "", "database URL")
	flag.StringVar(&cfg.WebhookURL, "w", "", "public webhook URL registered with the Bot API")

	flag.Parse()

	err := cleanenv.ReadEnv(cfg)
	if err != nil {
		return nil, fmt.Errorf("couldn't read environment variables: %w", err)
	}

	return cfg, nil
}
