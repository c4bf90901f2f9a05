package config

import (
	"time"

	"github.com/joho/godotenv"
)

type PGConfig interface {
	DSN() string
}

type HTTPConfig interface {
	Address() string
}

type JWTConfig interface {
	Secret() []byte
	TokenTTL() time.Duration
}

type PlaidConfig interface {
	BaseURL() string
	ClientID() string
	Secret() string
}

type OpenAIConfig interface {
	APIKey() string
}

type SMTPConfig interface {
	Host() string
	Port() int
	Username() string
	Password() string
}

type AppConfig interface {
	AllowedOrigins() []string
	FrontendBaseURL() string
}

func Load(path string) error {
	err := godotenv.Load(path)
	if err != nil {
		return err
	}
	return nil
}
