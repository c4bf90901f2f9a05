package env

import (
	"errors"
	"os"
	"time"

	"github.com/Lina3386/financeflow/internal/config"
)

const (
	jwtSecretEnvName = "JWT_SECRET"
	jwtTTLEnvName    = "JWT_TTL"

	defaultTokenTTL = time.Hour
)

type jwtConfig struct {
	secret   []byte
	tokenTTL time.Duration
}

func NewJWTConfig() (config.JWTConfig, error) {
	secret := os.Getenv(jwtSecretEnvName)
	if secret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	ttl := defaultTokenTTL
	if raw := os.Getenv(jwtTTLEnvName); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, errors.New("JWT_TTL must be a valid duration, e.g. 1h")
		}
		ttl = parsed
	}

	return &jwtConfig{
		secret:   []byte(secret),
		tokenTTL: ttl,
	}, nil
}

func (cfg *jwtConfig) Secret() []byte {
	return cfg.secret
}

func (cfg *jwtConfig) TokenTTL() time.Duration {
	return cfg.tokenTTL
}
