package env

import (
	"errors"
	"fmt"
	"os"

	"github.com/Lina3386/financeflow/internal/config"
)

const (
	plaidEnvEnvName      = "PLAID_ENV"
	plaidClientIDEnvName = "PLAID_CLIENT_ID"
	plaidSecretEnvName   = "PLAID_SECRET"
)

var plaidEnvironments = map[string]string{
	"sandbox":     "https://sandbox.plaid.com",
	"development": "https://development.plaid.com",
	"production":  "https://production.plaid.com",
}

type plaidConfig struct {
	baseURL  string
	clientID string
	secret   string
}

func NewPlaidConfig() (config.PlaidConfig, error) {
	environment := os.Getenv(plaidEnvEnvName)
	clientID := os.Getenv(plaidClientIDEnvName)
	secret := os.Getenv(plaidSecretEnvName)

	if environment == "" || clientID == "" || secret == "" {
		return nil, errors.New("PLAID_ENV, PLAID_CLIENT_ID, PLAID_SECRET are required")
	}

	baseURL, ok := plaidEnvironments[environment]
	if !ok {
		return nil, fmt.Errorf("unknown PLAID_ENV %q", environment)
	}

	return &plaidConfig{
		baseURL:  baseURL,
		clientID: clientID,
		secret:   secret,
	}, nil
}

func (cfg *plaidConfig) BaseURL() string {
	return cfg.baseURL
}

func (cfg *plaidConfig) ClientID() string {
	return cfg.clientID
}

func (cfg *plaidConfig) Secret() string {
	return cfg.secret
}
