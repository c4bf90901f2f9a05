package env

import (
	"errors"
	"os"

	"github.com/Lina3386/financeflow/internal/config"
)

const openaiAPIKeyEnvName = "OPENAI_API_KEY"

type openaiConfig struct {
	apiKey string
}

func NewOpenAIConfig() (config.OpenAIConfig, error) {
	apiKey := os.Getenv(openaiAPIKeyEnvName)
	if apiKey == "" {
		return nil, errors.New("OPENAI_API_KEY is required")
	}

	return &openaiConfig{
		apiKey: apiKey,
	}, nil
}

func (cfg *openaiConfig) APIKey() string {
	return cfg.apiKey
}
