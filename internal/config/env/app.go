package env

import (
	"os"
	"strings"

	"github.com/Lina3386/financeflow/internal/config"
)

const (
	frontendBaseURLEnvName = "FRONTEND_BASE_URL"
	allowedOriginsEnvName  = "ALLOWED_ORIGINS"

	defaultFrontendBaseURL = "http://localhost:3000"
)

type appConfig struct {
	frontendBaseURL string
	allowedOrigins  []string
}

func NewAppConfig() (config.AppConfig, error) {
	frontendBaseURL := os.Getenv(frontendBaseURLEnvName)
	if frontendBaseURL == "" {
		frontendBaseURL = defaultFrontendBaseURL
	}

	origins := []string{frontendBaseURL}
	if raw := os.Getenv(allowedOriginsEnvName); raw != "" {
		for _, origin := range strings.Split(raw, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				origins = append(origins, origin)
			}
		}
	}

	return &appConfig{
		frontendBaseURL: frontendBaseURL,
		allowedOrigins:  origins,
	}, nil
}

func (cfg *appConfig) FrontendBaseURL() string {
	return cfg.frontendBaseURL
}

func (cfg *appConfig) AllowedOrigins() []string {
	return cfg.allowedOrigins
}
