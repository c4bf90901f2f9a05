package env

import (
	"net"
	"os"

	"github.com/Lina3386/financeflow/internal/config"
)

const (
	httpHostEnvName = "HTTP_HOST"
	httpPortEnvName = "HTTP_PORT"
)

type httpConfig struct {
	host string
	port string
}

func NewHTTPConfig() (config.HTTPConfig, error) {
	host := os.Getenv(httpHostEnvName)
	port := os.Getenv(httpPortEnvName)

	if host == "" {
		host = "0.0.0.0"
	}
	if port == "" {
		port = "5005"
	}

	return &httpConfig{
		host: host,
		port: port,
	}, nil
}

func (cfg *httpConfig) Address() string {
	return net.JoinHostPort(cfg.host, cfg.port)
}
