package env

import (
	"errors"
	"os"
	"strconv"

	"github.com/Lina3386/financeflow/internal/config"
)

const (
	smtpHostEnvName  = "SMTP_HOST"
	smtpPortEnvName  = "SMTP_PORT"
	emailUserEnvName = "EMAIL_USER"
	emailPassEnvName = "EMAIL_PASS"
)

type smtpConfig struct {
	host     string
	port     int
	username string
	password string
}

func NewSMTPConfig() (config.SMTPConfig, error) {
	host := os.Getenv(smtpHostEnvName)
	if host == "" {
		host = "smtp.gmail.com"
	}

	port := 587
	if raw := os.Getenv(smtpPortEnvName); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return nil, errors.New("SMTP_PORT must be a number")
		}
		port = parsed
	}

	username := os.Getenv(emailUserEnvName)
	password := os.Getenv(emailPassEnvName)
	if username == "" || password == "" {
		return nil, errors.New("EMAIL_USER, EMAIL_PASS are required")
	}

	return &smtpConfig{
		host:     host,
		port:     port,
		username: username,
		password: password,
	}, nil
}

func (cfg *smtpConfig) Host() string {
	return cfg.host
}

func (cfg *smtpConfig) Port() int {
	return cfg.port
}

func (cfg *smtpConfig) Username() string {
	return cfg.username
}

func (cfg *smtpConfig) Password() string {
	return cfg.password
}
