package services

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrEmailTaken         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrChallengeLimit     = errors.New("challenge limit reached")
	ErrInvalidCategory    = errors.New("invalid category")
	ErrCategoryExists     = errors.New("category already exists")
)
