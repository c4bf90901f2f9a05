package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Lina3386/financeflow/internal/models"
	"github.com/Lina3386/financeflow/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const resetTokenTTL = time.Hour

type userStore interface {
	CreateUser(ctx context.Context, name, email, passwordHash string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	SetResetToken(ctx context.Context, userID int64, tokenHash string, expiry time.Time) error
	GetUsersWithActiveResetTokens(ctx context.Context) ([]models.User, error)
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
}

type mailSender interface {
	Send(to, subject, htmlBody string) error
}

// Claims - полезная нагрузка bearer-токена
type Claims struct {
	UserID int64  `json:"userID"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

type AuthService struct {
	userRepo        userStore
	mail            mailSender
	jwtSecret       []byte
	tokenTTL        time.Duration
	frontendBaseURL string
}

func NewAuthService(userRepo userStore, mail mailSender, jwtSecret []byte, tokenTTL time.Duration, frontendBaseURL string) *AuthService {
	return &AuthService{
		userRepo:        userRepo,
		mail:            mail,
		jwtSecret:       jwtSecret,
		tokenTTL:        tokenTTL,
		frontendBaseURL: frontendBaseURL,
	}
}

// Register создает пользователя и сразу выдает токен
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*models.User, string, error) {
	existing, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil && !isNotFound(err) {
		return nil, "", err
	}
	if existing != nil {
		log.Printf("Registration rejected, email already taken: %s", email)
		return nil, "", ErrEmailTaken
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.CreateUser(ctx, name, email, string(passwordHash))
	if err != nil {
		return nil, "", err
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, "", err
	}

	log.Printf("User registered: ID=%d, Email=%s", user.ID, user.Email)
	return user, token, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if isNotFound(err) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Printf("Invalid password attempt for email: %s", email)
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// VerifyToken проверяет подпись и срок действия bearer-токена
func (s *AuthService) VerifyToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// RequestPasswordReset генерирует reset-токен и шлет его письмом.
// В БД хранится только bcrypt-хеш токена.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if isNotFound(err) {
		log.Printf("Password reset requested for non-existent email: %s", email)
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	rawToken, err := generateResetToken()
	if err != nil {
		return err
	}

	tokenHash, err := bcrypt.GenerateFromPassword([]byte(rawToken), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash reset token: %w", err)
	}

	expiry := time.Now().UTC().Add(resetTokenTTL)
	if err := s.userRepo.SetResetToken(ctx, user.ID, string(tokenHash), expiry); err != nil {
		return err
	}

	resetLink := fmt.Sprintf("%s/reset-password/%s", s.frontendBaseURL, rawToken)
	body := resetEmailBody(user.Name, resetLink)

	if err := s.mail.Send(user.Email, "Password Reset Request", body); err != nil {
		return err
	}

	log.Printf("Password reset email sent to %s", user.Email)
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	user, err := s.findUserByResetToken(ctx, token)
	if err != nil {
		return err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, user.ID, string(passwordHash)); err != nil {
		return err
	}

	log.Printf("Password reset for user %d", user.ID)
	return nil
}

func (s *AuthService) VerifyResetToken(ctx context.Context, token string) error {
	_, err := s.findUserByResetToken(ctx, token)
	return err
}

// findUserByResetToken перебирает все неистекшие хеши: сырой токен
// нигде не хранится, поэтому индексированного поиска нет.
func (s *AuthService) findUserByResetToken(ctx context.Context, token string) (*models.User, error) {
	users, err := s.userRepo.GetUsersWithActiveResetTokens(ctx)
	if err != nil {
		return nil, err
	}

	for i := range users {
		user := &users[i]
		if user.ResetTokenHash == nil {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(*user.ResetTokenHash), []byte(token)) == nil {
			return user, nil
		}
	}

	return nil, ErrInvalidToken
}

func (s *AuthService) generateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

func generateResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func resetEmailBody(name, resetLink string) string {
	return fmt.Sprintf(`<html><body>
<p>Hi %s,</p>
<p>We received a request to reset your FinanceFlow password. The link below is valid for 1 hour:</p>
<p><a href="%s">Reset your password</a></p>
<p>If you did not request a reset, you can ignore this email.</p>
<p>— FinanceFlow</p>
</body></html>`, name, resetLink)
}

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
