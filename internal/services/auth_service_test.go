package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Lina3386/financeflow/internal/models"
	"github.com/Lina3386/financeflow/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserStore struct {
	users  map[string]*models.User
	nextID int64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*models.User)}
}

func (f *fakeUserStore) CreateUser(_ context.Context, name, email, passwordHash string) (*models.User, error) {
	f.nextID++
	user := &models.User{ID: f.nextID, Name: name, Email: email, PasswordHash: passwordHash, CreatedAt: time.Now()}
	f.users[strings.ToLower(email)] = user
	return user, nil
}

func (f *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := f.users[strings.ToLower(email)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserStore) SetResetToken(_ context.Context, userID int64, tokenHash string, expiry time.Time) error {
	for _, user := range f.users {
		if user.ID == userID {
			user.ResetTokenHash = &tokenHash
			user.ResetTokenExpiry = &expiry
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeUserStore) GetUsersWithActiveResetTokens(_ context.Context) ([]models.User, error) {
	var out []models.User
	for _, user := range f.users {
		if user.ResetTokenHash != nil && user.ResetTokenExpiry != nil && user.ResetTokenExpiry.After(time.Now()) {
			out = append(out, *user)
		}
	}
	return out, nil
}

func (f *fakeUserStore) UpdatePassword(_ context.Context, userID int64, passwordHash string) error {
	for _, user := range f.users {
		if user.ID == userID {
			user.PasswordHash = passwordHash
			user.ResetTokenHash = nil
			user.ResetTokenExpiry = nil
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeMailSender struct {
	to      string
	subject string
	body    string
	sent    int
}

func (f *fakeMailSender) Send(to, subject, htmlBody string) error {
	f.to = to
	f.subject = subject
	f.body = htmlBody
	f.sent++
	return nil
}

func newAuthFixture(store *fakeUserStore, mail *fakeMailSender) *AuthService {
	return NewAuthService(store, mail, []byte("test-secret"), time.Hour, "http://localhost:3000")
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthFixture(newFakeUserStore(), &fakeMailSender{})
	ctx := context.Background()

	user, token, err := svc.Register(ctx, "Ada", "ada@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.Name)
	assert.NotEmpty(t, token)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash, "password must be stored hashed")

	claims, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)

	loggedIn, loginToken, err := svc.Login(ctx, "ada@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotEmpty(t, loginToken)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newAuthFixture(newFakeUserStore(), &fakeMailSender{})
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "Ada", "ada@example.com", "pass-one")
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, "Ada Again", "Ada@Example.com", "pass-two")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newAuthFixture(newFakeUserStore(), &fakeMailSender{})
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "Ada", "ada@example.com", "correct")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "ada@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerifyTokenRejectsTampered(t *testing.T) {
	svc := newAuthFixture(newFakeUserStore(), &fakeMailSender{})
	other := NewAuthService(newFakeUserStore(), &fakeMailSender{}, []byte("other-secret"), time.Hour, "")

	_, token, err := svc.Register(context.Background(), "Ada", "ada@example.com", "pass")
	require.NoError(t, err)

	_, err = other.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.VerifyToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordResetFlow(t *testing.T) {
	store := newFakeUserStore()
	mail := &fakeMailSender{}
	svc := newAuthFixture(store, mail)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "Ada", "ada@example.com", "old-pass")
	require.NoError(t, err)

	require.NoError(t, svc.RequestPasswordReset(ctx, "ada@example.com"))
	assert.Equal(t, "ada@example.com", mail.to)
	assert.Equal(t, "Password Reset Request", mail.subject)

	// Сырой токен есть только в письме
	token := extractResetToken(t, mail.body)
	assert.Len(t, token, 64)
	stored := store.users["ada@example.com"]
	require.NotNil(t, stored.ResetTokenHash)
	assert.NotContains(t, *stored.ResetTokenHash, token)

	require.NoError(t, svc.VerifyResetToken(ctx, token))
	require.NoError(t, svc.ResetPassword(ctx, token, "new-pass"))

	_, _, err = svc.Login(ctx, "ada@example.com", "new-pass")
	require.NoError(t, err)
	_, _, err = svc.Login(ctx, "ada@example.com", "old-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Токен одноразовый
	err = svc.ResetPassword(ctx, token, "another-pass")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordResetUnknownEmail(t *testing.T) {
	mail := &fakeMailSender{}
	svc := newAuthFixture(newFakeUserStore(), mail)

	err := svc.RequestPasswordReset(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, mail.sent)
}

func TestResetPasswordInvalidToken(t *testing.T) {
	svc := newAuthFixture(newFakeUserStore(), &fakeMailSender{})

	err := svc.ResetPassword(context.Background(), strings.Repeat("ab", 32), "new-pass")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func extractResetToken(t *testing.T, body string) string {
	t.Helper()
	const marker = "/reset-password/"
	idx := strings.Index(body, marker)
	require.NotEqual(t, -1, idx, "reset link missing from email body")
	rest := body[idx+len(marker):]
	end := strings.IndexByte(rest, '"')
	require.NotEqual(t, -1, end)
	return rest[:end]
}
