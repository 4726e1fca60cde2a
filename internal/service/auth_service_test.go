package service

import (
	"context"
	"encoding/hex"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"societydocs/api/internal/config"
	"societydocs/api/internal/models"
	"societydocs/api/internal/repository"
)

type fakeUserStore struct {
	users map[string]models.User // keyed by id
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]models.User{}}
}

func (f *fakeUserStore) Create(_ context.Context, user models.User) error {
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return repository.ErrEmailTaken
		}
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, repository.ErrUserNotFound
}

func (f *fakeUserStore) GetByID(_ context.Context, id string) (models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

type fakeSessionStore struct {
	sessions map[string]models.Session // keyed by hex token hash
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: map[string]models.Session{}}
}

func (f *fakeSessionStore) Create(_ context.Context, session models.Session) error {
	f.sessions[hex.EncodeToString(session.TokenHash)] = session
	return nil
}

func (f *fakeSessionStore) FindByTokenHash(_ context.Context, tokenHash []byte) (models.Session, error) {
	session, ok := f.sessions[hex.EncodeToString(tokenHash)]
	if !ok {
		return models.Session{}, repository.ErrSessionNotFound
	}
	return session, nil
}

func (f *fakeSessionStore) DeleteByTokenHash(_ context.Context, tokenHash []byte) error {
	key := hex.EncodeToString(tokenHash)
	if _, ok := f.sessions[key]; !ok {
		return repository.ErrSessionNotFound
	}
	delete(f.sessions, key)
	return nil
}

func testConfig() *config.AppConfig {
	return &config.AppConfig{
		Environment: "test",
		Security: config.SecurityConfig{
			SessionTTL:          30 * 24 * time.Hour,
			FolderTokenSecret:   "test-secret",
			FolderTokenTTL:      15 * time.Minute,
			FolderMaxAttempts:   5,
			FolderAttemptWindow: 15 * time.Minute,
		},
	}
}

func newTestAuthService() (*AuthService, *fakeUserStore, *fakeSessionStore) {
	users := newFakeUserStore()
	sessions := newFakeSessionStore()
	return NewAuthService(users, sessions, testConfig(), zerolog.Nop()), users, sessions
}

func validSignup() SignupInput {
	return SignupInput{
		Name:           "Asha Rao",
		Email:          "asha@example.com",
		Password:       "login-password-1",
		FlatNumber:     "B-204",
		FolderPassword: "folder-password-1",
	}
}

func TestSignup_ThenSignIn(t *testing.T) {
	svc, _, sessions := newTestAuthService()
	ctx := context.Background()

	user, err := svc.Signup(ctx, validSignup())
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", user.Email)
	assert.Equal(t, models.UserRoleResident, user.Role)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEmpty(t, user.FolderPasswordHash)

	signedIn, token, err := svc.SignIn(ctx, "asha@example.com", "login-password-1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, signedIn.ID)
	assert.NotEmpty(t, token)
	assert.Len(t, sessions.sessions, 1)
}

func TestSignup_NormalizesEmail(t *testing.T) {
	svc, _, _ := newTestAuthService()

	input := validSignup()
	input.Email = "  Asha@Example.COM "
	user, err := svc.Signup(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", user.Email)
}

func TestSignup_MissingFields(t *testing.T) {
	svc, _, _ := newTestAuthService()

	input := validSignup()
	input.FolderPassword = ""
	_, err := svc.Signup(context.Background(), input)
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, validSignup())
	require.NoError(t, err)

	_, err = svc.Signup(ctx, validSignup())
	assert.ErrorIs(t, err, repository.ErrEmailTaken)
}

func TestSignIn_WrongPassword_CreatesNoSession(t *testing.T) {
	svc, _, sessions := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, validSignup())
	require.NoError(t, err)

	_, _, err = svc.SignIn(ctx, "asha@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Empty(t, sessions.sessions)
}

func TestSignIn_UnknownEmail(t *testing.T) {
	svc, _, _ := newTestAuthService()

	_, _, err := svc.SignIn(context.Background(), "nobody@example.com", "whatever1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate_ValidSession(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	user, err := svc.Signup(ctx, validSignup())
	require.NoError(t, err)
	_, token, err := svc.SignIn(ctx, "asha@example.com", "login-password-1")
	require.NoError(t, err)

	resolved, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)
}

func TestAuthenticate_ExpiredSession(t *testing.T) {
	svc, _, sessions := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, validSignup())
	require.NoError(t, err)
	_, token, err := svc.SignIn(ctx, "asha@example.com", "login-password-1")
	require.NoError(t, err)

	// Age the stored session past its expiry.
	for key, session := range sessions.sessions {
		session.ExpiresAt = time.Now().Add(-time.Hour)
		sessions.sessions[key] = session
	}

	_, err = svc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestAuthenticate_UnknownToken(t *testing.T) {
	svc, _, _ := newTestAuthService()

	_, err := svc.Authenticate(context.Background(), "no-such-token")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignOut_RevokesSession(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, validSignup())
	require.NoError(t, err)
	_, token, err := svc.SignIn(ctx, "asha@example.com", "login-password-1")
	require.NoError(t, err)

	require.NoError(t, svc.SignOut(ctx, token))

	_, err = svc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Signing out twice is harmless.
	assert.NoError(t, svc.SignOut(ctx, token))
}
