package service

import (
	"testing"
	"time"

	"rifa/config"
	"rifa/internal/auth"
	"rifa/internal/domain"
	"rifa/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthService(t *testing.T, env *testEnv) *AuthService {
	t.Helper()
	cfg := &config.Config{
		JWT: config.JWTConfig{
			AccessSecret:  "test-secret",
			RefreshSecret: "test-refresh",
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 168 * time.Hour,
			Issuer:        "rifa",
		},
	}
	return NewAuthService(cfg, env.users)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	svc := newAuthService(t, env)

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.DefaultCost)
	require.NoError(t, err)
	admin := &models.User{
		Name:         "Admin",
		Email:        "admin@test.local",
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	}
	require.NoError(t, env.users.Create(admin))

	u, pair, err := svc.Login("admin@test.local", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, u.ID)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	claims, err := auth.ParseAccessToken(&svc.cfg.JWT, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, claims.UserID)
	assert.Equal(t, domain.RoleAdmin, claims.Role)

	_, _, err = svc.Login("admin@test.local", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCreds)

	_, _, err = svc.Login("nobody@test.local", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCreds)
}

func TestRefreshTokenExchange(t *testing.T) {
	env := newTestEnv(t)
	svc := newAuthService(t, env)

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.DefaultCost)
	require.NoError(t, err)
	admin := &models.User{
		Name:         "Admin",
		Email:        "admin@test.local",
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	}
	require.NoError(t, env.users.Create(admin))

	_, pair, err := svc.Login("admin@test.local", "s3cret")
	require.NoError(t, err)

	u, fresh, err := svc.Refresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, u.ID)
	assert.NotEmpty(t, fresh.AccessToken)
	assert.NotEmpty(t, fresh.RefreshToken)

	_, _, err = svc.Refresh("garbage")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	// an access token is not a refresh token
	_, _, err = svc.Refresh(pair.AccessToken)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	// a non-admin subject cannot refresh into access
	buyer := env.createUser(t, "Maria", "maria@test.local")
	buyerPair, err := auth.IssueTokenPair(&svc.cfg.JWT, buyer)
	require.NoError(t, err)
	_, _, err = svc.Refresh(buyerPair.RefreshToken)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestLoginPasswordlessUser(t *testing.T) {
	env := newTestEnv(t)
	svc := newAuthService(t, env)
	env.createUser(t, "Maria", "maria@test.local")

	// identified buyers have no password and can never log in
	_, _, err := svc.Login("maria@test.local", "")
	assert.ErrorIs(t, err, ErrInvalidCreds)
}

func TestIdentifyCreatesUser(t *testing.T) {
	env := newTestEnv(t)
	svc := newAuthService(t, env)

	u, err := svc.Identify("  Maria@Test.Local ", " Maria ")
	require.NoError(t, err)
	assert.Equal(t, "maria@test.local", u.Email, "emails are normalized lower-case")
	assert.Equal(t, "Maria", u.Name)
	assert.Equal(t, domain.RoleUser, u.Role)
	assert.Empty(t, u.PasswordHash)
}

func TestIdentifyFindsExistingUser(t *testing.T) {
	env := newTestEnv(t)
	svc := newAuthService(t, env)

	first, err := svc.Identify("maria@test.local", "Maria")
	require.NoError(t, err)

	again, err := svc.Identify("MARIA@test.local", "Maria")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID, "identify is idempotent per email")

	renamed, err := svc.Identify("maria@test.local", "Maria Quispe")
	require.NoError(t, err)
	assert.Equal(t, first.ID, renamed.ID)
	assert.Equal(t, "Maria Quispe", renamed.Name)
}

func TestIdentifyValidation(t *testing.T) {
	env := newTestEnv(t)
	svc := newAuthService(t, env)

	cases := []struct {
		name  string
		email string
		who   string
	}{
		{"missing email", "", "Maria"},
		{"missing name", "maria@test.local", ""},
		{"no at sign", "maria.test.local", "Maria"},
		{"short name", "maria@test.local", "M"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Identify(tc.email, tc.who)
			require.Error(t, err)
			assert.Equal(t, domain.KindValidation, domain.KindOf(err))
		})
	}
}
