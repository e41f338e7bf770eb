package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/billmaker-api/internal/application/auth"
	"github.com/jhoicas/billmaker-api/internal/application/dto"
	"github.com/jhoicas/billmaker-api/internal/domain"
	"github.com/jhoicas/billmaker-api/pkg/jwt"
	"github.com/jhoicas/billmaker-api/pkg/logger"
)

const secret = "secreto-de-pruebas"

func newAuth(t *testing.T) *auth.AuthUseCase {
	t.Helper()
	hash, err := auth.HashPassword("s3cret!")
	require.NoError(t, err)
	return auth.NewAuthUseCase(
		auth.Operator{Username: "admin", PasswordHash: hash},
		auth.JWTConfig{Secret: secret, ExpMinutes: 60, Issuer: "test"},
		logger.Nop(),
	)
}

func TestLogin_Exitoso(t *testing.T) {
	uc := newAuth(t)
	res, err := uc.Login(context.Background(), dto.LoginRequest{Username: "admin", Password: "s3cret!"})
	require.NoError(t, err)
	assert.Equal(t, jwt.RoleOperator, res.Role)
	assert.False(t, res.ExpiresAt.IsZero())

	user, role, err := jwt.Parse(secret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", user)
	assert.Equal(t, jwt.RoleOperator, role)
}

func TestLogin_Rechazos(t *testing.T) {
	uc := newAuth(t)
	ctx := context.Background()

	_, err := uc.Login(ctx, dto.LoginRequest{Username: "admin", Password: "otra"})
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
	_, err = uc.Login(ctx, dto.LoginRequest{Username: "root", Password: "s3cret!"})
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
	_, err = uc.Login(ctx, dto.LoginRequest{Username: "admin"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	sinCredenciales := auth.NewAuthUseCase(auth.Operator{Username: "admin"}, auth.JWTConfig{Secret: secret}, logger.Nop())
	assert.False(t, sinCredenciales.Enabled())
	_, err = sinCredenciales.Login(ctx, dto.LoginRequest{Username: "admin", Password: "x"})
	assert.True(t, errors.Is(err, domain.ErrNotConfigured))
}

func TestHashPassword(t *testing.T) {
	_, err := auth.HashPassword("")
	assert.Error(t, err)
	h, err := auth.HashPassword("abc")
	require.NoError(t, err)
	assert.NotEqual(t, "abc", h)
}
