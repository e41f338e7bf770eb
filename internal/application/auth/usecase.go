// Package auth autentica al operador único de la aplicación y emite tokens JWT.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/billmaker-api/internal/application/dto"
	"github.com/jhoicas/billmaker-api/internal/application/validation"
	"github.com/jhoicas/billmaker-api/internal/domain"
	"github.com/jhoicas/billmaker-api/pkg/jwt"
	"github.com/jhoicas/billmaker-api/pkg/logger"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// Operator credenciales del operador: usuario y hash bcrypt de la contraseña.
type Operator struct {
	Username     string
	PasswordHash string
}

// AuthUseCase login del operador.
type AuthUseCase struct {
	op     Operator
	jwtCfg JWTConfig
	log    *logger.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(op Operator, jwtCfg JWTConfig, log *logger.Logger) *AuthUseCase {
	return &AuthUseCase{op: op, jwtCfg: jwtCfg, log: log.Component("auth")}
}

// HashPassword hashea una contraseña en claro con el costo por defecto de bcrypt.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("auth: contraseña vacía")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Enabled indica si hay credenciales configuradas.
func (uc *AuthUseCase) Enabled() bool {
	return uc.op.Username != "" && uc.op.PasswordHash != ""
}

// Login verifica usuario/contraseña y emite el token.
func (uc *AuthUseCase) Login(_ context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if !uc.Enabled() {
		return nil, domain.ErrNotConfigured
	}
	userOK := subtle.ConstantTimeCompare([]byte(in.Username), []byte(uc.op.Username)) == 1
	passErr := bcrypt.CompareHashAndPassword([]byte(uc.op.PasswordHash), []byte(in.Password))
	if !userOK || passErr != nil {
		uc.log.Warn().Str("username", in.Username).Msg("login rechazado")
		return nil, domain.ErrUnauthorized
	}
	token, exp, err := jwt.Generate(uc.jwtCfg.Secret, uc.op.Username, jwt.RoleOperator, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("username", uc.op.Username).Msg("login")
	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: exp,
		Username:  uc.op.Username,
		Role:      jwt.RoleOperator,
	}, nil
}
