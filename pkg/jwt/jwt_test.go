package jwt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/billmaker-api/pkg/jwt"
)

func TestGenerateParse_RoundTrip(t *testing.T) {
	tok, exp, err := jwt.Generate("s3cret", "admin", jwt.RoleOperator, "billmaker", 5)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), exp, 5*time.Second)

	user, role, err := jwt.Parse("s3cret", tok)
	require.NoError(t, err)
	assert.Equal(t, "admin", user)
	assert.Equal(t, jwt.RoleOperator, role)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	tok, _, err := jwt.Generate("s3cret", "admin", jwt.RoleOperator, "billmaker", 5)
	require.NoError(t, err)

	_, _, err = jwt.Parse("otro", tok)
	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	tok, _, err := jwt.Generate("s3cret", "admin", jwt.RoleOperator, "billmaker", -1)
	require.NoError(t, err)

	_, _, err = jwt.Parse("s3cret", tok)
	assert.Error(t, err)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, _, err := jwt.Generate("", "admin", jwt.RoleOperator, "billmaker", 5)
	assert.Error(t, err)
}

func TestParse_SecretVacio(t *testing.T) {
	_, _, err := jwt.Parse("", "x.y.z")
	assert.ErrorIs(t, err, jwt.ErrEmptySecret)
}

func TestParse_TokenMalformado(t *testing.T) {
	_, _, err := jwt.Parse("s3cret", "no-es-un-token")
	assert.Error(t, err)
}
