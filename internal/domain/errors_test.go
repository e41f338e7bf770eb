package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/billmaker-api/internal/domain"
)

func TestValidationError_EsInvalidInput(t *testing.T) {
	v := domain.NewValidationError()
	assert.NoError(t, v.OrNil())

	v.Add("gstin", "checksum inválido")
	v.Add("gstin", "ignorado")
	v.Add("email", "formato inválido")

	err := fmt.Errorf("crear negocio: %w", v.OrNil())
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	var ve *domain.ValidationError
	assert.True(t, errors.As(err, &ve))
	assert.Equal(t, "checksum inválido", ve.Fields["gstin"])
	assert.Equal(t, "entrada inválida: email: formato inválido; gstin: checksum inválido", ve.Error())
}
