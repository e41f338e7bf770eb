package product_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/billmaker-api/internal/application/dto"
	"github.com/jhoicas/billmaker-api/internal/application/product"
	"github.com/jhoicas/billmaker-api/internal/domain"
)

type stubLLM struct {
	res *dto.HSNSuggestionDTO
	err error
}

func (s *stubLLM) SuggestHSN(ctx context.Context, name, description string) (*dto.HSNSuggestionDTO, error) {
	if _, ok := ctx.Deadline(); !ok {
		return nil, errors.New("sin timeout")
	}
	if s.err != nil {
		return nil, s.err
	}
	out := *s.res
	return &out, nil
}

func TestHSNSuggest(t *testing.T) {
	ctx := context.Background()

	uc := product.NewHSNUseCase(&stubLLM{res: &dto.HSNSuggestionDTO{HSNCode: " 1006 ", TaxRate: dec("5"), ConfidenceScore: 1.4}})
	res, err := uc.Suggest(ctx, dto.HSNSuggestionRequest{Name: "Basmati rice"})
	require.NoError(t, err)
	assert.Equal(t, "1006", res.HSNCode)
	assert.Equal(t, 1.0, res.ConfidenceScore)

	bad := product.NewHSNUseCase(&stubLLM{res: &dto.HSNSuggestionDTO{HSNCode: "1006", TaxRate: dec("7")}})
	_, err = bad.Suggest(ctx, dto.HSNSuggestionRequest{Name: "Basmati rice"})
	assert.Error(t, err)

	_, err = uc.Suggest(ctx, dto.HSNSuggestionRequest{Name: "x"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	none := product.NewHSNUseCase(nil)
	_, err = none.Suggest(ctx, dto.HSNSuggestionRequest{Name: "Basmati rice"})
	assert.True(t, errors.Is(err, domain.ErrNotConfigured))
}
