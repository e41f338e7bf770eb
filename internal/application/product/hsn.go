package product

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/billmaker-api/internal/application/dto"
	"github.com/jhoicas/billmaker-api/internal/application/ports"
	"github.com/jhoicas/billmaker-api/internal/application/validation"
	"github.com/jhoicas/billmaker-api/internal/domain"
	"github.com/jhoicas/billmaker-api/pkg/gst"
)

// hsnTimeout límite de cada llamada al LLM.
const hsnTimeout = 10 * time.Second

// HSNUseCase sugiere código HSN/SAC y tarifa GST asistido por IA.
type HSNUseCase struct {
	llm ports.LLMService
}

// NewHSNUseCase construye el caso de uso; llm puede ser nil si no hay API key.
func NewHSNUseCase(llm ports.LLMService) *HSNUseCase {
	return &HSNUseCase{llm: llm}
}

// Suggest valida la entrada, consulta el LLM y descarta respuestas fuera de catálogo.
func (uc *HSNUseCase) Suggest(ctx context.Context, req dto.HSNSuggestionRequest) (*dto.HSNSuggestionDTO, error) {
	if uc.llm == nil {
		return nil, fmt.Errorf("%w: sugerencias HSN requieren AI_ANTHROPIC_API_KEY", domain.ErrNotConfigured)
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, hsnTimeout)
	defer cancel()

	res, err := uc.llm.SuggestHSN(ctx, req.Name, req.Description)
	if err != nil {
		return nil, fmt.Errorf("sugerencia HSN: %w", err)
	}
	res.HSNCode = strings.TrimSpace(res.HSNCode)
	if err := gst.ValidateHSN(res.HSNCode); err != nil {
		return nil, fmt.Errorf("sugerencia HSN: %w", err)
	}
	if !gst.IsValidTaxSlab(res.TaxRate) {
		return nil, fmt.Errorf("sugerencia HSN: tarifa %s fuera de las tarifas GST", res.TaxRate)
	}
	if res.ConfidenceScore < 0 {
		res.ConfidenceScore = 0
	}
	if res.ConfidenceScore > 1 {
		res.ConfidenceScore = 1
	}
	return res, nil
}
