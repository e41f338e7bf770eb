package ports

import (
	"context"

	"github.com/jhoicas/billmaker-api/internal/application/dto"
)

// LLMService puerto de salida para la clasificación asistida por IA.
// Cualquier adaptador (Anthropic, mock) debe implementar esta interfaz.
type LLMService interface {
	// SuggestHSN sugiere el código HSN/SAC y la tarifa GST a partir del nombre
	// y la descripción del producto. El contexto debe llevar timeout.
	SuggestHSN(ctx context.Context, productName, description string) (*dto.HSNSuggestionDTO, error)
}
