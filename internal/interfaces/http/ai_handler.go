package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/billmaker-api/internal/application/dto"
	"github.com/jhoicas/billmaker-api/internal/application/product"
)

// HSNHandler sugerencia de código HSN/SAC asistida por IA.
type HSNHandler struct {
	uc *product.HSNUseCase
}

// NewHSNHandler construye el handler.
func NewHSNHandler(uc *product.HSNUseCase) *HSNHandler {
	return &HSNHandler{uc: uc}
}

// Suggest godoc
// @Summary      Sugerir código HSN/SAC y tarifa GST
// @Description  Consulta un LLM con el nombre y la descripción del producto. Responde 503 si no hay API key configurada.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.HSNSuggestionRequest  true  "Producto"
// @Success      200   {object}  dto.HSNSuggestionDTO
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/products/hsn-suggestions [post]
func (h *HSNHandler) Suggest(c *fiber.Ctx) error {
	var in dto.HSNSuggestionRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Suggest(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
