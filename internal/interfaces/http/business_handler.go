package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/billmaker-api/internal/application/business"
	"github.com/jhoicas/billmaker-api/internal/application/dto"
)

// BusinessHandler registro de negocios emisores.
type BusinessHandler struct {
	uc *business.BusinessUseCase
}

// NewBusinessHandler construye el handler.
func NewBusinessHandler(uc *business.BusinessUseCase) *BusinessHandler {
	return &BusinessHandler{uc: uc}
}

// Create godoc
// @Summary      Crear negocio
// @Tags         businesses
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBusinessRequest  true  "Datos del negocio"
// @Success      201   {object}  entity.Business
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/businesses [post]
func (h *BusinessHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBusinessRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar negocios
// @Tags         businesses
// @Security     Bearer
// @Produce      json
// @Router       /api/businesses [get]
func (h *BusinessHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetActive godoc
// @Summary      Negocio activo
// @Tags         businesses
// @Security     Bearer
// @Produce      json
// @Router       /api/businesses/active [get]
func (h *BusinessHandler) GetActive(c *fiber.Ctx) error {
	out, err := h.uc.GetActive(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *BusinessHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar negocio (parcial)
// @Tags         businesses
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del negocio"
// @Param        body  body  dto.UpdateBusinessRequest  true  "Campos a cambiar"
// @Router       /api/businesses/{id} [put]
func (h *BusinessHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateBusinessRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *BusinessHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Activate godoc
// @Summary      Marcar negocio como activo
// @Tags         businesses
// @Security     Bearer
// @Param        id  path  string  true  "ID del negocio"
// @Router       /api/businesses/{id}/activate [post]
func (h *BusinessHandler) Activate(c *fiber.Ctx) error {
	out, err := h.uc.SetActive(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RefreshStats recalcula y devuelve las estadísticas del negocio.
func (h *BusinessHandler) RefreshStats(c *fiber.Ctx) error {
	out, err := h.uc.RefreshStats(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out.Stats)
}
