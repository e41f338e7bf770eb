package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/billmaker-api/internal/application/customer"
	"github.com/jhoicas/billmaker-api/internal/application/dto"
)

// CustomerHandler clientes, etiquetas y fidelidad.
type CustomerHandler struct {
	uc *customer.CustomerUseCase
}

// NewCustomerHandler construye el handler.
func NewCustomerHandler(uc *customer.CustomerUseCase) *CustomerHandler {
	return &CustomerHandler{uc: uc}
}

// Create godoc
// @Summary      Crear cliente
// @Tags         customers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCustomerRequest  true  "Datos del cliente"
// @Success      201   {object}  entity.Customer
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/customers [post]
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCustomerRequest
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
// @Summary      Listar clientes
// @Tags         customers
// @Security     Bearer
// @Produce      json
// @Param        q       query  string  false  "Nombre, teléfono, email o código"
// @Param        tag     query  string  false  "Etiqueta"
// @Param        tier    query  string  false  "bronze|silver|gold|platinum"
// @Param        active  query  bool    false  "Solo activos / inactivos"
// @Param        limit   query  int     false  "Límite"  default(50)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Router       /api/customers [get]
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	var f dto.CustomerFilter
	if err := bindQuery(c, &f); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.List(c.Context(), f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *CustomerHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *CustomerHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateCustomerRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete elimina el cliente; si tiene facturas queda inactivo y responde 200 con deactivated=true.
func (h *CustomerHandler) Delete(c *fiber.Ctx) error {
	deactivated, err := h.uc.Delete(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"deleted": !deactivated, "deactivated": deactivated})
}

func (h *CustomerHandler) AddTag(c *fiber.Ctx) error {
	var in dto.TagRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.AddTag(c.Context(), c.Params("id"), in.Tag)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *CustomerHandler) RemoveTag(c *fiber.Ctx) error {
	out, err := h.uc.RemoveTag(c.Context(), c.Params("id"), c.Params("tag"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RedeemPoints godoc
// @Summary      Canjear puntos de fidelidad (1 punto = ₹1)
// @Tags         customers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del cliente"
// @Param        body  body  dto.RedeemPointsRequest  true  "Puntos"
// @Success      200   {object}  dto.RedeemPointsResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/customers/{id}/redeem [post]
func (h *CustomerHandler) RedeemPoints(c *fiber.Ctx) error {
	var in dto.RedeemPointsRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.RedeemPoints(c.Context(), c.Params("id"), in.Points)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Top clientes por monto acumulado.
func (h *CustomerHandler) Top(c *fiber.Ctx) error {
	out, err := h.uc.TopCustomers(c.Context(), c.QueryInt("limit", 10))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
