package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/billmaker-api/internal/application/billing"
	"github.com/jhoicas/billmaker-api/internal/application/dto"
	"github.com/jhoicas/billmaker-api/internal/domain/entity"
)

// InvoiceHandler ciclo de vida de las facturas: borrador, emisión, pagos y anulación.
type InvoiceHandler struct {
	engine *billing.BillingEngine
	pdf    *billing.PDFUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(engine *billing.BillingEngine, pdf *billing.PDFUseCase) *InvoiceHandler {
	return &InvoiceHandler{engine: engine, pdf: pdf}
}

func (h *InvoiceHandler) respond(c *fiber.Ctx, status int, inv *entity.Invoice, err error) error {
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(status).JSON(dto.NewInvoiceResponse(inv, time.Now()))
}

// CreateDraft godoc
// @Summary      Crear factura en borrador
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDraftRequest  false  "Negocio, cliente y fecha (opcionales)"
// @Success      201   {object}  dto.InvoiceResponse
// @Router       /api/invoices [post]
func (h *InvoiceHandler) CreateDraft(c *fiber.Ctx) error {
	var in dto.CreateDraftRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	inv, err := h.engine.CreateDraft(c.Context(), in)
	return h.respond(c, fiber.StatusCreated, inv, err)
}

// List godoc
// @Summary      Listar facturas (más recientes primero)
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        status       query  string  false  "draft|generated|sent|partially_paid|paid|overdue|cancelled"
// @Param        customer_id  query  string  false  "Cliente"
// @Param        business_id  query  string  false  "Negocio"
// @Param        from         query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to           query  string  false  "Hasta (YYYY-MM-DD)"
// @Param        q            query  string  false  "Número o nombre del cliente"
// @Router       /api/invoices [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	var f dto.InvoiceFilter
	if err := bindQuery(c, &f); err != nil {
		return respondError(c, err)
	}
	from, to, err := queryRange(c)
	if err != nil {
		return respondError(c, err)
	}
	f.From, f.To = from, to
	out, err := h.engine.List(c.Context(), f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *InvoiceHandler) Get(c *fiber.Ctx) error {
	inv, err := h.engine.Get(c.Context(), c.Params("id"))
	return h.respond(c, fiber.StatusOK, inv, err)
}

// DeleteDraft solo borradores.
func (h *InvoiceHandler) DeleteDraft(c *fiber.Ctx) error {
	if err := h.engine.DeleteDraft(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddItem godoc
// @Summary      Agregar línea (desde producto o manual)
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la factura"
// @Param        body  body  dto.ItemRequest  true  "Línea"
// @Success      200   {object}  dto.InvoiceResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/items [post]
func (h *InvoiceHandler) AddItem(c *fiber.Ctx) error {
	var in dto.ItemRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	inv, err := h.engine.AddItem(c.Context(), c.Params("id"), in)
	return h.respond(c, fiber.StatusOK, inv, err)
}

func (h *InvoiceHandler) UpdateItem(c *fiber.Ctx) error {
	var in dto.UpdateItemRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	inv, err := h.engine.UpdateItem(c.Context(), c.Params("id"), c.Params("itemId"), in)
	return h.respond(c, fiber.StatusOK, inv, err)
}

func (h *InvoiceHandler) RemoveItem(c *fiber.Ctx) error {
	inv, err := h.engine.RemoveItem(c.Context(), c.Params("id"), c.Params("itemId"))
	return h.respond(c, fiber.StatusOK, inv, err)
}

func (h *InvoiceHandler) SetCustomer(c *fiber.Ctx) error {
	var in dto.SetCustomerRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	inv, err := h.engine.SetCustomer(c.Context(), c.Params("id"), in)
	return h.respond(c, fiber.StatusOK, inv, err)
}

// SetAdjustments descuento de factura, cargos adicionales, notas y términos.
func (h *InvoiceHandler) SetAdjustments(c *fiber.Ctx) error {
	var in dto.AdjustmentsRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	inv, err := h.engine.SetAdjustments(c.Context(), c.Params("id"), in)
	return h.respond(c, fiber.StatusOK, inv, err)
}

// Generate godoc
// @Summary      Emitir factura
// @Description  Asigna número, descuenta stock, registra la compra del cliente y calcula el IRN.
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la factura"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/generate [post]
func (h *InvoiceHandler) Generate(c *fiber.Ctx) error {
	inv, err := h.engine.Generate(c.Context(), c.Params("id"))
	return h.respond(c, fiber.StatusOK, inv, err)
}

// RecordPayment godoc
// @Summary      Registrar pago
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la factura"
// @Param        body  body  dto.PaymentRequest  true  "Monto y medio de pago"
// @Router       /api/invoices/{id}/payments [post]
func (h *InvoiceHandler) RecordPayment(c *fiber.Ctx) error {
	var in dto.PaymentRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	inv, err := h.engine.RecordPayment(c.Context(), c.Params("id"), in)
	return h.respond(c, fiber.StatusOK, inv, err)
}

func (h *InvoiceHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.StatusRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	inv, err := h.engine.UpdateStatus(c.Context(), c.Params("id"), in)
	return h.respond(c, fiber.StatusOK, inv, err)
}

func (h *InvoiceHandler) Cancel(c *fiber.Ctx) error {
	var in dto.CancelRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	inv, err := h.engine.Cancel(c.Context(), c.Params("id"), in)
	return h.respond(c, fiber.StatusOK, inv, err)
}

func (h *InvoiceHandler) Duplicate(c *fiber.Ctx) error {
	inv, err := h.engine.Duplicate(c.Context(), c.Params("id"))
	return h.respond(c, fiber.StatusCreated, inv, err)
}

// PDF godoc
// @Summary      Descargar factura en PDF
// @Tags         invoices
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID de la factura"
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/pdf [get]
func (h *InvoiceHandler) PDF(c *fiber.Ctx) error {
	data, filename, err := h.pdf.GeneratePDF(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(data)
}

// HTML vista imprimible; los borradores llevan la marca DRAFT.
func (h *InvoiceHandler) HTML(c *fiber.Ctx) error {
	html, err := h.pdf.RenderHTML(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(html)
}
