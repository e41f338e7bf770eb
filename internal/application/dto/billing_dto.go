package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/billmaker-api/internal/domain/entity"
)

// CreateDraftRequest entrada para abrir un borrador de factura.
// Sin business_id se usa el negocio activo.
type CreateDraftRequest struct {
	BusinessID string     `json:"business_id"`
	CustomerID string     `json:"customer_id"`
	Date       *time.Time `json:"date"`
	DueDate    *time.Time `json:"due_date"`
	Notes      string     `json:"notes" validate:"max=2000"`
	Terms      string     `json:"terms" validate:"max=2000"`
}

// ItemRequest línea nueva: desde producto (product_id) o manual (name + rate).
type ItemRequest struct {
	ProductID       string           `json:"product_id"`
	Name            string           `json:"name" validate:"required_without=ProductID,max=200"`
	HSNCode         string           `json:"hsn_code" validate:"omitempty,hsn"`
	Unit            string           `json:"unit" validate:"omitempty,uqc"`
	Quantity        decimal.Decimal  `json:"quantity" validate:"gt=0"`
	Rate            *decimal.Decimal `json:"rate" validate:"omitempty,gte=0"`
	DiscountPercent decimal.Decimal  `json:"discount_percent" validate:"gte=0,lte=100"`
	TaxRate         *decimal.Decimal `json:"tax_rate" validate:"omitempty,gst_slab"`
}

// UpdateItemRequest cambios sobre una línea existente.
type UpdateItemRequest struct {
	Name            *string          `json:"name" validate:"omitempty,min=1,max=200"`
	HSNCode         *string          `json:"hsn_code" validate:"omitempty,hsn"`
	Unit            *string          `json:"unit" validate:"omitempty,uqc"`
	Quantity        *decimal.Decimal `json:"quantity" validate:"omitempty,gt=0"`
	Rate            *decimal.Decimal `json:"rate" validate:"omitempty,gte=0"`
	DiscountPercent *decimal.Decimal `json:"discount_percent" validate:"omitempty,gte=0,lte=100"`
	TaxRate         *decimal.Decimal `json:"tax_rate" validate:"omitempty,gst_slab"`
}

// SetCustomerRequest asigna el cliente del borrador.
type SetCustomerRequest struct {
	CustomerID string `json:"customer_id" validate:"required"`
}

// AdjustmentsRequest descuento de factura, cargos adicionales y textos.
type AdjustmentsRequest struct {
	InvoiceDiscount        *decimal.Decimal `json:"invoice_discount" validate:"omitempty,gte=0"`
	AdditionalCharges      *decimal.Decimal `json:"additional_charges" validate:"omitempty,gte=0"`
	AdditionalChargesLabel *string          `json:"additional_charges_label" validate:"omitempty,max=100"`
	RoundOff               *bool            `json:"round_off"`
	DueDate                *time.Time       `json:"due_date"`
	Notes                  *string          `json:"notes" validate:"omitempty,max=2000"`
	Terms                  *string          `json:"terms" validate:"omitempty,max=2000"`
}

// PaymentRequest abono contra una factura emitida.
type PaymentRequest struct {
	Amount    decimal.Decimal `json:"amount" validate:"gt=0"`
	Method    string          `json:"method" validate:"required,payment_method"`
	Reference string          `json:"reference" validate:"max=100"`
}

// StatusRequest cambio manual de estado.
type StatusRequest struct {
	Status string `json:"status" validate:"required,oneof=generated sent paid cancelled"`
	Reason string `json:"reason" validate:"max=500"`
	Method string `json:"method" validate:"omitempty,payment_method"`
}

// CancelRequest anulación de una factura emitida.
type CancelRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// InvoiceFilter filtros del listado de facturas.
type InvoiceFilter struct {
	Status     string     `query:"status" json:"status" validate:"omitempty,oneof=draft generated sent partially_paid paid overdue cancelled"`
	CustomerID string     `query:"customer_id" json:"customer_id"`
	BusinessID string     `query:"business_id" json:"business_id"`
	From       *time.Time `query:"-" json:"from"`
	To         *time.Time `query:"-" json:"to"`
	Query      string     `query:"q" json:"q"`
	PageRequest
}

// InvoiceResponse factura con el estado efectivo (overdue derivado).
type InvoiceResponse struct {
	*entity.Invoice
	EffectiveStatus string `json:"effective_status"`
}

// NewInvoiceResponse arma la respuesta calculando el estado efectivo a la fecha now.
func NewInvoiceResponse(inv *entity.Invoice, now time.Time) InvoiceResponse {
	return InvoiceResponse{Invoice: inv, EffectiveStatus: inv.EffectiveStatus(now)}
}
