package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Plantillas de factura disponibles.
const (
	TemplateClassic = "classic"
	TemplateModern  = "modern"
	TemplateMinimal = "minimal"
)

// Business representa un negocio emisor de facturas. Solo uno está activo a la vez.
type Business struct {
	ID        string           `json:"id"`
	Code      string           `json:"code"`                 // BIZ-0001
	Name      string           `json:"name"`
	LegalName string           `json:"legal_name,omitempty"`
	GSTIN     string           `json:"gstin,omitempty"`
	PAN       string           `json:"pan,omitempty"`
	Address   Address          `json:"address"`
	Phone     string           `json:"phone,omitempty"`
	Email     string           `json:"email,omitempty"`
	Website   string           `json:"website,omitempty"`
	Bank      BankDetails      `json:"bank"`
	Settings  BusinessSettings `json:"settings"`
	Stats     BusinessStats    `json:"stats"`
	IsActive  bool             `json:"is_active"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// BankDetails datos bancarios impresos en la factura.
type BankDetails struct {
	AccountName   string `json:"account_name,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	IFSC          string `json:"ifsc,omitempty"`
	BankName      string `json:"bank_name,omitempty"`
	UPIID         string `json:"upi_id,omitempty"`
}

// BusinessSettings preferencias de facturación del negocio.
type BusinessSettings struct {
	InvoicePrefix   string          `json:"invoice_prefix"`
	DefaultTaxRate  decimal.Decimal `json:"default_tax_rate"`
	Currency        string          `json:"currency"`
	DueDays         int             `json:"due_days"`
	RoundOff        bool            `json:"round_off"`
	Terms           string          `json:"terms,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	InvoiceTemplate string          `json:"invoice_template"`
}

// DefaultBusinessSettings valores por defecto al crear un negocio.
func DefaultBusinessSettings() BusinessSettings {
	return BusinessSettings{
		InvoicePrefix:   "INV",
		DefaultTaxRate:  decimal.NewFromInt(18),
		Currency:        "INR",
		DueDays:         15,
		RoundOff:        true,
		InvoiceTemplate: TemplateClassic,
	}
}

// BusinessStats resumen recalculado desde las facturas del negocio.
type BusinessStats struct {
	TotalInvoices  int             `json:"total_invoices"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	TotalCustomers int             `json:"total_customers"`
	LastInvoiceAt  *time.Time      `json:"last_invoice_at,omitempty"`
}

// StateCode código de estado GST del negocio (lugar de origen del suministro).
func (b *Business) StateCode() string {
	return b.Address.StateCode
}

// GetUpdatedAt permite resolver conflictos al fusionar respaldos.
func (b *Business) GetUpdatedAt() time.Time { return b.UpdatedAt }

// GetID identificador del registro.
func (b *Business) GetID() string { return b.ID }
