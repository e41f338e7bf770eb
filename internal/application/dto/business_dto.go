package dto

import "github.com/shopspring/decimal"

// BankInput datos bancarios del negocio.
type BankInput struct {
	AccountName   string `json:"account_name" validate:"max=200"`
	AccountNumber string `json:"account_number" validate:"omitempty,numeric,min=6,max=20"`
	IFSC          string `json:"ifsc" validate:"omitempty,ifsc"`
	BankName      string `json:"bank_name" validate:"max=200"`
	UPIID         string `json:"upi_id" validate:"omitempty,contains=@,max=100"`
}

// SettingsInput preferencias de facturación (campos opcionales).
type SettingsInput struct {
	InvoicePrefix   *string          `json:"invoice_prefix" validate:"omitempty,min=1,max=10,alphanum"`
	DefaultTaxRate  *decimal.Decimal `json:"default_tax_rate" validate:"omitempty,gst_slab"`
	Currency        *string          `json:"currency" validate:"omitempty,len=3"`
	DueDays         *int             `json:"due_days" validate:"omitempty,min=0,max=365"`
	RoundOff        *bool            `json:"round_off"`
	Terms           *string          `json:"terms" validate:"omitempty,max=2000"`
	Notes           *string          `json:"notes" validate:"omitempty,max=2000"`
	InvoiceTemplate *string          `json:"invoice_template" validate:"omitempty,oneof=classic modern minimal"`
}

// CreateBusinessRequest entrada para crear un negocio.
type CreateBusinessRequest struct {
	Name      string        `json:"name" validate:"required,min=1,max=200"`
	LegalName string        `json:"legal_name" validate:"max=200"`
	GSTIN     string        `json:"gstin" validate:"omitempty,gstin"`
	PAN       string        `json:"pan" validate:"omitempty,pan"`
	Address   AddressInput  `json:"address"`
	Phone     string        `json:"phone" validate:"omitempty,in_phone"`
	Email     string        `json:"email" validate:"omitempty,email"`
	Website   string        `json:"website" validate:"omitempty,url"`
	Bank      BankInput     `json:"bank"`
	Settings  SettingsInput `json:"settings"`
}

// UpdateBusinessRequest entrada para actualizar un negocio (campos opcionales).
type UpdateBusinessRequest struct {
	Name      *string        `json:"name" validate:"omitempty,min=1,max=200"`
	LegalName *string        `json:"legal_name" validate:"omitempty,max=200"`
	GSTIN     *string        `json:"gstin" validate:"omitempty,gstin"`
	PAN       *string        `json:"pan" validate:"omitempty,pan"`
	Address   *AddressInput  `json:"address"`
	Phone     *string        `json:"phone" validate:"omitempty,in_phone"`
	Email     *string        `json:"email" validate:"omitempty,email"`
	Website   *string        `json:"website" validate:"omitempty,url"`
	Bank      *BankInput     `json:"bank"`
	Settings  *SettingsInput `json:"settings"`
}
