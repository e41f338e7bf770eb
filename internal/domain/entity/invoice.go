package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de factura. Overdue no se persiste: se deriva de DueDate y BalanceDue.
const (
	InvoiceStatusDraft         = "draft"
	InvoiceStatusGenerated     = "generated"
	InvoiceStatusSent          = "sent"
	InvoiceStatusPartiallyPaid = "partially_paid"
	InvoiceStatusPaid          = "paid"
	InvoiceStatusOverdue       = "overdue"
	InvoiceStatusCancelled     = "cancelled"
)

var invoiceTransitions = map[string][]string{
	InvoiceStatusDraft:         {InvoiceStatusGenerated},
	InvoiceStatusGenerated:     {InvoiceStatusSent, InvoiceStatusPartiallyPaid, InvoiceStatusPaid, InvoiceStatusCancelled},
	InvoiceStatusSent:          {InvoiceStatusPartiallyPaid, InvoiceStatusPaid, InvoiceStatusCancelled},
	InvoiceStatusPartiallyPaid: {InvoiceStatusPartiallyPaid, InvoiceStatusPaid, InvoiceStatusCancelled},
	InvoiceStatusPaid:          {InvoiceStatusCancelled},
}

// CanTransition indica si el cambio de estado from → to está permitido.
func CanTransition(from, to string) bool {
	for _, s := range invoiceTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Invoice representa una factura GST con sus ítems y totales calculados.
type Invoice struct {
	ID                     string           `json:"id"`
	InvoiceNumber          string           `json:"invoice_number,omitempty"`           // asignado al generar
	BusinessID             string           `json:"business_id"`
	CustomerID             string           `json:"customer_id,omitempty"`
	Customer               CustomerSnapshot `json:"customer_snapshot"`
	Date                   time.Time        `json:"date"`
	DueDate                time.Time        `json:"due_date"`
	PlaceOfSupply          string           `json:"place_of_supply,omitempty"`
	InterState             bool             `json:"inter_state"`
	Items                  []InvoiceItem    `json:"items"`
	InvoiceDiscount        decimal.Decimal  `json:"invoice_discount"`
	AdditionalCharges      decimal.Decimal  `json:"additional_charges"`
	AdditionalChargesLabel string           `json:"additional_charges_label,omitempty"`
	RoundOffEnabled        bool             `json:"round_off_enabled"`
	Totals                 InvoiceTotals    `json:"totals"`
	Status                 string           `json:"status"`
	Payments               []Payment        `json:"payments"`
	AmountPaid             decimal.Decimal  `json:"amount_paid"`
	BalanceDue             decimal.Decimal  `json:"balance_due"`
	PointsEarned           int64            `json:"points_earned,omitempty"`
	IRN                    string           `json:"irn,omitempty"`
	Notes                  string           `json:"notes,omitempty"`
	Terms                  string           `json:"terms,omitempty"`
	CancelReason           string           `json:"cancel_reason,omitempty"`
	CreatedAt              time.Time        `json:"created_at"`
	UpdatedAt              time.Time        `json:"updated_at"`
	GeneratedAt            *time.Time       `json:"generated_at,omitempty"`
	PaidAt                 *time.Time       `json:"paid_at,omitempty"`
	CancelledAt            *time.Time       `json:"cancelled_at,omitempty"`
}

// CustomerSnapshot copia de los datos del cliente al momento de facturar.
type CustomerSnapshot struct {
	Name      string  `json:"name,omitempty"`
	Phone     string  `json:"phone,omitempty"`
	Email     string  `json:"email,omitempty"`
	GSTIN     string  `json:"gstin,omitempty"`
	Address   Address `json:"address"`
	StateCode string  `json:"state_code,omitempty"`
}

// InvoiceItem línea de factura con importes ya calculados.
type InvoiceItem struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"product_id,omitempty"`
	Name            string          `json:"name"`
	HSNCode         string          `json:"hsn_code,omitempty"`
	Unit            string          `json:"unit"`
	Quantity        decimal.Decimal `json:"quantity"`
	Rate            decimal.Decimal `json:"rate"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	GrossAmount     decimal.Decimal `json:"gross_amount"`
	TaxableAmount   decimal.Decimal `json:"taxable_amount"`
	TaxRate         decimal.Decimal `json:"tax_rate"`
	CGST            decimal.Decimal `json:"cgst"`
	SGST            decimal.Decimal `json:"sgst"`
	IGST            decimal.Decimal `json:"igst"`
	TaxAmount       decimal.Decimal `json:"tax_amount"`
	Total           decimal.Decimal `json:"total"`
}

// InvoiceTotals agregados de la factura.
type InvoiceTotals struct {
	Subtotal          decimal.Decimal `json:"subtotal"`
	ItemDiscount      decimal.Decimal `json:"item_discount"`
	TaxableAmount     decimal.Decimal `json:"taxable_amount"`
	CGST              decimal.Decimal `json:"cgst"`
	SGST              decimal.Decimal `json:"sgst"`
	IGST              decimal.Decimal `json:"igst"`
	TotalTax          decimal.Decimal `json:"total_tax"`
	ItemsTotal        decimal.Decimal `json:"items_total"`
	InvoiceDiscount   decimal.Decimal `json:"invoice_discount"`
	AdditionalCharges decimal.Decimal `json:"additional_charges"`
	RoundOff          decimal.Decimal `json:"round_off"`
	GrandTotal        decimal.Decimal `json:"grand_total"`
}

// Payment pago (total o parcial) registrado contra una factura.
type Payment struct {
	ID        string          `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Reference string          `json:"reference,omitempty"`
	At        time.Time       `json:"at"`
}

// IsDraft indica si la factura aún es editable.
func (i *Invoice) IsDraft() bool { return i.Status == InvoiceStatusDraft }

// CountsAsSale indica si la factura cuenta para ventas (ni borrador ni anulada).
func (i *Invoice) CountsAsSale() bool {
	return i.Status != InvoiceStatusDraft && i.Status != InvoiceStatusCancelled
}

// IsOverdue factura emitida, con saldo pendiente y vencida a la fecha now.
func (i *Invoice) IsOverdue(now time.Time) bool {
	switch i.Status {
	case InvoiceStatusGenerated, InvoiceStatusSent, InvoiceStatusPartiallyPaid:
	default:
		return false
	}
	if !i.BalanceDue.IsPositive() || i.DueDate.IsZero() {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return i.DueDate.Before(today)
}

// EffectiveStatus estado a mostrar: overdue si corresponde, si no el persistido.
func (i *Invoice) EffectiveStatus(now time.Time) string {
	if i.IsOverdue(now) {
		return InvoiceStatusOverdue
	}
	return i.Status
}

// ItemByID busca un ítem por ID; devuelve su índice o -1.
func (i *Invoice) ItemByID(itemID string) int {
	for idx := range i.Items {
		if i.Items[idx].ID == itemID {
			return idx
		}
	}
	return -1
}

// GetUpdatedAt permite resolver conflictos al fusionar respaldos.
func (i *Invoice) GetUpdatedAt() time.Time { return i.UpdatedAt }

// GetID identificador del registro.
func (i *Invoice) GetID() string { return i.ID }
