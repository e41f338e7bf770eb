package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Niveles de fidelidad.
const (
	TierBronze   = "bronze"
	TierSilver   = "silver"
	TierGold     = "gold"
	TierPlatinum = "platinum"
)

// Customer representa un cliente (compartido entre negocios).
type Customer struct {
	ID              string           `json:"id"`
	Code            string           `json:"code"`                       // CUST-0001
	Name            string           `json:"name"`
	Phone           string           `json:"phone,omitempty"`
	Email           string           `json:"email,omitempty"`
	GSTIN           string           `json:"gstin,omitempty"`
	Address         Address          `json:"address"`
	StateCode       string           `json:"state_code,omitempty"`
	TotalSpent      decimal.Decimal  `json:"total_spent"`
	InvoiceCount    int              `json:"invoice_count"`
	LastPurchaseAt  *time.Time       `json:"last_purchase_at,omitempty"`
	LoyaltyPoints   int64            `json:"loyalty_points"`
	LoyaltyTier     string           `json:"loyalty_tier"`
	Tags            []string         `json:"tags"`
	Notes           string           `json:"notes,omitempty"`
	PurchaseHistory []PurchaseRecord `json:"purchase_history"`
	IsActive        bool             `json:"is_active"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// PurchaseRecord una compra (factura generada) en el historial del cliente.
type PurchaseRecord struct {
	InvoiceID     string          `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	Amount        decimal.Decimal `json:"amount"`
	PointsEarned  int64           `json:"points_earned"`
	At            time.Time       `json:"at"`
}

// IsB2B indica si el cliente está registrado en GST (factura B2B).
func (c *Customer) IsB2B() bool { return c.GSTIN != "" }

// HasTag verifica si el cliente tiene la etiqueta (ya normalizada).
func (c *Customer) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// GetUpdatedAt permite resolver conflictos al fusionar respaldos.
func (c *Customer) GetUpdatedAt() time.Time { return c.UpdatedAt }

// GetID identificador del registro.
func (c *Customer) GetID() string { return c.ID }
