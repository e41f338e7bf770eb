package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock.
const (
	MovementIn     = "in"
	MovementOut    = "out"
	MovementAdjust = "adjust"
	MovementReturn = "return"
)

// Product representa un producto o servicio facturable.
// CostPrice es promedio ponderado recalculado en cada entrada de stock.
type Product struct {
	ID             string          `json:"id"`
	Code           string          `json:"code"`                  // PROD-0001
	Name           string          `json:"name"`
	SKU            string          `json:"sku,omitempty"`
	HSNCode        string          `json:"hsn_code,omitempty"`
	Category       string          `json:"category,omitempty"`
	Description    string          `json:"description,omitempty"`
	Unit           string          `json:"unit"`
	Price          decimal.Decimal `json:"price"`
	CostPrice      decimal.Decimal `json:"cost_price"`
	TaxRate        decimal.Decimal `json:"tax_rate"`
	Stock          decimal.Decimal `json:"stock"`
	MinStock       decimal.Decimal `json:"min_stock"`
	TrackStock     bool            `json:"track_stock"`
	StockMovements []StockMovement `json:"stock_movements"`
	IsActive       bool            `json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// StockMovement entrada del log de movimientos de un producto.
type StockMovement struct {
	ID           string          `json:"id"`
	Type         string          `json:"type"`
	Quantity     decimal.Decimal `json:"quantity"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	Reason       string          `json:"reason,omitempty"`
	Reference    string          `json:"reference,omitempty"`
	At           time.Time       `json:"at"`
}

// IsLowStock producto activo con control de stock en o bajo el mínimo.
func (p *Product) IsLowStock() bool {
	return p.IsActive && p.TrackStock && p.Stock.LessThanOrEqual(p.MinStock)
}

// StockValue valor del inventario a costo.
func (p *Product) StockValue() decimal.Decimal {
	if !p.TrackStock || p.Stock.IsNegative() {
		return decimal.Zero
	}
	return p.Stock.Mul(p.CostPrice)
}

// GetUpdatedAt permite resolver conflictos al fusionar respaldos.
func (p *Product) GetUpdatedAt() time.Time { return p.UpdatedAt }

// GetID identificador del registro.
func (p *Product) GetID() string { return p.ID }
