package dto

import "github.com/shopspring/decimal"

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Name         string          `json:"name" validate:"required,min=1,max=200"`
	SKU          string          `json:"sku" validate:"max=50"`
	HSNCode      string          `json:"hsn_code" validate:"omitempty,hsn"`
	Category     string          `json:"category" validate:"max=100"`
	Description  string          `json:"description" validate:"max=2000"`
	Unit         string          `json:"unit" validate:"omitempty,uqc"`
	Price        decimal.Decimal `json:"price" validate:"gte=0"`
	CostPrice    decimal.Decimal `json:"cost_price" validate:"gte=0"`
	TaxRate      decimal.Decimal `json:"tax_rate" validate:"gst_slab"`
	OpeningStock decimal.Decimal `json:"opening_stock" validate:"gte=0"`
	MinStock     decimal.Decimal `json:"min_stock" validate:"gte=0"`
	TrackStock   *bool           `json:"track_stock"`
}

// UpdateProductRequest entrada para actualizar un producto (campos opcionales).
// El stock solo cambia mediante movimientos.
type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	SKU         *string          `json:"sku" validate:"omitempty,max=50"`
	HSNCode     *string          `json:"hsn_code" validate:"omitempty,hsn"`
	Category    *string          `json:"category" validate:"omitempty,max=100"`
	Description *string          `json:"description" validate:"omitempty,max=2000"`
	Unit        *string          `json:"unit" validate:"omitempty,uqc"`
	Price       *decimal.Decimal `json:"price" validate:"omitempty,gte=0"`
	TaxRate     *decimal.Decimal `json:"tax_rate" validate:"omitempty,gst_slab"`
	MinStock    *decimal.Decimal `json:"min_stock" validate:"omitempty,gte=0"`
	TrackStock  *bool            `json:"track_stock"`
}

// ProductFilter filtros del listado de productos.
type ProductFilter struct {
	Query           string `query:"q" json:"q"`
	Category        string `query:"category" json:"category"`
	LowStock        bool   `query:"low_stock" json:"low_stock"`
	IncludeInactive bool   `query:"include_inactive" json:"include_inactive"`
	PageRequest
}

// StockAdjustmentRequest movimiento manual de stock.
type StockAdjustmentRequest struct {
	Type      string          `json:"type" validate:"required,oneof=in out adjust return"`
	Quantity  decimal.Decimal `json:"quantity" validate:"gte=0"`
	UnitCost  decimal.Decimal `json:"unit_cost" validate:"gte=0"`
	Reason    string          `json:"reason" validate:"max=200"`
	Reference string          `json:"reference" validate:"max=100"`
}

// StockValueResponse valorización del inventario.
type StockValueResponse struct {
	Products   int             `json:"products"`
	TotalUnits decimal.Decimal `json:"total_units"`
	TotalValue decimal.Decimal `json:"total_value"`
}

// HSNSuggestionRequest descripción del producto a clasificar.
type HSNSuggestionRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

// HSNSuggestionDTO sugerencia de código HSN/SAC y tasa GST.
type HSNSuggestionDTO struct {
	HSNCode         string          `json:"hsn_code"`
	TaxRate         decimal.Decimal `json:"tax_rate"`
	ConfidenceScore float64         `json:"confidence_score"`
	Reasoning       string          `json:"reasoning"`
}
