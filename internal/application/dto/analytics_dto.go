package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesSummaryDTO resumen de ventas del período.
type SalesSummaryDTO struct {
	From            time.Time       `json:"from"`
	To              time.Time       `json:"to"`
	InvoiceCount    int             `json:"invoice_count"`
	Revenue         decimal.Decimal `json:"revenue"`
	AverageInvoice  decimal.Decimal `json:"average_invoice"`
	TaxableAmount   decimal.Decimal `json:"taxable_amount"`
	CGST            decimal.Decimal `json:"cgst"`
	SGST            decimal.Decimal `json:"sgst"`
	IGST            decimal.Decimal `json:"igst"`
	TotalTax        decimal.Decimal `json:"total_tax"`
	DiscountsGiven  decimal.Decimal `json:"discounts_given"`
	Collected       decimal.Decimal `json:"collected"`
	Outstanding     decimal.Decimal `json:"outstanding"`
	CancelledCount  int             `json:"cancelled_count"`
	UniqueCustomers int             `json:"unique_customers"`
}

// TrendPointDTO un intervalo de la serie de ventas.
type TrendPointDTO struct {
	Bucket       string          `json:"bucket"`        // 2025-10-03 | 2025-W40 | 2025-10
	Start        time.Time       `json:"start"`
	Revenue      decimal.Decimal `json:"revenue"`
	InvoiceCount int             `json:"invoice_count"`
}

// TopProductDTO producto del ranking de ventas.
type TopProductDTO struct {
	ProductID string          `json:"product_id,omitempty"`
	Name      string          `json:"name"`
	Category  string          `json:"category,omitempty"`
	Quantity  decimal.Decimal `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
	Invoices  int             `json:"invoices"`
}

// CategorySalesDTO ventas agrupadas por categoría.
type CategorySalesDTO struct {
	Category string          `json:"category"`
	Quantity decimal.Decimal `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
	Share    decimal.Decimal `json:"share"`    // porcentaje del total
}

// TopCustomerDTO cliente del ranking.
type TopCustomerDTO struct {
	CustomerID   string          `json:"customer_id"`
	Name         string          `json:"name"`
	Tier         string          `json:"tier,omitempty"`
	InvoiceCount int             `json:"invoice_count"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// GSTSlabDTO fila del resumen por tasa.
type GSTSlabDTO struct {
	Rate    decimal.Decimal `json:"rate"`
	Taxable decimal.Decimal `json:"taxable"`
	CGST    decimal.Decimal `json:"cgst"`
	SGST    decimal.Decimal `json:"sgst"`
	IGST    decimal.Decimal `json:"igst"`
	Tax     decimal.Decimal `json:"tax"`
}

// GSTPartyDTO subtotal B2B o B2C.
type GSTPartyDTO struct {
	InvoiceCount int             `json:"invoice_count"`
	Taxable      decimal.Decimal `json:"taxable"`
	Tax          decimal.Decimal `json:"tax"`
	Total        decimal.Decimal `json:"total"`
}

// GSTSummaryDTO resumen tipo GSTR-1 del período.
type GSTSummaryDTO struct {
	From       time.Time       `json:"from"`
	To         time.Time       `json:"to"`
	Slabs      []GSTSlabDTO    `json:"slabs"`
	B2B        GSTPartyDTO     `json:"b2b"`
	B2C        GSTPartyDTO     `json:"b2c"`
	InterState GSTPartyDTO     `json:"inter_state"`
	IntraState GSTPartyDTO     `json:"intra_state"`
	TotalTax   decimal.Decimal `json:"total_tax"`
}

// CustomerInsightsDTO distribución de clientes.
type CustomerInsightsDTO struct {
	TotalCustomers    int             `json:"total_customers"`
	ActiveCustomers   int             `json:"active_customers"`
	NewInRange        int             `json:"new_in_range"`
	RepeatCustomers   int             `json:"repeat_customers"`
	TierDistribution  map[string]int  `json:"tier_distribution"`
	AverageLifetime   decimal.Decimal `json:"average_lifetime_value"`
	PointsOutstanding int64           `json:"points_outstanding"`
}

// ReorderSuggestionDTO sugerencia de reposición.
type ReorderSuggestionDTO struct {
	ProductID     string          `json:"product_id"`
	Name          string          `json:"name"`
	CurrentStock  decimal.Decimal `json:"current_stock"`
	MinStock      decimal.Decimal `json:"min_stock"`
	IdealStock    decimal.Decimal `json:"ideal_stock"`
	SuggestedQty  decimal.Decimal `json:"suggested_qty"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	EstimatedCost decimal.Decimal `json:"estimated_cost"`
	UnitsSold90d  decimal.Decimal `json:"units_sold_last_90_days"`
	Priority      int             `json:"priority"`
}

// InventoryReportDTO estado del inventario.
type InventoryReportDTO struct {
	ActiveProducts int                    `json:"active_products"`
	TrackedUnits   decimal.Decimal        `json:"tracked_units"`
	StockValue     decimal.Decimal        `json:"stock_value"`
	LowStockCount  int                    `json:"low_stock_count"`
	OutOfStock     int                    `json:"out_of_stock"`
	Reorder        []ReorderSuggestionDTO `json:"reorder"`
}

// ReportRequest período y parámetros comunes de los reportes.
// Sin from/to se usa desde el día 1 del mes en curso hasta hoy; ambos extremos son inclusivos.
type ReportRequest struct {
	BusinessID  string     `query:"business_id" json:"business_id"`
	From        *time.Time `query:"-" json:"from"`
	To          *time.Time `query:"-" json:"to"`
	Granularity string     `query:"granularity" json:"granularity" validate:"omitempty,oneof=day week month"`
	Limit       int        `query:"limit" json:"limit" validate:"min=0,max=100"`
	By          string     `query:"by" json:"by" validate:"omitempty,oneof=revenue quantity"`
}
