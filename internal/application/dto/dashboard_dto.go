package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO resumen del día y del mes en curso para el negocio activo.
type DashboardSummaryDTO struct {
	BusinessID     string          `json:"business_id,omitempty"`
	TodaySales     decimal.Decimal `json:"today_sales"`
	TodayInvoices  int             `json:"today_invoices"`
	MonthlySales   decimal.Decimal `json:"monthly_sales"`
	MonthInvoices  int             `json:"month_invoices"`
	PendingAmount  decimal.Decimal `json:"pending_amount"`
	OverdueCount   int             `json:"overdue_count"`
	DraftCount     int             `json:"draft_count"`
	TotalCustomers int             `json:"total_customers"`
	TotalProducts  int             `json:"total_products"`
	TotalInvoices  int             `json:"total_invoices"`
	LowStockCount  int             `json:"low_stock_count"`
	TopProducts    []TopProductDTO `json:"top_products"`
}
