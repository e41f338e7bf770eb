package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/billmaker-api/internal/application/dto"
	"github.com/jhoicas/billmaker-api/internal/domain/entity"
	"github.com/jhoicas/billmaker-api/internal/domain/repository"
)

const dashboardTopProducts = 5 // productos en el widget del dashboard

// DashboardUseCase genera el resumen del día y del mes en curso.
type DashboardUseCase struct {
	invoices  repository.InvoiceRepository
	customers repository.CustomerRepository
	products  repository.ProductRepository
	now       func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	invoices repository.InvoiceRepository,
	customers repository.CustomerRepository,
	products repository.ProductRepository,
) *DashboardUseCase {
	return &DashboardUseCase{invoices: invoices, customers: customers, products: products, now: time.Now}
}

// GetSummary construye el DashboardSummaryDTO para el negocio indicado
// (vacío = todos los negocios).
//
// Tres lecturas en paralelo:
//  1. facturas   → ventas de hoy y del mes, pendiente, vencidas, top 5
//  2. clientes   → total de clientes activos
//  3. productos  → total de productos activos y bajo mínimo
func (uc *DashboardUseCase) GetSummary(ctx context.Context, businessID string) (*dto.DashboardSummaryDTO, error) {
	now := uc.now()

	today, _ := resolvePeriod(&now, &now, now)
	month, _ := resolvePeriod(nil, nil, now)

	type invoicesResult struct {
		rows []*entity.Invoice
		err  error
	}
	type customersResult struct {
		rows []*entity.Customer
		err  error
	}
	type productsResult struct {
		rows []*entity.Product
		err  error
	}

	invCh := make(chan invoicesResult, 1)
	custCh := make(chan customersResult, 1)
	prodCh := make(chan productsResult, 1)

	go func() {
		rows, err := uc.invoices.List(ctx)
		invCh <- invoicesResult{rows, err}
	}()
	go func() {
		rows, err := uc.customers.List(ctx)
		custCh <- customersResult{rows, err}
	}()
	go func() {
		rows, err := uc.products.List(ctx)
		prodCh <- productsResult{rows, err}
	}()

	invs := <-invCh
	custs := <-custCh
	prods := <-prodCh

	if invs.err != nil {
		return nil, fmt.Errorf("dashboard: facturas: %w", invs.err)
	}
	if custs.err != nil {
		return nil, fmt.Errorf("dashboard: clientes: %w", custs.err)
	}
	if prods.err != nil {
		return nil, fmt.Errorf("dashboard: productos: %w", prods.err)
	}

	out := &dto.DashboardSummaryDTO{
		BusinessID:    businessID,
		TodaySales:    decimal.Zero,
		MonthlySales:  decimal.Zero,
		PendingAmount: decimal.Zero,
	}
	for _, inv := range invs.rows {
		if businessID != "" && inv.BusinessID != businessID {
			continue
		}
		if inv.IsDraft() {
			out.DraftCount++
			continue
		}
		if !inv.CountsAsSale() {
			continue
		}
		out.TotalInvoices++
		out.PendingAmount = out.PendingAmount.Add(inv.BalanceDue)
		if inv.IsOverdue(now) {
			out.OverdueCount++
		}
		if today.contains(inv.Date) {
			out.TodaySales = out.TodaySales.Add(inv.Totals.GrandTotal)
			out.TodayInvoices++
		}
		if month.contains(inv.Date) {
			out.MonthlySales = out.MonthlySales.Add(inv.Totals.GrandTotal)
			out.MonthInvoices++
		}
	}

	for _, c := range custs.rows {
		if c.IsActive {
			out.TotalCustomers++
		}
	}
	for _, p := range prods.rows {
		if !p.IsActive {
			continue
		}
		out.TotalProducts++
		if p.IsLowStock() {
			out.LowStockCount++
		}
	}

	out.TopProducts = topProducts(filterSales(invs.rows, businessID, month), indexProducts(prods.rows), dashboardTopProducts, "revenue")
	return out, nil
}
