// Package analytics contiene los reportes de ventas, impuestos, clientes e
// inventario y el resumen del dashboard. Todos se calculan recorriendo los
// registros almacenados; borradores y facturas anuladas no cuentan como venta.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/billmaker-api/internal/application/dto"
	"github.com/jhoicas/billmaker-api/internal/application/validation"
	"github.com/jhoicas/billmaker-api/internal/domain"
	"github.com/jhoicas/billmaker-api/internal/domain/entity"
	"github.com/jhoicas/billmaker-api/internal/domain/inventory"
	"github.com/jhoicas/billmaker-api/internal/domain/repository"
	"github.com/jhoicas/billmaker-api/internal/domain/tax"
)

const (
	defaultTopN     = 10
	reorderLookback = 90 // días de ventas considerados para priorizar reposición
	uncategorized   = "Uncategorized"
)

var hundred = decimal.NewFromInt(100)

// AnalyticsUseCase genera los reportes del período solicitado.
type AnalyticsUseCase struct {
	invoices  repository.InvoiceRepository
	customers repository.CustomerRepository
	products  repository.ProductRepository
	now       func() time.Time
}

// NewAnalyticsUseCase construye el caso de uso.
func NewAnalyticsUseCase(
	invoices repository.InvoiceRepository,
	customers repository.CustomerRepository,
	products repository.ProductRepository,
) *AnalyticsUseCase {
	return &AnalyticsUseCase{
		invoices:  invoices,
		customers: customers,
		products:  products,
		now:       time.Now,
	}
}

// ─── Ventas ────────────────────────────────────────────────────────────────

// SalesSummary totales de venta, impuestos, cobros y saldo pendiente del período.
func (uc *AnalyticsUseCase) SalesSummary(ctx context.Context, req dto.ReportRequest) (*dto.SalesSummaryDTO, error) {
	p, err := uc.period(req)
	if err != nil {
		return nil, err
	}
	all, err := uc.invoices.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("analytics: facturas: %w", err)
	}

	out := &dto.SalesSummaryDTO{
		From:           p.from,
		To:             p.to,
		Revenue:        decimal.Zero,
		AverageInvoice: decimal.Zero,
		TaxableAmount:  decimal.Zero,
		CGST:           decimal.Zero,
		SGST:           decimal.Zero,
		IGST:           decimal.Zero,
		TotalTax:       decimal.Zero,
		DiscountsGiven: decimal.Zero,
		Collected:      decimal.Zero,
		Outstanding:    decimal.Zero,
	}
	customers := map[string]struct{}{}
	for _, inv := range all {
		if req.BusinessID != "" && inv.BusinessID != req.BusinessID {
			continue
		}
		if !p.contains(inv.Date) {
			continue
		}
		if inv.Status == entity.InvoiceStatusCancelled {
			out.CancelledCount++
			continue
		}
		if !inv.CountsAsSale() {
			continue
		}
		t := inv.Totals
		out.InvoiceCount++
		out.Revenue = out.Revenue.Add(t.GrandTotal)
		out.TaxableAmount = out.TaxableAmount.Add(t.TaxableAmount)
		out.CGST = out.CGST.Add(t.CGST)
		out.SGST = out.SGST.Add(t.SGST)
		out.IGST = out.IGST.Add(t.IGST)
		out.TotalTax = out.TotalTax.Add(t.TotalTax)
		out.DiscountsGiven = out.DiscountsGiven.Add(t.ItemDiscount).Add(t.InvoiceDiscount)
		out.Collected = out.Collected.Add(inv.AmountPaid)
		out.Outstanding = out.Outstanding.Add(inv.BalanceDue)
		if inv.CustomerID != "" {
			customers[inv.CustomerID] = struct{}{}
		}
	}
	out.UniqueCustomers = len(customers)
	if out.InvoiceCount > 0 {
		out.AverageInvoice = tax.Round2(out.Revenue.Div(decimal.NewFromInt(int64(out.InvoiceCount))))
	}
	return out, nil
}

// SalesTrend serie de ingresos por día, semana ISO o mes. Los intervalos sin
// ventas aparecen con cero para que la serie sea continua.
func (uc *AnalyticsUseCase) SalesTrend(ctx context.Context, req dto.ReportRequest) ([]dto.TrendPointDTO, error) {
	p, err := uc.period(req)
	if err != nil {
		return nil, err
	}
	sales, err := uc.sales(ctx, req.BusinessID, p)
	if err != nil {
		return nil, err
	}
	g := req.Granularity
	if g == "" {
		g = "day"
	}

	var points []dto.TrendPointDTO
	index := map[string]int{}
	for start := bucketStart(p.from, g); start.Before(p.end); start = nextBucket(start, g) {
		label := bucketLabel(start, g)
		index[label] = len(points)
		points = append(points, dto.TrendPointDTO{Bucket: label, Start: start, Revenue: decimal.Zero})
	}
	for _, inv := range sales {
		i, ok := index[bucketLabel(bucketStart(inv.Date.In(p.from.Location()), g), g)]
		if !ok {
			continue
		}
		points[i].Revenue = points[i].Revenue.Add(inv.Totals.GrandTotal)
		points[i].InvoiceCount++
	}
	return points, nil
}

// TopProducts ranking de productos por ingreso (por defecto) o cantidad.
// Las líneas manuales se agrupan por nombre.
func (uc *AnalyticsUseCase) TopProducts(ctx context.Context, req dto.ReportRequest) ([]dto.TopProductDTO, error) {
	p, err := uc.period(req)
	if err != nil {
		return nil, err
	}
	sales, err := uc.sales(ctx, req.BusinessID, p)
	if err != nil {
		return nil, err
	}
	catalog, err := uc.productIndex(ctx)
	if err != nil {
		return nil, err
	}
	return topProducts(sales, catalog, limitOr(req.Limit, defaultTopN), req.By), nil
}

// CategorySales ventas por categoría con su participación porcentual.
func (uc *AnalyticsUseCase) CategorySales(ctx context.Context, req dto.ReportRequest) ([]dto.CategorySalesDTO, error) {
	p, err := uc.period(req)
	if err != nil {
		return nil, err
	}
	sales, err := uc.sales(ctx, req.BusinessID, p)
	if err != nil {
		return nil, err
	}
	catalog, err := uc.productIndex(ctx)
	if err != nil {
		return nil, err
	}

	byCat := map[string]*dto.CategorySalesDTO{}
	total := decimal.Zero
	for _, inv := range sales {
		for _, it := range inv.Items {
			cat := uncategorized
			if pr, ok := catalog[it.ProductID]; ok && pr.Category != "" {
				cat = pr.Category
			}
			row, ok := byCat[cat]
			if !ok {
				row = &dto.CategorySalesDTO{Category: cat, Quantity: decimal.Zero, Revenue: decimal.Zero}
				byCat[cat] = row
			}
			row.Quantity = row.Quantity.Add(it.Quantity)
			row.Revenue = row.Revenue.Add(it.Total)
			total = total.Add(it.Total)
		}
	}

	out := make([]dto.CategorySalesDTO, 0, len(byCat))
	for _, row := range byCat {
		row.Share = decimal.Zero
		if total.IsPositive() {
			row.Share = tax.Round2(row.Revenue.Div(total).Mul(hundred))
		}
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Revenue.Equal(out[j].Revenue) {
			return out[i].Revenue.GreaterThan(out[j].Revenue)
		}
		return out[i].Category < out[j].Category
	})
	return out, nil
}

// TopCustomers clientes con mayor facturación en el período.
func (uc *AnalyticsUseCase) TopCustomers(ctx context.Context, req dto.ReportRequest) ([]dto.TopCustomerDTO, error) {
	p, err := uc.period(req)
	if err != nil {
		return nil, err
	}
	sales, err := uc.sales(ctx, req.BusinessID, p)
	if err != nil {
		return nil, err
	}
	customers, err := uc.customers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("analytics: clientes: %w", err)
	}
	tiers := make(map[string]string, len(customers))
	for _, c := range customers {
		tiers[c.ID] = c.LoyaltyTier
	}

	byCustomer := map[string]*dto.TopCustomerDTO{}
	for _, inv := range sales {
		if inv.CustomerID == "" {
			continue
		}
		row, ok := byCustomer[inv.CustomerID]
		if !ok {
			row = &dto.TopCustomerDTO{CustomerID: inv.CustomerID, Name: inv.Customer.Name, Tier: tiers[inv.CustomerID], Revenue: decimal.Zero}
			byCustomer[inv.CustomerID] = row
		}
		row.InvoiceCount++
		row.Revenue = row.Revenue.Add(inv.Totals.GrandTotal)
	}

	out := make([]dto.TopCustomerDTO, 0, len(byCustomer))
	for _, row := range byCustomer {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Revenue.Equal(out[j].Revenue) {
			return out[i].Revenue.GreaterThan(out[j].Revenue)
		}
		return out[i].Name < out[j].Name
	})
	if n := limitOr(req.Limit, defaultTopN); len(out) > n {
		out = out[:n]
	}
	return out, nil
}

// ─── Impuestos ─────────────────────────────────────────────────────────────

// GSTSummary resumen tipo GSTR-1: importes por tasa y separación B2B/B2C e
// interestatal/intraestatal.
func (uc *AnalyticsUseCase) GSTSummary(ctx context.Context, req dto.ReportRequest) (*dto.GSTSummaryDTO, error) {
	p, err := uc.period(req)
	if err != nil {
		return nil, err
	}
	sales, err := uc.sales(ctx, req.BusinessID, p)
	if err != nil {
		return nil, err
	}

	out := &dto.GSTSummaryDTO{
		From:       p.from,
		To:         p.to,
		B2B:        zeroParty(),
		B2C:        zeroParty(),
		InterState: zeroParty(),
		IntraState: zeroParty(),
		TotalTax:   decimal.Zero,
	}
	acc := tax.NewSlabAccumulator()
	for _, inv := range sales {
		for _, it := range inv.Items {
			acc.Add(tax.ItemAmounts{
				TaxRate: it.TaxRate,
				Taxable: it.TaxableAmount,
				CGST:    it.CGST,
				SGST:    it.SGST,
				IGST:    it.IGST,
				Tax:     it.TaxAmount,
			})
		}
		party := &out.B2C
		if inv.Customer.GSTIN != "" {
			party = &out.B2B
		}
		supply := &out.IntraState
		if inv.InterState {
			supply = &out.InterState
		}
		for _, g := range []*dto.GSTPartyDTO{party, supply} {
			g.InvoiceCount++
			g.Taxable = g.Taxable.Add(inv.Totals.TaxableAmount)
			g.Tax = g.Tax.Add(inv.Totals.TotalTax)
			g.Total = g.Total.Add(inv.Totals.GrandTotal)
		}
		out.TotalTax = out.TotalTax.Add(inv.Totals.TotalTax)
	}
	for _, s := range acc.Result() {
		out.Slabs = append(out.Slabs, dto.GSTSlabDTO{
			Rate:    s.Rate,
			Taxable: s.Taxable,
			CGST:    s.CGST,
			SGST:    s.SGST,
			IGST:    s.IGST,
			Tax:     s.Tax,
		})
	}
	if out.Slabs == nil {
		out.Slabs = []dto.GSTSlabDTO{}
	}
	return out, nil
}

// ─── Clientes e inventario ─────────────────────────────────────────────────

// CustomerInsights distribución por nivel, clientes nuevos del período y recurrentes.
func (uc *AnalyticsUseCase) CustomerInsights(ctx context.Context, req dto.ReportRequest) (*dto.CustomerInsightsDTO, error) {
	p, err := uc.period(req)
	if err != nil {
		return nil, err
	}
	customers, err := uc.customers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("analytics: clientes: %w", err)
	}

	out := &dto.CustomerInsightsDTO{
		TotalCustomers:   len(customers),
		TierDistribution: map[string]int{},
		AverageLifetime:  decimal.Zero,
	}
	buyers := 0
	spent := decimal.Zero
	for _, c := range customers {
		if c.IsActive {
			out.ActiveCustomers++
			out.TierDistribution[c.LoyaltyTier]++
		}
		if p.contains(c.CreatedAt) {
			out.NewInRange++
		}
		if c.InvoiceCount >= 2 {
			out.RepeatCustomers++
		}
		if c.InvoiceCount > 0 {
			buyers++
			spent = spent.Add(c.TotalSpent)
		}
		out.PointsOutstanding += c.LoyaltyPoints
	}
	if buyers > 0 {
		out.AverageLifetime = tax.Round2(spent.Div(decimal.NewFromInt(int64(buyers))))
	}
	return out, nil
}

// InventoryReport valor del stock, faltantes y sugerencias de reposición
// priorizadas por unidades vendidas en los últimos 90 días.
func (uc *AnalyticsUseCase) InventoryReport(ctx context.Context) (*dto.InventoryReportDTO, error) {
	products, err := uc.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("analytics: productos: %w", err)
	}
	invoices, err := uc.invoices.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("analytics: facturas: %w", err)
	}
	return inventoryReport(products, invoices, uc.now()), nil
}

func inventoryReport(products []*entity.Product, invoices []*entity.Invoice, now time.Time) *dto.InventoryReportDTO {
	since := now.AddDate(0, 0, -reorderLookback)
	sold := map[string]decimal.Decimal{}
	for _, inv := range invoices {
		if !inv.CountsAsSale() || inv.Date.Before(since) {
			continue
		}
		for _, it := range inv.Items {
			if it.ProductID != "" {
				sold[it.ProductID] = sold[it.ProductID].Add(it.Quantity)
			}
		}
	}

	out := &dto.InventoryReportDTO{
		TrackedUnits: decimal.Zero,
		StockValue:   decimal.Zero,
		Reorder:      []dto.ReorderSuggestionDTO{},
	}
	var low []inventory.ReorderInput
	for _, p := range products {
		if !p.IsActive {
			continue
		}
		out.ActiveProducts++
		if !p.TrackStock {
			continue
		}
		out.TrackedUnits = out.TrackedUnits.Add(p.Stock)
		out.StockValue = out.StockValue.Add(p.StockValue())
		if !p.Stock.IsPositive() {
			out.OutOfStock++
		}
		if p.IsLowStock() {
			out.LowStockCount++
			low = append(low, inventory.ReorderInput{
				ProductID:    p.ID,
				Name:         p.Name,
				CurrentStock: p.Stock,
				MinStock:     p.MinStock,
				UnitCost:     p.CostPrice,
				UnitsSold:    sold[p.ID],
			})
		}
	}
	out.StockValue = tax.Round2(out.StockValue)

	for _, s := range inventory.SuggestReorders(low) {
		out.Reorder = append(out.Reorder, dto.ReorderSuggestionDTO{
			ProductID:     s.ProductID,
			Name:          s.Name,
			CurrentStock:  s.CurrentStock,
			MinStock:      s.MinStock,
			IdealStock:    s.IdealStock,
			SuggestedQty:  s.SuggestedQty,
			UnitCost:      s.UnitCost,
			EstimatedCost: s.EstimatedCost,
			UnitsSold90d:  s.UnitsSold,
			Priority:      s.Priority,
		})
	}
	return out
}

// ─── helpers ───────────────────────────────────────────────────────────────

// period rango [from, end) con from al inicio del día y end al inicio del día siguiente a To.
type period struct {
	from time.Time
	to   time.Time
	end  time.Time
}

func (p period) contains(t time.Time) bool {
	return !t.Before(p.from) && t.Before(p.end)
}

func (uc *AnalyticsUseCase) period(req dto.ReportRequest) (period, error) {
	if err := validation.Struct(req); err != nil {
		return period{}, err
	}
	return resolvePeriod(req.From, req.To, uc.now())
}

func resolvePeriod(from, to *time.Time, now time.Time) (period, error) {
	p := period{
		from: time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()),
		to:   startOfDay(now),
	}
	if from != nil {
		p.from = startOfDay(*from)
	}
	if to != nil {
		p.to = startOfDay(*to)
	}
	if p.to.Before(p.from) {
		return period{}, fmt.Errorf("%w: from posterior a to", domain.ErrInvalidInput)
	}
	p.end = p.to.AddDate(0, 0, 1)
	return p, nil
}

// sales facturas que cuentan como venta dentro del período (y del negocio, si se indica).
func (uc *AnalyticsUseCase) sales(ctx context.Context, businessID string, p period) ([]*entity.Invoice, error) {
	all, err := uc.invoices.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("analytics: facturas: %w", err)
	}
	return filterSales(all, businessID, p), nil
}

func filterSales(all []*entity.Invoice, businessID string, p period) []*entity.Invoice {
	out := make([]*entity.Invoice, 0, len(all))
	for _, inv := range all {
		if !inv.CountsAsSale() || !p.contains(inv.Date) {
			continue
		}
		if businessID != "" && inv.BusinessID != businessID {
			continue
		}
		out = append(out, inv)
	}
	return out
}

func (uc *AnalyticsUseCase) productIndex(ctx context.Context) (map[string]*entity.Product, error) {
	products, err := uc.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("analytics: productos: %w", err)
	}
	return indexProducts(products), nil
}

func indexProducts(products []*entity.Product) map[string]*entity.Product {
	out := make(map[string]*entity.Product, len(products))
	for _, p := range products {
		out[p.ID] = p
	}
	return out
}

func topProducts(sales []*entity.Invoice, catalog map[string]*entity.Product, n int, by string) []dto.TopProductDTO {
	rows := map[string]*dto.TopProductDTO{}
	seen := map[string]map[string]struct{}{}
	for _, inv := range sales {
		for _, it := range inv.Items {
			key := it.ProductID
			if key == "" {
				key = "manual:" + it.Name
			}
			row, ok := rows[key]
			if !ok {
				row = &dto.TopProductDTO{ProductID: it.ProductID, Name: it.Name, Quantity: decimal.Zero, Revenue: decimal.Zero}
				if p, ok := catalog[it.ProductID]; ok {
					row.Name = p.Name
					row.Category = p.Category
				}
				rows[key] = row
				seen[key] = map[string]struct{}{}
			}
			row.Quantity = row.Quantity.Add(it.Quantity)
			row.Revenue = row.Revenue.Add(it.Total)
			if _, dup := seen[key][inv.ID]; !dup {
				seen[key][inv.ID] = struct{}{}
				row.Invoices++
			}
		}
	}

	out := make([]dto.TopProductDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if by == "quantity" && !a.Quantity.Equal(b.Quantity) {
			return a.Quantity.GreaterThan(b.Quantity)
		}
		if !a.Revenue.Equal(b.Revenue) {
			return a.Revenue.GreaterThan(b.Revenue)
		}
		return a.Name < b.Name
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func bucketStart(t time.Time, granularity string) time.Time {
	day := startOfDay(t)
	switch granularity {
	case "week":
		offset := (int(day.Weekday()) + 6) % 7 // lunes = 0
		return day.AddDate(0, 0, -offset)
	case "month":
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	default:
		return day
	}
}

func nextBucket(start time.Time, granularity string) time.Time {
	switch granularity {
	case "week":
		return start.AddDate(0, 0, 7)
	case "month":
		return start.AddDate(0, 1, 0)
	default:
		return start.AddDate(0, 0, 1)
	}
}

func bucketLabel(start time.Time, granularity string) string {
	switch granularity {
	case "week":
		y, w := start.ISOWeek()
		return fmt.Sprintf("%d-W%02d", y, w)
	case "month":
		return start.Format("2006-01")
	default:
		return start.Format("2006-01-02")
	}
}

func zeroParty() dto.GSTPartyDTO {
	return dto.GSTPartyDTO{Taxable: decimal.Zero, Tax: decimal.Zero, Total: decimal.Zero}
}

func limitOr(n, def int) int {
	if n <= 0 {
		return def
	}
	return n
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
