package billing

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/billmaker-api/internal/application/dto"
	"github.com/jhoicas/billmaker-api/internal/application/search"
	"github.com/jhoicas/billmaker-api/internal/application/validation"
	"github.com/jhoicas/billmaker-api/internal/domain/entity"
)

// List filtra facturas por estado (incluido overdue derivado), cliente, negocio,
// rango de fechas y texto (número o nombre del cliente). Más recientes primero.
func (e *BillingEngine) List(ctx context.Context, f dto.InvoiceFilter) (dto.ListResponse[dto.InvoiceResponse], error) {
	if err := validation.Struct(f); err != nil {
		return dto.ListResponse[dto.InvoiceResponse]{}, err
	}
	all, err := e.invoices.List(ctx)
	if err != nil {
		return dto.ListResponse[dto.InvoiceResponse]{}, err
	}

	now := e.now()
	var end time.Time
	if f.To != nil {
		end = startOfDay(*f.To).AddDate(0, 0, 1)
	}
	matched := make([]*entity.Invoice, 0, len(all))
	for _, inv := range all {
		if f.Status != "" && inv.EffectiveStatus(now) != f.Status {
			continue
		}
		if f.CustomerID != "" && inv.CustomerID != f.CustomerID {
			continue
		}
		if f.BusinessID != "" && inv.BusinessID != f.BusinessID {
			continue
		}
		if f.From != nil && inv.Date.Before(startOfDay(*f.From)) {
			continue
		}
		if f.To != nil && !inv.Date.Before(end) {
			continue
		}
		if !search.Matches(f.Query, inv.InvoiceNumber, inv.Customer.Name) {
			continue
		}
		matched = append(matched, inv)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].Date.Equal(matched[j].Date) {
			return matched[i].Date.After(matched[j].Date)
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	page := dto.Paginate(matched, f.PageRequest)
	out := dto.ListResponse[dto.InvoiceResponse]{
		Items: make([]dto.InvoiceResponse, 0, len(page.Items)),
		Page:  page.Page,
	}
	for _, inv := range page.Items {
		out.Items = append(out.Items, dto.NewInvoiceResponse(inv, now))
	}
	return out, nil
}
