package analytics

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"sort"

	"github.com/jhoicas/billmaker-api/internal/application/dto"
	"github.com/jhoicas/billmaker-api/internal/domain/entity"
)

var csvHeader = []string{
	"invoice_number", "date", "due_date", "status", "customer", "customer_gstin", "place_of_supply",
	"taxable_amount", "cgst", "sgst", "igst", "total_tax", "grand_total", "amount_paid", "balance_due",
}

// ExportInvoicesCSV exporta una fila por factura emitida del período (anuladas
// incluidas, con su estado), ordenadas por fecha.
func (uc *AnalyticsUseCase) ExportInvoicesCSV(ctx context.Context, req dto.ReportRequest) ([]byte, error) {
	p, err := uc.period(req)
	if err != nil {
		return nil, err
	}
	all, err := uc.invoices.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("analytics: facturas: %w", err)
	}
	now := uc.now()

	rows := make([]*entity.Invoice, 0, len(all))
	for _, inv := range all {
		if inv.IsDraft() || !p.contains(inv.Date) {
			continue
		}
		if req.BusinessID != "" && inv.BusinessID != req.BusinessID {
			continue
		}
		rows = append(rows, inv)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Date.Before(rows[j].Date)
		}
		return rows[i].InvoiceNumber < rows[j].InvoiceNumber
	})

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, inv := range rows {
		t := inv.Totals
		record := []string{
			inv.InvoiceNumber,
			inv.Date.Format("2006-01-02"),
			inv.DueDate.Format("2006-01-02"),
			inv.EffectiveStatus(now),
			inv.Customer.Name,
			inv.Customer.GSTIN,
			inv.PlaceOfSupply,
			t.TaxableAmount.StringFixed(2),
			t.CGST.StringFixed(2),
			t.SGST.StringFixed(2),
			t.IGST.StringFixed(2),
			t.TotalTax.StringFixed(2),
			t.GrandTotal.StringFixed(2),
			inv.AmountPaid.StringFixed(2),
			inv.BalanceDue.StringFixed(2),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("analytics: exportar csv: %w", err)
	}
	return buf.Bytes(), nil
}
