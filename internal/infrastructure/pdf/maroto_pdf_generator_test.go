package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/billmaker-api/internal/application/billing"
	"github.com/jhoicas/billmaker-api/internal/domain/entity"
	"github.com/jhoicas/billmaker-api/internal/infrastructure/pdf"
)

func sampleData(draft, interState bool) *billing.TemplateData {
	d := func(s string) decimal.Decimal { return decimal.RequireFromString(s) }
	b := &entity.Business{
		ID:       "b1",
		Name:     "Sharma Traders",
		GSTIN:    "27AAPFU0939F1ZV",
		Phone:    "9876543210",
		Settings: entity.DefaultBusinessSettings(),
	}
	b.Bank.AccountNumber = "123456789012"
	b.Bank.IFSC = "HDFC0001234"
	b.Bank.UPIID = "sharma@upi"

	status := entity.InvoiceStatusGenerated
	number := "INV-2025-0007"
	if draft {
		status, number = entity.InvoiceStatusDraft, ""
	}
	inv := &entity.Invoice{
		ID:            "i1",
		InvoiceNumber: number,
		BusinessID:    b.ID,
		Customer:      entity.CustomerSnapshot{Name: "Pune Retail", GSTIN: "27AABCS1429B1ZU"},
		Date:          time.Date(2025, 10, 10, 0, 0, 0, 0, time.UTC),
		DueDate:       time.Date(2025, 10, 25, 0, 0, 0, 0, time.UTC),
		PlaceOfSupply: "27",
		InterState:    interState,
		Items: []entity.InvoiceItem{{
			ID: "it1", Name: "Steel Bottle", HSNCode: "7323", Unit: "PCS",
			Quantity: d("2"), Rate: d("1000"), DiscountPercent: d("10"),
			GrossAmount: d("2000"), DiscountAmount: d("200"), TaxableAmount: d("1800"),
			TaxRate: d("18"), CGST: d("162"), SGST: d("162"), TaxAmount: d("324"), Total: d("2124"),
		}},
		Totals: entity.InvoiceTotals{
			Subtotal: d("2000"), ItemDiscount: d("200"), TaxableAmount: d("1800"),
			CGST: d("162"), SGST: d("162"), TotalTax: d("324"), ItemsTotal: d("2124"), GrandTotal: d("2124"),
		},
		Status:     status,
		BalanceDue: d("2124"),
		IRN:        "3f2a9c1e4b7d8a6f0e5c2b1a9d8c7e6f5a4b3c2d1e0f9a8b7c6d5e4f3a2b1c0d",
		Terms:      "Goods once sold will not be taken back.",
	}
	return billing.BuildTemplateData(inv, b, time.Date(2025, 10, 12, 0, 0, 0, 0, time.UTC))
}

func TestGenerateInvoicePDF(t *testing.T) {
	g := pdf.NewMarotoPDFGenerator()

	cases := map[string]*billing.TemplateData{
		"intraestatal": sampleData(false, false),
		"interestatal": sampleData(false, true),
		"borrador":     sampleData(true, false),
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			out, err := g.GenerateInvoicePDF(context.Background(), data)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
		})
	}
}

func TestGenerateInvoicePDF_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := pdf.NewMarotoPDFGenerator().GenerateInvoicePDF(ctx, sampleData(false, false))
	assert.ErrorIs(t, err, context.Canceled)
}
