// Package tax implementa la aritmética GST de una factura: descuento por ítem,
// base imponible, reparto CGST/SGST (intraestatal) o IGST (interestatal),
// agregación de totales y redondeo del gran total.
package tax

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ItemInput datos de entrada de una línea.
type ItemInput struct {
	Quantity        decimal.Decimal
	Rate            decimal.Decimal
	DiscountPercent decimal.Decimal
	TaxRate         decimal.Decimal // porcentaje: 0, 0.25, 3, 5, 12, 18, 28
}

// ItemAmounts importes calculados de una línea (todos a 2 decimales).
type ItemAmounts struct {
	TaxRate  decimal.Decimal
	Gross    decimal.Decimal
	Discount decimal.Decimal
	Taxable  decimal.Decimal
	CGST     decimal.Decimal
	SGST     decimal.Decimal
	IGST     decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Totals agregados de la factura.
type Totals struct {
	Subtotal          decimal.Decimal
	ItemDiscount      decimal.Decimal
	Taxable           decimal.Decimal
	CGST              decimal.Decimal
	SGST              decimal.Decimal
	IGST              decimal.Decimal
	TotalTax          decimal.Decimal
	ItemsTotal        decimal.Decimal
	InvoiceDiscount   decimal.Decimal
	AdditionalCharges decimal.Decimal
	RoundOff          decimal.Decimal
	GrandTotal        decimal.Decimal
}

// Round2 redondea a 2 decimales (mitad lejos de cero).
func Round2(d decimal.Decimal) decimal.Decimal { return d.Round(2) }

// Round0 redondea a la rupia entera (mitad lejos de cero).
func Round0(d decimal.Decimal) decimal.Decimal { return d.Round(0) }

// CalculateItem calcula los importes de una línea.
//
//	gross    = qty × rate
//	discount = round2(gross × pct / 100)
//	taxable  = gross − discount
//	tax      = round2(taxable × rate / 100)
//	intra: cgst = round2(tax / 2), sgst = tax − cgst
//	inter: igst = tax
func CalculateItem(in ItemInput, interState bool) ItemAmounts {
	gross := Round2(in.Quantity.Mul(in.Rate))
	discount := Round2(gross.Mul(in.DiscountPercent).Div(hundred))
	taxable := gross.Sub(discount)
	tax := Round2(taxable.Mul(in.TaxRate).Div(hundred))

	a := ItemAmounts{
		TaxRate:  in.TaxRate,
		Gross:    gross,
		Discount: discount,
		Taxable:  taxable,
		CGST:     decimal.Zero,
		SGST:     decimal.Zero,
		IGST:     decimal.Zero,
		Tax:      tax,
		Total:    taxable.Add(tax),
	}
	if interState {
		a.IGST = tax
	} else {
		a.CGST = Round2(tax.Div(decimal.NewFromInt(2)))
		a.SGST = tax.Sub(a.CGST)
	}
	return a
}

// CalculateTotals agrega las líneas y aplica descuento de factura, cargos adicionales y redondeo.
// Con roundOff el gran total se redondea a la rupia; RoundOff = GrandTotal − bruto.
func CalculateTotals(items []ItemAmounts, invoiceDiscount, additionalCharges decimal.Decimal, roundOff bool) Totals {
	t := Totals{
		Subtotal:          decimal.Zero,
		ItemDiscount:      decimal.Zero,
		Taxable:           decimal.Zero,
		CGST:              decimal.Zero,
		SGST:              decimal.Zero,
		IGST:              decimal.Zero,
		TotalTax:          decimal.Zero,
		ItemsTotal:        decimal.Zero,
		InvoiceDiscount:   Round2(invoiceDiscount),
		AdditionalCharges: Round2(additionalCharges),
	}
	for _, it := range items {
		t.Subtotal = t.Subtotal.Add(it.Gross)
		t.ItemDiscount = t.ItemDiscount.Add(it.Discount)
		t.Taxable = t.Taxable.Add(it.Taxable)
		t.CGST = t.CGST.Add(it.CGST)
		t.SGST = t.SGST.Add(it.SGST)
		t.IGST = t.IGST.Add(it.IGST)
		t.TotalTax = t.TotalTax.Add(it.Tax)
		t.ItemsTotal = t.ItemsTotal.Add(it.Total)
	}

	raw := t.ItemsTotal.Sub(t.InvoiceDiscount).Add(t.AdditionalCharges)
	if roundOff {
		t.GrandTotal = Round0(raw)
	} else {
		t.GrandTotal = Round2(raw)
	}
	t.RoundOff = t.GrandTotal.Sub(raw)
	return t
}

// IsInterState decide el tipo de suministro comparando códigos de estado.
// Sin estado conocido de alguna de las partes se asume suministro intraestatal.
func IsInterState(businessStateCode, customerStateCode string) bool {
	if businessStateCode == "" || customerStateCode == "" {
		return false
	}
	return businessStateCode != customerStateCode
}
