// Package pdf implementa la representación impresa de la factura GST en A4.
//
// Layout de la página:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Negocio + GSTIN      │  TAX INVOICE + N° + Fecha    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  BILL TO: cliente + GSTIN     │  Lugar de suministro         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: # | Ítem | HSN | Cant | Precio | Gravable | GST | Total │
//	│  DESGLOSE por tasa: CGST/SGST o IGST                        │
//	│  TOTALES + importe en letras                                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: IRN + QR UPI + banco + términos                    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/billmaker-api/internal/application/billing"
)

var (
	colorWhite = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorDraft = &props.Color{Red: 200, Green: 0, Blue: 0}
)

// MarotoPDFGenerator implementa billing.InvoicePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

var _ billing.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

// GenerateInvoicePDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(ctx context.Context, data *billing.TemplateData) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p := newPalette(data.Palette)

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(data.Title+" "+data.Invoice.InvoiceNumber, true).
		WithAuthor(data.Business.Name, true).
		Build()

	m := maroto.New(cfg)

	if data.Draft {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("DRAFT - NOT A VALID TAX INVOICE", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Center, Color: colorDraft, Top: 1,
			}),
		)))
	}
	m.AddRows(headerRow(data, p))
	m.AddRows(line.NewRow(1, props.Line{Color: p.primary, Thickness: 0.5}))
	m.AddRows(partiesRow(data, p))
	m.AddRows(line.NewRow(1, props.Line{Color: p.primary, Thickness: 0.3}))

	m.AddRows(itemsHeaderRow(p))
	m.AddRows(itemRows(data.Items)...)

	m.AddRows(line.NewRow(1, props.Line{Color: p.primary, Thickness: 0.3}))
	m.AddRows(slabRows(data, p)...)
	m.AddRows(line.NewRow(2))
	m.AddRows(totalsRows(data, p)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: p.muted, Thickness: 0.3}))
	m.AddRows(footerRows(data, p)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

type palette struct {
	primary *props.Color
	accent  *props.Color
	muted   *props.Color
}

func newPalette(p billing.Palette) palette {
	c := func(rgb billing.RGB) *props.Color {
		return &props.Color{Red: int(rgb.R), Green: int(rgb.G), Blue: int(rgb.B)}
	}
	return palette{primary: c(p.Primary), accent: c(p.Accent), muted: c(p.Muted)}
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: negocio + GSTIN (izq) y título, número y fechas (der).
func headerRow(d *billing.TemplateData, p palette) core.Row {
	b := d.Business
	number := nonEmpty(d.Invoice.InvoiceNumber, "—")
	due := ""
	if d.DueDate != "" {
		due = "Due: " + d.DueDate
	}

	return row.New(24).Add(
		col.New(7).Add(
			text.New(b.Name, props.Text{Style: fontstyle.Bold, Size: 13, Color: p.primary, Top: 1}),
			text.New(nonEmpty(b.LegalName, " "), props.Text{Size: 8, Top: 8, Color: p.muted}),
			text.New(joinNonEmpty(", ", b.Address.Line1, b.Address.Line2, b.Address.City, b.Address.State, b.Address.Pincode),
				props.Text{Size: 8, Top: 12, Color: p.muted}),
			text.New(gstinLine(b.GSTIN, b.Phone, b.Email), props.Text{Size: 8, Top: 17}),
		),
		col.New(5).Add(
			text.New(d.Title, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: p.primary, Top: 1}),
			text.New(number, props.Text{Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7}),
			text.New("Date: "+d.Date, props.Text{Size: 8, Align: align.Right, Top: 14, Color: p.muted}),
			text.New(due, props.Text{Size: 8, Align: align.Right, Top: 18, Color: p.muted}),
		),
	)
}

// partiesRow: comprador (izq) y lugar de suministro (der).
func partiesRow(d *billing.TemplateData, p palette) core.Row {
	c := d.Customer
	supply := "Intra-state (CGST + SGST)"
	if d.InterState {
		supply = "Inter-state (IGST)"
	}
	return row.New(20).Add(
		col.New(7).Add(
			text.New("BILL TO", props.Text{Style: fontstyle.Bold, Size: 8, Color: p.primary, Top: 1}),
			text.New(nonEmpty(c.Name, "—"), props.Text{Style: fontstyle.Bold, Size: 10, Top: 5}),
			text.New(joinNonEmpty(", ", c.Address.Line1, c.Address.City, c.Address.State, c.Address.Pincode),
				props.Text{Size: 8, Top: 11, Color: p.muted}),
			text.New(gstinLine(c.GSTIN, c.Phone, c.Email), props.Text{Size: 8, Top: 15}),
		),
		col.New(5).Add(
			text.New("PLACE OF SUPPLY", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: p.primary, Top: 1}),
			text.New(nonEmpty(d.PlaceOfSupply, "—"), props.Text{Size: 9, Align: align.Right, Top: 5}),
			text.New(supply, props.Text{Size: 8, Align: align.Right, Top: 11, Color: p.muted}),
			text.New("Status: "+d.Status, props.Text{Size: 8, Align: align.Right, Top: 15, Color: p.muted}),
		),
	)
}

// itemsHeaderRow: cabecera de la tabla de ítems con fondo del color primario.
func itemsHeaderRow(p palette) core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("#", 1, align.Center),
		h("Item", 3, align.Left),
		h("HSN/SAC", 1, align.Center),
		h("Qty", 1, align.Right),
		h("Rate", 1, align.Right),
		h("Taxable", 2, align.Right),
		h("GST", 1, align.Center),
		h("Total", 2, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: p.primary})
}

// itemRows: una fila por línea de factura.
func itemRows(items []billing.TemplateItem) []core.Row {
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	rows := make([]core.Row, 0, len(items))
	for _, it := range items {
		rows = append(rows, row.New(7).Add(
			cell(fmt.Sprint(it.No), 1, align.Center),
			cell(it.Name, 3, align.Left),
			cell(it.HSNCode, 1, align.Center),
			cell(it.Quantity+" "+it.Unit, 1, align.Right),
			cell(it.Rate, 1, align.Right),
			cell(it.Taxable, 2, align.Right),
			cell(it.TaxRate, 1, align.Center),
			cell(it.Total, 2, align.Right),
		))
	}
	return rows
}

// slabRows: desglose de impuestos por tasa.
func slabRows(d *billing.TemplateData, p palette) []core.Row {
	if len(d.Slabs) == 0 {
		return nil
	}
	head := func(s string, size int) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Style: fontstyle.Bold, Size: 7.5, Align: align.Right, Color: p.accent, Top: 1, Right: 1}))
	}
	cell := func(s string, size int) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 7.5, Align: align.Right, Top: 1, Right: 1}))
	}

	var rows []core.Row
	if d.InterState {
		rows = append(rows, row.New(5).Add(head("GST rate", 3), head("Taxable", 3), head("IGST", 3), head("Tax", 3)))
		for _, s := range d.Slabs {
			rows = append(rows, row.New(5).Add(cell(s.Rate, 3), cell(s.Taxable, 3), cell(s.IGST, 3), cell(s.Tax, 3)))
		}
		return rows
	}
	rows = append(rows, row.New(5).Add(head("GST rate", 2), head("Taxable", 3), head("CGST", 2), head("SGST", 2), head("Tax", 3)))
	for _, s := range d.Slabs {
		rows = append(rows, row.New(5).Add(cell(s.Rate, 2), cell(s.Taxable, 3), cell(s.CGST, 2), cell(s.SGST, 2), cell(s.Tax, 3)))
	}
	return rows
}

// totalsRows: bloque de totales alineado a la derecha e importe en letras.
func totalsRows(d *billing.TemplateData, p palette) []core.Row {
	t := d.Totals
	pair := func(label, value string, bold bool) core.Row {
		style, size, color := fontstyle.Normal, 8.5, (*props.Color)(nil)
		if bold {
			style, size, color = fontstyle.Bold, 10, p.primary
		}
		return row.New(5).Add(
			col.New(6),
			col.New(3).Add(text.New(label, props.Text{Style: style, Size: size, Align: align.Right, Color: color, Right: 2})),
			col.New(3).Add(text.New(value, props.Text{Style: style, Size: size, Align: align.Right, Color: color, Right: 1})),
		)
	}

	rows := []core.Row{
		pair("Subtotal", t.Subtotal, false),
		pair("Item discount", "-"+t.ItemDiscount, false),
		pair("Taxable value", t.Taxable, false),
	}
	if d.InterState {
		rows = append(rows, pair("IGST", t.IGST, false))
	} else {
		rows = append(rows, pair("CGST", t.CGST, false), pair("SGST", t.SGST, false))
	}
	if !d.Invoice.InvoiceDiscount.IsZero() {
		rows = append(rows, pair("Invoice discount", "-"+t.InvoiceDiscount, false))
	}
	if !d.Invoice.AdditionalCharges.IsZero() {
		rows = append(rows, pair(nonEmpty(d.Invoice.AdditionalChargesLabel, "Additional charges"), t.AdditionalCharges, false))
	}
	if !d.Invoice.Totals.RoundOff.IsZero() {
		rows = append(rows, pair("Round off", t.RoundOff, false))
	}
	rows = append(rows, pair("GRAND TOTAL (INR)", t.GrandTotal, true))
	if !d.Draft {
		rows = append(rows, pair("Paid", t.AmountPaid, false), pair("Balance due", t.BalanceDue, false))
	}
	rows = append(rows, row.New(8).Add(col.New(12).Add(
		text.New(d.AmountInWords, props.Text{Style: fontstyle.Italic, Size: 8, Top: 2, Color: p.accent}),
	)))
	return rows
}

// footerRows: IRN, QR de pago UPI, datos bancarios, notas y términos.
func footerRows(d *billing.TemplateData, p palette) []core.Row {
	var rows []core.Row
	if irn := d.Invoice.IRN; irn != "" {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New("IRN:", props.Text{Style: fontstyle.Bold, Size: 7, Top: 1}),
		)))
		for _, chunk := range splitEvery(irn, 64) {
			rows = append(rows, row.New(4).Add(col.New(12).Add(
				text.New(chunk, props.Text{Size: 6.5, Color: p.muted, Top: 0.5, Left: 2}),
			)))
		}
	}

	bank := d.Business.Bank
	var payment []core.Component
	if bank.AccountNumber != "" {
		payment = append(payment, text.New(
			fmt.Sprintf("Bank: %s  |  A/c: %s  |  IFSC: %s", nonEmpty(bank.BankName, "—"), bank.AccountNumber, nonEmpty(bank.IFSC, "—")),
			props.Text{Size: 8, Top: 4, Left: 3},
		))
	}
	if d.Invoice.Notes != "" {
		payment = append(payment, text.New(d.Invoice.Notes, props.Text{Size: 8, Top: 12, Left: 3}))
	}
	if d.Invoice.Terms != "" {
		payment = append(payment, text.New(d.Invoice.Terms, props.Text{Size: 7, Top: 22, Left: 3, Color: p.muted}))
	}

	if link := upiLink(d); link != "" {
		rows = append(rows, row.New(40).Add(
			col.New(3).Add(code.NewQr(link, props.Rect{Percent: 95, Center: true})),
			col.New(9).Add(append([]core.Component{
				text.New("Scan to pay via UPI: "+bank.UPIID, props.Text{Style: fontstyle.Bold, Size: 8, Top: 0, Left: 3, Color: p.primary}),
			}, payment...)...),
		))
	} else if len(payment) > 0 {
		rows = append(rows, row.New(30).Add(col.New(12).Add(payment...)))
	}

	rows = append(rows, row.New(8).Add(col.New(12).Add(
		text.New("This is a computer generated invoice.", props.Text{Size: 6.5, Align: align.Center, Color: p.muted, Top: 2}),
	)))
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

// upiLink intent de pago UPI por el saldo pendiente; vacío si no aplica.
func upiLink(d *billing.TemplateData) string {
	upi := d.Business.Bank.UPIID
	if upi == "" || d.Draft || !d.Invoice.BalanceDue.IsPositive() {
		return ""
	}
	q := url.Values{}
	q.Set("pa", upi)
	q.Set("pn", d.Business.Name)
	q.Set("am", d.Invoice.BalanceDue.StringFixed(2))
	q.Set("cu", "INR")
	q.Set("tn", d.Invoice.InvoiceNumber)
	return "upi://pay?" + q.Encode()
}

func gstinLine(gstin, phone, email string) string {
	parts := []string{}
	if gstin != "" {
		parts = append(parts, "GSTIN: "+gstin)
	}
	if phone != "" {
		parts = append(parts, "Ph: "+phone)
	}
	if email != "" {
		parts = append(parts, email)
	}
	return nonEmpty(strings.Join(parts, "  |  "), " ")
}

func joinNonEmpty(sep string, values ...string) string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return nonEmpty(strings.Join(out, sep), " ")
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// splitEvery divide s en trozos de max n caracteres.
func splitEvery(s string, n int) []string {
	var parts []string
	for len(s) > n {
		parts = append(parts, s[:n])
		s = s[n:]
	}
	if s != "" {
		parts = append(parts, s)
	}
	return parts
}
