package billing

import (
	"fmt"
	"time"

	"github.com/jhoicas/billmaker-api/internal/domain/entity"
	"github.com/jhoicas/billmaker-api/internal/domain/tax"
	"github.com/jhoicas/billmaker-api/pkg/gst"
)

// RGB color para el PDF y el HTML.
type RGB struct {
	R, G, B int
}

// Hex color en formato #rrggbb.
func (c RGB) Hex() string { return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B) }

// Palette colores de una plantilla de factura.
type Palette struct {
	Primary RGB
	Accent  RGB
	Muted   RGB
}

var palettes = map[string]Palette{
	entity.TemplateClassic: {Primary: RGB{0, 70, 127}, Accent: RGB{230, 238, 246}, Muted: RGB{100, 100, 100}},
	entity.TemplateModern:  {Primary: RGB{16, 124, 110}, Accent: RGB{224, 242, 239}, Muted: RGB{90, 105, 110}},
	entity.TemplateMinimal: {Primary: RGB{33, 33, 33}, Accent: RGB{245, 245, 245}, Muted: RGB{120, 120, 120}},
}

// PaletteFor devuelve la paleta de la plantilla (classic si no existe).
func PaletteFor(template string) Palette {
	if p, ok := palettes[template]; ok {
		return p
	}
	return palettes[entity.TemplateClassic]
}

// TemplateItem línea de factura con importes ya formateados.
type TemplateItem struct {
	No       int
	Name     string
	HSNCode  string
	Unit     string
	Quantity string
	Rate     string
	Discount string
	Taxable  string
	TaxRate  string
	CGST     string
	SGST     string
	IGST     string
	Total    string
}

// TemplateSlab fila del desglose por tasa GST.
type TemplateSlab struct {
	Rate    string
	Taxable string
	CGST    string
	SGST    string
	IGST    string
	Tax     string
}

// TemplateTotals totales formateados.
type TemplateTotals struct {
	Subtotal          string
	ItemDiscount      string
	Taxable           string
	CGST              string
	SGST              string
	IGST              string
	TotalTax          string
	InvoiceDiscount   string
	AdditionalCharges string
	RoundOff          string
	GrandTotal        string
	AmountPaid        string
	BalanceDue        string
}

// TemplateData todo lo necesario para renderizar una factura en HTML o PDF.
type TemplateData struct {
	Template      string
	Palette       Palette
	Title         string
	Draft         bool
	Business      *entity.Business
	Invoice       *entity.Invoice
	Customer      entity.CustomerSnapshot
	PlaceOfSupply string
	InterState    bool
	Items         []TemplateItem
	Slabs         []TemplateSlab
	Totals        TemplateTotals
	AmountInWords string
	Date          string
	DueDate       string
	Status        string
}

// BuildTemplateData arma los datos de la plantilla a partir de la factura y su negocio.
func BuildTemplateData(inv *entity.Invoice, b *entity.Business, now time.Time) *TemplateData {
	tpl := b.Settings.InvoiceTemplate
	if _, ok := palettes[tpl]; !ok {
		tpl = entity.TemplateClassic
	}
	d := &TemplateData{
		Template:      tpl,
		Palette:       PaletteFor(tpl),
		Title:         "TAX INVOICE",
		Draft:         inv.IsDraft(),
		Business:      b,
		Invoice:       inv,
		Customer:      inv.Customer,
		PlaceOfSupply: placeOfSupply(inv.PlaceOfSupply),
		InterState:    inv.InterState,
		AmountInWords: gst.AmountInWords(inv.Totals.GrandTotal),
		Date:          inv.Date.Format("02 Jan 2006"),
		Status:        inv.EffectiveStatus(now),
	}
	if !inv.DueDate.IsZero() {
		d.DueDate = inv.DueDate.Format("02 Jan 2006")
	}
	if inv.Totals.TotalTax.IsZero() {
		d.Title = "BILL OF SUPPLY"
	}

	amounts := make([]tax.ItemAmounts, 0, len(inv.Items))
	for i, it := range inv.Items {
		d.Items = append(d.Items, TemplateItem{
			No:       i + 1,
			Name:     it.Name,
			HSNCode:  it.HSNCode,
			Unit:     it.Unit,
			Quantity: it.Quantity.String(),
			Rate:     gst.FormatINR(it.Rate),
			Discount: gst.FormatINR(it.DiscountAmount),
			Taxable:  gst.FormatINR(it.TaxableAmount),
			TaxRate:  it.TaxRate.String() + "%",
			CGST:     gst.FormatINR(it.CGST),
			SGST:     gst.FormatINR(it.SGST),
			IGST:     gst.FormatINR(it.IGST),
			Total:    gst.FormatINR(it.Total),
		})
		amounts = append(amounts, tax.ItemAmounts{
			TaxRate: it.TaxRate,
			Taxable: it.TaxableAmount,
			CGST:    it.CGST,
			SGST:    it.SGST,
			IGST:    it.IGST,
			Tax:     it.TaxAmount,
		})
	}
	for _, s := range tax.BreakdownBySlab(amounts) {
		d.Slabs = append(d.Slabs, TemplateSlab{
			Rate:    s.Rate.String() + "%",
			Taxable: gst.FormatINR(s.Taxable),
			CGST:    gst.FormatINR(s.CGST),
			SGST:    gst.FormatINR(s.SGST),
			IGST:    gst.FormatINR(s.IGST),
			Tax:     gst.FormatINR(s.Tax),
		})
	}

	t := inv.Totals
	d.Totals = TemplateTotals{
		Subtotal:          gst.FormatINR(t.Subtotal),
		ItemDiscount:      gst.FormatINR(t.ItemDiscount),
		Taxable:           gst.FormatINR(t.TaxableAmount),
		CGST:              gst.FormatINR(t.CGST),
		SGST:              gst.FormatINR(t.SGST),
		IGST:              gst.FormatINR(t.IGST),
		TotalTax:          gst.FormatINR(t.TotalTax),
		InvoiceDiscount:   gst.FormatINR(t.InvoiceDiscount),
		AdditionalCharges: gst.FormatINR(t.AdditionalCharges),
		RoundOff:          gst.FormatINR(t.RoundOff),
		GrandTotal:        gst.FormatINR(t.GrandTotal),
		AmountPaid:        gst.FormatINR(inv.AmountPaid),
		BalanceDue:        gst.FormatINR(inv.BalanceDue),
	}
	return d
}

// placeOfSupply "Karnataka (29)".
func placeOfSupply(code string) string {
	if code == "" {
		return ""
	}
	if name := gst.StateName(code); name != "" {
		return name + " (" + code + ")"
	}
	return code
}
