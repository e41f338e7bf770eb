package tax

import (
	"sort"

	"github.com/shopspring/decimal"
)

// SlabSummary acumulado por tasa GST (resumen tipo GSTR-1).
type SlabSummary struct {
	Rate    decimal.Decimal
	Taxable decimal.Decimal
	CGST    decimal.Decimal
	SGST    decimal.Decimal
	IGST    decimal.Decimal
	Tax     decimal.Decimal
}

// Add suma los importes de una línea al acumulado.
func (s *SlabSummary) Add(a ItemAmounts) {
	s.Taxable = s.Taxable.Add(a.Taxable)
	s.CGST = s.CGST.Add(a.CGST)
	s.SGST = s.SGST.Add(a.SGST)
	s.IGST = s.IGST.Add(a.IGST)
	s.Tax = s.Tax.Add(a.Tax)
}

// BreakdownBySlab agrupa las líneas por tasa, ordenado de menor a mayor tasa.
func BreakdownBySlab(items []ItemAmounts) []SlabSummary {
	acc := NewSlabAccumulator()
	for _, it := range items {
		acc.Add(it)
	}
	return acc.Result()
}

// SlabAccumulator agrupa importes por tasa a través de varias facturas.
type SlabAccumulator struct {
	bySlab map[string]*SlabSummary
}

// NewSlabAccumulator crea un acumulador vacío.
func NewSlabAccumulator() *SlabAccumulator {
	return &SlabAccumulator{bySlab: map[string]*SlabSummary{}}
}

// Add suma una línea a su tasa.
func (a *SlabAccumulator) Add(it ItemAmounts) {
	key := it.TaxRate.String()
	s, ok := a.bySlab[key]
	if !ok {
		s = &SlabSummary{Rate: it.TaxRate}
		a.bySlab[key] = s
	}
	s.Add(it)
}

// Result devuelve los acumulados ordenados por tasa.
func (a *SlabAccumulator) Result() []SlabSummary {
	out := make([]SlabSummary, 0, len(a.bySlab))
	for _, s := range a.bySlab {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rate.LessThan(out[j].Rate) })
	return out
}
