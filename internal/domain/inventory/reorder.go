package inventory

import (
	"sort"

	"github.com/shopspring/decimal"
)

// IdealStockFactor múltiplo del stock mínimo al que se repone.
var IdealStockFactor = decimal.NewFromFloat(1.5)

// ReorderInput datos de un producto bajo mínimo.
type ReorderInput struct {
	ProductID    string
	Name         string
	CurrentStock decimal.Decimal
	MinStock     decimal.Decimal
	UnitCost     decimal.Decimal
	UnitsSold    decimal.Decimal // ventas de los últimos 90 días
}

// ReorderSuggestion cantidad sugerida de pedido con prioridad (1 = más urgente).
type ReorderSuggestion struct {
	ReorderInput
	IdealStock    decimal.Decimal
	SuggestedQty  decimal.Decimal
	EstimatedCost decimal.Decimal
	Priority      int
}

// SuggestReorders calcula ideal = 1.5 × mínimo, cantidad = ideal − stock (≥ 0) y ordena por
// mayor volumen vendido y luego mayor déficit respecto al mínimo.
func SuggestReorders(items []ReorderInput) []ReorderSuggestion {
	out := make([]ReorderSuggestion, 0, len(items))
	for _, it := range items {
		ideal := it.MinStock.Mul(IdealStockFactor)
		qty := ideal.Sub(it.CurrentStock)
		if qty.IsNegative() {
			qty = decimal.Zero
		}
		out = append(out, ReorderSuggestion{
			ReorderInput:  it,
			IdealStock:    ideal,
			SuggestedQty:  qty,
			EstimatedCost: qty.Mul(it.UnitCost).Round(2),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.UnitsSold.Equal(b.UnitsSold) {
			return a.UnitsSold.GreaterThan(b.UnitsSold)
		}
		defA := a.MinStock.Sub(a.CurrentStock)
		defB := b.MinStock.Sub(b.CurrentStock)
		return defA.GreaterThan(defB)
	})
	for i := range out {
		out[i].Priority = i + 1
	}
	return out
}
