// Package loyalty contiene las reglas de puntos y niveles de fidelidad de clientes.
package loyalty

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/billmaker-api/internal/domain/entity"
)

var (
	// RupeesPerPoint importe de factura por cada punto ganado.
	RupeesPerPoint = decimal.NewFromInt(100)
	// PointValue valor en rupias de un punto al canjearlo.
	PointValue = decimal.NewFromInt(1)

	silverFrom   = decimal.NewFromInt(10000)
	goldFrom     = decimal.NewFromInt(50000)
	platinumFrom = decimal.NewFromInt(100000)
)

// PointsFor puntos ganados por una factura: 1 por cada ₹100 completos del gran total.
func PointsFor(amount decimal.Decimal) int64 {
	if !amount.IsPositive() {
		return 0
	}
	return amount.Div(RupeesPerPoint).Floor().IntPart()
}

// TierFor nivel según el gasto acumulado del cliente.
func TierFor(totalSpent decimal.Decimal) string {
	switch {
	case totalSpent.GreaterThanOrEqual(platinumFrom):
		return entity.TierPlatinum
	case totalSpent.GreaterThanOrEqual(goldFrom):
		return entity.TierGold
	case totalSpent.GreaterThanOrEqual(silverFrom):
		return entity.TierSilver
	default:
		return entity.TierBronze
	}
}

// RedemptionValue descuento en rupias equivalente a los puntos canjeados.
func RedemptionValue(points int64) decimal.Decimal {
	if points <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(points).Mul(PointValue)
}

// Tiers niveles en orden ascendente.
func Tiers() []string {
	return []string{entity.TierBronze, entity.TierSilver, entity.TierGold, entity.TierPlatinum}
}

// IsValidTier verifica un nombre de nivel.
func IsValidTier(tier string) bool {
	for _, t := range Tiers() {
		if t == tier {
			return true
		}
	}
	return false
}
