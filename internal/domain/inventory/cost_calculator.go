package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/billmaker-api/internal/domain"
	"github.com/jhoicas/billmaker-api/internal/domain/entity"
)

// CostCalculator implementa la lógica de costo promedio ponderado (servicio de dominio).
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
func CostCalculator(stockActual, costoActual, cantEntrada, costoEntrada decimal.Decimal) decimal.Decimal {
	if stockActual.IsNegative() {
		stockActual = decimal.Zero
	}
	sum := stockActual.Add(cantEntrada)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := stockActual.Mul(costoActual).Add(cantEntrada.Mul(costoEntrada))
	return num.Div(sum).Round(2)
}

// MovementResult saldo y costo del producto después de aplicar un movimiento.
type MovementResult struct {
	Stock     decimal.Decimal
	CostPrice decimal.Decimal
	Quantity  decimal.Decimal // cantidad efectiva registrada en el movimiento
}

// ApplyMovement calcula el nuevo saldo según el tipo de movimiento:
//   - in: suma stock y recalcula costo promedio (si unitCost > 0)
//   - out: resta stock; falla con ErrInsufficientStock si queda negativo y no se permite
//   - adjust: fija el stock absoluto en qty
//   - return: suma stock sin cambiar el costo
func ApplyMovement(stock, cost decimal.Decimal, movementType string, qty, unitCost decimal.Decimal, allowNegative bool) (MovementResult, error) {
	if movementType != entity.MovementAdjust && !qty.IsPositive() {
		return MovementResult{}, fmt.Errorf("%w: la cantidad debe ser mayor que cero", domain.ErrInvalidInput)
	}
	switch movementType {
	case entity.MovementIn:
		newCost := cost
		if unitCost.IsPositive() {
			newCost = CostCalculator(stock, cost, qty, unitCost)
		}
		return MovementResult{Stock: stock.Add(qty), CostPrice: newCost, Quantity: qty}, nil
	case entity.MovementOut:
		next := stock.Sub(qty)
		if next.IsNegative() && !allowNegative {
			return MovementResult{}, fmt.Errorf("%w: disponible %s, solicitado %s", domain.ErrInsufficientStock, stock, qty)
		}
		return MovementResult{Stock: next, CostPrice: cost, Quantity: qty}, nil
	case entity.MovementAdjust:
		if qty.IsNegative() {
			return MovementResult{}, fmt.Errorf("%w: el ajuste no puede dejar stock negativo", domain.ErrInvalidInput)
		}
		return MovementResult{Stock: qty, CostPrice: cost, Quantity: qty.Sub(stock)}, nil
	case entity.MovementReturn:
		return MovementResult{Stock: stock.Add(qty), CostPrice: cost, Quantity: qty}, nil
	default:
		return MovementResult{}, fmt.Errorf("%w: tipo de movimiento desconocido %q", domain.ErrInvalidInput, movementType)
	}
}
