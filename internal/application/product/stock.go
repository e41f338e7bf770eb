package product

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/billmaker-api/internal/domain"
	"github.com/jhoicas/billmaker-api/internal/domain/entity"
)

// StockLine cantidad de un producto afectada por una factura.
type StockLine struct {
	ProductID string
	Quantity  decimal.Decimal
}

// Shortage producto cuyo stock no cubre la cantidad pedida.
type Shortage struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Available decimal.Decimal `json:"available"`
	Requested decimal.Decimal `json:"requested"`
}

// CheckAvailability devuelve los productos que quedarían con stock negativo.
// No modifica nada; se usa para advertir al armar borradores.
func (uc *ProductUseCase) CheckAvailability(ctx context.Context, lines []StockLine) ([]Shortage, error) {
	products, qty, err := uc.load(ctx, lines)
	if err != nil {
		return nil, err
	}
	return shortages(products, qty), nil
}

// Dispatch descuenta stock de todas las líneas como salidas. Todo o nada:
// primero verifica cada producto y solo después aplica y persiste en una escritura.
func (uc *ProductUseCase) Dispatch(ctx context.Context, lines []StockLine, reference string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	products, qty, err := uc.load(ctx, lines)
	if err != nil {
		return err
	}
	if !uc.allowNegative {
		if short := shortages(products, qty); len(short) > 0 {
			s := short[0]
			return fmt.Errorf("%w: %s disponible %s, solicitado %s",
				domain.ErrInsufficientStock, s.Name, s.Available, s.Requested)
		}
	}
	return uc.applyAll(ctx, products, qty, entity.MovementOut, "venta", reference)
}

// Restock devuelve al stock las líneas de una factura anulada.
func (uc *ProductUseCase) Restock(ctx context.Context, lines []StockLine, reference string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	products, qty, err := uc.load(ctx, lines)
	if err != nil {
		return err
	}
	return uc.applyAll(ctx, products, qty, entity.MovementReturn, "anulación de factura", reference)
}

// load agrupa cantidades por producto y carga solo los que controlan stock.
func (uc *ProductUseCase) load(ctx context.Context, lines []StockLine) ([]*entity.Product, map[string]decimal.Decimal, error) {
	qty := map[string]decimal.Decimal{}
	var order []string
	for _, l := range lines {
		if l.ProductID == "" || !l.Quantity.IsPositive() {
			continue
		}
		if _, ok := qty[l.ProductID]; !ok {
			order = append(order, l.ProductID)
			qty[l.ProductID] = decimal.Zero
		}
		qty[l.ProductID] = qty[l.ProductID].Add(l.Quantity)
	}
	products := make([]*entity.Product, 0, len(order))
	for _, id := range order {
		p, err := uc.repo.GetByID(ctx, id)
		if err != nil {
			return nil, nil, fmt.Errorf("producto %s: %w", id, err)
		}
		if p.TrackStock {
			products = append(products, p)
		}
	}
	return products, qty, nil
}

func (uc *ProductUseCase) applyAll(ctx context.Context, products []*entity.Product, qty map[string]decimal.Decimal, movementType, reason, reference string) error {
	if len(products) == 0 {
		return nil
	}
	for _, p := range products {
		if err := uc.apply(p, movementType, qty[p.ID], decimal.Zero, reason, reference); err != nil {
			return err
		}
	}
	if err := uc.repo.SaveMany(ctx, products); err != nil {
		return err
	}
	uc.log.Info().Str("reference", reference).Str("type", movementType).Int("products", len(products)).Msg("stock actualizado por factura")
	return nil
}

func shortages(products []*entity.Product, qty map[string]decimal.Decimal) []Shortage {
	var out []Shortage
	for _, p := range products {
		if q := qty[p.ID]; p.Stock.LessThan(q) {
			out = append(out, Shortage{ProductID: p.ID, Name: p.Name, Available: p.Stock, Requested: q})
		}
	}
	return out
}
