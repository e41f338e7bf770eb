// Package product contiene los casos de uso del catálogo de productos y su stock.
package product

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/billmaker-api/internal/application/dto"
	"github.com/jhoicas/billmaker-api/internal/application/search"
	"github.com/jhoicas/billmaker-api/internal/application/validation"
	"github.com/jhoicas/billmaker-api/internal/domain"
	"github.com/jhoicas/billmaker-api/internal/domain/entity"
	"github.com/jhoicas/billmaker-api/internal/domain/inventory"
	"github.com/jhoicas/billmaker-api/internal/domain/repository"
	"github.com/jhoicas/billmaker-api/pkg/gst"
	"github.com/jhoicas/billmaker-api/pkg/logger"
)

// ProductUseCase casos de uso de productos: catálogo, borrado lógico y movimientos de stock.
type ProductUseCase struct {
	repo          repository.ProductRepository
	counters      repository.CounterRepository
	allowNegative bool
	log           *logger.Logger
	now           func() time.Time

	mu sync.Mutex
}

// NewProductUseCase construye el caso de uso. allowNegative permite salidas que dejan stock negativo.
func NewProductUseCase(
	repo repository.ProductRepository,
	counters repository.CounterRepository,
	allowNegative bool,
	log *logger.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		repo:          repo,
		counters:      counters,
		allowNegative: allowNegative,
		log:           log.Component("product"),
		now:           time.Now,
	}
}

// Create crea un producto. El stock inicial queda registrado como movimiento de entrada.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*entity.Product, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	all, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	sku := normalizeSKU(in.SKU)
	if err := ensureUniqueSKU(all, sku, ""); err != nil {
		return nil, err
	}

	n, err := uc.counters.Next(ctx, "product")
	if err != nil {
		return nil, err
	}
	now := uc.now()
	p := &entity.Product{
		ID:             uuid.New().String(),
		Code:           fmt.Sprintf("PROD-%04d", n),
		Name:           strings.TrimSpace(in.Name),
		SKU:            sku,
		HSNCode:        strings.TrimSpace(in.HSNCode),
		Category:       strings.TrimSpace(in.Category),
		Description:    strings.TrimSpace(in.Description),
		Unit:           normalizeUnit(in.Unit),
		Price:          in.Price.Round(2),
		CostPrice:      in.CostPrice.Round(2),
		TaxRate:        in.TaxRate,
		Stock:          decimal.Zero,
		MinStock:       in.MinStock,
		TrackStock:     in.TrackStock == nil || *in.TrackStock,
		StockMovements: []entity.StockMovement{},
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if p.TrackStock && in.OpeningStock.IsPositive() {
		p.Stock = in.OpeningStock
		p.StockMovements = append(p.StockMovements, entity.StockMovement{
			ID:           uuid.New().String(),
			Type:         entity.MovementIn,
			Quantity:     in.OpeningStock,
			BalanceAfter: in.OpeningStock,
			UnitCost:     p.CostPrice,
			Reason:       "stock inicial",
			At:           now,
		})
	}

	if err := uc.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	uc.log.Info().Str("product_id", p.ID).Str("code", p.Code).Msg("producto creado")
	return p, nil
}

// Update aplica una actualización parcial. El stock solo cambia con AdjustStock.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*entity.Product, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.SKU != nil {
		sku := normalizeSKU(*in.SKU)
		if sku != p.SKU && p.IsActive {
			all, err := uc.repo.List(ctx)
			if err != nil {
				return nil, err
			}
			if err := ensureUniqueSKU(all, sku, p.ID); err != nil {
				return nil, err
			}
		}
		p.SKU = sku
	}
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.HSNCode != nil {
		p.HSNCode = strings.TrimSpace(*in.HSNCode)
	}
	if in.Category != nil {
		p.Category = strings.TrimSpace(*in.Category)
	}
	if in.Description != nil {
		p.Description = strings.TrimSpace(*in.Description)
	}
	if in.Unit != nil {
		p.Unit = normalizeUnit(*in.Unit)
	}
	if in.Price != nil {
		p.Price = in.Price.Round(2)
	}
	if in.TaxRate != nil {
		p.TaxRate = *in.TaxRate
	}
	if in.MinStock != nil {
		p.MinStock = *in.MinStock
	}
	if in.TrackStock != nil {
		p.TrackStock = *in.TrackStock
	}

	p.UpdatedAt = uc.now()
	if err := uc.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Get obtiene un producto por ID (activo o no).
func (uc *ProductUseCase) Get(ctx context.Context, id string) (*entity.Product, error) {
	return uc.repo.GetByID(ctx, id)
}

// List filtra y pagina productos ordenados por nombre. Por defecto solo activos.
func (uc *ProductUseCase) List(ctx context.Context, f dto.ProductFilter) (dto.ListResponse[*entity.Product], error) {
	if err := validation.Struct(f); err != nil {
		return dto.ListResponse[*entity.Product]{}, err
	}
	all, err := uc.repo.List(ctx)
	if err != nil {
		return dto.ListResponse[*entity.Product]{}, err
	}
	out := make([]*entity.Product, 0, len(all))
	for _, p := range all {
		if !p.IsActive && !f.IncludeInactive {
			continue
		}
		if f.Category != "" && !strings.EqualFold(p.Category, f.Category) {
			continue
		}
		if f.LowStock && !p.IsLowStock() {
			continue
		}
		if !search.Matches(f.Query, p.Name, p.Code, p.SKU, p.HSNCode, p.Category) {
			continue
		}
		out = append(out, p)
	}
	sortByName(out)
	return dto.Paginate(out, f.PageRequest), nil
}

// Categories categorías distintas de los productos activos, en orden alfabético.
func (uc *ProductUseCase) Categories(ctx context.Context) ([]string, error) {
	all, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	out := []string{}
	for _, p := range all {
		key := strings.ToLower(p.Category)
		if !p.IsActive || p.Category == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p.Category)
	}
	sort.Strings(out)
	return out, nil
}

// Delete borrado lógico (is_active=false). Las facturas existentes conservan sus líneas.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !p.IsActive {
		return nil
	}
	p.IsActive = false
	p.UpdatedAt = uc.now()
	if err := uc.repo.Save(ctx, p); err != nil {
		return err
	}
	uc.log.Info().Str("product_id", id).Msg("producto desactivado")
	return nil
}

// Restore reactiva un producto; falla con domain.ErrDuplicate si su SKU ya lo usa otro activo.
func (uc *ProductUseCase) Restore(ctx context.Context, id string) (*entity.Product, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.IsActive {
		return p, nil
	}
	all, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if err := ensureUniqueSKU(all, p.SKU, p.ID); err != nil {
		return nil, err
	}
	p.IsActive = true
	p.UpdatedAt = uc.now()
	if err := uc.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// AdjustStock registra un movimiento manual (in, out, adjust, return).
// Los productos sin control de stock se devuelven sin cambios.
func (uc *ProductUseCase) AdjustStock(ctx context.Context, id string, in dto.StockAdjustmentRequest) (*entity.Product, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.TrackStock {
		uc.log.Debug().Str("product_id", id).Msg("producto sin control de stock: movimiento ignorado")
		return p, nil
	}
	if err := uc.apply(p, in.Type, in.Quantity, in.UnitCost, in.Reason, in.Reference); err != nil {
		return nil, err
	}
	if err := uc.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("product_id", id).
		Str("type", in.Type).
		Str("quantity", in.Quantity.String()).
		Str("balance", p.Stock.String()).
		Msg("movimiento de stock")
	return p, nil
}

// Movements historial de movimientos del producto, el más reciente primero.
func (uc *ProductUseCase) Movements(ctx context.Context, id string) ([]entity.StockMovement, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]entity.StockMovement, len(p.StockMovements))
	for i, m := range p.StockMovements {
		out[len(out)-1-i] = m
	}
	return out, nil
}

// LowStock productos activos con control de stock en o bajo el mínimo.
func (uc *ProductUseCase) LowStock(ctx context.Context) ([]*entity.Product, error) {
	all, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := []*entity.Product{}
	for _, p := range all {
		if p.IsLowStock() {
			out = append(out, p)
		}
	}
	sortByName(out)
	return out, nil
}

// StockValue Σ stock × costo de los productos activos con control de stock.
func (uc *ProductUseCase) StockValue(ctx context.Context) (*dto.StockValueResponse, error) {
	all, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	res := &dto.StockValueResponse{TotalUnits: decimal.Zero, TotalValue: decimal.Zero}
	for _, p := range all {
		if !p.IsActive || !p.TrackStock {
			continue
		}
		res.Products++
		res.TotalUnits = res.TotalUnits.Add(p.Stock)
		res.TotalValue = res.TotalValue.Add(p.StockValue())
	}
	res.TotalValue = res.TotalValue.Round(2)
	return res, nil
}

// apply calcula el movimiento y lo agrega al log del producto.
func (uc *ProductUseCase) apply(p *entity.Product, movementType string, qty, unitCost decimal.Decimal, reason, reference string) error {
	res, err := inventory.ApplyMovement(p.Stock, p.CostPrice, movementType, qty, unitCost, uc.allowNegative)
	if err != nil {
		return fmt.Errorf("%s: %w", p.Name, err)
	}
	now := uc.now()
	if !unitCost.IsPositive() {
		unitCost = p.CostPrice
	}
	p.Stock = res.Stock
	p.CostPrice = res.CostPrice
	p.StockMovements = append(p.StockMovements, entity.StockMovement{
		ID:           uuid.New().String(),
		Type:         movementType,
		Quantity:     res.Quantity,
		BalanceAfter: res.Stock,
		UnitCost:     unitCost,
		Reason:       reason,
		Reference:    reference,
		At:           now,
	})
	p.UpdatedAt = now
	return nil
}

// ─── helpers ───────────────────────────────────────────────────────────────

func ensureUniqueSKU(all []*entity.Product, sku, exceptID string) error {
	if sku == "" {
		return nil
	}
	for _, p := range all {
		if p.ID != exceptID && p.IsActive && p.SKU == sku {
			return fmt.Errorf("%w: SKU %s ya usado por %s", domain.ErrDuplicate, sku, p.Code)
		}
	}
	return nil
}

func normalizeSKU(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func normalizeUnit(u string) string {
	u = strings.ToUpper(strings.TrimSpace(u))
	if u == "" {
		return gst.UnitNumbers
	}
	return u
}

func sortByName(items []*entity.Product) {
	sort.SliceStable(items, func(i, j int) bool { return search.Fold(items[i].Name) < search.Fold(items[j].Name) })
}
